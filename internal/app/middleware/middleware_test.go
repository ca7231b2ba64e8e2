package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autovia/reviews-service/internal/app/domain/auth"
	"github.com/autovia/reviews-service/internal/app/models"
)

const testSecret = "test-secret-key"

func issueToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	svc := auth.NewJWTService()
	token, err := svc.GenerateToken(auth.JWTConfig{
		SecretKey:       testSecret,
		TokenExpiration: time.Hour,
	}, userID.String(), "sam@example.com", "sam", role)
	require.NoError(t, err)
	return token
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, handlers...)
	r.GET("/protected", append(chain, func(c *gin.Context) {
		actor := GetActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": actor.Role})
	})...)
	return r
}

func TestAuthMiddleware_MissingTokenRejected(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadTokenRejected(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidTokenSetsActor(t *testing.T) {
	userID := uuid.New()
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID, models.RoleModerator))

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), models.RoleModerator)
}

func TestAuthMiddleware_MissingRoleDefaultsToUser(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, uuid.New(), ""))

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.RoleUser)
}

func TestRequireModerator_BlocksRegularUsers(t *testing.T) {
	r := newTestRouter(RequireModerator())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, uuid.New(), models.RoleUser))

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireModerator_AllowsAdmins(t *testing.T) {
	r := newTestRouter(RequireModerator())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, uuid.New(), models.RoleAdmin))

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
