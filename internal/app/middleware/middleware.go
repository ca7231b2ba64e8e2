package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/autovia/reviews-service/internal/app/domain/auth"
	"github.com/autovia/reviews-service/internal/app/models"
)

// Typed context keys so handlers never collide with gin's own keys.
type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

// CORSMiddleware handles CORS headers for the marketplace front-ends.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// AuthMiddleware validates the bearer token issued by the marketplace auth
// service and stores the caller's id and role in the request context.
func AuthMiddleware(secretKey string) gin.HandlerFunc {
	jwtService := auth.NewJWTService()
	config := auth.JWTConfig{
		SecretKey:       secretKey,
		TokenExpiration: 24 * time.Hour,
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authentication required",
			})
			return
		}

		claims, err := jwtService.ValidateToken(config, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleUser
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserRoleKey), role)
		c.Next()
	}
}

// RequireModerator aborts with 403 unless the authenticated caller carries a
// moderator or admin role. Must run after AuthMiddleware.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActorFromContext(c)
		if !actor.IsModerator() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Moderator access required",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// GetUserIDFromContext extracts the authenticated user id, or uuid.Nil when
// the request is unauthenticated.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	idStr, ok := c.Get(string(UserIDKey))
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(idStr.(string))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetActorFromContext builds the moderation actor for the current request.
func GetActorFromContext(c *gin.Context) models.Actor {
	actor := models.Actor{ID: GetUserIDFromContext(c), Role: models.RoleUser}
	if role, ok := c.Get(string(UserRoleKey)); ok {
		if r, ok := role.(string); ok && r != "" {
			actor.Role = r
		}
	}
	return actor
}
