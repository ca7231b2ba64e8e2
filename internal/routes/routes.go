package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autovia/reviews-service/internal/app/domain"
	"github.com/autovia/reviews-service/internal/app/domain/moderation"
	"github.com/autovia/reviews-service/internal/app/domain/reviews"
	"github.com/autovia/reviews-service/internal/app/domain/stats"
	"github.com/autovia/reviews-service/internal/app/domain/users"
	"github.com/autovia/reviews-service/internal/app/domain/vehicles"
	"github.com/autovia/reviews-service/internal/app/domain/votes"
	"github.com/autovia/reviews-service/internal/app/middleware"
	"github.com/autovia/reviews-service/internal/pkg/config"
)

type AppHandlers struct {
	Reviews    *reviews.Handler
	Votes      *votes.Handler
	Moderation *moderation.Handler
	Stats      *stats.Handler
}

func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	handlers := setupDependencies(dbPool, cfg, log)
	setupRouter(r, dbPool, handlers, cfg, log)
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) *AppHandlers {
	baseHandler := domain.NewBaseHandler(log)

	userRepo := users.NewRepository(dbPool, log)
	vehicleRepo := vehicles.NewRepository(dbPool, log)
	reviewRepo := reviews.NewRepository(dbPool, log)
	voteRepo := votes.NewRepository(dbPool, log)
	statsRepo := stats.NewRepository(dbPool, log)

	reviewService := reviews.NewService(reviewRepo, vehicleRepo, userRepo, cfg.Stats.IncludeAllStatuses, log)
	voteService := votes.NewService(voteRepo, log)
	statsService := stats.NewService(statsRepo, cfg.Stats.CacheTTL, cfg.Stats.IncludeAllStatuses, log)
	moderationService := moderation.NewService(reviewRepo, statsService, log)

	return &AppHandlers{
		Reviews:    reviews.NewHandler(baseHandler, reviewService),
		Votes:      votes.NewHandler(baseHandler, voteService),
		Moderation: moderation.NewHandler(baseHandler, moderationService),
		Stats:      stats.NewHandler(baseHandler, statsService),
	}
}

func setupRouter(r *gin.Engine, dbPool *pgxpool.Pool, h *AppHandlers, cfg *config.Config, log *zap.Logger) {
	r.GET("/health", healthHandler(dbPool))

	api := r.Group("/api/v1")

	// Public read endpoints
	api.GET("/reviews/:id", h.Reviews.GetReview)
	api.GET("/vehicles/:id/reviews", h.Reviews.ListVehicleReviews)
	api.GET("/vehicles/:id/reviews/stats", h.Stats.GetVehicleStats)
	api.GET("/users/:id/reviews", h.Reviews.ListAuthorReviews)

	// Authenticated endpoints
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecretKey))
	{
		authed.POST("/reviews", h.Reviews.SubmitReview)
		authed.POST("/reviews/:id/vote", h.Votes.Vote)
		authed.POST("/reviews/:id/report", h.Moderation.Report)
	}

	// Moderation endpoints
	mod := api.Group("/moderation")
	mod.Use(middleware.AuthMiddleware(cfg.JWTSecretKey), middleware.RequireModerator())
	{
		mod.GET("/reviews", h.Moderation.ListQueue)
		mod.PUT("/reviews/:id", h.Moderation.UpdateReview)
		mod.PUT("/reviews/:id/status", h.Moderation.SetStatus)
		mod.DELETE("/reviews/:id", h.Moderation.Delete)
		mod.GET("/stats", h.Stats.GetModerationStats)
	}
}

func healthHandler(dbPool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
