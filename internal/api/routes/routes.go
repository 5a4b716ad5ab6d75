// Package routes defines the HTTP routes for the Member Verification Service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coopassist/verify-service/internal/api/handlers"
	"github.com/coopassist/verify-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler   *handlers.HealthHandler
	MessagesHandler *handlers.MessagesHandler
	SessionsHandler *handlers.SessionsHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// API v1 routes - all routes under /api/v1/verify-service
	v1 := r.Group("/api/v1/verify-service")
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		// Apply auth middleware to protected API routes
		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		// Room-scoped routes
		rooms := protected.Group("/rooms/:roomId")
		{
			// Inbound message webhook and transcript reads
			rooms.POST("/messages", cfg.MessagesHandler.SendMessage)
			rooms.GET("/messages", cfg.MessagesHandler.GetMessages)

			// Verification state inspection and manual reset
			rooms.GET("/session", cfg.SessionsHandler.GetSession)
			rooms.DELETE("/session", cfg.SessionsHandler.DeleteSession)
		}
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	// Apply global middleware
	r.Use(loggingMw.Logger())
	r.Use(loggingMw.RequestLogger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	r.NoRoute(middleware.NotFound())
	r.HandleMethodNotAllowed = true
	r.NoMethod(middleware.MethodNotAllowed())

	// Setup routes
	Setup(r, cfg)
}
