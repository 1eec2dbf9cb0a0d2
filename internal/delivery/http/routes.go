package http

import (
	"github.com/gin-gonic/gin"

	"github.com/fridgebot/backend/config"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *logger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log.With("component", "http")))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.POST("/statements/parse", handler.ParseStatement)
		v1.POST("/catalog/reload", handler.ReloadCatalog)

		inventory := v1.Group("/users/:userID/inventory")
		{
			inventory.GET("", handler.GetInventory)
			inventory.POST("/add", handler.AddToInventory)
			inventory.POST("/remove", handler.RemoveFromInventory)
			inventory.POST("/consume", handler.ConsumeIngredients)
		}

		equipment := v1.Group("/users/:userID/equipment")
		{
			equipment.GET("", handler.GetEquipment)
			equipment.POST("/add", handler.AddEquipment)
			equipment.POST("/remove", handler.RemoveEquipment)
		}
	}

	return router
}
