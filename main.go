package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"warteg-web/config"
	"warteg-web/handlers"
	"warteg-web/routes"
	"warteg-web/session"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()
	store := session.NewStore(cfg)
	h := handlers.New(cfg, store)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Warteg Ordering Web",
			"backend": cfg.BackendURL,
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h, store, cfg.SessionCookie)

	log.Printf("🚀 Warteg web running on http://localhost:%s (backend %s)", cfg.Port, cfg.BackendURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
