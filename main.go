package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/netpad-foundry/config"
	"github.com/netpad-foundry/database"
	"github.com/netpad-foundry/routes"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize database connection
	database.Initialize()

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Initialize router
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	// Register all routes
	routes.SetupRoutes(router)

	port := config.GetEnv("PORT", "8080")

	log.Printf("🚀 NetPad Foundry starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
