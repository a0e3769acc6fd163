package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/netpad-foundry/controllers"
	"github.com/netpad-foundry/middleware"
)

// SetupRoutes wires all API routes
func SetupRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/health", controllers.HealthCheck)

	// API routes, all behind bearer-token auth
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		deploymentController := controllers.NewDeploymentController()
		deploymentController.RegisterRoutes(api)

		bundleController := controllers.NewBundleController()
		bundleController.RegisterRoutes(api)
	}
}
