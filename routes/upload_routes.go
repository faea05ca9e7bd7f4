package routes

import (
	"drivebox/controllers"
	"drivebox/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	uploadController := controllers.NewUploadController(container.ItemService, container.StorageService, container.MaxFileSize)

	uploads := rg.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		uploads.POST("/presigned", uploadController.Presign)      // POST /uploads/presigned
		uploads.POST("/complete", uploadController.Complete)      // POST /uploads/complete
		uploads.POST("/refresh-url", uploadController.RefreshURL) // POST /uploads/refresh-url
	}
}
