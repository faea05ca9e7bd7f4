package routes

import (
	"drivebox/controllers"
	"drivebox/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterFolderRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	folderController := controllers.NewFolderController(container.ItemService)

	folders := rg.Group("/folders")
	folders.Use(middleware.AuthMiddleware(container.JWTSecret)) // All folder routes require authentication
	{
		folders.POST("/", folderController.CreateFolder)              // POST /folders
		folders.GET("/", folderController.ListRootItems)              // GET /folders (root listing)
		folders.GET("/:id", folderController.GetFolderContents)       // GET /folders/:id (contents + breadcrumbs)
		folders.GET("/:id/breadcrumbs", folderController.GetBreadcrumbs) // GET /folders/:id/breadcrumbs
	}
}
