package routes

import (
	"drivebox/controllers"
	"drivebox/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterItemRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	itemController := controllers.NewItemController(container.ItemService)

	items := rg.Group("/items")
	items.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		items.GET("/:id", itemController.GetItem)             // GET /items/:id
		items.PATCH("/:id/rename", itemController.RenameItem) // PATCH /items/:id/rename
		items.PATCH("/:id/move", itemController.MoveItem)     // PATCH /items/:id/move
		items.DELETE("/:id", itemController.DeleteItem)       // DELETE /items/:id (recursive for folders)
	}
}
