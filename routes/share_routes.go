package routes

import (
	"drivebox/controllers"
	"drivebox/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterShareRoutes registers share management (authenticated) and the
// public resolution endpoint. The /shared/:shareId route deliberately has
// no auth middleware: a share link is usable by anyone holding the token.
func RegisterShareRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	shareController := controllers.NewShareController(container.ShareService)

	share := rg.Group("/share")
	share.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		share.POST("/", shareController.CreateShareLink)          // POST /share
		share.DELETE("/:itemId", shareController.RevokeShareLink) // DELETE /share/:itemId
	}

	rg.GET("/shared/:shareId", shareController.GetSharedItem) // GET /shared/:shareId (public)
}
