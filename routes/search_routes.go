package routes

import (
	"drivebox/controllers"
	"drivebox/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterSearchRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	searchController := controllers.NewSearchController(container.ItemService)

	search := rg.Group("/search")
	search.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		search.GET("/", searchController.Search) // GET /search?q=
	}
}
