package controllers

import (
	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	itemService *services.ItemService
}

func NewSearchController(itemService *services.ItemService) *SearchController {
	return &SearchController{itemService: itemService}
}

// Search handles GET /search?q=fragment. Matching is a case-insensitive
// substring over the caller's own items, files and folders alike.
func (sc *SearchController) Search(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	query := c.Query("q")
	if query == "" {
		utils.SuccessResponse(c, "Search results", gin.H{"items": []any{}})
		return
	}

	items, err := sc.itemService.Search(c.Request.Context(), query, userID)
	if err != nil {
		handleServiceError(c, err, "Search failed")
		return
	}

	utils.SuccessResponse(c, "Search results", gin.H{"items": items})
}
