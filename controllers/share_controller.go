package controllers

import (
	"strconv"

	"drivebox/models"
	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
)

type ShareController struct {
	shareService *services.ShareService
}

func NewShareController(shareService *services.ShareService) *ShareController {
	return &ShareController{shareService: shareService}
}

// CreateShareLink handles POST /share. Idempotent: re-sharing an item
// returns the token it already has.
func (sc *ShareController) CreateShareLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	itemID, err := strconv.ParseUint(req.ItemID, 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", err.Error())
		return
	}

	shareID, err := sc.shareService.CreateShareLink(c.Request.Context(), itemID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to create share link")
		return
	}

	utils.SuccessResponse(c, "Share link created", gin.H{
		"share_id":  shareID,
		"share_url": "/shared/" + shareID,
	})
}

// RevokeShareLink handles DELETE /share/:itemId.
func (sc *ShareController) RevokeShareLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	itemID, ok := parseItemID(c, "itemId")
	if !ok {
		return
	}

	if err := sc.shareService.RevokeShareLink(c.Request.Context(), itemID, userID); err != nil {
		handleServiceError(c, err, "Failed to revoke share link")
		return
	}

	utils.SuccessResponse(c, "Share link revoked", nil)
}

// GetSharedItem handles GET /shared/:shareId without authentication. A
// shared folder's direct children come along; visibility inherits from
// the shared ancestor.
func (sc *ShareController) GetSharedItem(c *gin.Context) {
	shareID := c.Param("shareId")

	item, err := sc.shareService.ResolveShare(c.Request.Context(), shareID)
	if err != nil {
		handleServiceError(c, err, "Failed to resolve share link")
		return
	}

	contents := []models.Item{}
	if item.IsFolder() {
		contents, err = sc.shareService.GetPublicFolderContents(c.Request.Context(), item.ID)
		if err != nil {
			handleServiceError(c, err, "Failed to list shared folder")
			return
		}
	}

	utils.SuccessResponse(c, "Shared item retrieved", gin.H{
		"item":     item,
		"contents": contents,
	})
}
