package controllers

import (
	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
)

type ItemController struct {
	itemService *services.ItemService
}

func NewItemController(itemService *services.ItemService) *ItemController {
	return &ItemController{itemService: itemService}
}

// GetItem handles GET /items/:id.
func (ic *ItemController) GetItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	id, ok := parseItemID(c, "id")
	if !ok {
		return
	}

	item, err := ic.itemService.GetItem(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to get item")
		return
	}

	utils.SuccessResponse(c, "Item retrieved", item)
}

// RenameItem handles PATCH /items/:id/rename.
func (ic *ItemController) RenameItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	id, ok := parseItemID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	item, err := ic.itemService.Rename(c.Request.Context(), id, req.Name, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to rename item")
		return
	}

	utils.SuccessResponse(c, "Item renamed successfully", item)
}

// MoveItem handles PATCH /items/:id/move. An absent or empty parent_id
// moves the item to root.
func (ic *ItemController) MoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	id, ok := parseItemID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ParentID *string `json:"parent_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	parentID, err := parseOptionalParentID(req.ParentID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid parent folder ID", err.Error())
		return
	}

	item, err := ic.itemService.Move(c.Request.Context(), id, parentID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to move item")
		return
	}

	utils.SuccessResponse(c, "Item moved successfully", item)
}

// DeleteItem handles DELETE /items/:id. Deleting a folder cascades through
// its subtree; deleting an already-absent id succeeds with deleted=false.
func (ic *ItemController) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	id, ok := parseItemID(c, "id")
	if !ok {
		return
	}

	deleted, err := ic.itemService.Delete(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to delete item")
		return
	}

	utils.SuccessResponse(c, "Delete processed", gin.H{"deleted": deleted})
}
