package controllers

import (
	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
)

type FolderController struct {
	itemService *services.ItemService
}

func NewFolderController(itemService *services.ItemService) *FolderController {
	return &FolderController{itemService: itemService}
}

// CreateFolder handles POST /folders.
func (fc *FolderController) CreateFolder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required,min=1,max=255"`
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

	folder, err := fc.itemService.CreateFolder(c.Request.Context(), req.Name, parentID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to create folder")
		return
	}

	utils.CreatedResponse(c, "Folder created successfully", folder)
}

// ListRootItems handles GET /folders, the root-level listing.
func (fc *FolderController) ListRootItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	items, err := fc.itemService.GetRootItems(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Failed to list root items")
		return
	}

	utils.SuccessResponse(c, "Root items retrieved", gin.H{"items": items})
}

// GetFolderContents handles GET /folders/:id, returning children plus the
// breadcrumb path for navigation.
func (fc *FolderController) GetFolderContents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	folderID, ok := parseItemID(c, "id")
	if !ok {
		return
	}

	items, err := fc.itemService.GetFolderContents(c.Request.Context(), folderID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to list folder contents")
		return
	}

	breadcrumbs, err := fc.itemService.Breadcrumbs(c.Request.Context(), folderID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to build breadcrumbs")
		return
	}

	utils.SuccessResponse(c, "Folder contents retrieved", gin.H{
		"items":       items,
		"breadcrumbs": breadcrumbs,
	})
}

// GetBreadcrumbs handles GET /folders/:id/breadcrumbs.
func (fc *FolderController) GetBreadcrumbs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	folderID, ok := parseItemID(c, "id")
	if !ok {
		return
	}

	breadcrumbs, err := fc.itemService.Breadcrumbs(c.Request.Context(), folderID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to build breadcrumbs")
		return
	}

	utils.SuccessResponse(c, "Breadcrumbs retrieved", gin.H{"breadcrumbs": breadcrumbs})
}
