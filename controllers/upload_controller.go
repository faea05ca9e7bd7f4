package controllers

import (
	"strconv"

	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
)

// UploadController implements the presigned-URL upload flow: the client
// asks for an upload target, PUTs the bytes straight to object storage,
// then reports completion so the file row gets recorded.
type UploadController struct {
	itemService    *services.ItemService
	storageService *services.StorageService
	maxFileSize    int64
}

func NewUploadController(itemService *services.ItemService, storageService *services.StorageService, maxFileSize int64) *UploadController {
	return &UploadController{
		itemService:    itemService,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// Presign handles POST /uploads/presigned.
func (uc *UploadController) Presign(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		FileName    string  `json:"file_name" binding:"required"`
		ContentType string  `json:"content_type" binding:"required"`
		FolderID    *string `json:"folder_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	folderID, err := parseOptionalParentID(req.FolderID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid folder ID", err.Error())
		return
	}

	target, err := uc.storageService.IssueUploadTarget(c.Request.Context(), req.FileName, req.ContentType, folderID)
	if err != nil {
		handleServiceError(c, err, "Failed to generate upload URL")
		return
	}

	utils.SuccessResponse(c, "Upload target issued", target)
}

// Complete handles POST /uploads/complete, recording the uploaded object
// as a file item.
func (uc *UploadController) Complete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		FileKey     string  `json:"file_key" binding:"required"`
		FileName    string  `json:"file_name" binding:"required"`
		ContentType string  `json:"content_type" binding:"required"`
		Size        int64   `json:"size" binding:"required"`
		FolderID    *string `json:"folder_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := utils.ValidateFileSize(req.Size, uc.maxFileSize); err != nil {
		utils.BadRequestResponse(c, "Invalid file size", err.Error())
		return
	}

	folderID, err := parseOptionalParentID(req.FolderID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid folder ID", err.Error())
		return
	}

	item, err := uc.itemService.CompleteUpload(c.Request.Context(), services.CompleteUploadParams{
		Key:         req.FileKey,
		Name:        req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		ParentID:    folderID,
		OwnerID:     userID,
	})
	if err != nil {
		handleServiceError(c, err, "Failed to record upload")
		return
	}

	utils.CreatedResponse(c, "Upload recorded", item)
}

// RefreshURL handles POST /uploads/refresh-url. When the collaborator is
// down but a previous URL exists, that URL is served as a fallback.
func (uc *UploadController) RefreshURL(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		FileID string `json:"file_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	fileID, err := strconv.ParseUint(req.FileID, 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid file ID", err.Error())
		return
	}

	item, err := uc.itemService.GetItem(c.Request.Context(), fileID, userID)
	if err != nil {
		handleServiceError(c, err, "Failed to get file")
		return
	}

	url, err := uc.storageService.RefreshIfStale(c.Request.Context(), item)
	if err != nil {
		if url != "" {
			// Collaborator failure with a usable last-known URL: degrade
			// instead of failing the whole request.
			utils.SuccessResponse(c, "Returning last-known URL", gin.H{"url": url, "stale": true})
			return
		}
		handleServiceError(c, err, "Failed to refresh URL")
		return
	}

	utils.SuccessResponse(c, "URL refreshed", gin.H{"url": url})
}
