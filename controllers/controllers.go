package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
)

// getUserID pulls the authenticated owner id off the gin context. The auth
// middleware sets it; its absence means the route was wired without auth.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userId")
	if !exists {
		return "", fmt.Errorf("user not authenticated")
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", fmt.Errorf("invalid user ID in context")
	}
	return userIDStr, nil
}

// parseItemID parses a numeric item id from a path parameter.
func parseItemID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", err.Error())
		return 0, false
	}
	return id, true
}

// parseOptionalParentID reads a nullable parent id from a request body
// field already decoded as *string ("" and nil both mean root).
func parseOptionalParentID(raw *string) (*uint64, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(*raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid parent ID %q", *raw)
	}
	return &id, nil
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(c *gin.Context, err error, defaultMessage string) {
	var validationErr *services.ValidationError
	var cycleErr *services.CycleError
	var upstreamErr *services.UpstreamError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Not found")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "Access denied")
	case errors.As(err, &validationErr):
		utils.BadRequestResponse(c, "Invalid request", validationErr.Reason)
	case errors.As(err, &cycleErr):
		utils.BadRequestResponse(c, "Move would create a cycle", cycleErr.Error())
	case errors.As(err, &upstreamErr):
		utils.BadGatewayResponse(c, "Object storage unavailable", upstreamErr.Error())
	default:
		utils.InternalServerErrorResponse(c, defaultMessage, err.Error())
	}
}
