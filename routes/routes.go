// routes/routes.go
package routes

import (
	"drivebox/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ServiceContainer carries the initialized services the route groups
// depend on. main.go builds one after opening the database and the
// storage provider.
type ServiceContainer struct {
	DB             *gorm.DB
	JWTSecret      string
	MaxFileSize    int64
	ItemService    *services.ItemService
	ShareService   *services.ShareService
	StorageService *services.StorageService
}

// SetupRoutes registers every route group on the given API group.
// This function is called from main.go after middleware is already set up.
func SetupRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterFolderRoutes(api, container)
	RegisterItemRoutes(api, container)
	RegisterUploadRoutes(api, container)
	RegisterSearchRoutes(api, container)
	RegisterShareRoutes(api, container)
}
