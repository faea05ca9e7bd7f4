package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"drivebox/config"
	"drivebox/jobs"
	"drivebox/models"
	"drivebox/pkg/uploadit"
	"drivebox/routes"
	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load .env file with proper path handling (do this BEFORE config.LoadConfig)
	loadEnvFile()

	config.LoadConfig()
	cfg := config.AppConfig

	utils.InitLogger()

	// Open the SQLite database and migrate the schema.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := db.AutoMigrate(&models.Item{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database ready at %s", cfg.DatabasePath)

	// Initialize the object-storage provider.
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	provider, err := uploadit.New(ctx, uploadit.Config{
		Provider: uploadit.ProviderType(cfg.StorageProvider),
		S3: uploadit.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		},
		B2: uploadit.B2Config{
			KeyID:          cfg.B2ApplicationKeyID,
			ApplicationKey: cfg.B2ApplicationKey,
			BucketName:     cfg.B2BucketName,
		},
		Filesystem: uploadit.FilesystemConfig{
			UploadDir: cfg.FilesystemUploadDir,
			BaseURL:   cfg.FilesystemBaseURL,
			CreateDir: true,
		},
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage provider: %v", err)
	}
	log.Printf("Storage provider ready: %s", cfg.StorageProvider)

	// Wire up services.
	itemStore := services.NewItemStore(db)
	storageService := services.NewStorageService(provider, itemStore, cfg.UploadURLTTL, cfg.AccessURLTTL)
	itemService := services.NewItemService(itemStore, storageService)
	shareService := services.NewShareService(itemStore)

	container := &routes.ServiceContainer{
		DB:             db,
		JWTSecret:      cfg.JWTSecret,
		MaxFileSize:    cfg.MaxFileSize,
		ItemService:    itemService,
		ShareService:   shareService,
		StorageService: storageService,
	}

	// Set up Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	routes.SetupRoutes(api, container)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Start the background sweep for abandoned upload placeholders.
	if cfg.PlaceholderSweepInterval > 0 {
		sweeper := jobs.NewPlaceholderSweeper(itemStore, itemService, cfg.PlaceholderSweepInterval, cfg.PlaceholderGracePeriod)
		go sweeper.Start(context.Background())
		log.Printf("Started placeholder sweeper running every %v", cfg.PlaceholderSweepInterval)
	}

	log.Printf("Starting DriveBox server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadEnvFile handles loading .env file from multiple possible locations
func loadEnvFile() {
	pwd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not get working directory: %v", err)
		return
	}

	envPaths := []string{
		".env",
		"../.env",
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from: %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found, using system environment variables")
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		var allowOrigin string
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == requestOrigin {
					allowOrigin = allowed
					break
				}
			}
		}

		if allowOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowOrigin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
			if allowOrigin != "*" {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
