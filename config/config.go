package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	DatabasePath string

	JWTSecret     string
	JWTExpiration time.Duration

	// StorageProvider selects the object-storage backend: s3, b2 or
	// filesystem.
	StorageProvider string

	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string

	B2ApplicationKeyID string
	B2ApplicationKey   string
	B2BucketName       string

	FilesystemUploadDir string
	FilesystemBaseURL   string

	UploadURLTTL time.Duration
	AccessURLTTL time.Duration

	MaxFileSize int64

	// Placeholder rows (file items whose upload never completed) older
	// than the grace period are swept on this interval. Zero disables the
	// sweep.
	PlaceholderSweepInterval time.Duration
	PlaceholderGracePeriod   time.Duration

	AllowedOrigins []string
}

var AppConfig *Config

func LoadConfig() {
	AppConfig = &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DatabasePath: getEnv("DATABASE_PATH", "drivebox.db"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "24h")),

		StorageProvider: getEnv("STORAGE_PROVIDER", "s3"),

		S3Region:          getEnv("AWS_S3_REGION", "eu-north-1"),
		S3Bucket:          getEnv("AWS_S3_BUCKET_NAME", ""),
		S3AccessKeyID:     getEnv("AWS_USER_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("AWS_USER_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),

		B2ApplicationKeyID: getB2KeyID(),
		B2ApplicationKey:   getB2AppKey(),
		B2BucketName:       getEnv("B2_BUCKET_NAME", ""),

		FilesystemUploadDir: getEnv("FS_UPLOAD_DIR", "uploads"),
		FilesystemBaseURL:   getEnv("FS_BASE_URL", "http://localhost:8080/uploads"),

		UploadURLTTL: parseDuration(getEnv("UPLOAD_URL_TTL", "168h")),
		AccessURLTTL: parseDuration(getEnv("ACCESS_URL_TTL", "168h")),

		MaxFileSize: parseInt64(getEnv("MAX_FILE_SIZE", "104857600")),

		PlaceholderSweepInterval: parseDuration(getEnv("PLACEHOLDER_SWEEP_INTERVAL", "24h")),
		PlaceholderGracePeriod:   parseDuration(getEnv("PLACEHOLDER_GRACE_PERIOD", "24h")),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	logConfig()
	validateConfig()
}

func getB2KeyID() string {
	possibleKeys := []string{"B2_APPLICATION_KEY_ID", "B2_KEY_ID", "BACKBLAZE_KEY_ID"}
	for _, key := range possibleKeys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getB2AppKey() string {
	possibleKeys := []string{"B2_APPLICATION_KEY", "B2_APP_KEY", "BACKBLAZE_APP_KEY"}
	for _, key := range possibleKeys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func logConfig() {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", AppConfig.Port)
	log.Printf("  Environment: %s", AppConfig.Env)
	log.Printf("  Database: %s", AppConfig.DatabasePath)
	log.Printf("  JWT Secret: %s", maskSecret(AppConfig.JWTSecret))
	log.Printf("  JWT Expiration: %v", AppConfig.JWTExpiration)
	log.Printf("  Storage Provider: %s", AppConfig.StorageProvider)
	log.Printf("  S3 Bucket: %s", AppConfig.S3Bucket)
	log.Printf("  B2 Bucket: %s", AppConfig.B2BucketName)
	log.Printf("  Upload URL TTL: %v", AppConfig.UploadURLTTL)
	log.Printf("  Access URL TTL: %v", AppConfig.AccessURLTTL)
	log.Printf("  Max File Size: %d bytes", AppConfig.MaxFileSize)
	log.Printf("  Placeholder Sweep Interval: %v", AppConfig.PlaceholderSweepInterval)
	log.Printf("  Allowed Origins: %v", AppConfig.AllowedOrigins)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func validateConfig() {
	var missingVars []string

	required := map[string]string{
		"JWT_SECRET": AppConfig.JWTSecret,
	}

	switch AppConfig.StorageProvider {
	case "s3":
		required["AWS_S3_BUCKET_NAME"] = AppConfig.S3Bucket
		required["AWS_S3_REGION"] = AppConfig.S3Region
	case "b2":
		required["B2_APPLICATION_KEY_ID"] = AppConfig.B2ApplicationKeyID
		required["B2_APPLICATION_KEY"] = AppConfig.B2ApplicationKey
		required["B2_BUCKET_NAME"] = AppConfig.B2BucketName
	case "filesystem":
		required["FS_UPLOAD_DIR"] = AppConfig.FilesystemUploadDir
		required["FS_BASE_URL"] = AppConfig.FilesystemBaseURL
	default:
		log.Fatalf("Unknown STORAGE_PROVIDER %q (expected s3, b2 or filesystem)", AppConfig.StorageProvider)
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		log.Printf("Missing required environment variables: %v", missingVars)
		log.Fatal("Please set all required environment variables")
	}

	log.Println("All required environment variables are set")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("Failed to parse int64: %s", s)
	}
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
