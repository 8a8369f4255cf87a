package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Metadata store
	MetadataDriver string // "postgres" or "memory"
	DatabaseURL    string
	TablePrefix    string

	// Blob store
	StorageDriver string // "s3" or "memory"
	S3Endpoint    string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Region      string
	PresignTTL    time.Duration

	MaxUploadBytes int64

	// Auth
	JWKSURL   string
	DevUserID string // Used as the owner when JWKSURL is empty (dev only)

	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		MetadataDriver: getEnv("METADATA_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		TablePrefix:    getTablePrefix(env),

		StorageDriver: getEnv("STORAGE_DRIVER", "s3"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Bucket:      getEnv("S3_BUCKET", "drive"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		PresignTTL:    getDuration("PRESIGN_TTL", 15*time.Minute),

		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),

		JWKSURL:   getEnv("AUTH_JWKS_URL", ""),
		DevUserID: getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: int(getInt64("LOG_MAX_FILES", 10)),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
