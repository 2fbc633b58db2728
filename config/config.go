package config

import (
	"os"
	"strconv"
)

// Database configuration
func getPostgresConnString() string {
	host := getEnvWithDefault("DB_HOST", "localhost")
	port := getEnvWithDefault("DB_PORT", "5432")
	user := getEnvWithDefault("DB_USER", "postgres")
	password := getEnvWithDefault("DB_PASSWORD", "postgres")
	dbname := getEnvWithDefault("DB_NAME", "palika_profile")
	sslmode := getEnvWithDefault("DB_SSL_MODE", "disable")

	return "host=" + host + " port=" + port + " user=" + user +
		" password=" + password + " dbname=" + dbname + " sslmode=" + sslmode
}

func getMongoURI() string {
	return getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017")
}

func getMongoDBName() string {
	return getEnvWithDefault("MONGO_DB_NAME", "palika_profile")
}

// WardCount is the number of wards in the municipality. Ward numbers in
// every statistics table are validated against this bound.
func WardCount() int {
	return getEnvAsInt("WARD_COUNT", 12)
}

// BaseURL is the public site origin used for sitemap and structured-data URLs.
func BaseURL() string {
	return getEnvWithDefault("BASE_URL", "https://profile.likhupikepalika.gov.np")
}

// AdminAPIToken is the bearer token that grants the administrator role.
// An empty token disables all write operations.
func AdminAPIToken() string {
	return os.Getenv("ADMIN_API_TOKEN")
}

// Media object storage settings.
func MediaBucket() string {
	return os.Getenv("MEDIA_S3_BUCKET")
}

func MediaRegion() string {
	return getEnvWithDefault("MEDIA_S3_REGION", "us-east-1")
}

func MediaEndpoint() string {
	return os.Getenv("MEDIA_S3_ENDPOINT")
}

func MediaPathStyle() bool {
	return getEnvAsBool("MEDIA_S3_PATH_STYLE", false)
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
