package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Instagram webhook + Graph API settings. The verify token and access
	// token are secrets and carry no defaults.
	InstagramVerifyToken string
	InstagramAccessToken string
	GraphAPIBaseURL      string
	SendTimeoutSeconds   int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:              getEnv("APP_PORT", "8080"),
		AppMode:              getEnv("APP_MODE", "debug"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", "postgres"),
		DBName:               getEnv("DB_NAME", "social_crm"),
		DBPort:               getEnv("DB_PORT", "5432"),
		RedisHost:            getEnv("REDIS_HOST", ""),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		InstagramVerifyToken: getEnv("INSTAGRAM_VERIFY_TOKEN", ""),
		InstagramAccessToken: getEnv("INSTAGRAM_PAGE_ACCESS_TOKEN", ""),
		GraphAPIBaseURL:      getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v18.0"),
		SendTimeoutSeconds:   getEnvAsInt("SEND_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
