package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET         string
	JWT_ISSUER         string
	JWT_EXPIRY         time.Duration
	JWT_REFRESH_EXPIRY time.Duration
	// Redis Configuration
	REDIS_URL string
	// Logging
	LOG_LEVEL  string
	LOG_FORMAT string
	// HTTP
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
	// Background jobs
	CRON_ENABLED       bool
	RECONCILE_SCHEDULE string
	// Seeding
	ADMIN_NAME       string
	ADMIN_EMAIL      string
	ADMIN_PASSWORD   string
	ADMIN_DEPARTMENT string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 5000
	}

	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS"))
	if err != nil {
		rateLimit = 100
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getEnvOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		PORT:         port,
		// JWT
		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		JWT_ISSUER:         getEnvOrDefault("JWT_ISSUER", "dept-events-api"),
		JWT_EXPIRY:         getDurationOrDefault("JWT_EXPIRY", 24*time.Hour),
		JWT_REFRESH_EXPIRY: getDurationOrDefault("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		// Redis
		REDIS_URL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		// Logging
		LOG_LEVEL:  getEnvOrDefault("LOG_LEVEL", "info"),
		LOG_FORMAT: getEnvOrDefault("LOG_FORMAT", "json"),
		// HTTP
		ALLOWED_ORIGINS:     getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RATE_LIMIT_REQUESTS: rateLimit,
		// Background jobs
		CRON_ENABLED:       !strings.EqualFold(os.Getenv("CRON_ENABLED"), "false"), // Default to enabled
		RECONCILE_SCHEDULE: getEnvOrDefault("RECONCILE_SCHEDULE", "0 */10 * * * *"),
		// Seeding
		ADMIN_NAME:       getEnvOrDefault("ADMIN_NAME", "Administrator"),
		ADMIN_EMAIL:      os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD:   os.Getenv("ADMIN_PASSWORD"),
		ADMIN_DEPARTMENT: getEnvOrDefault("ADMIN_DEPARTMENT", "CSE"),
	}

	if envVariables.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	return envVariables, nil
}

// IsProduction reports whether GO_ENV is production
func (e *EnviornmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
