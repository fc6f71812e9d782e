package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL       string
	ServerPort        int
	JWTSecretKey      string
	AdminPasswordHash string

	// EditWindow bounds how far back games may still be edited or deleted.
	EditWindow time.Duration

	// Cloudflare R2 avatar storage. All five must be set together; leaving
	// them empty disables avatar uploads.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Configured reports whether avatar storage credentials are present.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads configuration from the environment, optionally seeded from a
// .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	editWindowDays := 7
	if daysStr := os.Getenv("EDIT_WINDOW_DAYS"); daysStr != "" {
		editWindowDays, err = strconv.Atoi(daysStr)
		if err != nil || editWindowDays < 1 {
			return nil, fmt.Errorf("EDIT_WINDOW_DAYS must be a positive integer, got %q", daysStr)
		}
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		ServerPort:        port,
		JWTSecretKey:      jwtKey,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		EditWindow:        time.Duration(editWindowDays) * 24 * time.Hour,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}
