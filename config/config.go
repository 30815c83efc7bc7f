package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort  int
	DatabaseURL string

	// Scoring rules. FinalSetTarget lets the deciding set use a shorter
	// target (federation volleyball plays it to 15).
	SetTarget      int
	FinalSetTarget int

	// Cloudflare R2 export archiving. Optional: archiving is disabled when
	// any field is missing.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is not an error

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	setTarget, err := intEnv("SET_TARGET", 25)
	if err != nil {
		return nil, err
	}
	if setTarget < 1 {
		return nil, fmt.Errorf("SET_TARGET must be positive, got %d", setTarget)
	}

	finalSetTarget, err := intEnv("FINAL_SET_TARGET", setTarget)
	if err != nil {
		return nil, err
	}
	if finalSetTarget < 1 {
		return nil, fmt.Errorf("FINAL_SET_TARGET must be positive, got %d", finalSetTarget)
	}

	cfg := &Config{
		ServerPort: port,
		// Empty DATABASE_URL selects the in-memory repositories.
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SetTarget:         setTarget,
		FinalSetTarget:    finalSetTarget,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// R2Enabled reports whether export archiving is fully configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return value, nil
}
