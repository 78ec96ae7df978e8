package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string

	// JWTSecret signs the bearer tokens issued on register/login.
	JWTSecret string

	// AdminEmail is the single designated administrator address. A user
	// registering with this exact (case-folded) email becomes an admin.
	AdminEmail string

	// SiteURL is the public base URL of the SPA, used to build reset links.
	SiteURL string

	// FeaturedRotationCron controls when the daily challenge rotates.
	FeaturedRotationCron string

	AllowedOrigin string

	SMTP SMTPConfig
}

// SMTPConfig holds the outbound mail settings for password-reset emails.
// Mail sending is disabled when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:           port,
		DatabasePath:         getEnv("DATABASE_PATH", "./wits.db"),
		JWTSecret:            secret,
		AdminEmail:           strings.ToLower(getEnv("ADMIN_EMAIL", "")),
		SiteURL:              strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		FeaturedRotationCron: getEnv("FEATURED_ROTATION_CRON", "0 0 * * *"),
		AllowedOrigin:        getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
