// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	MongoURI      string `env:"TW_MONGO_URI,required"`
	MongoDatabase string `env:"TW_MONGO_DATABASE" envDefault:"trafficwatch"`
	SessionSecret string `env:"TW_SESSION_SECRET,required"`
	ServerHost    string `env:"TW_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"TW_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"TW_ENV" envDefault:"development"`
	LogLevel      string `env:"TW_LOG_LEVEL" envDefault:"info"`

	// Service account credentials for the built-in admin login.
	// These are compared directly at login and never touch the user collection.
	AdminEmail    string `env:"TW_ADMIN_EMAIL" envDefault:"admin@mail.com"`
	AdminPassword string `env:"TW_ADMIN_PASSWORD" envDefault:"admin123"`

	// Cache configuration
	RedisURL    string `env:"TW_REDIS_URL"`                       // Optional Redis URL for sessions and stats caching
	CachePrefix string `env:"TW_CACHE_PREFIX" envDefault:"tw:"`   // Redis key prefix
	CacheTTL    int    `env:"TW_CACHE_TTL" envDefault:"30"`       // Dashboard stats cache TTL in seconds

	// Upload configuration
	UploadMaxBytes int64 `env:"TW_UPLOAD_MAX_BYTES" envDefault:"33554432"` // 32 MB request body cap
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedis returns true if Redis is configured for sessions and caching.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("TW_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("TW_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("TW_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("TW_UPLOAD_MAX_BYTES must be positive, got %d", cfg.UploadMaxBytes)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
