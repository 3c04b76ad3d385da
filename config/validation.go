package config

import (
	"errors"
	"fmt"
	"strconv"
)

const developmentJWTSecret = "mesobmatch-development-secret"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the rules of its
// environment and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort))
	}
	if cfg.DBHost == "" {
		add("DB_HOST", "is required")
	}
	if cfg.DBName == "" {
		add("DB_NAME", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.JWTExpiry <= 0 {
		add("JWT_EXPIRY", "must be positive")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		add("LOG_FORMAT", "must be json or console")
	}
	if cfg.MatchShards < 1 {
		add("MATCH_SHARDS", "must be at least 1")
	}
	if cfg.MatchShardThreshold < 0 {
		add("MATCH_SHARD_THRESHOLD", "cannot be negative")
	}
	if cfg.MatchCacheTTL < 0 {
		add("MATCH_CACHE_TTL", "cannot be negative")
	}
	if cfg.RateLimitRequests < 0 {
		add("RATE_LIMIT_REQUESTS", "cannot be negative")
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive when rate limiting is enabled")
	}

	switch cfg.Environment {
	case CI:
		if cfg.DBPassword == "" {
			add("DB_PASSWORD", "environment variable is required in CI environment")
		}
	case Production:
		if cfg.DBPassword == "" {
			add("db_password", "secret is required in production")
		}
		if cfg.JWTSecret == developmentJWTSecret {
			add("jwt_secret", "development secret cannot be used in production")
		}
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "is required in production")
		}
	}

	return errors.Join(errs...)
}
