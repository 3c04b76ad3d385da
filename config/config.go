package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerPort  string   `mapstructure:"server_port"`
	ServerHost  string   `mapstructure:"server_host"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Database configuration
	DBHost        string `mapstructure:"db_host"`
	DBPort        string `mapstructure:"db_port"`
	DBUser        string `mapstructure:"db_user"`
	DBPassword    string `mapstructure:"db_password"`
	DBName        string `mapstructure:"db_name"`
	DBSSLMode     string `mapstructure:"db_ssl_mode"`
	MigrationsDir string `mapstructure:"migrations_dir"`

	// Redis configuration
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisURL      string `mapstructure:"redis_url"`

	// JWT configuration
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTExpiry time.Duration `mapstructure:"jwt_expiry"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Recipe image storage
	S3Bucket   string `mapstructure:"s3_bucket_name"`
	AWSRegion  string `mapstructure:"aws_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`

	// Matching
	CategoriesFile      string        `mapstructure:"categories_file"`
	MatchShards         int           `mapstructure:"match_shards"`
	MatchShardThreshold int           `mapstructure:"match_shard_threshold"`
	MatchCacheTTL       time.Duration `mapstructure:"match_cache_ttl"`
	RateLimitRequests   int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow     time.Duration `mapstructure:"rate_limit_window"`
}

// Values that may come from Docker secrets when the matching environment
// variable is unset.
var secretKeys = []string{"db_user", "db_password", "jwt_secret", "redis_password", "redis_url"}

// CI runners expose credentials under TEST_* names.
var ciAliases = map[string]string{
	"db_password":    "TEST_DB_PASSWORD",
	"jwt_secret":     "TEST_JWT_SECRET",
	"redis_password": "TEST_REDIS_PASSWORD",
	"redis_url":      "TEST_REDIS_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "mesobmatch")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("migrations_dir", "migrations")

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_url", "")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiry", 24*time.Hour)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("s3_bucket_name", "")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")

	v.SetDefault("categories_file", "")
	v.SetDefault("match_shards", 4)
	v.SetDefault("match_shard_threshold", 5000)
	v.SetDefault("match_cache_ttl", 5*time.Minute)
	v.SetDefault("rate_limit_requests", 60)
	v.SetDefault("rate_limit_window", time.Minute)
}

// LoadConfig builds the configuration from, in order of precedence,
// environment variables, Docker secrets, an optional .env file and
// built-in defaults, then validates it for the current environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		names := []string{strings.ToUpper(key)}
		if alias, ok := ciAliases[key]; ok && env == CI {
			names = append(names, alias)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// CI takes credentials from the environment only.
	if env != CI {
		for _, key := range secretKeys {
			if _, set := os.LookupEnv(strings.ToUpper(key)); set {
				continue
			}
			if secret := readSecret(key); secret != "" {
				v.Set(key, secret)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Environment = env
	if env == Development || env == Test {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = developmentJWTSecret
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads ENV_FILE (default .env) into the process environment
// without overriding variables that are already set.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}
