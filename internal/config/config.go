package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	Postgres PostgresConfig `yaml:"postgres"`
	MySQL    MySQLConfig    `yaml:"mysql"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// StorageConfig contains object storage settings
type StorageConfig struct {
	Driver        string `yaml:"driver"` // "s3" or "memory"
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	PathStyle     bool   `yaml:"path_style"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// CleanupConfig contains orphaned media cleanup settings
type CleanupConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Schedule         string `yaml:"schedule"`
	MaxDeletionCount int    `yaml:"max_deletion_count"`
	DryRun           bool   `yaml:"dry_run"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Type: "postgres",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		Storage: StorageConfig{
			Driver: "s3",
			Bucket: "propiedades-imagenes",
			Region: "us-east-1",
		},
		Auth: AuthConfig{
			TokenTTLHours: 12,
		},
		Cleanup: CleanupConfig{
			Enabled:          false,
			Schedule:         "0 3 * * *",
			MaxDeletionCount: 1000,
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRequests: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, then applies
// environment variable overrides for deployment-sensitive values.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// If the file doesn't exist, continue with defaults plus env overrides
	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvOverrides()
	return config, nil
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.Server.Port, "PORT")
	overrideString(&c.Server.CORSOrigin, "CORS_ORIGIN")
	overrideString(&c.Database.Type, "DB_TYPE")
	overrideString(&c.Database.Postgres.Host, "DB_HOST")
	overrideString(&c.Database.Postgres.User, "DB_USER")
	overrideString(&c.Database.Postgres.Password, "DB_PASSWORD")
	overrideString(&c.Database.Postgres.Database, "DB_NAME")
	overrideString(&c.Storage.Bucket, "STORAGE_BUCKET")
	overrideString(&c.Storage.Region, "STORAGE_REGION")
	overrideString(&c.Storage.Endpoint, "STORAGE_ENDPOINT")
	overrideString(&c.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	overrideString(&c.Storage.SecretKey, "STORAGE_SECRET_KEY")
	overrideString(&c.Storage.PublicBaseURL, "STORAGE_PUBLIC_BASE_URL")
	overrideString(&c.Search.Meilisearch.Host, "MEILISEARCH_HOST")
	overrideString(&c.Search.Meilisearch.APIKey, "MEILISEARCH_KEY")
	overrideString(&c.Auth.JWTSecret, "JWT_SECRET")
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// TokenTTL returns the configured JWT lifetime as a duration.
func (c *AuthConfig) TokenTTL() time.Duration {
	hours := c.TokenTTLHours
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}
