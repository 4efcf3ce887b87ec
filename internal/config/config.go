package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"tabular/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	ObjectStore ObjectStoreConfig `toml:"objectstore"`
	Server      ServerConfig      `toml:"server"`
	Render      RenderConfig      `toml:"render"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

// ObjectStoreConfig holds S3-compatible store settings
type ObjectStoreConfig struct {
	EndpointURL     string `toml:"endpoint_url"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	Region          string `toml:"region"`
	UseSSL          bool   `toml:"use_ssl"`
	Bucket          string `toml:"bucket"`
}

// ServerConfig holds frame explorer server settings
type ServerConfig struct {
	Port string `toml:"port"`
}

// RenderConfig holds textual output settings
type RenderConfig struct {
	MaxRows  int `toml:"max_rows"`
	MaxWidth int `toml:"max_width"`
}

// Load reads configuration from an optional TOML file and the environment.
// Environment variables win over file values. A .env file is honored when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{Port: "8080"},
		Render: RenderConfig{MaxRows: 20, MaxWidth: 40},
	}

	if path := configPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, config); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config file %s", path)
			}
		}
	}

	applyEnv(config)

	if config.Render.MaxRows <= 0 || config.Render.MaxWidth <= 0 {
		return nil, errors.ConfigInvalid("render limits must be positive")
	}
	return config, nil
}

// configPath resolves the TOML file location, TABULAR_CONFIG first, then
// ~/.tabular.toml.
func configPath() string {
	if path := os.Getenv("TABULAR_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tabular.toml")
}

func applyEnv(config *Config) {
	config.Database.DSN = getEnvOrDefault("DATABASE_URL", config.Database.DSN)

	config.ObjectStore.EndpointURL = getEnvOrDefault("OBJECT_STORE_URL", config.ObjectStore.EndpointURL)
	config.ObjectStore.AccessKeyID = getEnvOrDefault("OBJECT_STORE_ACCESS_KEY", config.ObjectStore.AccessKeyID)
	config.ObjectStore.SecretAccessKey = getEnvOrDefault("OBJECT_STORE_SECRET_KEY", config.ObjectStore.SecretAccessKey)
	config.ObjectStore.Region = getEnvOrDefault("OBJECT_STORE_REGION", config.ObjectStore.Region)
	config.ObjectStore.UseSSL = getEnvBoolOrDefault("OBJECT_STORE_SSL", config.ObjectStore.UseSSL)
	config.ObjectStore.Bucket = getEnvOrDefault("OBJECT_STORE_BUCKET", config.ObjectStore.Bucket)

	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)

	config.Render.MaxRows = getEnvIntOrDefault("RENDER_MAX_ROWS", config.Render.MaxRows)
	config.Render.MaxWidth = getEnvIntOrDefault("RENDER_MAX_WIDTH", config.Render.MaxWidth)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
