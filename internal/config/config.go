// Package config loads host-tool configuration from a YAML file with
// environment variable overrides.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wyrmgate/engine/internal/errors"
)

// Config holds all configuration for engine host tools.
type Config struct {
	// CampaignsDir is the directory that holds campaign subdirectories.
	CampaignsDir string `yaml:"campaigns_dir"`

	// SavesDir is where the file save repository writes.
	SavesDir string `yaml:"saves_dir"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis-specific configuration for hosts that store
// saves in Redis instead of files.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func defaults() *Config {
	return &Config{
		CampaignsDir: "campaigns",
		SavesDir:     "saves",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Load reads configuration. The YAML file is optional; environment
// variables override whatever it sets.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.CodeIO, "reading "+path)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeValidation, "parsing "+path)
		}
	}

	cfg.CampaignsDir = getEnvOrDefault("ENGINE_CAMPAIGNS_DIR", cfg.CampaignsDir)
	cfg.SavesDir = getEnvOrDefault("ENGINE_SAVES_DIR", cfg.SavesDir)
	cfg.Redis.Addr = getEnvOrDefault("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", cfg.Redis.DB)

	if cfg.CampaignsDir == "" {
		return nil, errors.Validation("campaigns_dir is required")
	}
	if cfg.SavesDir == "" {
		return nil, errors.Validation("saves_dir is required")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
