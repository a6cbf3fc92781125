// ABOUTME: Centralized environment configuration for docright
// ABOUTME: Loads credentials, retry and sync settings with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config holds process-wide configuration read from the environment
type Config struct {
	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// OpenAI settings
	OpenAIKey  string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		CharmHost:   getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName: getEnv("CHARM_DB", "docright"),
		AutoSync:    getEnvBool("CHARM_AUTO_SYNC", true),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		ChatModel:   os.Getenv("DOCRIGHT_OPENAI_MODEL"),
		Timeout:     getEnvDuration("DOCRIGHT_OPENAI_TIMEOUT", 60*time.Second),
		MaxRetries:  getEnvInt("DOCRIGHT_MAX_RETRIES", 3),
		RetryDelay:  getEnvDuration("DOCRIGHT_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("DOCRIGHT_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("DOCRIGHT_OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("DOCRIGHT_RETRY_DELAY must not be negative, got %v", c.RetryDelay)
	}
	return nil
}

// UserEnvFile is the per-user .env location, e.g. ~/.config/docright/.env.
func UserEnvFile() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "docright", ".env")
}

// LoadEnvFiles loads ./.env and then the per-user .env. Variables that are
// already set are never overridden. It returns the files that were loaded.
func LoadEnvFiles() []string {
	var loaded []string
	for _, path := range []string{".env", UserEnvFile()} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
