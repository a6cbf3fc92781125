// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, validation and .env loading
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"CHARM_HOST", "CHARM_DB", "CHARM_AUTO_SYNC", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"DOCRIGHT_OPENAI_MODEL", "DOCRIGHT_OPENAI_TIMEOUT", "DOCRIGHT_MAX_RETRIES", "DOCRIGHT_RETRY_DELAY",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "docright" {
		t.Errorf("CharmDBName = %s, want docright", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.ChatModel != "" {
		t.Errorf("ChatModel = %s, want empty", cfg.ChatModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CHARM_HOST", "custom.charm.sh")
	t.Setenv("CHARM_DB", "test_db")
	t.Setenv("CHARM_AUTO_SYNC", "false")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("DOCRIGHT_OPENAI_MODEL", "gpt-4")
	t.Setenv("DOCRIGHT_OPENAI_TIMEOUT", "90s")
	t.Setenv("DOCRIGHT_MAX_RETRIES", "5")
	t.Setenv("DOCRIGHT_RETRY_DELAY", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.CharmHost != "custom.charm.sh" {
		t.Errorf("CharmHost = %s, want custom.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("BaseURL = %s, want http://localhost:8080/v1", cfg.BaseURL)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
}

func TestLoad_UnparseableValuesUseDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DOCRIGHT_OPENAI_TIMEOUT", "soon")
	t.Setenv("DOCRIGHT_MAX_RETRIES", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{MaxRetries: 3, Timeout: time.Second}, false},
		{"retries too high", Config{MaxRetries: 15, Timeout: time.Second}, true},
		{"retries negative", Config{MaxRetries: -1, Timeout: time.Second}, true},
		{"zero timeout", Config{MaxRetries: 3}, true},
		{"negative delay", Config{MaxRetries: 3, Timeout: time.Second, RetryDelay: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "docright", ".env")
	if got := UserEnvFile(); got != want {
		t.Errorf("UserEnvFile() = %s, want %s", got, want)
	}
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("DOCRIGHT_OPENAI_MODEL", "from-env")
	os.Unsetenv("DOCRIGHT_TEST_ONLY")
	t.Cleanup(func() { os.Unsetenv("DOCRIGHT_TEST_ONLY") })

	envDir := filepath.Join(dir, "docright")
	if err := os.MkdirAll(envDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "DOCRIGHT_OPENAI_MODEL=from-file\nDOCRIGHT_TEST_ONLY=loaded\n"
	if err := os.WriteFile(filepath.Join(envDir, ".env"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loaded := LoadEnvFiles()
	found := false
	for _, p := range loaded {
		if p == UserEnvFile() {
			found = true
		}
	}
	if !found {
		t.Errorf("LoadEnvFiles() = %v, want it to include %s", loaded, UserEnvFile())
	}
	if got := os.Getenv("DOCRIGHT_OPENAI_MODEL"); got != "from-env" {
		t.Errorf("DOCRIGHT_OPENAI_MODEL = %s, want from-env", got)
	}
	if got := os.Getenv("DOCRIGHT_TEST_ONLY"); got != "loaded" {
		t.Errorf("DOCRIGHT_TEST_ONLY = %s, want loaded", got)
	}
}
