package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tevify.db" {
			t.Errorf("expected database path ./tevify.db, got %s", config.Database.Path)
		}
		if config.Catalog.BaseURL != "https://api.jamendo.com/v3.0" {
			t.Errorf("expected jamendo base URL, got %s", config.Catalog.BaseURL)
		}
		if config.Player.Volume != 0.7 {
			t.Errorf("expected default volume 0.7, got %v", config.Player.Volume)
		}
		if config.Catalog.ClientID != "your_jamendo_client_id" {
			t.Errorf("expected placeholder client_id, got %s", config.Catalog.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[catalog]
base_url = "http://localhost:9999"
client_id = "abc123"
rate_limit = 0

[database]
path = "/custom/path.db"

[player]
volume = 0.5
audio = false
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Catalog.ClientID != "abc123" {
			t.Errorf("expected client_id abc123, got %s", config.Catalog.ClientID)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Player.Audio {
			t.Error("expected audio to be disabled")
		}
		if config.Log.Level != "info" {
			t.Errorf("expected unspecified log level to keep default, got %q", config.Log.Level)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[catalog\nbroken"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte(ClientIDEnv+"=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(ClientIDEnv, "")
		os.Unsetenv(ClientIDEnv)

		config := DefaultConfig()
		config.ApplyEnv(envPath)

		if config.Catalog.ClientID != "from-dotenv" {
			t.Errorf("expected client id from .env, got %s", config.Catalog.ClientID)
		}

		t.Setenv(ClientIDEnv, "from-env")
		config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))
		if config.Catalog.ClientID != "from-env" {
			t.Errorf("expected environment override, got %s", config.Catalog.ClientID)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for placeholder client id, got %v", err)
		}

		config.Catalog.ClientID = "real"
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}

		config.Player.Volume = 2
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for volume, got %v", err)
		}
	})
}
