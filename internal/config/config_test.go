package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_PATH", "/tmp/basket-test.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage.Path != "/tmp/basket-test.db" {
		t.Errorf("Storage.Path = %q, want env override", cfg.Storage.Path)
	}
	if cfg.Storage.Timeout.Duration != 10*time.Second {
		t.Errorf("Storage.Timeout = %v, want 10s", cfg.Storage.Timeout)
	}
	if cfg.Chat.Model != "deepseek-chat" {
		t.Errorf("Chat.Model = %q, want deepseek-chat", cfg.Chat.Model)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basket.toml")
	content := `
addr = ":9090"

[storage]
driver = "file"
dir = "/var/lib/basket"
timeout = "3s"

[auth]
jwt_secret = "from-file"
token_ttl = "1h"

[chat]
provider = "gemini"
model = "gemini-2.0-flash"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("Storage.Driver = %q, want file", cfg.Storage.Driver)
	}
	if cfg.Storage.Timeout.Duration != 3*time.Second {
		t.Errorf("Storage.Timeout = %v, want 3s", cfg.Storage.Timeout)
	}
	if cfg.Auth.TokenTTL.Duration != time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Chat.Provider != ProviderGemini {
		t.Errorf("Chat.Provider = %q, want gemini", cfg.Chat.Provider)
	}
	// Untouched keys keep their defaults
	if cfg.Chat.MaxTokens != 500 {
		t.Errorf("Chat.MaxTokens = %d, want 500", cfg.Chat.MaxTokens)
	}
}

func TestLoad_Temperature(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chat.Temperature != nil {
		t.Errorf("Chat.Temperature = %v, want unset", *cfg.Chat.Temperature)
	}

	path := filepath.Join(t.TempDir(), "basket.toml")
	if err := os.WriteFile(path, []byte("[chat]\ntemperature = 0.0\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chat.Temperature == nil || *cfg.Chat.Temperature != 0 {
		t.Errorf("Chat.Temperature = %v, want explicit 0", cfg.Chat.Temperature)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingJWTSecret) {
		t.Errorf("expected ErrMissingJWTSecret, got %v", err)
	}

	cfg.Auth.JWTSecret = "x"
	cfg.Storage.Driver = "postgres"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}

	cfg.Storage.Driver = DriverSQLite
	cfg.Chat.Provider = "carrier-pigeon"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}
