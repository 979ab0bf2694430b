// Package config loads server settings from an optional TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Chat providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultSystemPrompt is sent ahead of every conversation.
const DefaultSystemPrompt = "You are a nutrition expert assistant. Provide information about calories and nutritional content of food items. Be concise and helpful."

// Duration is a time.Duration that decodes from strings like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full server configuration.
type Config struct {
	Addr       string `toml:"addr"`
	StaticPath string `toml:"static_path"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`

	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Chat    ChatConfig    `toml:"chat"`
}

// StorageConfig selects and locates the durable store.
type StorageConfig struct {
	// Driver is "sqlite" or "file" (the local JSON fallback).
	Driver string `toml:"driver"`

	// Path is the SQLite database file.
	Path string `toml:"path"`

	// Dir holds the JSON collections for the file driver.
	Dir string `toml:"dir"`

	// Timeout bounds every durable call.
	Timeout Duration `toml:"timeout"`
}

// AuthConfig configures session tokens.
type AuthConfig struct {
	JWTSecret string   `toml:"jwt_secret"`
	TokenTTL  Duration `toml:"token_ttl"`
}

// ChatConfig configures the upstream completion service.
// APIKey is only ever read on the server.
type ChatConfig struct {
	Provider     string   `toml:"provider"`
	BaseURL      string   `toml:"base_url"`
	Model        string   `toml:"model"`
	APIKey       string   `toml:"api_key"`
	Temperature  *float64 `toml:"temperature"`
	MaxTokens    int      `toml:"max_tokens"`
	SystemPrompt string   `toml:"system_prompt"`
	Timeout      Duration `toml:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		StaticPath: "./web/static",
		LogLevel:   "info",
		LogFormat:  "text",
		Storage: StorageConfig{
			Driver:  DriverSQLite,
			Path:    "./data/basket.db",
			Dir:     "./data/collections",
			Timeout: Duration{10 * time.Second},
		},
		Auth: AuthConfig{
			TokenTTL: Duration{24 * time.Hour},
		},
		Chat: ChatConfig{
			Provider:     ProviderOpenAI,
			BaseURL:      "https://api.deepseek.com",
			Model:        "deepseek-chat",
			MaxTokens:    500,
			SystemPrompt: DefaultSystemPrompt,
			Timeout:      Duration{10 * time.Second},
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("BASKET_ADDR", c.Addr)
	c.StaticPath = getEnv("STATIC_PATH", c.StaticPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnv("DB_PATH", c.Storage.Path)
	c.Storage.Dir = getEnv("DATA_DIR", c.Storage.Dir)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)

	c.Chat.Provider = getEnv("CHAT_PROVIDER", c.Chat.Provider)
	c.Chat.BaseURL = getEnv("CHAT_BASE_URL", c.Chat.BaseURL)
	c.Chat.Model = getEnv("CHAT_MODEL", c.Chat.Model)
	c.Chat.APIKey = getEnv("CHAT_API_KEY", c.Chat.APIKey)
}

var (
	ErrMissingJWTSecret = errors.New("auth.jwt_secret (or JWT_SECRET) is required")
	ErrUnknownDriver    = errors.New("unknown storage driver")
	ErrUnknownProvider  = errors.New("unknown chat provider")
)

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	switch c.Chat.Provider {
	case ProviderOpenAI, ProviderGemini, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Chat.Provider)
	}
	return nil
}
