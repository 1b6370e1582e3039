// Package config loads service configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Storage  StorageConfig  `yaml:"storage"`
	Browser  BrowserConfig  `yaml:"browser"`
	Log      LogConfig      `yaml:"log"`
	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RateLimit      RateLimit     `yaml:"rate_limit"`
}

// RateLimit configures the per-client token bucket.
type RateLimit struct {
	Disabled          bool     `yaml:"disabled"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
	Whitelist         []string `yaml:"whitelist"`
}

// DatabaseConfig holds the PostgreSQL connection string.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// LLMConfig configures the Gemini client. An empty APIKey disables AI features.
type LLMConfig struct {
	APIKey string            `yaml:"api_key"`
	Models map[string]string `yaml:"models"`
}

// StorageConfig configures the profile picture store.
type StorageConfig struct {
	Dir           string `yaml:"dir"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// BrowserConfig configures the headless browser used for PDF export.
type BrowserConfig struct {
	ExecPath string `yaml:"exec_path"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute,
			RateLimit:      RateLimit{RequestsPerSecond: 5, Burst: 20},
		},
		Storage: StorageConfig{
			Dir:           "data/pictures",
			PublicBaseURL: "/pictures",
		},
		Log:      LogConfig{Level: "info", Format: "text"},
		JWT:      JWTConfig{ExpirationHours: 24},
		Password: PasswordConfig{BcryptCost: 12},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("DATABASE_URL", &c.Database.URL)
	setString("GEMINI_API_KEY", &c.LLM.APIKey)
	setString("JWT_SECRET", &c.JWT.Secret)
	setString("PASSWORD_PEPPER", &c.Password.Pepper)
	setString("STORAGE_DIR", &c.Storage.Dir)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)
	setString("CHROME_PATH", &c.Browser.ExecPath)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("RATE_LIMIT_WHITELIST"); v != "" {
		c.Server.RateLimit.Whitelist = strings.Split(v, ",")
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED: %w", err)
		}
		c.Server.RateLimit.Disabled = !enabled
	}

	if err := setInt("PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := setInt("JWT_EXPIRATION_HOURS", &c.JWT.ExpirationHours); err != nil {
		return err
	}
	return setInt("BCRYPT_COST", &c.Password.BcryptCost)
}

// Validate checks value ranges. Secrets needed only by specific commands are
// checked by those commands (see JWTConfig.Validate).
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: server port out of range: %d", c.Server.Port)
	}
	if c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("config error: rate_limit.requests_per_second must be positive")
	}
	if c.Server.RateLimit.Burst < 1 {
		return fmt.Errorf("config error: rate_limit.burst must be at least 1")
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("config error: storage dir is empty")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config error: log format must be text or json, got %q", c.Log.Format)
	}
	if c.JWT.ExpirationHours < 1 {
		return fmt.Errorf("config error: JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.JWT.ExpirationHours)
	}
	return c.Password.normalize()
}
