// Package config loads pagetl settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/pagetl"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "pagetl.yaml"

// Environment variables that override file values.
const (
	EnvGoogleKey = "GOOGLE_TRANSLATE_API_KEY"
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvRedisURL  = "PAGETL_REDIS_URL"
	EnvLogLevel  = "PAGETL_LOG_LEVEL"
)

// Config is the full pagetl configuration.
type Config struct {
	Provider  string          `yaml:"provider"` // google or openai
	Source    string          `yaml:"source_lang,omitempty"`
	Google    GoogleConfig    `yaml:"google"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Cache     CacheConfig     `yaml:"cache"`
	Page      PageConfig      `yaml:"page"`
	Server    ServerConfig    `yaml:"server"`
	Retry     RetryConfig     `yaml:"retry"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type GoogleConfig struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// CacheConfig selects the translation cache. Type is none, memory or redis.
type CacheConfig struct {
	Type       string        `yaml:"type"`
	TTL        time.Duration `yaml:"ttl,omitempty"`
	RedisURL   string        `yaml:"redis_url,omitempty"`
	Prefix     string        `yaml:"prefix,omitempty"`
	MaxEntries int           `yaml:"max_entries,omitempty"`
	Snapshot   string        `yaml:"snapshot,omitempty"` // memory cache file, loaded at start and saved on exit
}

// PageConfig names the served page and its controls.
type PageConfig struct {
	File          string        `yaml:"file,omitempty"`
	TriggerID     string        `yaml:"trigger_id"`
	StatusID      string        `yaml:"status_id"`
	LanguageGroup string        `yaml:"language_group"`
	ContentID     string        `yaml:"content_id,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay,omitempty"`
	MaxDelay   time.Duration `yaml:"max_delay,omitempty"`
}

// RateLimitConfig is disabled when RPM is zero.
type RateLimitConfig struct {
	RPM   int `yaml:"rpm"`
	Burst int `yaml:"burst,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Provider: "google",
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Cache: CacheConfig{
			Type: "memory",
			TTL:  time.Hour,
		},
		Page: PageConfig{
			TriggerID:     "translate-button",
			StatusID:      "translation-result",
			LanguageGroup: "language",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - user-specified config file
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides file values with the environment as seen by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvGoogleKey); ok && v != "" {
		c.Google.APIKey = v
	}
	if v, ok := lookup(EnvOpenAIKey); ok && v != "" {
		c.OpenAI.APIKey = v
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.Cache.Type = "redis"
		c.Cache.RedisURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate checks the configuration for a run that translates.
func (c *Config) Validate() error {
	switch c.Provider {
	case "google":
		if c.Google.APIKey == "" {
			return &pagetl.ConfigError{Field: "google.api_key", Message: "required (or set " + EnvGoogleKey + ")"}
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return &pagetl.ConfigError{Field: "openai.api_key", Message: "required (or set " + EnvOpenAIKey + ")"}
		}
	default:
		return &pagetl.ConfigError{Field: "provider", Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	switch c.Cache.Type {
	case "", "none", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return &pagetl.ConfigError{Field: "cache.redis_url", Message: "required for redis cache"}
		}
	default:
		return &pagetl.ConfigError{Field: "cache.type", Message: fmt.Sprintf("unknown cache type %q", c.Cache.Type)}
	}

	if c.Page.TriggerID == "" {
		return &pagetl.ConfigError{Field: "page.trigger_id", Message: "required"}
	}
	if c.Page.LanguageGroup == "" {
		return &pagetl.ConfigError{Field: "page.language_group", Message: "required"}
	}
	if c.Retry.MaxRetries < 0 {
		return &pagetl.ConfigError{Field: "retry.max_retries", Message: "must not be negative"}
	}
	if c.RateLimit.RPM < 0 || c.RateLimit.Burst < 0 {
		return &pagetl.ConfigError{Field: "rate_limit", Message: "must not be negative"}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &pagetl.ConfigError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return &pagetl.ConfigError{Field: "log.level", Message: err.Error()}
	}
	return nil
}
