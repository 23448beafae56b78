package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ZaguanLabs/pagetl"
	"github.com/ZaguanLabs/pagetl/cache"
	"github.com/ZaguanLabs/pagetl/config"
	"github.com/ZaguanLabs/pagetl/provider"
	"github.com/ZaguanLabs/pagetl/trigger"
)

// loadConfig reads the config file and applies flag overrides.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		if _, err := os.Stat(config.FileName); err == nil {
			path = config.FileName
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.provider != "" {
		cfg.Provider = g.provider
	}
	if g.apiKey != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.APIKey = g.apiKey
		default:
			cfg.Google.APIKey = g.apiKey
		}
	}
	if g.endpoint != "" {
		cfg.Google.Endpoint = g.endpoint
		cfg.OpenAI.BaseURL = g.endpoint
	}
	if g.sourceLang != "" {
		cfg.Source = g.sourceLang
	}
	if g.cacheType != "" {
		cfg.Cache.Type = g.cacheType
	}
	if g.redisURL != "" {
		cfg.Cache.RedisURL = g.redisURL
	}
	if g.retries >= 0 {
		cfg.Retry.MaxRetries = g.retries
	}
	if g.rpm >= 0 {
		cfg.RateLimit.RPM = g.rpm
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newProvider builds the configured provider with its optional wrappers.
func newProvider(cfg *config.Config) pagetl.Provider {
	var p pagetl.Provider
	switch cfg.Provider {
	case "openai":
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
	default:
		p = provider.NewGoogleProvider(provider.GoogleConfig{
			APIKey:   cfg.Google.APIKey,
			Endpoint: cfg.Google.Endpoint,
			Timeout:  cfg.Google.Timeout,
		})
	}

	if cfg.RateLimit.RPM > 0 {
		p = pagetl.NewRateLimitedProvider(p, pagetl.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RPM,
			BurstSize:         cfg.RateLimit.Burst,
		})
	}
	if cfg.Retry.MaxRetries > 0 {
		rc := pagetl.DefaultRetryConfig()
		rc.MaxRetries = cfg.Retry.MaxRetries
		if cfg.Retry.BaseDelay > 0 {
			rc.BaseDelay = cfg.Retry.BaseDelay
		}
		if cfg.Retry.MaxDelay > 0 {
			rc.MaxDelay = cfg.Retry.MaxDelay
		}
		p = pagetl.NewRetryableProvider(p, rc)
	}
	return p
}

// newCache builds the configured cache. The returned closer is never nil.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pagetl.TranslationCache, io.Closer, error) {
	ttl := int(cfg.Cache.TTL / time.Second)

	switch cfg.Cache.Type {
	case "memory":
		maxEntries := cfg.Cache.MaxEntries
		if maxEntries <= 0 {
			maxEntries = cache.DefaultMaxEntries
		}
		mc := cache.NewInMemoryCacheWithLimit(ttl, maxEntries)
		if cfg.Cache.Snapshot == "" {
			return mc, nopCloser{}, nil
		}
		res, err := cache.LoadFile(cfg.Cache.Snapshot, mc)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, nopCloser{}, err
		default:
			logger.Info("cache snapshot loaded", "path", cfg.Cache.Snapshot, "entries", res.Loaded)
		}
		return mc, snapshotCloser{path: cfg.Cache.Snapshot, cache: mc, logger: logger}, nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:       cfg.Cache.RedisURL,
			TTL:       ttl,
			KeyPrefix: cfg.Cache.Prefix,
		})
		if err != nil {
			return nil, nopCloser{}, err
		}
		return rc.WithLogger(logger), rc, nil
	}
	return nil, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// snapshotCloser saves the memory cache on Close.
type snapshotCloser struct {
	path   string
	cache  *cache.InMemoryCache
	logger *slog.Logger
}

func (s snapshotCloser) Close() error {
	if err := cache.SaveFile(s.path, s.cache, map[string]string{"version": pagetl.Version}); err != nil {
		s.logger.Warn("cache snapshot not saved", "path", s.path, "error", err)
		return err
	}
	s.logger.Debug("cache snapshot saved", "path", s.path, "entries", s.cache.Len())
	return nil
}

// newTranslator wires provider and cache into a Translator.
func newTranslator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pagetl.Translator, io.Closer, error) {
	c, closer, err := newCache(ctx, cfg, logger)
	if err != nil {
		return nil, closer, err
	}

	opts := []pagetl.TranslatorOption{
		pagetl.WithSourceLang(cfg.Source),
		pagetl.WithLogger(logger),
	}
	if c != nil {
		opts = append(opts, pagetl.WithCache(c))
	}
	return pagetl.NewTranslator(newProvider(cfg), opts...), closer, nil
}

// triggerConfig maps the page section onto the handler config.
func triggerConfig(cfg *config.Config) trigger.Config {
	tc := trigger.DefaultConfig()
	tc.TriggerID = cfg.Page.TriggerID
	tc.StatusID = cfg.Page.StatusID
	tc.LanguageGroup = cfg.Page.LanguageGroup
	tc.ContentID = cfg.Page.ContentID
	tc.Timeout = cfg.Page.Timeout
	return tc
}

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(path string, stdin io.Reader) (string, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), path, nil
}
