package pagetl

import (
	"context"
	"log/slog"
	"strings"
)

// Provider is the interface for translation backends. One call translates one
// piece of content into one target language.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Text       string
	TargetLang string
	SourceLang string // Empty lets the service detect the source language
	Format     string // FormatHTML or FormatText; empty uses the provider default
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Translator fronts a Provider with caching and same-language short-circuiting.
type Translator struct {
	provider   Provider
	cache      TranslationCache
	sourceLang string
	format     string
	logger     *slog.Logger
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithSourceLang sets the source language. When set, requests whose target
// matches it are returned unchanged without calling the provider.
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.sourceLang = lang
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithFormat sets the content format sent to the provider.
func WithFormat(format string) TranslatorOption {
	return func(t *Translator) {
		t.format = format
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a new Translator backed by provider.
func NewTranslator(provider Provider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		provider: provider,
		format:   FormatHTML,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates text into targetLang.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) (*Result, error) {
	if t.IsSourceLang(targetLang) || strings.TrimSpace(text) == "" {
		return &Result{Content: text, TargetLang: targetLang, Skipped: true}, nil
	}

	cacheKey := CacheKey(HashText(text), targetLang)
	if t.cache != nil {
		if cached, ok := t.cache.Get(cacheKey); ok {
			t.logger.Debug("translation cache hit", "target", targetLang, "bytes", len(text))
			return &Result{Content: cached, TargetLang: targetLang, Cached: true}, nil
		}
	}

	translated, err := t.provider.Translate(ctx, TranslateRequest{
		Text:       text,
		TargetLang: targetLang,
		SourceLang: t.sourceLang,
		Format:     t.format,
	})
	if err != nil {
		return nil, err
	}

	if t.cache != nil {
		if err := t.cache.Set(cacheKey, translated); err != nil {
			t.logger.Warn("translation cache write failed", "error", err)
		}
	}

	return &Result{Content: translated, TargetLang: targetLang}, nil
}

// SourceLang returns the configured source language ("" when auto-detected).
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// Format returns the content format sent to the provider.
func (t *Translator) Format() string {
	return t.format
}

// IsSourceLang checks if targetLang matches the configured source language.
// Always false when the source language is auto-detected.
func (t *Translator) IsSourceLang(targetLang string) bool {
	if t.sourceLang == "" {
		return false
	}
	return BaseLang(targetLang) == BaseLang(t.sourceLang)
}
