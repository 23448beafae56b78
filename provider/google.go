package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZaguanLabs/pagetl"
)

// DefaultGoogleEndpoint is the Cloud Translation v2 REST endpoint.
const DefaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

// GoogleProvider implements Provider using the Google Cloud Translation v2 API.
type GoogleProvider struct {
	apiKey   string
	endpoint string
	format   string
	client   *http.Client
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	APIKey     string        // API key, sent as the "key" query parameter
	Endpoint   string        // Endpoint URL (default: DefaultGoogleEndpoint)
	Format     string        // Default format when the request has none ("html" or "text")
	Timeout    time.Duration // Per-request timeout; zero means none
	HTTPClient *http.Client  // Custom client (optional, Timeout is ignored when set)
}

// NewGoogleProvider creates a new Google Cloud Translation provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GoogleProvider{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		format:   cfg.Format,
		client:   client,
	}
}

type googleRequest struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Source string `json:"source,omitempty"`
	Format string `json:"format,omitempty"`
}

type googleResponse struct {
	Data *struct {
		Translations []struct {
			TranslatedText         *string `json:"translatedText"`
			DetectedSourceLanguage string  `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// Translate sends one POST request and returns the first translation.
func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	format := req.Format
	if format == "" {
		format = p.format
	}

	body, err := json.Marshal(googleRequest{
		Q:      req.Text,
		Target: req.TargetLang,
		Source: req.SourceLang,
		Format: format,
	})
	if err != nil {
		return "", &pagetl.TranslationError{Message: "encoding request", Cause: err}
	}

	reqURL, err := p.requestURL()
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", &pagetl.TranslationError{Message: "building request", Cause: redact(err, p.apiKey)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", pagetl.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &pagetl.TransportError{Message: "request failed", Cause: redact(err, p.apiKey)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The body is informational only; a failed read keeps the status.
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &pagetl.HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &pagetl.TransportError{Message: "reading response", Cause: err}
	}

	return parseGoogleResponse(data)
}

func parseGoogleResponse(data []byte) (string, error) {
	var parsed googleResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &pagetl.StructuralError{Message: "decoding response", Cause: err}
	}

	if parsed.Error != nil {
		return "", &pagetl.APIError{Code: parsed.Error.Code, Message: parsed.Error.Message}
	}

	if parsed.Data == nil {
		return "", &pagetl.StructuralError{Message: "response has no data field"}
	}
	if len(parsed.Data.Translations) == 0 {
		return "", &pagetl.StructuralError{Message: "response has no translations"}
	}
	first := parsed.Data.Translations[0]
	if first.TranslatedText == nil {
		return "", &pagetl.StructuralError{Message: "translation has no translatedText"}
	}

	return *first.TranslatedText, nil
}

func (p *GoogleProvider) requestURL() (string, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return "", &pagetl.TranslationError{Message: "invalid endpoint", Cause: err}
	}
	q := u.Query()
	q.Set("key", p.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redact strips the API key from URLs embedded in net/http errors.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(key), "REDACTED")
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// String identifies the provider in logs without exposing the key.
func (p *GoogleProvider) String() string {
	return fmt.Sprintf("google(%s)", p.endpoint)
}

// Verify GoogleProvider implements Provider
var _ Provider = (*GoogleProvider)(nil)
