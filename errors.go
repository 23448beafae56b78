package pagetl

import (
	"errors"
	"fmt"
)

// Sentinel errors raised while driving a page.
var (
	// ErrNoSelection is returned when no option of a radio group is checked.
	ErrNoSelection = errors.New("no language selected")
	// ErrNoElement is returned when an element id is not present in the document.
	ErrNoElement = errors.New("element not found")
	// ErrNoListener is returned when a click hits an element with no listener attached.
	ErrNoListener = errors.New("no listener attached")
	// ErrBusy is returned when a translation is already in flight.
	ErrBusy = errors.New("translation already in progress")
	// ErrDisabled is returned when a click hits an element carrying the disabled attribute.
	ErrDisabled = errors.New("element is disabled")
)

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// TransportError indicates the request never produced an HTTP response
// (connection refused, DNS failure, cancelled context, ...).
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// HTTPError indicates the translation service answered with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string // Response body, truncated
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status %d", e.StatusCode)
}

// APIError indicates the service reported a failure in the response body.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// StructuralError indicates the response did not have the expected shape.
type StructuralError struct {
	Message string
	Cause   error
}

func (e *StructuralError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("structural error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("structural error: %s", e.Message)
}

func (e *StructuralError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}
