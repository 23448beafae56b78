package provider

import (
	"context"
	"sync"
)

// MockProvider is a mock translation provider for testing.
type MockProvider struct {
	mu           sync.Mutex
	Translations map[string]string // Map of "lang:text" or "text" to translation
	Err          error             // Returned by every call when set
	callCount    int
	lastRequest  *TranslateRequest
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"ja:Hello":       "こんにちは",
			"es:Hello":       "Hola",
			"fr:Hello":       "Bonjour",
			"ja:Hello World": "こんにちは世界",
			"es:Hello World": "Hola Mundo",
		},
	}
}

// Translate returns mock translations. Unknown texts come back bracketed
// and prefixed with the target language.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.lastRequest = &req

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[req.TargetLang+":"+req.Text]; ok {
		return translation, nil
	}
	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}
	return "[" + req.TargetLang + "] " + req.Text, nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
