package pagetl

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with surrounding whitespace",
			input:    "  Hello World\n",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "markup",
			input: "<p>Hello</p>",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	hash := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"

	tests := []struct {
		lang     string
		expected string
	}{
		{"ja", hash + ":ja"},
		{"zh_CN", hash + ":zh-CN"},
		{"PT-br", hash + ":pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := CacheKey(hash, tt.lang); got != tt.expected {
				t.Errorf("CacheKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCacheKeyExtended(t *testing.T) {
	result := CacheKeyExtended("abc123", "en", "es", "google")
	expected := "abc123:en:es:google"

	if result != expected {
		t.Errorf("CacheKeyExtended() = %q, want %q", result, expected)
	}
}
