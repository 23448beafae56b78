package pagetl

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ja", "Japanese"},
		{"zh-CN", "Chinese (Simplified)"},
		{"zh_tw", "Chinese (Traditional)"},
		{"es-MX", "Spanish"}, // falls back to base language
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestGetDirection(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ar", "rtl"},
		{"he", "rtl"},
		{"iw", "rtl"},
		{"fa_IR", "rtl"},
		{"ur-PK", "rtl"},
		{"es", "ltr"},
		{"en-US", "ltr"},
		{"ja", "ltr"},
		{"zh-CN", "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetDirection(tt.code)
			if result != tt.expected {
				t.Errorf("GetDirection(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestIsRTL(t *testing.T) {
	if !IsRTL("ar") {
		t.Error("IsRTL(ar) should be true")
	}
	if IsRTL("ja") {
		t.Error("IsRTL(ja) should be false")
	}
}

func TestNormalizeLang(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ja", "ja"},
		{"JA", "ja"},
		{"zh_CN", "zh-CN"},
		{"zh-cn", "zh-CN"},
		{"sr-Latn", "sr-Latn"},
		{"  ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeLang(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLang(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestBaseLang(t *testing.T) {
	if got := BaseLang("zh_CN"); got != "zh" {
		t.Errorf("BaseLang(zh_CN) = %q, want zh", got)
	}
	if got := BaseLang("PT-br"); got != "pt" {
		t.Errorf("BaseLang(PT-br) = %q, want pt", got)
	}
}

func TestSupportedLanguages_Sorted(t *testing.T) {
	codes := SupportedLanguages()
	if len(codes) != len(LanguageNames) {
		t.Fatalf("expected %d codes, got %d", len(LanguageNames), len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Errorf("codes not sorted at %d: %q > %q", i, codes[i-1], codes[i])
		}
	}
}
