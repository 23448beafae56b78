package pagetl

import (
	"sort"
	"strings"
)

// LanguageNames maps translation service language codes to English names.
// Codes follow the BCP-47 form accepted by Google Cloud Translation.
var LanguageNames = map[string]string{
	"ar":    "Arabic",
	"bg":    "Bulgarian",
	"bn":    "Bengali",
	"ca":    "Catalan",
	"cs":    "Czech",
	"da":    "Danish",
	"de":    "German",
	"el":    "Greek",
	"en":    "English",
	"es":    "Spanish",
	"fa":    "Persian",
	"fi":    "Finnish",
	"fr":    "French",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hr":    "Croatian",
	"hu":    "Hungarian",
	"id":    "Indonesian",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"lt":    "Lithuanian",
	"lv":    "Latvian",
	"ms":    "Malay",
	"nl":    "Dutch",
	"no":    "Norwegian",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"sr":    "Serbian",
	"sv":    "Swedish",
	"sw":    "Swahili",
	"th":    "Thai",
	"tl":    "Tagalog",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"vi":    "Vietnamese",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
}

// GetLanguageName returns the English name for a language code.
// Falls back to the base language, then to the code itself.
func GetLanguageName(langCode string) string {
	code := NormalizeLang(langCode)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	if name, ok := LanguageNames[BaseLang(code)]; ok {
		return name
	}
	return langCode
}

// SupportedLanguages returns the known language codes in sorted order.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[BaseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// BaseLang extracts the lowercase base language ("zh" from "zh_CN" or "zh-CN").
func BaseLang(langCode string) string {
	code := strings.ReplaceAll(langCode, "_", "-")
	base, _, _ := strings.Cut(code, "-")
	return strings.ToLower(base)
}

// NormalizeLang converts a language code to BCP-47 form ("zh_cn" → "zh-CN").
func NormalizeLang(langCode string) string {
	code := strings.TrimSpace(strings.ReplaceAll(langCode, "_", "-"))
	if code == "" {
		return ""
	}
	base, region, found := strings.Cut(code, "-")
	base = strings.ToLower(base)
	if !found {
		return base
	}
	if len(region) == 2 {
		region = strings.ToUpper(region)
	}
	return base + "-" + region
}

// ToHTMLLang converts a language code to HTML lang attribute format.
func ToHTMLLang(langCode string) string {
	return NormalizeLang(langCode)
}
