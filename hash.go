package pagetl

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a content hash and target language.
func CacheKey(hash, targetLang string) string {
	return hash + ":" + NormalizeLang(targetLang)
}

// CacheKeyExtended also keys on source language and backend, for caches
// shared between differently configured translators.
func CacheKeyExtended(hash, sourceLang, targetLang, backend string) string {
	return hash + ":" + NormalizeLang(sourceLang) + ":" + NormalizeLang(targetLang) + ":" + backend
}
