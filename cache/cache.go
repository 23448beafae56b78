// Package cache provides translation caching implementations.
package cache

import "github.com/ZaguanLabs/pagetl"

// TranslationCache is the interface for translation caching.
// This is an alias to the main package interface.
type TranslationCache = pagetl.TranslationCache
