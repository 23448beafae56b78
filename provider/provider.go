// Package provider defines the translation backends.
package provider

import "github.com/ZaguanLabs/pagetl"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = pagetl.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = pagetl.TranslateRequest
