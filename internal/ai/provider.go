// Package ai abstracts the generative text service behind a Provider
// interface so operations, tests and the HTTP layer never depend on a
// concrete vendor client.
package ai

import (
	"context"

	"mindmap-backend/internal/domain"
)

// Format selects the response encoding requested from the model.
type Format string

const (
	FormatText Format = "text"
	// FormatJSON requests a JSON object response.
	FormatJSON Format = "json"
	// FormatJSONArray requests a top-level JSON array. Kept distinct from
	// FormatJSON because vendor JSON modes guarantee an object and would
	// wrap or reject array output.
	FormatJSONArray Format = "json_array"
)

// Request describes one generation call.
type Request struct {
	Prompt string
	// SourceURI optionally attaches a content source (e.g. a video URL)
	// for providers that can consume one.
	SourceURI string
	Format    Format
	// UseSearch enables search-augmented generation. Search and structured
	// JSON output are mutually exclusive in the underlying services, so
	// Normalize drops the JSON format when both are set.
	UseSearch   bool
	Temperature float64
	MaxTokens   int
}

// Normalize applies defaults and the search/JSON exclusion rule. Every
// provider implementation calls it first so the rule cannot be bypassed.
func (r Request) Normalize() Request {
	if r.Format == "" {
		r.Format = FormatText
	}
	if r.UseSearch {
		r.Format = FormatText
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = 4096
	}
	return r
}

// Result is the provider's reply.
type Result struct {
	Text      string
	Citations []domain.Citation
}

// Provider is the single entry point to the generative text service.
type Provider interface {
	Generate(ctx context.Context, req Request) (Result, error)
	IsAvailable() bool
}
