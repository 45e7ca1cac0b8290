package ai

import (
	"context"
	"time"
)

// DefaultsProvider fills request defaults from server configuration and
// bounds every call with a timeout. It wraps any other Provider.
type DefaultsProvider struct {
	inner       Provider
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// WithDefaults wraps a provider so that requests without explicit sampling
// settings pick up the configured ones.
func WithDefaults(inner Provider, timeout time.Duration, maxTokens int, temperature float64) *DefaultsProvider {
	return &DefaultsProvider{inner: inner, timeout: timeout, maxTokens: maxTokens, temperature: temperature}
}

func (p *DefaultsProvider) IsAvailable() bool {
	return p.inner.IsAvailable()
}

func (p *DefaultsProvider) Generate(ctx context.Context, req Request) (Result, error) {
	if req.MaxTokens == 0 && p.maxTokens > 0 {
		req.MaxTokens = p.maxTokens
	}
	if req.Temperature == 0 && p.temperature > 0 {
		req.Temperature = p.temperature
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.inner.Generate(ctx, req)
}
