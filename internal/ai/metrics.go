package ai

import "context"

// RequestObserver counts generation call outcomes. Satisfied by the
// observability collector.
type RequestObserver interface {
	ObserveAIRequest(outcome string)
}

// MetricsProvider records an outcome counter per generation call. It wraps
// any other Provider.
type MetricsProvider struct {
	inner    Provider
	observer RequestObserver
}

// WithMetrics wraps the provider so every call increments the AI request
// counter with outcome "ok" or "error".
func WithMetrics(inner Provider, observer RequestObserver) *MetricsProvider {
	return &MetricsProvider{inner: inner, observer: observer}
}

func (p *MetricsProvider) IsAvailable() bool {
	return p.inner.IsAvailable()
}

func (p *MetricsProvider) Generate(ctx context.Context, req Request) (Result, error) {
	res, err := p.inner.Generate(ctx, req)
	if p.observer != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		p.observer.ObserveAIRequest(outcome)
	}
	return res, err
}
