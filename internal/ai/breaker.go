package ai

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"mindmap-backend/pkg/errors"
)

// BreakerConfig holds circuit breaker tuning for the provider.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default breaker tuning.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerProvider wraps a Provider with a circuit breaker so a failing
// upstream fails fast instead of queueing user actions behind timeouts.
type BreakerProvider struct {
	inner  Provider
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerProvider wraps the given provider.
func NewBreakerProvider(inner Provider, config BreakerConfig, logger *zap.Logger) *BreakerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &BreakerProvider{inner: inner, cb: cb, logger: logger}
}

// IsAvailable reports whether the underlying provider can serve requests and
// the breaker is not open.
func (p *BreakerProvider) IsAvailable() bool {
	return p.inner.IsAvailable() && p.cb.State() != gobreaker.StateOpen
}

// Generate executes the request through the breaker.
func (p *BreakerProvider) Generate(ctx context.Context, req Request) (Result, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.inner.Generate(ctx, req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return Result{}, errors.NewAIRequest("generation service unavailable", err)
		}
		return Result{}, err
	}
	return out.(Result), nil
}
