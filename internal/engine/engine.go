// Package engine provides the pricing engine interface and its HTTP client.
package engine

import (
	"context"

	"drawdown-console/internal/models"
)

// Engine defines the operations the console consumes from the pricing engine.
// Implementations never retry and never impose their own deadline; callers
// own cancellation through ctx.
type Engine interface {
	// ResolveInstrument returns the snapshot of a ticker.
	ResolveInstrument(ctx context.Context, ticker string) (*models.InstrumentSnapshot, error)

	// FetchChain returns the contracts of one (ticker, expiry).
	FetchChain(ctx context.Context, ticker, expiry string) (*models.Chain, error)

	// Simulate dispatches params.Kind and returns its parsed result.
	Simulate(ctx context.Context, params models.AnalysisParams) (*models.AnalysisResult, error)
}

// StatusChecker is implemented by engines that can report liveness.
type StatusChecker interface {
	Status(ctx context.Context) (string, error)
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id forwarded as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation id stored in ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
