package console

import (
	"context"

	"drawdown-console/internal/engine"
	"drawdown-console/internal/models"
)

// Request is a pending engine call captured with its generation token.
// Do runs off the loop goroutine and must not touch screen state.
type Request interface {
	Target() ScreenKind
	Site() Site
	Do(ctx context.Context, eng engine.Engine) Event
}

// Event is the outcome of a Request, posted back to the loop.
type Event interface {
	Target() ScreenKind
}

// ResolveRequest resolves a ticker.
type ResolveRequest struct {
	Screen     ScreenKind
	Ticker     string
	Generation uint64
}

func (r *ResolveRequest) Target() ScreenKind { return r.Screen }
func (r *ResolveRequest) Site() Site         { return SiteResolve }

// Do implements Request.
func (r *ResolveRequest) Do(ctx context.Context, eng engine.Engine) Event {
	snap, err := eng.ResolveInstrument(ctx, r.Ticker)
	return &ResolveEvent{Screen: r.Screen, Generation: r.Generation, Snapshot: snap, Err: err}
}

// ResolveEvent carries a resolution outcome.
type ResolveEvent struct {
	Screen     ScreenKind
	Generation uint64
	Snapshot   *models.InstrumentSnapshot
	Err        error
}

func (e *ResolveEvent) Target() ScreenKind { return e.Screen }

// ChainRequest fetches the chain of (ticker, expiry).
type ChainRequest struct {
	Screen     ScreenKind
	Ticker     string
	Expiry     string
	Generation uint64
}

func (r *ChainRequest) Target() ScreenKind { return r.Screen }
func (r *ChainRequest) Site() Site         { return SiteChain }

// Do implements Request.
func (r *ChainRequest) Do(ctx context.Context, eng engine.Engine) Event {
	chain, err := eng.FetchChain(ctx, r.Ticker, r.Expiry)
	return &ChainEvent{Screen: r.Screen, Generation: r.Generation, Chain: chain, Err: err}
}

// ChainEvent carries a chain fetch outcome.
type ChainEvent struct {
	Screen     ScreenKind
	Generation uint64
	Chain      *models.Chain
	Err        error
}

func (e *ChainEvent) Target() ScreenKind { return e.Screen }

// RunRequest dispatches a simulation.
type RunRequest struct {
	Screen     ScreenKind
	Params     models.AnalysisParams
	Generation uint64
	RequestID  string
}

func (r *RunRequest) Target() ScreenKind { return r.Screen }
func (r *RunRequest) Site() Site         { return SiteRun }

// Do implements Request.
func (r *RunRequest) Do(ctx context.Context, eng engine.Engine) Event {
	if r.RequestID != "" {
		ctx = engine.WithRequestID(ctx, r.RequestID)
	}
	res, err := eng.Simulate(ctx, r.Params)
	return &RunEvent{Screen: r.Screen, Generation: r.Generation, Result: res, Err: err}
}

// RunEvent carries a simulation outcome.
type RunEvent struct {
	Screen     ScreenKind
	Generation uint64
	Result     *models.AnalysisResult
	Err        error
}

func (e *RunEvent) Target() ScreenKind { return e.Screen }
