package console

import (
	"context"

	"github.com/rs/zerolog"

	"drawdown-console/internal/engine"
)

// Console owns the six screens. Screens share nothing with each other.
type Console struct {
	screens map[ScreenKind]*Screen
	logger  zerolog.Logger
}

// New creates a console with per-screen startup inputs.
func New(inputs map[ScreenKind]Inputs, logger zerolog.Logger) *Console {
	c := &Console{
		screens: make(map[ScreenKind]*Screen, len(ScreenKinds)),
		logger:  logger,
	}
	for _, kind := range ScreenKinds {
		c.screens[kind] = NewScreen(kind, inputs[kind], logger)
	}
	return c
}

// Screen returns the state of one screen.
func (c *Console) Screen(kind ScreenKind) *Screen {
	return c.screens[kind]
}

// Start returns the startup resolution of every screen.
func (c *Console) Start() []Request {
	var reqs []Request
	for _, kind := range ScreenKinds {
		if req := c.screens[kind].Start(); req != nil {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// Apply routes an event to its screen.
func (c *Console) Apply(ev Event) (Request, bool) {
	s, ok := c.screens[ev.Target()]
	if !ok {
		return nil, false
	}
	return s.Apply(ev)
}

// Drive executes reqs one at a time on the calling goroutine, applying
// each outcome and following up on any request it produces. It is the
// synchronous loop used by one-shot commands.
func (c *Console) Drive(ctx context.Context, eng engine.Engine, reqs ...Request) {
	queue := append([]Request(nil), reqs...)
	for len(queue) > 0 {
		req := queue[0]
		queue = queue[1:]
		if req == nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		next, _ := c.Apply(req.Do(ctx, eng))
		if next != nil {
			queue = append(queue, next)
		}
	}
}
