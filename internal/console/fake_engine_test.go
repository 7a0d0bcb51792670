package console

import (
	"context"
	"sync"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
)

// fakeEngine answers from fixed tables and counts every call.
type fakeEngine struct {
	mu       sync.Mutex
	calls    int
	prices   map[string]float64
	expiries []string
	chains   map[string]*models.Chain
	failWith error
	simulate func(models.AnalysisParams) *models.AnalysisResult
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		prices: map[string]float64{
			"SPY":  450.25,
			"AAPL": 189.9,
			"TSLA": 101.9,
		},
		expiries: []string{"2025-06-20", "2025-07-18", "2025-08-15"},
		chains:   map[string]*models.Chain{},
	}
}

func (f *fakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeEngine) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeEngine) ResolveInstrument(_ context.Context, ticker string) (*models.InstrumentSnapshot, error) {
	f.count()
	if f.failWith != nil {
		return nil, f.failWith
	}
	price, ok := f.prices[ticker]
	if !ok {
		return nil, apperrors.NewServerFailure(404, "Ticker "+ticker+" not found")
	}
	return &models.InstrumentSnapshot{
		Ticker:       ticker,
		CurrentPrice: &price,
		Expirations:  append([]string(nil), f.expiries...),
	}, nil
}

func (f *fakeEngine) FetchChain(_ context.Context, ticker, expiry string) (*models.Chain, error) {
	f.count()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if c, ok := f.chains[ticker+"/"+expiry]; ok {
		return c, nil
	}
	return &models.Chain{
		Ticker: ticker,
		Expiry: expiry,
		Calls:  []models.ContractQuote{{Strike: 450, LastPrice: 12.5, Volume: 10, Side: models.Call}},
	}, nil
}

func (f *fakeEngine) Simulate(_ context.Context, p models.AnalysisParams) (*models.AnalysisResult, error) {
	f.count()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.simulate != nil {
		return f.simulate(p), nil
	}
	return &models.AnalysisResult{
		Kind: p.Kind,
		Scenario: &models.ScenarioProjection{
			CurrentPrice: p.Strike / 10,
			FuturePrice:  p.TargetPrice / 10,
			PL:           (p.TargetPrice - p.Strike) / 10,
		},
	}, nil
}
