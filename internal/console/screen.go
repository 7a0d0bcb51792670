// Package console holds the derived-state orchestration shared by every
// analytics screen: ticker resolution, strike/expiry defaulting, chain
// invalidation and simulation dispatch, all guarded by per-site
// generation tokens.
//
// Screens are plain state machines. Mutators return request descriptors
// instead of performing I/O; the caller executes them off-loop and feeds
// the resulting events back through Apply on the loop goroutine.
package console

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/logging"
	"drawdown-console/internal/models"
)

// MinTickerLength is the shortest ticker that is resolved.
const MinTickerLength = 2

// MissingInputsMessage is the banner text when ticker, strike or expiry is blank.
const MissingInputsMessage = "Missing inputs. Please check Ticker, Strike, and Expiry."

// ScreenKind identifies one of the six analytics screens.
type ScreenKind string

const (
	ScreenLive       ScreenKind = "live"
	ScreenGreeks     ScreenKind = "greeks"
	ScreenVolatility ScreenKind = "volatility"
	ScreenHedging    ScreenKind = "hedging"
	ScreenScenario   ScreenKind = "scenario"
	ScreenHeatmap    ScreenKind = "heatmap"
)

// ScreenKinds lists the screens in navigation order.
var ScreenKinds = []ScreenKind{
	ScreenLive,
	ScreenGreeks,
	ScreenVolatility,
	ScreenHedging,
	ScreenScenario,
	ScreenHeatmap,
}

// Title returns the screen heading.
func (k ScreenKind) Title() string {
	switch k {
	case ScreenLive:
		return "Live Market Pricing"
	case ScreenGreeks:
		return "Greeks Laboratory"
	case ScreenVolatility:
		return "Volatility Simulator"
	case ScreenHedging:
		return "Hedging Strategy"
	case ScreenScenario:
		return "Scenario Simulator"
	case ScreenHeatmap:
		return "Risk Heatmap"
	}
	return string(k)
}

// SimulationKind returns the engine request the screen dispatches.
func (k ScreenKind) SimulationKind() models.Kind {
	switch k {
	case ScreenGreeks:
		return models.KindGreeksProfile
	case ScreenVolatility:
		return models.KindVolSim
	case ScreenHedging:
		return models.KindHedgingCalc
	case ScreenScenario:
		return models.KindScenario
	case ScreenHeatmap:
		return models.KindHeatmap
	}
	return models.KindAnalyze
}

// StrikePolicy returns how the screen defaults its strike.
func (k ScreenKind) StrikePolicy() StrikePolicy {
	if k == ScreenHedging {
		return ProtectivePut
	}
	return AtTheMoney
}

// UsesChain reports whether the screen lists the option chain.
func (k ScreenKind) UsesChain() bool {
	return k == ScreenLive
}

// ScreenForKind returns the screen that dispatches kind.
func ScreenForKind(kind models.Kind) ScreenKind {
	for _, s := range ScreenKinds {
		if s.SimulationKind() == kind {
			return s
		}
	}
	return ScreenLive
}

// Inputs are the per-screen startup values.
type Inputs struct {
	Ticker    string
	Shares    int
	TargetVol float64
	DaysAhead int
}

// Screen is the state of one analytics screen.
type Screen struct {
	Kind ScreenKind

	Ticker string
	Strike string
	Expiry string

	// Scenario inputs, kept as typed text.
	TargetPrice string
	TargetVol   string
	DaysAhead   string

	// MarketPrice is the last price of the contract picked from the chain.
	MarketPrice float64
	OptionType  models.OptionSide
	Shares      int

	Snapshot *models.InstrumentSnapshot
	Chain    *models.Chain
	Result   *models.AnalysisResult

	// Err is the dismissable banner; nil when nothing is shown.
	Err  error
	Busy bool

	gens   Generations
	logger zerolog.Logger
}

// NewScreen creates a screen in its initial state. The startup ticker
// is resolved by the request returned from Start.
func NewScreen(kind ScreenKind, in Inputs, logger zerolog.Logger) *Screen {
	shares := in.Shares
	if shares <= 0 {
		shares = 100
	}
	optType := models.Call
	if kind == ScreenHedging {
		optType = models.Put
	}
	return &Screen{
		Kind:       kind,
		Ticker:     normalizeTicker(in.Ticker),
		TargetVol:  FormatNumber(in.TargetVol),
		DaysAhead:  strconv.Itoa(in.DaysAhead),
		OptionType: optType,
		Shares:     shares,
		logger:     logging.WithScreen(logger, string(kind)),
	}
}

// Generation returns the live token of site.
func (s *Screen) Generation(site Site) uint64 {
	return s.gens.Current(site)
}

// Start resolves the startup ticker.
func (s *Screen) Start() Request {
	return s.SetTicker(s.Ticker)
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// SetTicker records a ticker edit. Every edit supersedes in-flight
// resolutions and chain fetches and clears the displayed snapshot and
// chain. Tickers shorter than MinTickerLength are not resolved.
func (s *Screen) SetTicker(ticker string) Request {
	s.Ticker = normalizeTicker(ticker)
	s.Snapshot = nil
	s.Chain = nil
	s.gens.Next(SiteChain)
	gen := s.gens.Next(SiteResolve)

	if len(s.Ticker) < MinTickerLength {
		return nil
	}
	logging.LogDispatch(s.logger, string(SiteResolve), s.Ticker, gen)
	return &ResolveRequest{Screen: s.Kind, Ticker: s.Ticker, Generation: gen}
}

// SetStrike records a strike edit.
func (s *Screen) SetStrike(strike string) {
	s.Strike = strings.TrimSpace(strike)
}

// SetExpiry records an expiry selection. A change clears the chain and,
// on chain screens with a resolved snapshot, fetches the new chain.
func (s *Screen) SetExpiry(expiry string) Request {
	expiry = strings.TrimSpace(expiry)
	if expiry == s.Expiry {
		return nil
	}
	s.Expiry = expiry
	return s.expiryChanged()
}

func (s *Screen) expiryChanged() Request {
	s.Chain = nil
	gen := s.gens.Next(SiteChain)
	if !s.Kind.UsesChain() || s.Expiry == "" || s.Ticker == "" || s.Snapshot == nil {
		return nil
	}
	logging.LogDispatch(s.logger, string(SiteChain), s.Ticker, gen)
	return &ChainRequest{Screen: s.Kind, Ticker: s.Ticker, Expiry: s.Expiry, Generation: gen}
}

// SetScenario records the scenario inputs.
func (s *Screen) SetScenario(targetPrice, targetVol, daysAhead string) {
	s.TargetPrice = strings.TrimSpace(targetPrice)
	s.TargetVol = strings.TrimSpace(targetVol)
	s.DaysAhead = strings.TrimSpace(daysAhead)
}

// DismissError clears the banner.
func (s *Screen) DismissError() {
	s.Err = nil
}

// ChainState describes what the chain panel shows.
type ChainState int

const (
	ChainSelectExpiry ChainState = iota
	ChainLoading
	ChainReady
)

// ChainState returns the chain panel state.
func (s *Screen) ChainState() ChainState {
	switch {
	case s.Expiry == "":
		return ChainSelectExpiry
	case s.Chain == nil:
		return ChainLoading
	default:
		return ChainReady
	}
}

// Run validates the inputs and, when they are complete, returns the
// simulation request. The previous result is cleared either way so no
// stale data stays on screen. A validation failure sends nothing and
// supersedes any run still in flight.
func (s *Screen) Run() (Request, error) {
	s.Err = nil
	s.Result = nil

	params, err := s.params()
	if err != nil {
		s.gens.Next(SiteRun)
		s.Busy = false
		s.Err = err
		return nil, err
	}

	gen := s.gens.Next(SiteRun)
	s.Busy = true
	logging.LogDispatch(s.logger, string(SiteRun), s.Ticker, gen)
	return &RunRequest{
		Screen:     s.Kind,
		Params:     params,
		Generation: gen,
		RequestID:  uuid.NewString(),
	}, nil
}

// SelectContract runs a valuation of a chain contract.
func (s *Screen) SelectContract(q models.ContractQuote) (Request, error) {
	s.Strike = FormatNumber(q.Strike)
	s.MarketPrice = q.LastPrice
	if q.Side != "" {
		s.OptionType = q.Side
	}
	return s.Run()
}

func (s *Screen) params() (models.AnalysisParams, error) {
	if isBlank(s.Ticker) || isBlank(s.Strike) || isBlank(s.Expiry) {
		field := "ticker"
		switch {
		case isBlank(s.Ticker):
		case isBlank(s.Strike):
			field = "strike"
		default:
			field = "expiry"
		}
		return models.AnalysisParams{}, apperrors.NewValidationFailure(field, "", MissingInputsMessage)
	}

	strike, ok := parseFinite(s.Strike)
	if !ok {
		return models.AnalysisParams{}, apperrors.NewValidationFailure("strike", s.Strike, "Strike must be a number.")
	}

	p := models.AnalysisParams{
		Kind:       s.Kind.SimulationKind(),
		Ticker:     s.Ticker,
		Strike:     strike,
		Expiry:     s.Expiry,
		OptionType: models.Call,
	}

	switch s.Kind {
	case ScreenLive:
		p.OptionType = s.OptionType
		p.MarketPrice = s.MarketPrice
	case ScreenHedging:
		p.OptionType = models.Put
		p.Shares = s.Shares
	case ScreenScenario:
		target, ok := parseFinite(s.TargetPrice)
		if !ok {
			return models.AnalysisParams{}, apperrors.NewValidationFailure("target_price", s.TargetPrice, "Target price must be a number.")
		}
		vol, ok := parseFinite(s.TargetVol)
		if !ok {
			return models.AnalysisParams{}, apperrors.NewValidationFailure("target_vol", s.TargetVol, "Target volatility must be a number.")
		}
		days, err := strconv.Atoi(s.DaysAhead)
		if err != nil || days < 0 {
			return models.AnalysisParams{}, apperrors.NewValidationFailure("days_ahead", s.DaysAhead, "Days ahead must be a whole number.")
		}
		p.TargetPrice = target
		p.TargetVol = vol
		p.DaysAhead = days
	}
	return p, nil
}

// Apply applies an event addressed to this screen. Superseded events
// are discarded and leave the screen untouched; the returned bool
// reports whether the event was applied. A follow-up request is
// returned when applying the event changed the expiry.
func (s *Screen) Apply(ev Event) (Request, bool) {
	switch e := ev.(type) {
	case *ResolveEvent:
		return s.applyResolve(e)
	case *ChainEvent:
		return nil, s.applyChain(e)
	case *RunEvent:
		return nil, s.applyRun(e)
	}
	return nil, false
}

func (s *Screen) stale(site Site, token uint64) bool {
	if s.gens.IsCurrent(site, token) {
		return false
	}
	logging.LogStale(s.logger, string(site), token, s.gens.Current(site))
	return true
}

func (s *Screen) applyResolve(e *ResolveEvent) (Request, bool) {
	if s.stale(SiteResolve, e.Generation) {
		return nil, false
	}
	if e.Err != nil {
		s.Snapshot = nil
		s.Err = e.Err
		return nil, true
	}

	s.Snapshot = e.Snapshot
	if !e.Snapshot.HasPrice() {
		return nil, true
	}

	if s.Kind == ScreenScenario && isBlank(s.TargetPrice) {
		s.TargetPrice = FormatNumber(e.Snapshot.Price())
	}

	before := s.Expiry
	s.Strike, s.Expiry = ApplyDefaults(e.Snapshot, s.Strike, s.Expiry, s.Kind.StrikePolicy())
	if s.Expiry != before {
		return s.expiryChanged(), true
	}
	return nil, true
}

func (s *Screen) applyChain(e *ChainEvent) bool {
	if s.stale(SiteChain, e.Generation) {
		return false
	}
	if e.Err != nil {
		s.Chain = nil
		s.Err = e.Err
		return true
	}
	s.Chain = e.Chain
	return true
}

func (s *Screen) applyRun(e *RunEvent) bool {
	if s.stale(SiteRun, e.Generation) {
		return false
	}
	s.Busy = false
	if e.Err != nil {
		s.Result = nil
		s.Err = e.Err
		return true
	}
	s.Result = e.Result
	return true
}
