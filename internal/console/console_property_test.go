package console

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"drawdown-console/internal/models"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	return parameters
}

type screenView struct {
	ticker, strike, expiry string
	snapshot               *models.InstrumentSnapshot
	chain                  *models.Chain
	result                 *models.AnalysisResult
	busy                   bool
}

func viewOf(s *Screen) screenView {
	return screenView{s.Ticker, s.Strike, s.Expiry, s.Snapshot, s.Chain, s.Result, s.Busy}
}

// Property: a resolution superseded by a later ticker edit never changes
// the screen, whether it arrives before or after the newer response.
func TestProperty_StaleResolveNeverApplies(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	tickers := gen.OneConstOf("SPY", "AAPL", "TSLA", "QQ")

	properties.Property("late resolve is discarded", prop.ForAll(
		func(a, b string, lateFirst bool) bool {
			eng := newFakeEngine()
			eng.prices["QQ"] = 12.7
			s := newTestScreen(ScreenGreeks, "")

			reqA := s.SetTicker(a)
			reqB := s.SetTicker(b)
			evA := reqA.Do(context.Background(), eng)
			evB := reqB.Do(context.Background(), eng)

			if lateFirst {
				before := viewOf(s)
				if _, applied := s.Apply(evA); applied || viewOf(s) != before {
					return false
				}
				s.Apply(evB)
				return s.Snapshot == evB.(*ResolveEvent).Snapshot
			}

			s.Apply(evB)
			after := viewOf(s)
			_, applied := s.Apply(evA)
			return !applied && viewOf(s) == after
		},
		tickers, tickers, gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: a chain fetched for a superseded expiry never replaces the
// chain of the current expiry.
func TestProperty_StaleChainNeverApplies(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	expiries := gen.OneConstOf("2025-06-20", "2025-07-18", "2025-08-15", "2025-09-19")

	properties.Property("late chain is discarded", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return true
			}
			eng := newFakeEngine()
			s := newTestScreen(ScreenLive, "SPY")
			settle(t, s, eng, s.Start())

			reqA := s.SetExpiry(a)
			reqB := s.SetExpiry(b)
			if reqB == nil {
				return false
			}

			s.Apply(reqB.Do(context.Background(), eng))
			after := viewOf(s)
			if reqA != nil {
				if _, applied := s.Apply(reqA.Do(context.Background(), eng)); applied {
					return false
				}
			}
			return viewOf(s) == after && s.Chain != nil && s.Chain.Expiry == b
		},
		expiries, expiries,
	))

	properties.TestingRun(t)
}

// Property: of any number of overlapping runs, only the last one's
// response is applied, in any arrival order.
func TestProperty_OnlyLatestRunApplies(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("latest generation wins", prop.ForAll(
		func(strikes []int, reverse bool) bool {
			if len(strikes) == 0 {
				return true
			}
			eng := newFakeEngine()
			s := newTestScreen(ScreenScenario, "SPY")
			settle(t, s, eng, s.Start())

			var events []Event
			for _, k := range strikes {
				s.SetStrike(FormatNumber(float64(k)))
				req, err := s.Run()
				if err != nil {
					return false
				}
				events = append(events, req.Do(context.Background(), eng))
			}
			if reverse {
				for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
					events[i], events[j] = events[j], events[i]
				}
			}

			applied := 0
			for _, ev := range events {
				if _, ok := s.Apply(ev); ok {
					applied++
				}
			}
			last := float64(strikes[len(strikes)-1])
			return applied == 1 && !s.Busy && s.Result != nil &&
				s.Result.Scenario.CurrentPrice == last/10
		},
		gen.SliceOfN(5, gen.IntRange(1, 1000)), gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property: a non-blank strike or expiry is never overwritten by defaulting,
// and blank fields are filled whenever the snapshot has a price.
func TestProperty_DefaultOnce(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("user values are kept", prop.ForAll(
		func(price float64, strike, expiry string, hedging bool) bool {
			policy := AtTheMoney
			if hedging {
				policy = ProtectivePut
			}
			snap := &models.InstrumentSnapshot{CurrentPrice: &price, Expirations: []string{"2025-06-20"}}
			gotStrike, gotExpiry := ApplyDefaults(snap, strike, expiry, policy)

			if !isBlank(strike) && gotStrike != strike {
				return false
			}
			if !isBlank(expiry) && gotExpiry != expiry {
				return false
			}
			if isBlank(strike) && gotStrike != FormatNumber(policy.Strike(price)) {
				return false
			}
			if isBlank(expiry) && gotExpiry != "2025-06-20" {
				return false
			}
			// Applying again is a no-op.
			s2, e2 := ApplyDefaults(snap, gotStrike, gotExpiry, policy)
			return s2 == gotStrike && e2 == gotExpiry
		},
		gen.Float64Range(0.5, 5000),
		gen.OneConstOf("", " ", "100", "420.5"),
		gen.OneConstOf("", "2025-12-19"),
		gen.Bool(),
	))

	properties.Property("no price, no defaults", prop.ForAll(
		func(strike, expiry string) bool {
			snap := &models.InstrumentSnapshot{Expirations: []string{"2025-06-20"}}
			s, e := ApplyDefaults(snap, strike, expiry, AtTheMoney)
			return s == strike && e == expiry
		},
		gen.OneConstOf("", "100"),
		gen.OneConstOf("", "2025-12-19"),
	))

	properties.TestingRun(t)
}

// Property: strike policies floor the (scaled) price and the protective
// put strike never exceeds the at-the-money strike.
func TestProperty_StrikePolicy(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("floor semantics", prop.ForAll(
		func(price float64) bool {
			atm := AtTheMoney.Strike(price)
			put := ProtectivePut.Strike(price)
			return atm == math.Floor(price) &&
				put == math.Floor(price*0.95) &&
				put <= atm &&
				atm <= price && price-atm < 1
		},
		gen.Float64Range(1, 10000),
	))

	properties.TestingRun(t)
}

// Property: any run with a blank ticker, strike or expiry, or a strike
// that is not a finite number, fails locally with zero engine calls.
func TestProperty_ValidationGate(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("invalid inputs never reach the engine", prop.ForAll(
		func(ticker, strike, expiry string, kind ScreenKind) bool {
			valid := !isBlank(ticker) && !isBlank(expiry)
			if _, ok := parseFinite(strike); !ok {
				valid = false
			}
			if valid {
				return true
			}

			eng := newFakeEngine()
			s := newTestScreen(kind, "")
			s.Ticker = ticker
			s.SetStrike(strike)
			s.SetExpiry(expiry)

			req, err := s.Run()
			return req == nil && err != nil && s.Err != nil && !s.Busy && eng.Calls() == 0
		},
		gen.OneConstOf("", "  ", "SPY"),
		gen.OneConstOf("", "abc", "NaN", "Inf", "450"),
		gen.OneConstOf("", "2025-06-20"),
		gen.OneConstOf(ScreenLive, ScreenGreeks, ScreenVolatility, ScreenHedging, ScreenScenario, ScreenHeatmap),
	))

	properties.TestingRun(t)
}
