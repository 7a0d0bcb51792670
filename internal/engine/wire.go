package engine

import (
	"math"

	jsoniter "github.com/json-iterator/go"

	"drawdown-console/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// contractRequest is shared by analyze, greeks-profile and vol-sim.
type contractRequest struct {
	Ticker      string  `json:"ticker"`
	Strike      float64 `json:"strike"`
	Expiry      string  `json:"expiry"`
	OptionType  string  `json:"option_type"`
	MarketPrice float64 `json:"market_price"`
}

type hedgingRequest struct {
	Ticker     string  `json:"ticker"`
	Strike     float64 `json:"strike"`
	Expiry     string  `json:"expiry"`
	OptionType string  `json:"option_type"`
	Shares     int     `json:"shares"`
}

type scenarioRequest struct {
	Ticker      string  `json:"ticker"`
	Strike      float64 `json:"strike"`
	Expiry      string  `json:"expiry"`
	OptionType  string  `json:"option_type"`
	TargetPrice float64 `json:"target_price"`
	TargetVol   float64 `json:"target_vol"`
	DaysAhead   int     `json:"days_ahead"`
}

type heatmapRequest struct {
	Ticker     string  `json:"ticker"`
	Strike     float64 `json:"strike"`
	Expiry     string  `json:"expiry"`
	OptionType string  `json:"option_type"`
}

func optionType(p models.AnalysisParams) string {
	if p.OptionType == "" {
		return string(models.Call)
	}
	return string(p.OptionType)
}

// requestBody builds the fixed request shape of a kind.
func requestBody(p models.AnalysisParams) (interface{}, error) {
	switch p.Kind {
	case models.KindAnalyze, models.KindGreeksProfile, models.KindVolSim:
		return contractRequest{
			Ticker:      p.Ticker,
			Strike:      p.Strike,
			Expiry:      p.Expiry,
			OptionType:  optionType(p),
			MarketPrice: p.MarketPrice,
		}, nil
	case models.KindHedgingCalc:
		return hedgingRequest{
			Ticker:     p.Ticker,
			Strike:     p.Strike,
			Expiry:     p.Expiry,
			OptionType: string(models.Put),
			Shares:     p.Shares,
		}, nil
	case models.KindScenario:
		return scenarioRequest{
			Ticker:      p.Ticker,
			Strike:      p.Strike,
			Expiry:      p.Expiry,
			OptionType:  optionType(p),
			TargetPrice: p.TargetPrice,
			TargetVol:   p.TargetVol,
			DaysAhead:   p.DaysAhead,
		}, nil
	case models.KindHeatmap:
		return heatmapRequest{
			Ticker:     p.Ticker,
			Strike:     p.Strike,
			Expiry:     p.Expiry,
			OptionType: optionType(p),
		}, nil
	}
	return nil, errUnknownKind(p.Kind)
}

// Response parsing is lenient: a field that is missing or of the wrong
// type reads as its zero value, so a malformed 2xx body yields a
// zero-state result instead of an error.

func number(a jsoniter.Any) (float64, bool) {
	if a.ValueType() != jsoniter.NumberValue {
		return 0, false
	}
	f := a.ToFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func num(a jsoniter.Any) float64 {
	f, _ := number(a)
	return f
}

func optNum(a jsoniter.Any) *float64 {
	f, ok := number(a)
	if !ok {
		return nil
	}
	return &f
}

func str(a jsoniter.Any) string {
	if a.ValueType() != jsoniter.StringValue {
		return ""
	}
	return a.ToString()
}

func each(a jsoniter.Any, fn func(jsoniter.Any)) {
	if a.ValueType() != jsoniter.ArrayValue {
		return
	}
	for i := 0; i < a.Size(); i++ {
		fn(a.Get(i))
	}
}

func root(body []byte) jsoniter.Any {
	return json.Get(body)
}

func parseSnapshot(ticker string, body []byte) *models.InstrumentSnapshot {
	r := root(body)
	snap := &models.InstrumentSnapshot{
		Ticker:       ticker,
		CurrentPrice: optNum(r.Get("current_price")),
	}
	each(r.Get("expirations"), func(e jsoniter.Any) {
		if s := str(e); s != "" {
			snap.Expirations = append(snap.Expirations, s)
		}
	})
	each(r.Get("chart_data"), func(p jsoniter.Any) {
		snap.ChartSeries = append(snap.ChartSeries, models.ChartPoint{
			Date:  str(p.Get("date")),
			Price: num(p.Get("price")),
		})
	})
	return snap
}

func parseQuotes(a jsoniter.Any, side models.OptionSide) []models.ContractQuote {
	var quotes []models.ContractQuote
	each(a, func(q jsoniter.Any) {
		quotes = append(quotes, models.ContractQuote{
			Strike:            num(q.Get("strike")),
			LastPrice:         num(q.Get("lastPrice")),
			Volume:            int64(num(q.Get("volume"))),
			Side:              side,
			ImpliedVolatility: optNum(q.Get("impliedVolatility")),
		})
	})
	return quotes
}

// parseChain treats a body without calls as an empty chain.
func parseChain(ticker, expiry string, body []byte) *models.Chain {
	r := root(body)
	chain := &models.Chain{Ticker: ticker, Expiry: expiry}
	if r.Get("calls").ValueType() != jsoniter.ArrayValue {
		return chain
	}
	chain.Calls = parseQuotes(r.Get("calls"), models.Call)
	chain.Puts = parseQuotes(r.Get("puts"), models.Put)
	return chain
}

func parseResult(kind models.Kind, body []byte) *models.AnalysisResult {
	r := root(body)
	res := &models.AnalysisResult{Kind: kind}
	if r.ValueType() != jsoniter.ObjectValue {
		return res
	}

	switch kind {
	case models.KindAnalyze:
		g := r.Get("greeks")
		res.Valuation = &models.Valuation{
			Verdict:           str(r.Get("verdict")),
			PercentMispricing: num(r.Get("percent_mispricing")),
			MarketPrice:       num(r.Get("market_price")),
			ModelPrice:        num(r.Get("model_price")),
			VolatilityUsed:    num(r.Get("volatility_used")),
			UnderlyingPrice:   optNum(r.Get("underlying_price")),
			Greeks: models.Greeks{
				Delta: num(g.Get("delta")),
				Theta: num(g.Get("theta")),
				Vega:  num(g.Get("vega")),
				Rho:   num(g.Get("rho")),
			},
		}
	case models.KindGreeksProfile:
		p := &models.GreeksProfile{CurrentPrice: num(r.Get("current_price"))}
		each(r.Get("simulation"), func(s jsoniter.Any) {
			p.Simulation = append(p.Simulation, models.GreeksPoint{
				Price: num(s.Get("price")),
				Delta: num(s.Get("delta")),
				Theta: num(s.Get("theta")),
				Vega:  num(s.Get("vega")),
			})
		})
		res.Greeks = p
	case models.KindHedgingCalc:
		h := &models.HedgingProfile{
			ProtectionCost: num(r.Get("protection_cost")),
			EntryPrice:     num(r.Get("entry_price")),
		}
		each(r.Get("simulation"), func(s jsoniter.Any) {
			h.Simulation = append(h.Simulation, models.HedgePoint{
				StockPrice: num(s.Get("stock_price")),
				UnhedgedPL: num(s.Get("unhedged_pl")),
				HedgedPL:   num(s.Get("hedged_pl")),
			})
		})
		res.Hedging = h
	case models.KindVolSim:
		v := &models.VolatilitySweep{UnderlyingPrice: num(r.Get("underlying_price"))}
		each(r.Get("simulation"), func(s jsoniter.Any) {
			v.Simulation = append(v.Simulation, models.VolPoint{
				Volatility:  num(s.Get("volatility")),
				OptionPrice: num(s.Get("option_price")),
			})
		})
		res.Volatility = v
	case models.KindScenario:
		res.Scenario = &models.ScenarioProjection{
			FuturePrice:   num(r.Get("future_price")),
			CurrentPrice:  num(r.Get("current_price")),
			PL:            num(r.Get("pl")),
			PercentChange: num(r.Get("percent_change")),
		}
	case models.KindHeatmap:
		h := &models.RiskHeatmap{BasePrice: optNum(r.Get("base_price"))}
		each(r.Get("matrix"), func(row jsoniter.Any) {
			var cells []models.HeatCell
			each(row, func(c jsoniter.Any) {
				cells = append(cells, models.HeatCell{
					PL:  num(c.Get("pl")),
					Vol: num(c.Get("vol")),
				})
			})
			h.Matrix = append(h.Matrix, cells)
		})
		res.Heatmap = h
	}
	return res
}

// parseDetail extracts the engine's error detail, if it is a string.
func parseDetail(body []byte) string {
	return str(root(body).Get("detail"))
}
