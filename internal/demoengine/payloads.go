package demoengine

import (
	"math"

	"github.com/shopspring/decimal"
)

// Demo figures served regardless of the requested instrument.
const (
	DemoPrice          = 450.00
	demoUnderlying     = 100.0
	demoModelPrice     = 5.50
	demoProtectionCost = 250.0
	demoBasePrice      = 5.00
	mispricingBand     = 15.0
)

// DemoExpirations are the listed expiries of every demo instrument.
var DemoExpirations = []string{"2025-06-20", "2025-07-18", "2025-08-15"}

var demoHistory = []pricePoint{
	{Date: "2024-01-01", Price: 400},
	{Date: "2024-06-01", Price: 450},
}

type pricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type stockPayload struct {
	CurrentPrice float64      `json:"current_price"`
	ChartData    []pricePoint `json:"chart_data"`
	Expirations  []string     `json:"expirations"`
}

type quotePayload struct {
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	Volume            int64   `json:"volume"`
}

type chainPayload struct {
	Calls []quotePayload `json:"calls"`
	Puts  []quotePayload `json:"puts"`
}

type greeksPayload struct {
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

type analyzePayload struct {
	UnderlyingPrice   float64       `json:"underlying_price"`
	MarketPrice       float64       `json:"market_price"`
	ModelPrice        float64       `json:"model_price"`
	Verdict           string        `json:"verdict"`
	PercentMispricing float64       `json:"percent_mispricing"`
	VolatilityUsed    float64       `json:"volatility_used"`
	Greeks            greeksPayload `json:"greeks"`
}

type greeksPointPayload struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

type greeksProfilePayload struct {
	CurrentPrice float64              `json:"current_price"`
	Simulation   []greeksPointPayload `json:"simulation"`
}

type volPointPayload struct {
	Volatility  float64 `json:"volatility"`
	OptionPrice float64 `json:"option_price"`
}

type volSimPayload struct {
	UnderlyingPrice float64           `json:"underlying_price"`
	Simulation      []volPointPayload `json:"simulation"`
}

type hedgePointPayload struct {
	StockPrice float64 `json:"stock_price"`
	UnhedgedPL float64 `json:"unhedged_pl"`
	HedgedPL   float64 `json:"hedged_pl"`
}

type hedgingPayload struct {
	EntryPrice     float64             `json:"entry_price"`
	ProtectionCost float64             `json:"protection_cost"`
	Simulation     []hedgePointPayload `json:"simulation"`
}

type scenarioPayload struct {
	CurrentPrice  float64 `json:"current_price"`
	FuturePrice   float64 `json:"future_price"`
	PL            float64 `json:"pl"`
	PercentChange float64 `json:"percent_change"`
}

type heatCellPayload struct {
	StockPrice float64 `json:"stock_price"`
	Vol        float64 `json:"vol"`
	PL         float64 `json:"pl"`
}

type heatmapPayload struct {
	Matrix    [][]heatCellPayload `json:"matrix"`
	BasePrice float64             `json:"base_price"`
}

// analysisRequest mirrors the union of every simulation request body.
type analysisRequest struct {
	Ticker      string  `json:"ticker"`
	Strike      float64 `json:"strike"`
	Expiry      string  `json:"expiry"`
	OptionType  string  `json:"option_type"`
	MarketPrice float64 `json:"market_price"`
	Shares      int     `json:"shares"`
	TargetPrice float64 `json:"target_price"`
	TargetVol   float64 `json:"target_vol"`
	DaysAhead   int     `json:"days_ahead"`
}

func round(f float64, places int32) float64 {
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

func stock() stockPayload {
	return stockPayload{
		CurrentPrice: DemoPrice,
		ChartData:    demoHistory,
		Expirations:  DemoExpirations,
	}
}

func knownExpiry(expiry string) bool {
	for _, e := range DemoExpirations {
		if e == expiry {
			return true
		}
	}
	return false
}

// chain lists strikes 10 apart around the demo price. Unknown expiries
// get an empty chain.
func chain(expiry string) chainPayload {
	out := chainPayload{Calls: []quotePayload{}, Puts: []quotePayload{}}
	if !knownExpiry(expiry) {
		return out
	}
	for strike := DemoPrice - 50; strike <= DemoPrice+50; strike += 10 {
		dist := math.Abs(strike - DemoPrice)
		extrinsic := 8 - dist*0.08
		iv := round(0.25+dist*0.002, 4)
		vol := int64(5000 - dist*80)
		out.Calls = append(out.Calls, quotePayload{
			Strike:            strike,
			LastPrice:         round(math.Max(DemoPrice-strike, 0)+extrinsic, 2),
			ImpliedVolatility: iv,
			Volume:            vol,
		})
		out.Puts = append(out.Puts, quotePayload{
			Strike:            strike,
			LastPrice:         round(math.Max(strike-DemoPrice, 0)+extrinsic, 2),
			ImpliedVolatility: iv,
			Volume:            vol / 2,
		})
	}
	return out
}

// analyze values the contract at the demo model price and grades the
// market price against it with a 15% band.
func analyze(req analysisRequest) analyzePayload {
	diff := (req.MarketPrice - demoModelPrice) / demoModelPrice * 100
	if req.MarketPrice == 0 {
		diff = 0
	}
	verdict := "FAIRLY PRICED"
	switch {
	case diff > mispricingBand:
		verdict = "EXPENSIVE"
	case diff < -mispricingBand:
		verdict = "CHEAP"
	}
	return analyzePayload{
		UnderlyingPrice:   demoUnderlying,
		MarketPrice:       req.MarketPrice,
		ModelPrice:        demoModelPrice,
		Verdict:           verdict,
		PercentMispricing: round(diff, 1),
		VolatilityUsed:    40,
		Greeks:            greeksPayload{Delta: 0.5, Theta: -0.1, Vega: 0.2, Rho: 0.05},
	}
}

// greeksProfile samples 21 prices from -20% to +20% with a sigmoid delta.
func greeksProfile() greeksProfilePayload {
	start, end := demoUnderlying*0.8, demoUnderlying*1.2
	step := (end - start) / 20
	points := make([]greeksPointPayload, 0, 21)
	for i := 0; i <= 20; i++ {
		p := start + float64(i)*step
		norm := (p - start) / (end - start)
		points = append(points, greeksPointPayload{
			Price: round(p, 2),
			Delta: round(1/(1+math.Exp(-10*(norm-0.5))), 2),
			Theta: round(-0.05-0.1*norm, 2),
			Vega:  round(0.2*math.Exp(-5*(norm-0.5)*(norm-0.5)), 2),
		})
	}
	return greeksProfilePayload{CurrentPrice: demoUnderlying, Simulation: points}
}

func volSim() volSimPayload {
	points := make([]volPointPayload, 0, 15)
	for v := 10; v < 160; v += 10 {
		points = append(points, volPointPayload{
			Volatility:  float64(v),
			OptionPrice: round(demoUnderlying*0.05+float64(v)*0.1, 2),
		})
	}
	return volSimPayload{UnderlyingPrice: demoUnderlying, Simulation: points}
}

// hedging walks the price from +5% down to -20% of entry. The put
// costs 200 above entry and pays below 98% of it.
func hedging() hedgingPayload {
	entry := demoUnderlying
	start, end := entry*1.05, entry*0.8
	step := (end - start) / 20
	points := make([]hedgePointPayload, 0, 21)
	for i := 0; i <= 20; i++ {
		curr := start + float64(i)*step
		stockPL := (curr - entry) * 100
		putGain := -200.0
		if curr < entry {
			putGain = math.Max(0, (entry*0.98-curr)*100)
		}
		points = append(points, hedgePointPayload{
			StockPrice: round(curr, 2),
			UnhedgedPL: round(stockPL, 2),
			HedgedPL:   round(stockPL+putGain, 2),
		})
	}
	return hedgingPayload{EntryPrice: entry, ProtectionCost: demoProtectionCost, Simulation: points}
}

func scenario(req analysisRequest) scenarioPayload {
	now := 5.0
	future := now + (req.TargetPrice-400)*0.05 + (req.TargetVol-40)*0.1
	return scenarioPayload{
		CurrentPrice:  round(now, 2),
		FuturePrice:   round(future, 2),
		PL:            round((future-now)*100, 2),
		PercentChange: 15.5,
	}
}

var heatmapShifts = []float64{0.9, 0.95, 1.0, 1.05, 1.1}

// heatmap is zero at the centre column of the 40% row and grows toward
// the edges.
func heatmap() heatmapPayload {
	var matrix [][]heatCellPayload
	for vol := 30; vol <= 50; vol += 5 {
		row := make([]heatCellPayload, 0, len(heatmapShifts))
		for i, mult := range heatmapShifts {
			row = append(row, heatCellPayload{
				StockPrice: round(demoUnderlying*mult, 2),
				Vol:        float64(vol),
				PL:         float64((i-2)*50 + (vol-40)*10),
			})
		}
		matrix = append(matrix, row)
	}
	return heatmapPayload{Matrix: matrix, BasePrice: demoBasePrice}
}
