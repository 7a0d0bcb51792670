package models

import (
	"fmt"
	"strings"
)

// Kind identifies one of the simulation requests the engine serves.
type Kind string

const (
	KindAnalyze       Kind = "analyze"
	KindGreeksProfile Kind = "greeks-profile"
	KindHedgingCalc   Kind = "hedging-calc"
	KindVolSim        Kind = "vol-sim"
	KindScenario      Kind = "scenario"
	KindHeatmap       Kind = "heatmap"
)

// Kinds lists every simulation kind.
var Kinds = []Kind{
	KindAnalyze,
	KindGreeksProfile,
	KindHedgingCalc,
	KindVolSim,
	KindScenario,
	KindHeatmap,
}

// Path returns the engine route of the kind.
func (k Kind) Path() string {
	return "/api/" + string(k)
}

// ParseKind parses a kind name, accepting a few CLI-friendly aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analyze", "valuation":
		return KindAnalyze, nil
	case "greeks-profile", "greeks":
		return KindGreeksProfile, nil
	case "hedging-calc", "hedging", "hedge":
		return KindHedgingCalc, nil
	case "vol-sim", "vol", "volatility":
		return KindVolSim, nil
	case "scenario":
		return KindScenario, nil
	case "heatmap":
		return KindHeatmap, nil
	}
	return "", fmt.Errorf("unknown simulation kind %q", s)
}

// AnalysisParams are the inputs of one dispatch. They are built fresh per run.
type AnalysisParams struct {
	Kind        Kind
	Ticker      string
	Strike      float64
	Expiry      string
	OptionType  OptionSide
	MarketPrice float64
	Shares      int
	TargetPrice float64
	TargetVol   float64
	DaysAhead   int
}

// Greeks holds the sensitivities of a valued contract.
type Greeks struct {
	Delta float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Valuation is the Analyze result.
type Valuation struct {
	Verdict           string
	PercentMispricing float64
	MarketPrice       float64
	ModelPrice        float64
	VolatilityUsed    float64
	UnderlyingPrice   *float64
	Greeks            Greeks
}

// GreeksPoint is one sample of a Greeks profile.
type GreeksPoint struct {
	Price float64
	Delta float64
	Theta float64
	Vega  float64
}

// GreeksProfile is the greeks-profile result.
type GreeksProfile struct {
	CurrentPrice float64
	Simulation   []GreeksPoint
}

// HedgePoint is one sample of a hedging payoff.
type HedgePoint struct {
	StockPrice float64
	UnhedgedPL float64
	HedgedPL   float64
}

// HedgingProfile is the hedging-calc result.
type HedgingProfile struct {
	ProtectionCost float64
	EntryPrice     float64
	Simulation     []HedgePoint
}

// VolPoint is one sample of a volatility sweep.
type VolPoint struct {
	Volatility  float64
	OptionPrice float64
}

// VolatilitySweep is the vol-sim result.
type VolatilitySweep struct {
	UnderlyingPrice float64
	Simulation      []VolPoint
}

// ScenarioProjection is the scenario result.
type ScenarioProjection struct {
	FuturePrice   float64
	CurrentPrice  float64
	PL            float64
	PercentChange float64
}

// HeatCell is one cell of the risk heatmap.
type HeatCell struct {
	PL  float64
	Vol float64
}

// HeatmapColumns are the price-shift headers of every heatmap row.
var HeatmapColumns = []string{"-10%", "-5%", "0%", "+5%", "+10%"}

// RiskHeatmap is the heatmap result: one row per volatility level.
type RiskHeatmap struct {
	BasePrice *float64
	Matrix    [][]HeatCell
}

// AnalysisResult is a tagged union over the six result shapes.
// Exactly the field matching Kind is set.
type AnalysisResult struct {
	Kind       Kind
	Valuation  *Valuation
	Greeks     *GreeksProfile
	Hedging    *HedgingProfile
	Volatility *VolatilitySweep
	Scenario   *ScenarioProjection
	Heatmap    *RiskHeatmap
}

// IsEmpty reports whether the result carries nothing to draw.
func (r *AnalysisResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	switch r.Kind {
	case KindAnalyze:
		return r.Valuation == nil
	case KindGreeksProfile:
		return r.Greeks == nil || len(r.Greeks.Simulation) == 0
	case KindHedgingCalc:
		return r.Hedging == nil || len(r.Hedging.Simulation) == 0
	case KindVolSim:
		return r.Volatility == nil || len(r.Volatility.Simulation) == 0
	case KindScenario:
		return r.Scenario == nil
	case KindHeatmap:
		return r.Heatmap == nil || len(r.Heatmap.Matrix) == 0
	}
	return true
}
