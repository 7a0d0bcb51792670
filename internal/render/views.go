package render

import (
	"fmt"
	"math"
	"strings"

	"drawdown-console/internal/models"
)

// Panel placeholders.
const (
	SelectExpiryText  = "Select Expiry"
	LoadingChainText  = "Loading Chain..."
	AwaitingInputText = "Awaiting input. Run a simulation to see results."
	EmptyResultText   = "The engine returned no data for these inputs."
	NoSnapshotText    = "Select a popular asset from the search bar or type a custom ticker."
)

// Line is one labelled figure of a summary.
type Line struct {
	Label string
	Value string
	Class Class
}

// ChainPlaceholder returns the chain panel text when no rows are shown.
// It returns "" when rows should be listed.
func ChainPlaceholder(expiry string, chain *models.Chain, side models.OptionSide) string {
	if len(chain.Side(side)) > 0 {
		return ""
	}
	if expiry == "" {
		return SelectExpiryText
	}
	return LoadingChainText
}

// ChainRow is one contract of the chain panel.
type ChainRow struct {
	Contract string
	Volume   string
	Price    string
	IV       string
}

// ChainRows renders one side of a chain.
func ChainRows(chain *models.Chain, side models.OptionSide) []ChainRow {
	quotes := chain.Side(side)
	rows := make([]ChainRow, 0, len(quotes))
	for _, q := range quotes {
		iv := "-"
		if q.ImpliedVolatility != nil {
			iv = Fixed(*q.ImpliedVolatility*100, 1) + "%"
		}
		rows = append(rows, ChainRow{
			Contract: fmt.Sprintf("%s %s", Num(q.Strike), strings.ToUpper(string(q.Side))),
			Volume:   fmt.Sprintf("Vol: %d", q.Volume),
			Price:    "$" + Num(q.LastPrice),
			IV:       iv,
		})
	}
	return rows
}

// SnapshotLines summarises a resolved instrument.
func SnapshotLines(s *models.InstrumentSnapshot) []Line {
	if s == nil {
		return nil
	}
	price := "-"
	if s.CurrentPrice != nil {
		price = Money(*s.CurrentPrice)
	}
	nearest, ok := s.NearestExpiry()
	if !ok {
		nearest = "-"
	}
	return []Line{
		{Label: "Ticker", Value: s.Ticker},
		{Label: "Price", Value: price},
		{Label: "Expirations", Value: fmt.Sprintf("%d", len(s.Expirations))},
		{Label: "Nearest Expiry", Value: nearest},
	}
}

// MispricingSentence explains a valuation's percent mispricing.
func MispricingSentence(v *models.Valuation) string {
	dir := "lower"
	if v.PercentMispricing > 0 {
		dir = "higher"
	}
	return fmt.Sprintf("The market price is %s%% %s than the theoretical Black-Scholes value.",
		Num(math.Abs(v.PercentMispricing)), dir)
}

// Summary returns the headline figures of a result.
func Summary(r *models.AnalysisResult) []Line {
	if r == nil {
		return nil
	}
	switch {
	case r.Valuation != nil:
		v := r.Valuation
		lines := []Line{
			{Label: "Verdict", Value: v.Verdict, Class: VerdictClass(v.Verdict)},
			{Label: "Market Price", Value: "$" + Num(v.MarketPrice)},
			{Label: "Model Price (Fair)", Value: "$" + Num(v.ModelPrice)},
			{Label: "Implied Volatility", Value: Percent(v.VolatilityUsed)},
			{Label: "Delta", Value: Num(v.Greeks.Delta)},
			{Label: "Theta", Value: Num(v.Greeks.Theta), Class: Negative},
			{Label: "Vega", Value: Num(v.Greeks.Vega), Class: Positive},
			{Label: "Rho", Value: Num(v.Greeks.Rho)},
		}
		if v.UnderlyingPrice != nil {
			lines = append(lines, Line{Label: "Underlying", Value: Money(*v.UnderlyingPrice)})
		}
		return lines
	case r.Greeks != nil:
		return []Line{
			{Label: "Current Price", Value: Money(r.Greeks.CurrentPrice)},
			{Label: "Samples", Value: fmt.Sprintf("%d", len(r.Greeks.Simulation))},
		}
	case r.Hedging != nil:
		return []Line{
			{Label: "Protection Cost", Value: "-$" + Num(r.Hedging.ProtectionCost), Class: Negative},
			{Label: "Entry Price", Value: "$" + Num(r.Hedging.EntryPrice)},
		}
	case r.Volatility != nil:
		return []Line{
			{Label: "Underlying Price", Value: "$" + Num(r.Volatility.UnderlyingPrice)},
		}
	case r.Scenario != nil:
		s := r.Scenario
		label, class := "Profit", Positive
		if s.PL < 0 {
			label, class = "Loss", Negative
		}
		pl := Num(s.PL)
		if s.PL >= 0 {
			pl = "+" + pl
		}
		return []Line{
			{Label: "Future Option Price", Value: "$" + Num(s.FuturePrice)},
			{Label: "Old Price", Value: "$" + Num(s.CurrentPrice)},
			{Label: label, Value: fmt.Sprintf("%s (%s%%)", pl, Num(s.PercentChange)), Class: class},
		}
	case r.Heatmap != nil && r.Heatmap.BasePrice != nil:
		return []Line{{Label: "Base Price", Value: Money(*r.Heatmap.BasePrice)}}
	}
	return nil
}

// Table is a header plus rows of cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// SeriesTable renders the sampled series of a result.
func SeriesTable(r *models.AnalysisResult) Table {
	if r == nil {
		return Table{}
	}
	switch {
	case r.Greeks != nil:
		t := Table{Headers: []string{"Price", "Delta", "Theta", "Vega"}}
		for _, p := range r.Greeks.Simulation {
			t.Rows = append(t.Rows, []string{Fixed(p.Price, 2), Fixed(p.Delta, 4), Fixed(p.Theta, 4), Fixed(p.Vega, 4)})
		}
		return t
	case r.Hedging != nil:
		t := Table{Headers: []string{"Stock Price", "Unhedged P&L", "Hedged P&L"}}
		for _, p := range r.Hedging.Simulation {
			t.Rows = append(t.Rows, []string{Fixed(p.StockPrice, 2), Fixed(p.UnhedgedPL, 2), Fixed(p.HedgedPL, 2)})
		}
		return t
	case r.Volatility != nil:
		t := Table{Headers: []string{"Volatility", "Option Price"}}
		for _, p := range r.Volatility.Simulation {
			t.Rows = append(t.Rows, []string{Percent(p.Volatility), Fixed(p.OptionPrice, 2)})
		}
		return t
	}
	return Table{}
}

// ResultPlaceholder returns the result panel text when nothing can be drawn.
// It returns "" when r has content.
func ResultPlaceholder(r *models.AnalysisResult) string {
	if r == nil {
		return AwaitingInputText
	}
	if r.IsEmpty() {
		return EmptyResultText
	}
	return ""
}
