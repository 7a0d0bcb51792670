package render

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"drawdown-console/internal/models"
)

// ErrNoSeries is returned when a result has nothing to plot.
var ErrNoSeries = errors.New("result has no plottable series")

const (
	chartWidth  = 1024
	chartHeight = 512
)

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

func continuous(name string, xs, ys []float64, col drawing.Color) chart.ContinuousSeries {
	// go-chart cannot range a single point; widen it to a flat segment.
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0] + 1}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: lineStyle(col)}
}

// ResultChart builds the chart of a series result.
func ResultChart(r *models.AnalysisResult) (*chart.Chart, error) {
	if r == nil || r.IsEmpty() {
		return nil, ErrNoSeries
	}

	var (
		title  string
		xName  string
		series []chart.Series
	)
	switch {
	case r.Greeks != nil:
		n := len(r.Greeks.Simulation)
		xs, delta, theta, vega := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
		for i, p := range r.Greeks.Simulation {
			xs[i], delta[i], theta[i], vega[i] = p.Price, p.Delta, p.Theta, p.Vega
		}
		title, xName = "Greeks Profile", "Stock Price"
		series = []chart.Series{
			continuous("Delta", xs, delta, chart.ColorBlue),
			continuous("Theta", xs, theta, chart.ColorRed),
			continuous("Vega", xs, vega, chart.ColorGreen),
		}
	case r.Hedging != nil:
		n := len(r.Hedging.Simulation)
		xs, unhedged, hedged := make([]float64, n), make([]float64, n), make([]float64, n)
		for i, p := range r.Hedging.Simulation {
			xs[i], unhedged[i], hedged[i] = p.StockPrice, p.UnhedgedPL, p.HedgedPL
		}
		title, xName = "Hedging Payoff", "Stock Price"
		series = []chart.Series{
			continuous("Unhedged", xs, unhedged, chart.ColorRed),
			continuous("Hedged", xs, hedged, chart.ColorGreen),
		}
	case r.Volatility != nil:
		n := len(r.Volatility.Simulation)
		xs, ys := make([]float64, n), make([]float64, n)
		for i, p := range r.Volatility.Simulation {
			xs[i], ys[i] = p.Volatility, p.OptionPrice
		}
		title, xName = "Volatility Sweep", "Volatility (%)"
		series = []chart.Series{continuous("Option Price", xs, ys, chart.ColorBlue)}
	default:
		return nil, ErrNoSeries
	}

	ch := &chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: xName},
		YAxis:      chart.YAxis{Name: "Value"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch, nil
}

// SnapshotChart builds the price history chart of a snapshot.
func SnapshotChart(s *models.InstrumentSnapshot) (*chart.Chart, error) {
	if s == nil || len(s.ChartSeries) == 0 {
		return nil, ErrNoSeries
	}
	xs := make([]float64, len(s.ChartSeries))
	ys := make([]float64, len(s.ChartSeries))
	ticks := make([]chart.Tick, 0, len(s.ChartSeries))
	step := len(s.ChartSeries)/8 + 1
	for i, p := range s.ChartSeries {
		xs[i], ys[i] = float64(i), p.Price
		if i%step == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Date})
		}
	}
	ch := &chart.Chart{
		Title:      s.Ticker,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: "Date", Ticks: ticks},
		YAxis:      chart.YAxis{Name: "Price"},
		Series:     []chart.Series{continuous("Price", xs, ys, chart.ColorBlue)},
	}
	return ch, nil
}

// WritePNG renders ch as PNG into w.
func WritePNG(ch *chart.Chart, w io.Writer) error {
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
