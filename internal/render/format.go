// Package render turns console state into text views: heatmap cells,
// verdict and P&L classes, chain rows, result summaries and PNG charts.
// It never talks to the engine.
package render

import (
	"github.com/shopspring/decimal"
)

// Num renders a number in its shortest exact form ("60", "12.5").
func Num(f float64) string {
	return decimal.NewFromFloat(f).String()
}

// Signed renders a number with a leading + when positive.
func Signed(f float64) string {
	if f > 0 {
		return "+" + Num(f)
	}
	return Num(f)
}

// Money renders an amount with two decimals ("$450.00").
func Money(f float64) string {
	d := decimal.NewFromFloat(f)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// SignedMoney renders a P&L amount ("+$12.50", "-$3.00").
func SignedMoney(f float64) string {
	if f > 0 {
		return "+" + Money(f)
	}
	return Money(f)
}

// Percent renders a percentage as sent by the engine ("30%").
func Percent(f float64) string {
	return Num(f) + "%"
}

// Fixed renders a number rounded to places decimals.
func Fixed(f float64, places int32) string {
	return decimal.NewFromFloat(f).StringFixed(places)
}
