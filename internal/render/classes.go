package render

import "strings"

// Class is the colour class of a figure.
type Class int

const (
	Neutral Class = iota
	Positive
	StronglyPositive
	Negative
	StronglyNegative
)

func (c Class) String() string {
	switch c {
	case Positive:
		return "positive"
	case StronglyPositive:
		return "strongly positive"
	case Negative:
		return "negative"
	case StronglyNegative:
		return "strongly negative"
	}
	return "neutral"
}

// HeatClass classifies a heatmap P&L value. Zero falls into negative.
func HeatClass(pl float64) Class {
	switch {
	case pl > 50:
		return StronglyPositive
	case pl > 0:
		return Positive
	case pl < -50:
		return StronglyNegative
	default:
		return Negative
	}
}

// VerdictClass classifies a valuation verdict.
func VerdictClass(verdict string) Class {
	switch {
	case strings.Contains(verdict, "CHEAP"):
		return Positive
	case strings.Contains(verdict, "EXPENSIVE"):
		return Negative
	default:
		return Neutral
	}
}

// PLClass classifies a profit or loss.
func PLClass(pl float64) Class {
	switch {
	case pl > 0:
		return Positive
	case pl < 0:
		return Negative
	default:
		return Neutral
	}
}
