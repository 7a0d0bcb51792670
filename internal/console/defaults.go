package console

import (
	"math"
	"strconv"
	"strings"

	"drawdown-console/internal/models"
)

// StrikePolicy derives a default strike from the underlying price.
type StrikePolicy int

const (
	// AtTheMoney floors the current price.
	AtTheMoney StrikePolicy = iota
	// ProtectivePut floors 95% of the current price.
	ProtectivePut
)

// Strike applies the policy to price.
func (p StrikePolicy) Strike(price float64) float64 {
	if p == ProtectivePut {
		return math.Floor(price * 0.95)
	}
	return math.Floor(price)
}

func (p StrikePolicy) String() string {
	if p == ProtectivePut {
		return "protective-put"
	}
	return "at-the-money"
}

// ApplyDefaults fills strike and expiry from snap. Each field is
// filled only while it is blank; a value the user typed is returned
// unchanged. Without a price nothing is defaulted, and without
// expirations expiry stays blank.
func ApplyDefaults(snap *models.InstrumentSnapshot, strike, expiry string, policy StrikePolicy) (string, string) {
	if !snap.HasPrice() {
		return strike, expiry
	}
	if isBlank(strike) {
		strike = FormatNumber(policy.Strike(snap.Price()))
	}
	if isBlank(expiry) {
		if first, ok := snap.NearestExpiry(); ok {
			expiry = first
		}
	}
	return strike, expiry
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FormatNumber renders a number the way it is shown in an input field.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseFinite parses an input field as a finite number.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
