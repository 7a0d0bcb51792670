// Package models provides domain models for the analytics console.
package models

import (
	"time"
)

// OptionSide represents the side of an option contract.
type OptionSide string

const (
	Call OptionSide = "call"
	Put  OptionSide = "put"
)

// ChartPoint is one point of an underlying's price history.
type ChartPoint struct {
	Date  string
	Price float64
}

// InstrumentSnapshot is the resolved state of an underlying.
// A snapshot is replaced wholesale on every resolution and never patched.
type InstrumentSnapshot struct {
	Ticker       string
	CurrentPrice *float64
	// Expirations keep the engine's order; they are never re-sorted.
	Expirations []string
	ChartSeries []ChartPoint
	ResolvedAt  time.Time
}

// HasPrice reports whether the engine sent a usable current price.
func (s *InstrumentSnapshot) HasPrice() bool {
	return s != nil && s.CurrentPrice != nil && *s.CurrentPrice > 0
}

// Price returns the current price or zero.
func (s *InstrumentSnapshot) Price() float64 {
	if s == nil || s.CurrentPrice == nil {
		return 0
	}
	return *s.CurrentPrice
}

// NearestExpiry returns the first listed expiration, if any.
func (s *InstrumentSnapshot) NearestExpiry() (string, bool) {
	if s == nil || len(s.Expirations) == 0 {
		return "", false
	}
	return s.Expirations[0], true
}

// User is a local account.
type User struct {
	AccountID   string
	FirstName   string
	LastName    string
	DateOfBirth string
	CreatedAt   time.Time
}

// DisplayName returns the name shown in the console header.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" && u.LastName == "" {
		return u.AccountID
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// PopularAsset is an entry of the ticker picker.
type PopularAsset struct {
	Ticker string
	Name   string
}

// PopularAssets lists the picker entries in display order.
var PopularAssets = []PopularAsset{
	{"SPY", "S&P 500 ETF"},
	{"AAPL", "Apple Inc."},
	{"NVDA", "NVIDIA Corp."},
	{"MSFT", "Microsoft"},
	{"GOOGL", "Alphabet (Google)"},
	{"AMZN", "Amazon.com"},
	{"TSLA", "Tesla Inc."},
	{"META", "Meta Platforms"},
	{"NFLX", "Netflix"},
	{"AMD", "Adv. Micro Devices"},
	{"DIS", "Walt Disney"},
	{"COIN", "Coinbase Global"},
}
