// Package glossary holds the options vocabulary shown by the console.
package glossary

import "strings"

// Entry is a glossary term and its definition.
type Entry struct {
	Term       string
	Definition string
}

var entries = []Entry{
	{"Call Option", "A contract giving the right to BUY a stock at a set price."},
	{"Put Option", "A contract giving the right to SELL a stock at a set price."},
	{"Strike Price", "The specific price at which the option can be exercised."},
	{"Implied Volatility (IV)", "A forecast of how much the stock price is likely to move."},
	{"Delta", "How much an option price changes for every $1 move in the stock."},
	{"Theta", "How much value an option loses every day due to time decay."},
	{"Gamma", "The rate of change of Delta. Indicates risk stability."},
	{"Vega", "Sensitivity to changes in Volatility."},
	{"In The Money (ITM)", "An option that has intrinsic value (e.g., Strike < Stock Price for Calls)."},
}

// All returns every entry in display order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Filter returns the entries whose term contains query, ignoring case.
// Definitions are not searched. An empty query matches everything.
func Filter(query string) []Entry {
	q := strings.ToLower(query)
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Term), q) {
			out = append(out, e)
		}
	}
	return out
}
