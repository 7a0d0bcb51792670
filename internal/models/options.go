package models

// ContractQuote represents a single tradable contract in a chain.
type ContractQuote struct {
	Strike    float64
	LastPrice float64
	Volume    int64
	Side      OptionSide
	// ImpliedVolatility is nil when the engine omits it.
	ImpliedVolatility *float64
}

// Chain holds the calls and puts of one (ticker, expiry).
type Chain struct {
	Ticker string
	Expiry string
	Calls  []ContractQuote
	Puts   []ContractQuote
}

// IsEmpty reports whether the chain has no contracts on either side.
func (c *Chain) IsEmpty() bool {
	return c == nil || (len(c.Calls) == 0 && len(c.Puts) == 0)
}

// Side returns the contracts of one side.
func (c *Chain) Side(side OptionSide) []ContractQuote {
	if c == nil {
		return nil
	}
	if side == Put {
		return c.Puts
	}
	return c.Calls
}
