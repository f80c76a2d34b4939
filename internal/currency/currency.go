// Package currency provides a type-safe model for the crypto and fiat
// currencies the scanner trades. Symbols are identity here: US venues quote
// spot pairs by ticker symbol, and USD and USDC are distinct currencies that
// are never implicitly convertible.
package currency

// Currency represents the metadata of a crypto or fiat currency.
type Currency struct {
	symbol   string
	name     string
	decimals uint8
	fiat     bool
}

// New creates a new Currency with the given parameters.
func New(symbol, name string, decimals uint8, fiat bool) *Currency {
	if symbol == "" {
		panic("currency: empty symbol")
	}
	if decimals > 18 {
		panic("currency: suspicious decimals (>18)")
	}

	return &Currency{
		symbol:   symbol,
		name:     name,
		decimals: decimals,
		fiat:     fiat,
	}
}

// Symbol returns the ticker symbol (e.g., "BTC", "USDC").
func (c *Currency) Symbol() string {
	return c.symbol
}

// Name returns the human-readable name (e.g., "Bitcoin", "USD Coin").
func (c *Currency) Name() string {
	if c.name == "" {
		return c.symbol
	}
	return c.name
}

// Decimals returns the display precision.
func (c *Currency) Decimals() uint8 {
	return c.decimals
}

// IsFiat returns true for fiat currencies.
func (c *Currency) IsFiat() bool {
	return c.fiat
}

// String returns a human-readable representation.
func (c *Currency) String() string {
	return c.symbol
}

// Equals compares two currencies by symbol.
func (c *Currency) Equals(other *Currency) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.symbol == other.symbol
}
