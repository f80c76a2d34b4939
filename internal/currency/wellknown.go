package currency

// Well-known currencies (pre-created instances)
var (
	BTC = New("BTC", "Bitcoin", 8, false)
	LTC = New("LTC", "Litecoin", 8, false)
	SOL = New("SOL", "Solana", 9, false)

	USD  = New("USD", "US Dollar", 2, true)
	USDC = New("USDC", "USD Coin", 6, false)
)

// DefaultRegistry returns a registry pre-populated with the currencies the
// scanner's fixed pair universe is built from.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(BTC)
	r.Register(LTC)
	r.Register(SOL)
	r.Register(USD)
	r.Register(USDC)

	return r
}
