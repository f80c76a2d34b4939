// Package coinbase fetches top-of-book quotes from the Coinbase Advanced
// Trade API, over REST and over the market-data websocket.
package coinbase

import (
	"github.com/arbscan/arbscan/business/marketdata/domain"
)

// Venue is the canonical venue name.
const Venue = "coinbase"

// Symbols maps canonical pairs onto Coinbase product ids.
var Symbols = domain.NewSymbolTable(Venue, map[string]string{
	"BTC/USD":  "BTC-USD",
	"BTC/USDC": "BTC-USDC",
	"LTC/USD":  "LTC-USD",
	"LTC/USDC": "LTC-USDC",
	"LTC/BTC":  "LTC-BTC",
	"SOL/USD":  "SOL-USD",
	"SOL/USDC": "SOL-USDC",
	"SOL/BTC":  "SOL-BTC",
})
