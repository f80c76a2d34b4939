// Package kraken fetches top-of-book quotes from the Kraken public API.
package kraken

import (
	"github.com/arbscan/arbscan/business/marketdata/domain"
)

// Venue is the canonical venue name.
const Venue = "kraken"

// Symbols maps canonical pairs onto Kraken's legacy asset-pair codes.
var Symbols = domain.NewSymbolTable(Venue, map[string]string{
	"BTC/USD":  "XXBTZUSD",
	"BTC/USDC": "XBTUSDC",
	"LTC/USD":  "XLTCZUSD",
	"LTC/USDC": "LTCUSDC",
	"LTC/BTC":  "XLTCXXBT",
	"SOL/USD":  "SOLUSD",
	"SOL/USDC": "SOLUSDC",
	"SOL/BTC":  "SOLXBT",
})
