package kraken

import (
	"encoding/json"
	"testing"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/logging"
)

const sampleTicker = `{
	"XXBTZUSD": {
		"a": ["69113.00000", "1", "1.500"],
		"b": ["69100.10000", "2", "2.250"]
	},
	"SOLUSD": {
		"a": ["150.20000", "10", "12.5"],
		"b": ["150.10000", "8", "9.0"]
	},
	"UNKNOWNPAIR": {
		"a": ["1.0", "1", "1"],
		"b": ["0.9", "1", "1"]
	},
	"XLTCZUSD": {
		"a": ["not-a-number", "1", "1"],
		"b": ["80.0", "1", "1"]
	}
}`

func TestParseTickers(t *testing.T) {
	var result map[string]tickerPayload
	if err := json.Unmarshal([]byte(sampleTicker), &result); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	books := parseTickers(result, 1_700_000_000_000, logging.Discard())

	// Unknown symbol and the malformed LTC entry are skipped, never fatal.
	if len(books) != 2 {
		t.Fatalf("parsed %d books, want 2", len(books))
	}

	btc := books[domain.MustParsePair("BTC/USD")]
	if btc.Venue != Venue {
		t.Errorf("venue = %q", btc.Venue)
	}
	if btc.AskPx.String() != "69113" {
		t.Errorf("ask px = %s", btc.AskPx)
	}
	// Displayed size is the lot volume at index 2, not the whole-lot field.
	if btc.AskSz.String() != "1.5" {
		t.Errorf("ask sz = %s, want 1.5", btc.AskSz)
	}
	if btc.BidSz.String() != "2.25" {
		t.Errorf("bid sz = %s, want 2.25", btc.BidSz)
	}
	if btc.TSLocalMS != 1_700_000_000_000 {
		t.Errorf("ts_local = %d", btc.TSLocalMS)
	}
	if btc.TSExchangeMS != 0 {
		t.Errorf("kraken ticker has no exchange time, got %d", btc.TSExchangeMS)
	}
}

func TestParseTickersShortArrays(t *testing.T) {
	result := map[string]tickerPayload{
		"XXBTZUSD": {Ask: []string{"69113.0"}, Bid: []string{"69100.0"}},
	}
	books := parseTickers(result, 1, logging.Discard())
	if len(books) != 0 {
		t.Fatalf("truncated arrays must be skipped, got %d books", len(books))
	}
}

func TestSymbolsRoundTrip(t *testing.T) {
	pair := domain.MustParsePair("BTC/USD")
	symbol, ok := Symbols.VenueSymbol(pair)
	if !ok || symbol != "XXBTZUSD" {
		t.Fatalf("symbol = %q ok=%v", symbol, ok)
	}
	back, ok := Symbols.Canonical(symbol)
	if !ok || back != pair {
		t.Fatalf("canonical = %v ok=%v", back, ok)
	}
}
