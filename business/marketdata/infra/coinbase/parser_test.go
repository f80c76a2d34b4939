package coinbase

import (
	"encoding/json"
	"testing"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
)

const sampleProductBook = `{
	"pricebook": {
		"product_id": "BTC-USD",
		"bids": [{"price": "69100.10", "size": "2.25"}],
		"asks": [{"price": "69113.00", "size": "1.50"}],
		"time": "2026-02-14T17:23:44.194522Z"
	}
}`

func TestParseProductBook(t *testing.T) {
	var resp productBookResponse
	if err := json.Unmarshal([]byte(sampleProductBook), &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	pair := domain.MustParsePair("BTC/USD")
	book, err := parseProductBook(resp, pair, 1_700_000_000_000)
	if err != nil {
		t.Fatalf("parseProductBook: %v", err)
	}

	if book.Venue != Venue || book.Pair != pair {
		t.Errorf("identity = %s %s", book.Venue, book.Pair)
	}
	if book.BidPx.String() != "69100.1" {
		t.Errorf("bid px = %s", book.BidPx)
	}
	if book.AskSz.String() != "1.5" {
		t.Errorf("ask sz = %s", book.AskSz)
	}
	if book.TSExchangeMS == 0 {
		t.Error("exchange time must be parsed from the pricebook")
	}
}

func TestParseProductBookRejections(t *testing.T) {
	pair := domain.MustParsePair("BTC/USD")

	tests := []struct {
		name     string
		body     string
		wantCode apperror.Code
	}{
		{name: "missing_pricebook", body: `{}`, wantCode: apperror.CodeMissingValue},
		{name: "empty_asks", body: `{"pricebook": {"bids": [{"price": "1", "size": "1"}], "asks": []}}`, wantCode: apperror.CodeMissingValue},
		{name: "bad_number", body: `{"pricebook": {"bids": [{"price": "x", "size": "1"}], "asks": [{"price": "2", "size": "1"}]}}`, wantCode: apperror.CodeInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp productBookResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			_, err := parseProductBook(resp, pair, 1)
			if apperror.GetCode(err) != tt.wantCode {
				t.Errorf("code = %s, want %s", apperror.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestParseProductBookBadTimeIsNotFatal(t *testing.T) {
	body := `{"pricebook": {"bids": [{"price": "1", "size": "1"}], "asks": [{"price": "2", "size": "1"}], "time": "garbage"}}`
	var resp productBookResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	book, err := parseProductBook(resp, domain.MustParsePair("BTC/USD"), 1)
	if err != nil {
		t.Fatalf("a bad exchange timestamp must not reject the quote: %v", err)
	}
	if book.TSExchangeMS != 0 {
		t.Errorf("ts_exchange = %d, want 0", book.TSExchangeMS)
	}
}

func TestStreamTickerParsing(t *testing.T) {
	raw := `{
		"channel": "ticker",
		"timestamp": "2026-02-14T17:23:44.19Z",
		"events": [{"tickers": [{
			"product_id": "BTC-USD",
			"best_bid": "69100.10",
			"best_bid_quantity": "2.25",
			"best_ask": "69113.00",
			"best_ask_quantity": "1.50"
		}]}]
	}`

	var msg tickerEventMsg
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Channel != "ticker" || len(msg.Events) != 1 || len(msg.Events[0].Tickers) != 1 {
		t.Fatalf("frame shape: %+v", msg)
	}
	tick := msg.Events[0].Tickers[0]
	if tick.BestBid != "69100.10" || tick.BestAskQty != "1.50" {
		t.Errorf("ticker = %+v", tick)
	}
	if _, ok := Symbols.Canonical(tick.ProductID); !ok {
		t.Errorf("product id %q must map to a canonical pair", tick.ProductID)
	}
}
