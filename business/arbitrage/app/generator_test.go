package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/business/arbitrage/domain"
	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

var btcusd = marketdata.MustParsePair("BTC/USD")

func book(t *testing.T, venue, bidPx, askPx string, tsMS int64) marketdata.TopOfBook {
	t.Helper()
	b, err := marketdata.NewTopOfBook(venue, btcusd,
		decimal.RequireFromString(bidPx), decimal.NewFromInt(5),
		decimal.RequireFromString(askPx), decimal.NewFromInt(5),
		tsMS, 0)
	if err != nil {
		t.Fatalf("NewTopOfBook: %v", err)
	}
	return b
}

func feeTables(t *testing.T, pctByVenue map[string]string) domain.ReferenceTables {
	t.Helper()
	b := domain.NewTablesBuilder()
	for venue, pct := range pctByVenue {
		b.AddTradingFee(domain.TradingFeeRate{
			Venue:   venue,
			PctFee:  decimal.RequireFromString(pct),
			FlatFee: decimal.Zero,
		})
		b.AddAccuracy(domain.TradingAccuracy{
			Venue:        venue,
			Pair:         btcusd,
			MinOrderSize: decimal.RequireFromString("0.00005"),
			TickSize:     decimal.RequireFromString("0.1"),
			LotStep:      decimal.RequireFromString("0.00000001"),
		})
	}
	return b.Build()
}

func TestGenerate(t *testing.T) {
	const now = 1_700_000_010_000

	gen := NewGenerator(GeneratorConfig{
		Threshold:      decimal.RequireFromString("0.0001"),
		MaxStalenessMS: 5_000,
		TradeAmount:    decimal.NewFromInt(1),
	})
	tables := feeTables(t, map[string]string{"kraken": "0.0026", "coinbase": "0.006"})

	books := map[string]marketdata.TopOfBook{
		"kraken":   book(t, "kraken", "29990", "30000", now-1_000),
		"coinbase": book(t, "coinbase", "30500", "30510", now-2_000),
		// 10s old, must be dropped before any math runs.
		"gemini": book(t, "gemini", "30100", "30110", now-10_000),
	}

	res, err := gen.Generate(books, tables, now)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.StaleDropped != 1 {
		t.Errorf("stale dropped = %d, want 1", res.StaleDropped)
	}
	// Two fresh venues: two ordered permutations.
	if res.Considered != 2 {
		t.Errorf("considered = %d, want 2", res.Considered)
	}
	// Only buy-kraken / sell-coinbase clears fees.
	if len(res.Ranked) != 1 {
		t.Fatalf("ranked = %d opportunities, want 1", len(res.Ranked))
	}
	best := res.Ranked[0]
	if best.BuyVenue != "kraken" || best.SellVenue != "coinbase" {
		t.Errorf("best = buy %s sell %s", best.BuyVenue, best.SellVenue)
	}
	// (30500*0.994 - 30000*1.0026) / (30000*1.0026) = 239/30078
	if got := best.ReturnNet.Round(6).String(); got != "0.007946" {
		t.Errorf("return_net = %s, want 0.007946", got)
	}
}

func TestGenerateThresholdIsStrict(t *testing.T) {
	// Zero fees, 100 -> 101: net return is exactly 0.01.
	tables := feeTables(t, map[string]string{"alpha": "0", "beta": "0"})
	books := map[string]marketdata.TopOfBook{
		"alpha": book(t, "alpha", "99.9", "100", 1_000),
		"beta":  book(t, "beta", "101", "101.1", 1_000),
	}

	atLimit := NewGenerator(GeneratorConfig{
		Threshold:      decimal.RequireFromString("0.01"),
		MaxStalenessMS: 5_000,
		TradeAmount:    decimal.NewFromInt(1),
	})
	res, err := atLimit.Generate(books, tables, 1_000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Ranked) != 0 {
		t.Errorf("return equal to the threshold must not qualify, got %d", len(res.Ranked))
	}

	below := NewGenerator(GeneratorConfig{
		Threshold:      decimal.RequireFromString("0.009999"),
		MaxStalenessMS: 5_000,
		TradeAmount:    decimal.NewFromInt(1),
	})
	res, err = below.Generate(books, tables, 1_000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Ranked) != 1 {
		t.Errorf("return above the threshold must qualify, got %d", len(res.Ranked))
	}
}

func TestGenerateDeterministicOrder(t *testing.T) {
	// beta and gamma quote the identical book, so selling to either yields
	// the same return; the tie must break on sell venue name.
	tables := feeTables(t, map[string]string{"alpha": "0", "beta": "0", "gamma": "0"})
	books := map[string]marketdata.TopOfBook{
		"alpha": book(t, "alpha", "99.9", "100", 1_000),
		"beta":  book(t, "beta", "101", "101.1", 1_000),
		"gamma": book(t, "gamma", "101", "101.1", 1_000),
	}
	gen := NewGenerator(GeneratorConfig{
		Threshold:      decimal.RequireFromString("0.001"),
		MaxStalenessMS: 5_000,
		TradeAmount:    decimal.NewFromInt(1),
	})

	first, err := gen.Generate(books, tables, 1_000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(first.Ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(first.Ranked))
	}
	if first.Ranked[0].SellVenue != "beta" || first.Ranked[1].SellVenue != "gamma" {
		t.Errorf("tie must break on sell venue asc, got %s then %s",
			first.Ranked[0].SellVenue, first.Ranked[1].SellVenue)
	}

	// Same inputs, same output, every time.
	second, err := gen.Generate(books, tables, 1_000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range first.Ranked {
		if first.Ranked[i].BuyVenue != second.Ranked[i].BuyVenue ||
			first.Ranked[i].SellVenue != second.Ranked[i].SellVenue {
			t.Fatalf("run %d differs at index %d", 2, i)
		}
	}
}

func TestGenerateSkipsVenueWithoutSchedule(t *testing.T) {
	tables := feeTables(t, map[string]string{"alpha": "0"})
	books := map[string]marketdata.TopOfBook{
		"alpha": book(t, "alpha", "99.9", "100", 1_000),
		// No fee row for delta: it cannot participate.
		"delta": book(t, "delta", "101", "101.1", 1_000),
	}
	gen := NewGenerator(GeneratorConfig{
		Threshold:      decimal.RequireFromString("0.0001"),
		MaxStalenessMS: 5_000,
		TradeAmount:    decimal.NewFromInt(1),
	})

	res, err := gen.Generate(books, tables, 1_000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Considered != 0 || len(res.Ranked) != 0 {
		t.Errorf("considered=%d ranked=%d, want 0/0", res.Considered, len(res.Ranked))
	}
}

func TestSelectTrade(t *testing.T) {
	if _, ok := SelectTrade(nil); ok {
		t.Error("empty list must select nothing")
	}

	opps := []domain.Opportunity{
		{BuyVenue: "kraken", SellVenue: "coinbase"},
		{BuyVenue: "coinbase", SellVenue: "kraken"},
	}
	best, ok := SelectTrade(opps)
	if !ok || best.BuyVenue != "kraken" {
		t.Errorf("best = %v ok=%v, want first entry", best, ok)
	}
}
