package infra

import (
	"testing"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Venues: map[string]config.VenueConfig{
			"kraken": {
				Enabled:       true,
				TradingFeePct: "0.0026", TradingFeeFlat: "0",
				BalanceBase: "0.5", BalanceQuote: "10000",
			},
			"coinbase": {
				Enabled:       true,
				TradingFeePct: "0.006", TradingFeeFlat: "0",
			},
			"gemini": {
				Enabled: false,
			},
		},
		Withdrawals: []config.WithdrawalConfig{
			{Venue: "kraken", Currency: "BTC", FlatFee: "0.00005", PctFee: "0"},
		},
		Accuracy: []config.AccuracyConfig{
			{
				Venue: "kraken", Pair: "BTC/USD",
				PriceDecimals: 1, LotDecimals: 8,
				MinOrderSize: "0.00005", TickSize: "0.1", LotStep: "0.00000001",
			},
			{
				Venue: "coinbase", Pair: "BTC/USD",
				PriceDecimals: 2, LotDecimals: 8,
				MinOrderSize: "0.00000001", MaxOrderSize: "3500",
				TickSize: "0.01", LotStep: "0.00000001",
			},
		},
	}
}

func TestBuildTables(t *testing.T) {
	tables := BuildTables(testConfig())
	pair := domain.MustParsePair("BTC/USD")

	fee, ok := tables.TradingFee("kraken")
	if !ok || fee.PctFee.String() != "0.0026" {
		t.Errorf("kraken fee = %+v, ok = %v", fee, ok)
	}
	if _, ok := tables.TradingFee("gemini"); ok {
		t.Error("disabled venues must not get a fee row")
	}

	w, ok := tables.Withdrawal("kraken", "BTC")
	if !ok || w.FlatFee.String() != "0.00005" {
		t.Errorf("kraken BTC withdrawal = %+v, ok = %v", w, ok)
	}

	acc, ok := tables.Accuracy("coinbase", pair)
	if !ok {
		t.Fatal("coinbase accuracy row missing")
	}
	if acc.MaxOrderSize == nil || acc.MaxOrderSize.String() != "3500" {
		t.Errorf("coinbase max order size = %v", acc.MaxOrderSize)
	}

	acc, ok = tables.Accuracy("kraken", pair)
	if !ok {
		t.Fatal("kraken accuracy row missing")
	}
	if acc.MaxOrderSize != nil {
		t.Errorf("kraken publishes no maximum, got %s", acc.MaxOrderSize)
	}

	sched, ok := tables.Schedule("kraken", pair)
	if !ok {
		t.Fatal("kraken schedule must assemble")
	}
	if sched.BuyWithdrawal == nil {
		t.Error("buy withdrawal must come from the base currency row")
	}
	if sched.SellWithdrawal != nil {
		t.Error("no USD withdrawal row is configured")
	}
}

func TestBuildBalances(t *testing.T) {
	balances := BuildBalances(testConfig())

	if len(balances) != 2 {
		t.Fatalf("balances for %d venues, want 2", len(balances))
	}
	if got := balances["kraken"].Quote.String(); got != "10000" {
		t.Errorf("kraken quote = %s", got)
	}
	// Empty balance strings mean unfunded, not misconfigured.
	if !balances["coinbase"].Base.IsZero() || !balances["coinbase"].Quote.IsZero() {
		t.Errorf("coinbase balances = %+v, want zero", balances["coinbase"])
	}
}
