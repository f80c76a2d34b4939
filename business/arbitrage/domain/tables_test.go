package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
)

func testTables() ReferenceTables {
	max := decimal.RequireFromString("3500")
	return NewTablesBuilder().
		AddTradingFee(krakenFee).
		AddTradingFee(coinbaseFee).
		AddWithdrawalFee(krakenBTCWithdrawal).
		AddAccuracy(TradingAccuracy{
			Venue:         "kraken",
			Pair:          testPair,
			PriceDecimals: 1,
			LotDecimals:   8,
			MinOrderSize:  decimal.RequireFromString("0.00005"),
			TickSize:      decimal.RequireFromString("0.1"),
			LotStep:       decimal.RequireFromString("0.00000001"),
		}).
		AddAccuracy(TradingAccuracy{
			Venue:        "coinbase",
			Pair:         testPair,
			MinOrderSize: decimal.RequireFromString("0.00000001"),
			MaxOrderSize: &max,
			TickSize:     decimal.RequireFromString("0.01"),
			LotStep:      decimal.RequireFromString("0.00000001"),
		}).
		Build()
}

func TestTablesLookup(t *testing.T) {
	tables := testTables()

	fee, ok := tables.TradingFee("kraken")
	if !ok || fee.PctFee.String() != "0.0026" {
		t.Errorf("kraken fee = %v ok=%v", fee, ok)
	}
	if _, ok := tables.TradingFee("binance"); ok {
		t.Error("unknown venue must not resolve")
	}
	if _, ok := tables.Withdrawal("kraken", "USD"); ok {
		t.Error("kraken/USD withdrawal was never registered")
	}
}

func TestScheduleAssembly(t *testing.T) {
	tables := testTables()

	s, ok := tables.Schedule("kraken", testPair)
	if !ok {
		t.Fatal("kraken BTC/USD schedule must resolve")
	}
	if s.BuyWithdrawal == nil || s.BuyWithdrawal.FlatFee.String() != "0.00005" {
		t.Errorf("buy withdrawal = %v", s.BuyWithdrawal)
	}
	// No USD withdrawal row registered.
	if s.SellWithdrawal != nil {
		t.Errorf("sell withdrawal = %v, want nil", s.SellWithdrawal)
	}
	if s.Accuracy.LotStep.String() != "0.00000001" {
		t.Errorf("lot step = %s", s.Accuracy.LotStep)
	}

	if _, ok := tables.Schedule("kraken", marketdata.MustParsePair("SOL/USDC")); ok {
		t.Error("schedule without an accuracy row must not resolve")
	}
}

func TestRequireWithinOrderBounds(t *testing.T) {
	tables := testTables()
	acc, _ := tables.Accuracy("coinbase", testPair)

	tests := []struct {
		name     string
		size     string
		wantCode apperror.Code
	}{
		{name: "ok", size: "1", wantCode: ""},
		{name: "at_min", size: "0.00000001", wantCode: ""},
		{name: "below_min", size: "0.000000001", wantCode: apperror.CodeBelowMinimumSize},
		{name: "at_max", size: "3500", wantCode: ""},
		{name: "above_max", size: "3500.1", wantCode: apperror.CodeAboveMaximumSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireWithinOrderBounds(decimal.RequireFromString(tt.size), acc)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if apperror.GetCode(err) != tt.wantCode {
				t.Errorf("code = %s, want %s", apperror.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestBoundsUnlimitedMax(t *testing.T) {
	tables := testTables()
	acc, _ := tables.Accuracy("kraken", testPair)

	if err := RequireWithinOrderBounds(decimal.RequireFromString("1000000"), acc); err != nil {
		t.Fatalf("no published max: any size above min is fine, got %v", err)
	}
}
