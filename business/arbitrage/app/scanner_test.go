package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/logging"
)

func testScanner(t *testing.T, balances map[string]VenueBalances) *Scanner {
	t.Helper()
	gen := NewGenerator(GeneratorConfig{
		Threshold:      decimal.RequireFromString("0.001"),
		MaxStalenessMS: 5_000,
		TradeAmount:    decimal.NewFromInt(1),
	})
	sizer := NewSizer(SizerConfig{
		ProbSuccess:         decimal.RequireFromString("1"),
		KellyCap:            decimal.NewFromInt(1),
		MaxBankrollFraction: decimal.RequireFromString("0.5"),
		MinBankroll:         decimal.Zero,
	})
	tables := feeTables(t, map[string]string{"kraken": "0.0026", "coinbase": "0.006"})
	return NewScanner(gen, sizer, tables, balances)
}

func TestScanPairProducesDecision(t *testing.T) {
	const now = 1_700_000_010_000
	s := testScanner(t, map[string]VenueBalances{
		"kraken":   {Quote: decimal.NewFromInt(15000)},
		"coinbase": {Base: decimal.NewFromInt(2)},
	})

	books := map[string]marketdata.TopOfBook{
		"kraken":   book(t, "kraken", "29990", "30000", now-1_000),
		"coinbase": book(t, "coinbase", "30500", "30510", now-1_000),
	}

	report, err := s.ScanPair(btcusd, books, now)
	if err != nil {
		t.Fatalf("ScanPair: %v", err)
	}
	if report.Decision == nil {
		t.Fatalf("no decision; skip reason: %s", report.SkipReason)
	}
	if report.Decision.Opportunity.BuyVenue != "kraken" {
		t.Errorf("buy venue = %s", report.Decision.Opportunity.BuyVenue)
	}
	// Half of 15000 quote at the 30000 ask.
	if report.Decision.Size.String() != "0.25" {
		t.Errorf("size = %s, want 0.25", report.Decision.Size)
	}
	if report.Decision.Limiting != ConstraintBankrollCap {
		t.Errorf("limiting = %s", report.Decision.Limiting)
	}
}

func TestScanPairEmptyCycle(t *testing.T) {
	s := testScanner(t, nil)

	// Identical books on both venues: nothing clears fees.
	books := map[string]marketdata.TopOfBook{
		"kraken":   book(t, "kraken", "29990", "30000", 1_000),
		"coinbase": book(t, "coinbase", "29990", "30000", 1_000),
	}

	report, err := s.ScanPair(btcusd, books, 1_000)
	if err != nil {
		t.Fatalf("ScanPair: %v", err)
	}
	if report.Decision != nil {
		t.Fatal("no trade should qualify")
	}
	if report.SkipReason == "" {
		t.Error("empty cycle must carry a skip reason")
	}
}

func TestScanPairUnfundedIsSkipNotError(t *testing.T) {
	const now = 1_700_000_010_000
	// No balances at all: the best opportunity sizes to zero.
	s := testScanner(t, nil)

	books := map[string]marketdata.TopOfBook{
		"kraken":   book(t, "kraken", "29990", "30000", now-1_000),
		"coinbase": book(t, "coinbase", "30500", "30510", now-1_000),
	}

	report, err := s.ScanPair(btcusd, books, now)
	if err != nil {
		t.Fatalf("ScanPair: %v", err)
	}
	if report.Decision != nil {
		t.Fatal("unfunded venue must not produce a decision")
	}
	if len(report.Ranked) == 0 {
		t.Error("the opportunity itself is still reported")
	}
}

type fakeQuoteSource struct {
	snapshot map[marketdata.Pair]map[string]marketdata.TopOfBook
}

func (f *fakeQuoteSource) Snapshot(_ context.Context, _ []marketdata.Pair) (map[marketdata.Pair]map[string]marketdata.TopOfBook, error) {
	return f.snapshot, nil
}

type fakeReporter struct {
	cycles chan CycleReport
	trades chan TradeDecision
}

func (f *fakeReporter) ReportCycle(r CycleReport)   { f.cycles <- r }
func (f *fakeReporter) ReportTrade(d TradeDecision) { f.trades <- d }

func TestDetectorRunsCycles(t *testing.T) {
	now := time.Now().UnixMilli()
	s := testScanner(t, map[string]VenueBalances{
		"kraken":   {Quote: decimal.NewFromInt(15000)},
		"coinbase": {Base: decimal.NewFromInt(2)},
	})
	quotes := &fakeQuoteSource{snapshot: map[marketdata.Pair]map[string]marketdata.TopOfBook{
		btcusd: {
			"kraken":   book(t, "kraken", "29990", "30000", now),
			"coinbase": book(t, "coinbase", "30500", "30510", now),
		},
	}}
	reporter := &fakeReporter{
		cycles: make(chan CycleReport, 8),
		trades: make(chan TradeDecision, 8),
	}

	det, err := NewDetector(DetectorConfig{
		Pairs:    []marketdata.Pair{btcusd},
		Interval: time.Hour, // only the immediate first cycle matters here
	}, s, quotes, reporter, logging.Discard())
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- det.Run(ctx) }()

	select {
	case d := <-reporter.trades:
		if d.Opportunity.BuyVenue != "kraken" {
			t.Errorf("trade buy venue = %s", d.Opportunity.BuyVenue)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle never reported a trade")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
