package app

import (
	"context"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// QuoteSource supplies the current top-of-book per venue for a set of
// pairs. The marketdata poller is the production implementation.
type QuoteSource interface {
	// Snapshot returns pair -> venue -> book. Venues that failed to answer
	// are simply absent.
	Snapshot(ctx context.Context, pairs []marketdata.Pair) (map[marketdata.Pair]map[string]marketdata.TopOfBook, error)
}

// Reporter receives scan results. Implementations must be safe for
// back-to-back calls from the detector loop.
type Reporter interface {
	ReportCycle(report CycleReport)
	ReportTrade(decision TradeDecision)
}
