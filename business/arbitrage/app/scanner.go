package app

import (
	"github.com/arbscan/arbscan/business/arbitrage/domain"
	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
)

// Scanner runs the full per-pair pipeline: staleness filter and opportunity
// generation, selection, then sizing against venue balances.
type Scanner struct {
	gen      *Generator
	sizer    *Sizer
	tables   domain.ReferenceTables
	balances map[string]VenueBalances
}

// NewScanner assembles the pipeline. balances maps venue name to spendable
// funds; venues absent from the map size as zero and so never trade.
func NewScanner(gen *Generator, sizer *Sizer, tables domain.ReferenceTables, balances map[string]VenueBalances) *Scanner {
	return &Scanner{gen: gen, sizer: sizer, tables: tables, balances: balances}
}

// CycleReport is everything one pair's scan produced, for reporting and
// metrics. Decision is nil when no trade qualified; SkipReason then says
// why in one short phrase.
type CycleReport struct {
	Pair         marketdata.Pair
	Ranked       []domain.Opportunity
	Considered   int
	StaleDropped int
	Decision     *TradeDecision
	SkipReason   string
}

// ScanPair runs one cycle for one pair over the venue books available.
//
// A cycle with no qualifying opportunity, or one whose selected trade sizes
// below the venue minimum, is a normal empty cycle. Errors escape only for
// defects: a calculation fault or a sizing failure other than the minimum-
// size rejection.
func (s *Scanner) ScanPair(pair marketdata.Pair, books map[string]marketdata.TopOfBook, nowMS int64) (CycleReport, error) {
	gen, err := s.gen.Generate(books, s.tables, nowMS)
	if err != nil {
		return CycleReport{}, err
	}

	report := CycleReport{
		Pair:         pair,
		Ranked:       gen.Ranked,
		Considered:   gen.Considered,
		StaleDropped: gen.StaleDropped,
	}

	best, ok := SelectTrade(gen.Ranked)
	if !ok {
		report.SkipReason = "no opportunity above threshold"
		return report, nil
	}

	acc, ok := s.tables.Accuracy(best.BuyVenue, pair)
	if !ok {
		// Generate only pairs venues with a full schedule, so a missing
		// accuracy row here is a table-construction bug.
		return CycleReport{}, apperror.New(apperror.CodeMissingAccuracy,
			apperror.WithContext(best.BuyVenue+" "+pair.String()))
	}

	decision, err := s.sizer.Size(best, s.balances[best.BuyVenue], s.balances[best.SellVenue], acc)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeBelowMinimumSize) {
			report.SkipReason = "selected trade sized below venue minimum"
			return report, nil
		}
		return CycleReport{}, err
	}

	report.Decision = &decision
	return report, nil
}
