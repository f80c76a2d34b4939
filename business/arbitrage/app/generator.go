// Package app wires the arbitrage domain math into the scan pipeline:
// generate candidate opportunities from a quote snapshot, select the best
// one, size it, and report the result.
package app

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/business/arbitrage/domain"
	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// GeneratorConfig tunes opportunity generation.
type GeneratorConfig struct {
	// Threshold is the minimum net return an opportunity must strictly
	// exceed to survive filtering.
	Threshold decimal.Decimal
	// MaxStalenessMS drops quotes older than this before any math runs.
	MaxStalenessMS int64
	// TradeAmount is the market-currency amount every candidate is costed
	// at. Sizing happens later, on the selected trade only.
	TradeAmount decimal.Decimal
}

// GenerateResult is one pair's worth of ranked opportunities plus the
// bookkeeping the caller needs for observability.
type GenerateResult struct {
	Ranked []domain.Opportunity
	// Considered counts the venue permutations actually costed.
	Considered int
	// StaleDropped counts quotes removed by the staleness filter.
	StaleDropped int
}

// Generator turns per-venue quote snapshots into a ranked list of
// above-threshold opportunities.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator builds a Generator. The config is trusted: Validate on the
// process config has already run.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate costs out every ordered (buy venue, sell venue) permutation for
// one pair and returns the ones whose net return strictly exceeds the
// threshold, best first.
//
// Venues without a fresh quote or without a fee schedule simply do not
// participate; that is expected operation, not an error. Output order is
// fully deterministic: net return desc, then net profit desc, then buy and
// sell venue names asc.
func (g *Generator) Generate(books map[string]marketdata.TopOfBook, tables domain.ReferenceTables, nowMS int64) (GenerateResult, error) {
	var res GenerateResult

	fresh := make(map[string]marketdata.TopOfBook, len(books))
	for venue, b := range books {
		if b.IsStale(nowMS, g.cfg.MaxStalenessMS) {
			res.StaleDropped++
			continue
		}
		fresh[venue] = b
	}

	venues := make([]string, 0, len(fresh))
	for v := range fresh {
		venues = append(venues, v)
	}
	sort.Strings(venues)

	for _, buyVenue := range venues {
		buySched, ok := tables.Schedule(buyVenue, fresh[buyVenue].Pair)
		if !ok {
			continue
		}
		for _, sellVenue := range venues {
			if sellVenue == buyVenue {
				continue
			}
			sellSched, ok := tables.Schedule(sellVenue, fresh[sellVenue].Pair)
			if !ok {
				continue
			}

			opp, err := domain.ComputeOpportunity(
				fresh[buyVenue], fresh[sellVenue],
				buySched, sellSched,
				g.cfg.TradeAmount, nowMS)
			if err != nil {
				return GenerateResult{}, err
			}
			res.Considered++

			if opp.ReturnNet.Cmp(g.cfg.Threshold) > 0 {
				res.Ranked = append(res.Ranked, opp)
			}
		}
	}

	sort.SliceStable(res.Ranked, func(i, j int) bool {
		a, b := res.Ranked[i], res.Ranked[j]
		if c := a.ReturnNet.Cmp(b.ReturnNet); c != 0 {
			return c > 0
		}
		if c := a.ProfitNet.Cmp(b.ProfitNet); c != 0 {
			return c > 0
		}
		if a.BuyVenue != b.BuyVenue {
			return a.BuyVenue < b.BuyVenue
		}
		return a.SellVenue < b.SellVenue
	})

	return res, nil
}
