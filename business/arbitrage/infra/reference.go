// Package infra contains infrastructure adapters for the arbitrage
// context: the reference-table loader and the console reporter.
package infra

import (
	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/business/arbitrage/app"
	"github.com/arbscan/arbscan/business/arbitrage/domain"
	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/config"
	"github.com/arbscan/arbscan/internal/decimals"
)

// BuildTables turns the validated config into the sealed fee, withdrawal
// and accuracy tables the calculation layer consumes. Config.Validate has
// proven every decimal parses, so MustFromString cannot panic here.
func BuildTables(cfg *config.Config) domain.ReferenceTables {
	b := domain.NewTablesBuilder()

	for name, venue := range cfg.Venues {
		if !venue.Enabled {
			continue
		}
		b.AddTradingFee(domain.TradingFeeRate{
			Venue:   name,
			PctFee:  decimals.MustFromString(venue.TradingFeePct),
			FlatFee: decimals.MustFromString(venue.TradingFeeFlat),
		})
	}

	for _, w := range cfg.Withdrawals {
		b.AddWithdrawalFee(domain.WithdrawalFee{
			Venue:    w.Venue,
			Currency: w.Currency,
			FlatFee:  decimals.MustFromString(w.FlatFee),
			PctFee:   decimals.MustFromString(w.PctFee),
		})
	}

	for _, a := range cfg.Accuracy {
		row := domain.TradingAccuracy{
			Venue:         a.Venue,
			Pair:          marketdata.MustParsePair(a.Pair),
			PriceDecimals: a.PriceDecimals,
			LotDecimals:   a.LotDecimals,
			MinOrderSize:  decimals.MustFromString(a.MinOrderSize),
			TickSize:      decimals.MustFromString(a.TickSize),
			LotStep:       decimals.MustFromString(a.LotStep),
		}
		if a.MaxOrderSize != "" {
			max := decimals.MustFromString(a.MaxOrderSize)
			row.MaxOrderSize = &max
		}
		b.AddAccuracy(row)
	}

	return b.Build()
}

// BuildBalances extracts the static per-venue balances from the config.
func BuildBalances(cfg *config.Config) map[string]app.VenueBalances {
	out := make(map[string]app.VenueBalances, len(cfg.Venues))
	for name, venue := range cfg.Venues {
		if !venue.Enabled {
			continue
		}
		out[name] = app.VenueBalances{
			Base:  orZero(venue.BalanceBase),
			Quote: orZero(venue.BalanceQuote),
		}
	}
	return out
}

func orZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return decimals.MustFromString(s)
}
