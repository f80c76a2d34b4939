// Package domain contains the core domain types for the arbitrage context:
// fee schedules, trade legs, and computed opportunities.
//
// Everything in this package is pure math on already-validated types. The
// validation boundary (internal/guard, the marketdata factories, the
// reference-table loader) runs before values get here; functions in this
// package trust their inputs and re-check nothing.
package domain

import (
	"github.com/shopspring/decimal"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// TradingFeeRate is a per-venue trading fee, applied identically to buy and
// sell legs. Flat fees are zero for every shipped venue but the math
// supports them.
type TradingFeeRate struct {
	Venue   string
	PctFee  decimal.Decimal // e.g. 0.0026 for Kraken taker
	FlatFee decimal.Decimal // in quote currency
}

// WithdrawalFee is a per-venue, per-currency withdrawal cost, denominated in
// the withdrawn currency.
type WithdrawalFee struct {
	Venue    string
	Currency string
	FlatFee  decimal.Decimal
	PctFee   decimal.Decimal
}

// TradingAccuracy captures a venue's precision constraints for one pair.
// Sourced from Kraken AssetPairs and Coinbase Products metadata.
type TradingAccuracy struct {
	Venue         string
	Pair          marketdata.Pair
	PriceDecimals int32
	LotDecimals   int32
	MinOrderSize  decimal.Decimal
	MaxOrderSize  *decimal.Decimal // nil when the venue publishes no maximum
	TickSize      decimal.Decimal  // price step
	LotStep       decimal.Decimal  // volume step
}

// FeeSchedule bundles the complete fee and accuracy context for one
// (venue, pair) combination. Built once at startup, reused every cycle.
type FeeSchedule struct {
	BuyFee         TradingFeeRate
	SellFee        TradingFeeRate
	BuyWithdrawal  *WithdrawalFee // withdrawal of market currency off the buy venue
	SellWithdrawal *WithdrawalFee // withdrawal of quote currency off the sell venue
	Accuracy       TradingAccuracy
}
