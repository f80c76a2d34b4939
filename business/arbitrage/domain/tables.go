package domain

import (
	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// ReferenceTables holds the read-only fee, withdrawal and accuracy data
// loaded at process start. Tables are passed by value into every
// calculation call, never held as ambient global state, and a refresh means
// building a whole new set, not mutating rows.
type ReferenceTables struct {
	fees        map[string]TradingFeeRate
	withdrawals map[withdrawalKey]WithdrawalFee
	accuracy    map[accuracyKey]TradingAccuracy
}

type withdrawalKey struct {
	venue    string
	currency string
}

type accuracyKey struct {
	venue string
	pair  marketdata.Pair
}

// TablesBuilder accumulates rows and seals them into ReferenceTables.
type TablesBuilder struct {
	t ReferenceTables
}

// NewTablesBuilder creates an empty builder.
func NewTablesBuilder() *TablesBuilder {
	return &TablesBuilder{
		t: ReferenceTables{
			fees:        make(map[string]TradingFeeRate),
			withdrawals: make(map[withdrawalKey]WithdrawalFee),
			accuracy:    make(map[accuracyKey]TradingAccuracy),
		},
	}
}

// AddTradingFee records the trading fee for a venue.
func (b *TablesBuilder) AddTradingFee(f TradingFeeRate) *TablesBuilder {
	b.t.fees[f.Venue] = f
	return b
}

// AddWithdrawalFee records a withdrawal fee row.
func (b *TablesBuilder) AddWithdrawalFee(w WithdrawalFee) *TablesBuilder {
	b.t.withdrawals[withdrawalKey{w.Venue, w.Currency}] = w
	return b
}

// AddAccuracy records a precision row.
func (b *TablesBuilder) AddAccuracy(a TradingAccuracy) *TablesBuilder {
	b.t.accuracy[accuracyKey{a.Venue, a.Pair}] = a
	return b
}

// Build seals the tables. The builder must not be reused afterwards.
func (b *TablesBuilder) Build() ReferenceTables {
	return b.t
}

// TradingFee looks up the trading fee for a venue.
func (t ReferenceTables) TradingFee(venue string) (TradingFeeRate, bool) {
	f, ok := t.fees[venue]
	return f, ok
}

// Withdrawal looks up the withdrawal fee for (venue, currency).
func (t ReferenceTables) Withdrawal(venue, curr string) (WithdrawalFee, bool) {
	w, ok := t.withdrawals[withdrawalKey{venue, curr}]
	return w, ok
}

// Accuracy looks up the precision constraints for (venue, pair).
func (t ReferenceTables) Accuracy(venue string, pair marketdata.Pair) (TradingAccuracy, bool) {
	a, ok := t.accuracy[accuracyKey{venue, pair}]
	return a, ok
}

// Schedule assembles the FeeSchedule for trading pair on venue.
// The buy-side withdrawal moves the market currency off the venue, the
// sell-side withdrawal moves the quote currency.
func (t ReferenceTables) Schedule(venue string, pair marketdata.Pair) (FeeSchedule, bool) {
	fee, ok := t.TradingFee(venue)
	if !ok {
		return FeeSchedule{}, false
	}
	acc, ok := t.Accuracy(venue, pair)
	if !ok {
		return FeeSchedule{}, false
	}

	s := FeeSchedule{
		BuyFee:   fee,
		SellFee:  fee,
		Accuracy: acc,
	}
	if w, ok := t.Withdrawal(venue, pair.Base); ok {
		s.BuyWithdrawal = &w
	}
	if w, ok := t.Withdrawal(venue, pair.Quote); ok {
		s.SellWithdrawal = &w
	}
	return s, true
}

// Venues returns the venues with a trading-fee row, unordered.
func (t ReferenceTables) Venues() []string {
	out := make([]string, 0, len(t.fees))
	for v := range t.fees {
		out = append(out, v)
	}
	return out
}
