package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/business/arbitrage/domain"
	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/decimals"
)

// Constraint names the binding constraint that decided a trade's size.
// Logged with every sized trade so an operator can see at a glance what is
// holding size back: balances, displayed liquidity, the Kelly stake, or a
// risk cap.
type Constraint string

const (
	ConstraintKelly         Constraint = "kelly"
	ConstraintBuyBalance    Constraint = "buy_balance"
	ConstraintSellBalance   Constraint = "sell_balance"
	ConstraintBuyLiquidity  Constraint = "buy_liquidity"
	ConstraintSellLiquidity Constraint = "sell_liquidity"
	ConstraintBankrollCap   Constraint = "bankroll_cap"
	ConstraintMaxOrderSize  Constraint = "max_order_size"
)

// VenueBalances is the spendable balance on one venue, split by side of the
// pair: Base in the market currency, Quote in the quote currency.
type VenueBalances struct {
	Base  decimal.Decimal
	Quote decimal.Decimal
}

// TradeDecision is a selected opportunity with its final executable size.
type TradeDecision struct {
	Opportunity domain.Opportunity
	// Size is the market-currency amount, already floored to the venue's
	// lot step.
	Size decimal.Decimal
	// Limiting names which constraint produced Size.
	Limiting Constraint
	// KellyFraction is the capped fraction of bankroll the Kelly criterion
	// recommended, kept for reporting.
	KellyFraction decimal.Decimal
}

// SizerConfig tunes trade sizing.
type SizerConfig struct {
	// ProbSuccess is the estimated probability the round trip completes at
	// the quoted prices.
	ProbSuccess decimal.Decimal
	// KellyCap scales the raw Kelly fraction down (fractional Kelly),
	// e.g. 0.25 for quarter-Kelly.
	KellyCap decimal.Decimal
	// MaxBankrollFraction caps any single trade at this share of the buy
	// venue's quote bankroll, independent of what Kelly says.
	MaxBankrollFraction decimal.Decimal
	// MinBankroll refuses to size trades at all when the buy venue's quote
	// balance is below this floor.
	MinBankroll decimal.Decimal
}

// Sizer turns a selected opportunity into an executable size.
type Sizer struct {
	cfg SizerConfig
}

// NewSizer builds a Sizer from an already-validated config.
func NewSizer(cfg SizerConfig) *Sizer {
	return &Sizer{cfg: cfg}
}

// KellyFraction is the Kelly criterion for a binary bet with relative
// payoff edge and win probability prob:
//
//	f = (edge*prob - (1-prob)) / edge
//
// clamped to [0, 1]. A non-positive edge yields zero.
func KellyFraction(edge, prob decimal.Decimal) decimal.Decimal {
	if edge.Sign() <= 0 {
		return decimal.Zero
	}
	q := decimal.NewFromInt(1).Sub(prob)
	f := edge.Mul(prob).Sub(q).Div(edge)
	if f.Sign() < 0 {
		return decimal.Zero
	}
	if f.Cmp(decimal.NewFromInt(1)) > 0 {
		return decimal.NewFromInt(1)
	}
	return f
}

type sizeCandidate struct {
	constraint Constraint
	size       decimal.Decimal
}

// Size computes the executable market-currency size for opp.
//
// Every candidate limit is expressed in market-currency units and the
// smallest one wins; ties break in the candidates' declaration order so the
// outcome is deterministic. The result is floored to the buy venue's lot
// step and checked against its order bounds: a size below the venue minimum
// is a BELOW_MINIMUM_SIZE error (the trade is not executable), a size above
// the venue maximum is clamped, not rejected.
func (s *Sizer) Size(opp domain.Opportunity, buyBal, sellBal VenueBalances, acc domain.TradingAccuracy) (TradeDecision, error) {
	bankroll := buyBal.Quote
	if bankroll.Cmp(s.cfg.MinBankroll) < 0 {
		return TradeDecision{}, apperror.New(apperror.CodeBelowMinimumSize,
			apperror.WithContext(fmt.Sprintf("%s: bankroll %s below floor %s", opp.BuyVenue, bankroll, s.cfg.MinBankroll)))
	}

	buyPx := opp.BuyLeg.Price // positive by construction
	kelly := KellyFraction(opp.ReturnNet, s.cfg.ProbSuccess).Mul(s.cfg.KellyCap)

	candidates := []sizeCandidate{
		{ConstraintKelly, kelly.Mul(bankroll).Div(buyPx)},
		{ConstraintBuyBalance, bankroll.Div(buyPx)},
		{ConstraintSellBalance, sellBal.Base},
		{ConstraintBuyLiquidity, opp.BuyLeg.Liquidity},
		{ConstraintSellLiquidity, opp.SellLeg.Liquidity},
		{ConstraintBankrollCap, s.cfg.MaxBankrollFraction.Mul(bankroll).Div(buyPx)},
	}

	chosen := candidates[0]
	for _, c := range candidates[1:] {
		if c.size.Cmp(chosen.size) < 0 {
			chosen = c
		}
	}

	size, err := decimals.FloorToStep(chosen.size, acc.LotStep)
	if err != nil {
		return TradeDecision{}, err
	}
	limiting := chosen.constraint

	if acc.MaxOrderSize != nil && size.Cmp(*acc.MaxOrderSize) > 0 {
		size, err = decimals.FloorToStep(*acc.MaxOrderSize, acc.LotStep)
		if err != nil {
			return TradeDecision{}, err
		}
		limiting = ConstraintMaxOrderSize
	}

	if size.Cmp(acc.MinOrderSize) < 0 {
		return TradeDecision{}, apperror.New(apperror.CodeBelowMinimumSize,
			apperror.WithContext(fmt.Sprintf("%s %s: sized %s below venue minimum %s (limited by %s)",
				acc.Venue, acc.Pair, size, acc.MinOrderSize, limiting)))
	}

	return TradeDecision{
		Opportunity:   opp,
		Size:          size,
		Limiting:      limiting,
		KellyFraction: kelly,
	}, nil
}
