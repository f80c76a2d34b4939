package domain

import (
	"github.com/shopspring/decimal"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// Side is the direction of a trade leg.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Leg is one fully-costed side of an arbitrage round trip: a buy at one
// venue's ask or a sell at another venue's bid, for a fixed amount of the
// market currency. All monetary fields are in the quote currency except
// WithdrawalAmt on a buy leg, which is charged in the market currency.
//
// Legs are computed by NewBuyLeg / NewSellLeg and then read-only.
type Leg struct {
	Venue string
	Pair  marketdata.Pair
	Side  Side

	Price     decimal.Decimal // execution price (ask for buy, bid for sell)
	Amount    decimal.Decimal // market currency amount
	Liquidity decimal.Decimal // displayed size at Price

	Base          decimal.Decimal // Amount * Price, before any fee
	TradingFee    decimal.Decimal // pct + flat trading fee, quote currency
	WithdrawalAmt decimal.Decimal // see struct comment for denomination
}

// NewBuyLeg costs out buying amount units at price on venue.
//
//	base        = amount * price
//	trading fee = base * pct + flat
//	withdrawal  = wFlat + amount * wPct   (market currency)
func NewBuyLeg(venue string, pair marketdata.Pair, price, amount, liquidity decimal.Decimal, fee TradingFeeRate, w *WithdrawalFee) Leg {
	base := amount.Mul(price)
	leg := Leg{
		Venue:      venue,
		Pair:       pair,
		Side:       SideBuy,
		Price:      price,
		Amount:     amount,
		Liquidity:  liquidity,
		Base:       base,
		TradingFee: base.Mul(fee.PctFee).Add(fee.FlatFee),
	}
	if w != nil {
		leg.WithdrawalAmt = w.FlatFee.Add(amount.Mul(w.PctFee))
	}
	return leg
}

// NewSellLeg costs out selling amount units at price on venue.
//
//	base         = amount * price
//	trading fee  = base * pct + flat
//	withdrawal   = wFlat + gross proceeds * wPct   (quote currency)
func NewSellLeg(venue string, pair marketdata.Pair, price, amount, liquidity decimal.Decimal, fee TradingFeeRate, w *WithdrawalFee) Leg {
	base := amount.Mul(price)
	leg := Leg{
		Venue:      venue,
		Pair:       pair,
		Side:       SideSell,
		Price:      price,
		Amount:     amount,
		Liquidity:  liquidity,
		Base:       base,
		TradingFee: base.Mul(fee.PctFee).Add(fee.FlatFee),
	}
	if w != nil {
		leg.WithdrawalAmt = w.FlatFee.Add(leg.GrossProceeds().Mul(w.PctFee))
	}
	return leg
}

// GrossCost is the quote spent on a buy leg including the trading fee:
// amount * price * (1 + pct) + flat.
func (l Leg) GrossCost() decimal.Decimal {
	return l.Base.Add(l.TradingFee)
}

// NetCost adds the withdrawal cost to GrossCost. The withdrawal is charged
// in the market currency, so it is valued at the leg's own price.
func (l Leg) NetCost() decimal.Decimal {
	return l.GrossCost().Add(l.WithdrawalAmt.Mul(l.Price))
}

// GrossProceeds is the quote received on a sell leg after the trading fee:
// amount * price * (1 - pct) - flat.
func (l Leg) GrossProceeds() decimal.Decimal {
	return l.Base.Sub(l.TradingFee)
}

// NetProceeds subtracts the quote-currency withdrawal cost from
// GrossProceeds.
func (l Leg) NetProceeds() decimal.Decimal {
	return l.GrossProceeds().Sub(l.WithdrawalAmt)
}
