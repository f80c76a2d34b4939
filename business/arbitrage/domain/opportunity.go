package domain

import (
	"github.com/shopspring/decimal"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// Opportunity is one fully-costed candidate round trip: buy the pair at one
// venue's ask, sell it at another venue's bid, at a fixed trade amount.
//
// Three returns ride along:
//
//	ReturnRaw — fee-blind, from prices alone
//	ReturnGrs — after trading fees, before withdrawal fees
//	ReturnNet — after trading and withdrawal fees
//
// Each is computed independently from its own cash flows, never derived by
// adjusting another.
type Opportunity struct {
	Pair      marketdata.Pair
	BuyVenue  string
	SellVenue string

	BuyLeg  Leg
	SellLeg Leg

	ReturnRaw decimal.Decimal
	ReturnGrs decimal.Decimal
	ReturnNet decimal.Decimal

	ProfitGrs decimal.Decimal // quote currency, before withdrawal fees
	ProfitNet decimal.Decimal // quote currency, all-in

	TSCalculatedMS int64
}

// ComputeOpportunity costs out the buy-at-ask / sell-at-bid round trip
// between two venues' books for amount units of the market currency.
//
// Inputs are trusted: the books come from NewTopOfBook and the schedules
// from the reference-table loader, both of which validate at construction.
// The only error path left is a division by zero, which validated inputs
// cannot trigger; it is surfaced rather than swallowed because reaching it
// means a bug upstream.
func ComputeOpportunity(buy, sell marketdata.TopOfBook, buySched, sellSched FeeSchedule, amount decimal.Decimal, nowMS int64) (Opportunity, error) {
	buyLeg := NewBuyLeg(buy.Venue, buy.Pair, buy.AskPx, amount, buy.AskSz, buySched.BuyFee, buySched.BuyWithdrawal)
	sellLeg := NewSellLeg(sell.Venue, sell.Pair, sell.BidPx, amount, sell.BidSz, sellSched.SellFee, sellSched.SellWithdrawal)

	raw, err := ReturnRaw(buy.AskPx, sell.BidPx)
	if err != nil {
		return Opportunity{}, err
	}
	grs, err := ReturnOnCost(buyLeg.GrossCost(), sellLeg.GrossProceeds())
	if err != nil {
		return Opportunity{}, err
	}
	net, err := ReturnOnCost(buyLeg.NetCost(), sellLeg.NetProceeds())
	if err != nil {
		return Opportunity{}, err
	}

	return Opportunity{
		Pair:           buy.Pair,
		BuyVenue:       buy.Venue,
		SellVenue:      sell.Venue,
		BuyLeg:         buyLeg,
		SellLeg:        sellLeg,
		ReturnRaw:      raw,
		ReturnGrs:      grs,
		ReturnNet:      net,
		ProfitGrs:      ProfitQuote(buyLeg.GrossCost(), sellLeg.GrossProceeds()),
		ProfitNet:      ProfitQuote(buyLeg.NetCost(), sellLeg.NetProceeds()),
		TSCalculatedMS: nowMS,
	}, nil
}
