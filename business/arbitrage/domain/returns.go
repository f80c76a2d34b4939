package domain

import (
	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/internal/apperror"
)

// ReturnRaw is the fee-blind relative return of buying at buyPx and selling
// at sellPx: (sellPx - buyPx) / buyPx. Negative when the trade loses money
// before fees; negative results are data, not errors.
func ReturnRaw(buyPx, sellPx decimal.Decimal) (decimal.Decimal, error) {
	if buyPx.IsZero() {
		return decimal.Decimal{}, apperror.New(apperror.CodeDivisionByZero,
			apperror.WithContext("return_raw: buy price is zero"))
	}
	return sellPx.Sub(buyPx).Div(buyPx), nil
}

// ReturnOnCost is the relative return of a round trip given its total cost
// and total proceeds: (proceeds - cost) / cost. It backs both the
// gross-of-withdrawal and net returns, which differ only in which cash
// flows they feed in.
func ReturnOnCost(cost, proceeds decimal.Decimal) (decimal.Decimal, error) {
	if cost.IsZero() {
		return decimal.Decimal{}, apperror.New(apperror.CodeDivisionByZero,
			apperror.WithContext("return_on_cost: cost is zero"))
	}
	return proceeds.Sub(cost).Div(cost), nil
}

// ProfitQuote is the absolute profit of a round trip in quote currency.
func ProfitQuote(cost, proceeds decimal.Decimal) decimal.Decimal {
	return proceeds.Sub(cost)
}
