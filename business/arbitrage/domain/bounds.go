package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/internal/apperror"
)

// RequireWithinOrderBounds checks a market-currency order size against the
// venue's published limits. Run before any order leaves the process.
func RequireWithinOrderBounds(size decimal.Decimal, acc TradingAccuracy) error {
	if size.Cmp(acc.MinOrderSize) < 0 {
		return apperror.New(apperror.CodeBelowMinimumSize,
			apperror.WithContext(fmt.Sprintf("%s %s: size %s < min %s", acc.Venue, acc.Pair, size, acc.MinOrderSize)))
	}
	if acc.MaxOrderSize != nil && size.Cmp(*acc.MaxOrderSize) > 0 {
		return apperror.New(apperror.CodeAboveMaximumSize,
			apperror.WithContext(fmt.Sprintf("%s %s: size %s > max %s", acc.Venue, acc.Pair, size, acc.MaxOrderSize)))
	}
	return nil
}
