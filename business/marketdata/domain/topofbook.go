package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/guard"
)

// TopOfBook is the best bid and ask for one pair on one venue at one
// instant. Instances are immutable: a new poll produces a new snapshot, it
// never mutates the previous one.
//
// NewTopOfBook is the only legal way to build one. Downstream calculation
// code accepts only this type and re-checks nothing.
type TopOfBook struct {
	Venue string
	Pair  Pair

	BidPx decimal.Decimal
	BidSz decimal.Decimal
	AskPx decimal.Decimal
	AskSz decimal.Decimal

	// TSLocalMS is the local receive time in ms since epoch.
	TSLocalMS int64
	// TSExchangeMS is the exchange-provided time, 0 when the venue does
	// not publish one.
	TSExchangeMS int64
}

// NewTopOfBook validates and constructs a TopOfBook snapshot.
// All prices and sizes must be positive, and the book must not be crossed.
func NewTopOfBook(venue string, pair Pair, bidPx, bidSz, askPx, askSz decimal.Decimal, tsLocalMS, tsExchangeMS int64) (TopOfBook, error) {
	if _, err := guard.RequirePresent(venue, "venue"); err != nil {
		return TopOfBook{}, err
	}
	if pair.IsZero() {
		return TopOfBook{}, apperror.Validation(apperror.CodeMissingValue, "pair")
	}
	if tsLocalMS <= 0 {
		return TopOfBook{}, apperror.Validation(apperror.CodeInvalidValue, "ts_local_ms must be positive")
	}

	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"bid_px", bidPx},
		{"bid_sz", bidSz},
		{"ask_px", askPx},
		{"ask_sz", askSz},
	} {
		if _, err := guard.RequirePositive(f.value, f.name); err != nil {
			return TopOfBook{}, err
		}
	}

	t := TopOfBook{
		Venue:        venue,
		Pair:         pair,
		BidPx:        bidPx,
		BidSz:        bidSz,
		AskPx:        askPx,
		AskSz:        askSz,
		TSLocalMS:    tsLocalMS,
		TSExchangeMS: tsExchangeMS,
	}
	if err := ValidateQuote(t); err != nil {
		return TopOfBook{}, err
	}
	return t, nil
}

// ValidateQuote enforces book ordering: bid must be strictly below ask when
// both sides are present. This is the one invariant kept as
// defense-in-depth even though the factory already applies it.
func ValidateQuote(t TopOfBook) error {
	if t.BidPx.Sign() > 0 && t.AskPx.Sign() > 0 && t.BidPx.Cmp(t.AskPx) >= 0 {
		return apperror.New(apperror.CodeCrossedBook,
			apperror.WithContext(fmt.Sprintf("%s %s: bid %s >= ask %s", t.Venue, t.Pair, t.BidPx, t.AskPx)))
	}
	return nil
}

// AgeMS returns the snapshot age relative to nowMS.
func (t TopOfBook) AgeMS(nowMS int64) int64 {
	return nowMS - t.TSLocalMS
}

// IsStale reports whether the snapshot is older than maxStalenessMS
// relative to nowMS.
func (t TopOfBook) IsStale(nowMS, maxStalenessMS int64) bool {
	return t.AgeMS(nowMS) > maxStalenessMS
}

// Spread returns ask minus bid.
func (t TopOfBook) Spread() decimal.Decimal {
	return t.AskPx.Sub(t.BidPx)
}
