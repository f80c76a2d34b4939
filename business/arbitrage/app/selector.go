package app

import (
	"github.com/arbscan/arbscan/business/arbitrage/domain"
)

// SelectTrade picks the trade to act on from an already-ranked list: the
// first entry, i.e. the highest net return. The second return is false when
// nothing qualifies; an empty cycle is normal operation, not an error.
//
// The ranked list from Generate only contains strictly-above-threshold
// opportunities, so no re-check happens here.
func SelectTrade(ranked []domain.Opportunity) (domain.Opportunity, bool) {
	if len(ranked) == 0 {
		return domain.Opportunity{}, false
	}
	return ranked[0], true
}
