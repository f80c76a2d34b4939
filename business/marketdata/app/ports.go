// Package app holds the marketdata application services: polling venues
// over REST and caching streamed quotes, merged into one snapshot API.
package app

import (
	"context"

	"github.com/arbscan/arbscan/business/marketdata/domain"
)

// Connector fetches top-of-book quotes from one venue. Implementations own
// their rate limiting, retries and circuit breaking.
type Connector interface {
	Venue() string
	// FetchTickers returns books for the requested pairs. Pairs the venue
	// does not list are simply absent from the result.
	FetchTickers(ctx context.Context, pairs []domain.Pair) (map[domain.Pair]domain.TopOfBook, error)
}
