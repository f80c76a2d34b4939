package app

import (
	"context"
	"sync"

	"github.com/arbscan/arbscan/business/marketdata/domain"
)

type cacheKey struct {
	pair  domain.Pair
	venue string
}

// QuoteCache holds the latest streamed book per (pair, venue). Writers are
// the websocket feeds; the reader is the scan loop.
type QuoteCache struct {
	mu    sync.RWMutex
	books map[cacheKey]domain.TopOfBook
}

// NewQuoteCache creates an empty cache.
func NewQuoteCache() *QuoteCache {
	return &QuoteCache{books: make(map[cacheKey]domain.TopOfBook)}
}

// Put stores a book, replacing any older snapshot for the same key. An
// out-of-order update (older local timestamp than the stored one) is
// dropped.
func (c *QuoteCache) Put(book domain.TopOfBook) {
	key := cacheKey{book.Pair, book.Venue}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.books[key]; ok && cur.TSLocalMS > book.TSLocalMS {
		return
	}
	c.books[key] = book
}

// Snapshot returns the cached books for the requested pairs.
func (c *QuoteCache) Snapshot(_ context.Context, pairs []domain.Pair) (map[domain.Pair]map[string]domain.TopOfBook, error) {
	want := make(map[domain.Pair]bool, len(pairs))
	for _, p := range pairs {
		want[p] = true
	}

	out := make(map[domain.Pair]map[string]domain.TopOfBook, len(pairs))
	c.mu.RLock()
	defer c.mu.RUnlock()
	for key, book := range c.books {
		if !want[key.pair] {
			continue
		}
		if out[key.pair] == nil {
			out[key.pair] = make(map[string]domain.TopOfBook)
		}
		out[key.pair][key.venue] = book
	}
	return out, nil
}

// Source is anything that can produce a quote snapshot.
type Source interface {
	Snapshot(ctx context.Context, pairs []domain.Pair) (map[domain.Pair]map[string]domain.TopOfBook, error)
}

// MergedSource overlays sources, newest book wins per (pair, venue). The
// production wiring merges the REST poller with the streamed quote cache.
type MergedSource struct {
	sources []Source
}

// NewMergedSource merges sources in the given order.
func NewMergedSource(sources ...Source) *MergedSource {
	return &MergedSource{sources: sources}
}

// Snapshot merges all sources' snapshots; for a (pair, venue) present in
// several, the one with the newest local timestamp survives.
func (m *MergedSource) Snapshot(ctx context.Context, pairs []domain.Pair) (map[domain.Pair]map[string]domain.TopOfBook, error) {
	out := make(map[domain.Pair]map[string]domain.TopOfBook, len(pairs))
	for _, src := range m.sources {
		snap, err := src.Snapshot(ctx, pairs)
		if err != nil {
			return nil, err
		}
		for pair, byVenue := range snap {
			if out[pair] == nil {
				out[pair] = make(map[string]domain.TopOfBook, len(byVenue))
			}
			for venue, book := range byVenue {
				if cur, ok := out[pair][venue]; !ok || book.TSLocalMS >= cur.TSLocalMS {
					out[pair][venue] = book
				}
			}
		}
	}
	return out, nil
}
