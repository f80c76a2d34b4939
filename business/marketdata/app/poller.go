package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arbscan/arbscan/business/marketdata/domain"
)

// Poller fans out ticker fetches across venue connectors with a bounded
// number in flight and merges the answers into one snapshot.
type Poller struct {
	connectors  []Connector
	maxInflight int
	timeout     time.Duration
	log         *slog.Logger
}

// NewPoller builds a poller over the given connectors.
func NewPoller(connectors []Connector, maxInflight int, timeout time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		connectors:  connectors,
		maxInflight: maxInflight,
		timeout:     timeout,
		log:         log,
	}
}

// Snapshot fetches all pairs from every venue concurrently and returns
// pair -> venue -> book. A venue that fails is logged and left out of the
// snapshot; one broken exchange must not stall the scan.
func (p *Poller) Snapshot(ctx context.Context, pairs []domain.Pair) (map[domain.Pair]map[string]domain.TopOfBook, error) {
	out := make(map[domain.Pair]map[string]domain.TopOfBook, len(pairs))
	for _, pair := range pairs {
		out[pair] = make(map[string]domain.TopOfBook, len(p.connectors))
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxInflight)

	for _, conn := range p.connectors {
		g.Go(func() error {
			fetchCtx := gctx
			if p.timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(gctx, p.timeout)
				defer cancel()
			}

			books, err := conn.FetchTickers(fetchCtx, pairs)
			if err != nil {
				p.log.Warn("venue fetch failed",
					slog.String("venue", conn.Venue()),
					slog.Any("error", err))
				return nil
			}

			mu.Lock()
			for pair, book := range books {
				if byVenue, ok := out[pair]; ok {
					byVenue[conn.Venue()] = book
				}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
