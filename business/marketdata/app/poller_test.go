package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/logging"
)

var btcusd = domain.MustParsePair("BTC/USD")

func testBook(t *testing.T, venue string, tsMS int64) domain.TopOfBook {
	t.Helper()
	b, err := domain.NewTopOfBook(venue, btcusd,
		decimal.RequireFromString("30000"), decimal.NewFromInt(1),
		decimal.RequireFromString("30010"), decimal.NewFromInt(1),
		tsMS, 0)
	if err != nil {
		t.Fatalf("NewTopOfBook: %v", err)
	}
	return b
}

type stubConnector struct {
	venue string
	books map[domain.Pair]domain.TopOfBook
	err   error
}

func (s *stubConnector) Venue() string { return s.venue }

func (s *stubConnector) FetchTickers(_ context.Context, _ []domain.Pair) (map[domain.Pair]domain.TopOfBook, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.books, nil
}

func TestPollerSnapshot(t *testing.T) {
	p := NewPoller([]Connector{
		&stubConnector{venue: "kraken", books: map[domain.Pair]domain.TopOfBook{
			btcusd: testBook(t, "kraken", 100),
		}},
		&stubConnector{venue: "coinbase", books: map[domain.Pair]domain.TopOfBook{
			btcusd: testBook(t, "coinbase", 200),
		}},
	}, 4, 0, logging.Discard())

	snap, err := p.Snapshot(context.Background(), []domain.Pair{btcusd})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap[btcusd]) != 2 {
		t.Fatalf("venues = %d, want 2", len(snap[btcusd]))
	}
	if snap[btcusd]["kraken"].TSLocalMS != 100 {
		t.Errorf("kraken ts = %d", snap[btcusd]["kraken"].TSLocalMS)
	}
}

func TestPollerToleratesVenueFailure(t *testing.T) {
	p := NewPoller([]Connector{
		&stubConnector{venue: "kraken", err: apperror.New(apperror.CodeVenueUnavailable)},
		&stubConnector{venue: "coinbase", books: map[domain.Pair]domain.TopOfBook{
			btcusd: testBook(t, "coinbase", 200),
		}},
	}, 4, 0, logging.Discard())

	snap, err := p.Snapshot(context.Background(), []domain.Pair{btcusd})
	if err != nil {
		t.Fatalf("one venue down must not fail the snapshot: %v", err)
	}
	if _, ok := snap[btcusd]["kraken"]; ok {
		t.Error("failed venue must be absent")
	}
	if _, ok := snap[btcusd]["coinbase"]; !ok {
		t.Error("healthy venue must be present")
	}
}

func TestQuoteCache(t *testing.T) {
	c := NewQuoteCache()
	c.Put(testBook(t, "coinbase", 200))
	// Out-of-order update arrives late; it must not clobber the newer one.
	c.Put(testBook(t, "coinbase", 150))

	snap, err := c.Snapshot(context.Background(), []domain.Pair{btcusd})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := snap[btcusd]["coinbase"].TSLocalMS; got != 200 {
		t.Errorf("ts = %d, want the newer 200", got)
	}

	// Pairs not asked for stay out.
	other, _ := c.Snapshot(context.Background(), []domain.Pair{domain.MustParsePair("SOL/USDC")})
	if len(other) != 0 {
		t.Errorf("unexpected pairs: %v", other)
	}
}

func TestMergedSourceNewestWins(t *testing.T) {
	poller := NewPoller([]Connector{
		&stubConnector{venue: "coinbase", books: map[domain.Pair]domain.TopOfBook{
			btcusd: testBook(t, "coinbase", 100),
		}},
	}, 2, 0, logging.Discard())

	cache := NewQuoteCache()
	cache.Put(testBook(t, "coinbase", 500))

	merged := NewMergedSource(poller, cache)
	snap, err := merged.Snapshot(context.Background(), []domain.Pair{btcusd})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if got := snap[btcusd]["coinbase"].TSLocalMS; got != 500 {
		t.Errorf("ts = %d, want the streamed 500", got)
	}
}
