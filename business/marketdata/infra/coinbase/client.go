package coinbase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/httpclient"
	"github.com/arbscan/arbscan/internal/ratelimit"
)

const productBookPath = "/api/v3/brokerage/market/product_book"

// Client fetches Coinbase product books. The endpoint takes one product
// per request, so pairs are fetched sequentially under the rate limiter.
type Client struct {
	http    *httpclient.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker[productBookResponse]
	log     *slog.Logger
}

// New builds a Coinbase client with a circuit breaker in front of the
// venue.
func New(http *httpclient.Client, limiter *ratelimit.Limiter, log *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[productBookResponse](gobreaker.Settings{
		Name:    Venue,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			log.Warn("coinbase breaker state change",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return &Client{http: http, limiter: limiter, breaker: breaker, log: log}
}

// Venue implements the marketdata Connector interface.
func (c *Client) Venue() string { return Venue }

// FetchTickers fetches the requested pairs one product book at a time. A
// pair that fails is logged and skipped; the venue answer is whatever
// succeeded.
func (c *Client) FetchTickers(ctx context.Context, pairs []domain.Pair) (map[domain.Pair]domain.TopOfBook, error) {
	out := make(map[domain.Pair]domain.TopOfBook, len(pairs))
	for _, pair := range pairs {
		productID, ok := Symbols.VenueSymbol(pair)
		if !ok {
			c.log.Warn("pair not listed on coinbase", slog.String("pair", pair.String()))
			continue
		}

		book, err := c.fetchOne(ctx, pair, productID)
		if err != nil {
			if apperror.IsCode(err, apperror.CodeCircuitOpen) {
				return nil, err
			}
			c.log.Warn("coinbase ticker fetch failed",
				slog.String("pair", pair.String()),
				slog.Any("error", err))
			continue
		}
		out[pair] = book
	}
	return out, nil
}

func (c *Client) fetchOne(ctx context.Context, pair domain.Pair, productID string) (domain.TopOfBook, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.TopOfBook{}, apperror.External(apperror.CodeServiceTimeout, Venue+" rate limit wait", err)
	}

	tsLocalMS := time.Now().UnixMilli()
	resp, err := c.breaker.Execute(func() (productBookResponse, error) {
		query := url.Values{
			"product_id": {productID},
			"limit":      {"1"},
		}
		var out productBookResponse
		if err := c.http.GetJSON(ctx, productBookPath, query, &out); err != nil {
			return productBookResponse{}, err
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.TopOfBook{}, apperror.External(apperror.CodeCircuitOpen, Venue, err)
		}
		return domain.TopOfBook{}, err
	}
	return parseProductBook(resp, pair, tsLocalMS)
}
