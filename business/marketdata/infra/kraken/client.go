package kraken

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/httpclient"
	"github.com/arbscan/arbscan/internal/ratelimit"
)

const tickerPath = "/0/public/Ticker"

// tickerResponse is the Kraken envelope: a non-empty error array means the
// request failed even on HTTP 200.
type tickerResponse struct {
	Error  []string                 `json:"error"`
	Result map[string]tickerPayload `json:"result"`
}

// Client fetches Kraken tickers. One Ticker request covers every requested
// pair, so the whole venue costs a single API call per cycle.
type Client struct {
	http    *httpclient.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker[map[string]tickerPayload]
	log     *slog.Logger
}

// New builds a Kraken client with a circuit breaker in front of the venue.
func New(http *httpclient.Client, limiter *ratelimit.Limiter, log *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[map[string]tickerPayload](gobreaker.Settings{
		Name:    Venue,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			log.Warn("kraken breaker state change",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return &Client{http: http, limiter: limiter, breaker: breaker, log: log}
}

// Venue implements the marketdata Connector interface.
func (c *Client) Venue() string { return Venue }

// FetchTickers fetches every requested pair in one batched Ticker call.
func (c *Client) FetchTickers(ctx context.Context, pairs []domain.Pair) (map[domain.Pair]domain.TopOfBook, error) {
	symbols := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		symbol, ok := Symbols.VenueSymbol(pair)
		if !ok {
			c.log.Warn("pair not listed on kraken", slog.String("pair", pair.String()))
			continue
		}
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return map[domain.Pair]domain.TopOfBook{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperror.External(apperror.CodeServiceTimeout, Venue+" rate limit wait", err)
	}

	tsLocalMS := time.Now().UnixMilli()
	result, err := c.breaker.Execute(func() (map[string]tickerPayload, error) {
		return c.fetchTickerBatch(ctx, symbols)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperror.External(apperror.CodeCircuitOpen, Venue, err)
		}
		return nil, err
	}

	return parseTickers(result, tsLocalMS, c.log), nil
}

func (c *Client) fetchTickerBatch(ctx context.Context, symbols []string) (map[string]tickerPayload, error) {
	query := url.Values{"pair": {strings.Join(symbols, ",")}}

	var resp tickerResponse
	if err := c.http.GetJSON(ctx, tickerPath, query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Error) > 0 {
		return nil, apperror.New(apperror.CodeVenueAPIError,
			apperror.WithContext(Venue+": "+strings.Join(resp.Error, "; ")))
	}
	if resp.Result == nil {
		return nil, apperror.New(apperror.CodeTickerParseFailed,
			apperror.WithContext(Venue+": missing result object"))
	}
	return resp.Result, nil
}
