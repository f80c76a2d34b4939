package coinbase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/arbscan/arbscan/business/marketdata/app"
	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/decimals"
	"github.com/arbscan/arbscan/internal/wsconn"
)

// subscribeMsg is the Advanced Trade websocket subscription request.
type subscribeMsg struct {
	Type       string   `json:"type"`
	Channel    string   `json:"channel"`
	ProductIDs []string `json:"product_ids"`
}

// tickerEventMsg is the ticker channel frame. Only the fields the feed
// reads are declared.
type tickerEventMsg struct {
	Channel   string `json:"channel"`
	Timestamp string `json:"timestamp"`
	Events    []struct {
		Tickers []streamTicker `json:"tickers"`
	} `json:"events"`
}

type streamTicker struct {
	ProductID  string `json:"product_id"`
	BestBid    string `json:"best_bid"`
	BestBidQty string `json:"best_bid_quantity"`
	BestAsk    string `json:"best_ask"`
	BestAskQty string `json:"best_ask_quantity"`
}

// Stream keeps a QuoteCache current from the Coinbase ticker channel. It
// complements REST polling: between polls the cache holds fresher books.
type Stream struct {
	ws    *wsconn.Client
	cache *app.QuoteCache
	log   *slog.Logger
}

// NewStream builds the feed for the given pairs.
func NewStream(wsURL string, pairs []domain.Pair, cache *app.QuoteCache, log *slog.Logger) *Stream {
	productIDs := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if id, ok := Symbols.VenueSymbol(pair); ok {
			productIDs = append(productIDs, id)
		}
	}

	cfg := wsconn.DefaultConfig(wsURL, Venue)
	cfg.OnConnect = func(_ context.Context, send func([]byte) error) error {
		msg, err := json.Marshal(subscribeMsg{
			Type:       "subscribe",
			Channel:    "ticker",
			ProductIDs: productIDs,
		})
		if err != nil {
			return err
		}
		return send(msg)
	}

	return &Stream{
		ws:    wsconn.New(cfg, log),
		cache: cache,
		log:   log,
	}
}

// Run consumes the feed until ctx is cancelled.
func (s *Stream) Run(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.ws.Run(ctx) }()

	for {
		select {
		case err := <-done:
			return err
		case raw, ok := <-s.ws.Messages():
			if !ok {
				return <-done
			}
			s.handleMessage(raw)
		}
	}
}

func (s *Stream) handleMessage(raw []byte) {
	var msg tickerEventMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.log.Warn("coinbase stream: bad frame", slog.Any("error", err))
		return
	}
	if msg.Channel != "ticker" {
		return
	}

	tsLocalMS := time.Now().UnixMilli()
	var tsExchangeMS int64
	if ts, err := time.Parse(time.RFC3339Nano, msg.Timestamp); err == nil {
		tsExchangeMS = ts.UnixMilli()
	}

	for _, ev := range msg.Events {
		for _, t := range ev.Tickers {
			s.handleTicker(t, tsLocalMS, tsExchangeMS)
		}
	}
}

func (s *Stream) handleTicker(t streamTicker, tsLocalMS, tsExchangeMS int64) {
	pair, ok := Symbols.Canonical(t.ProductID)
	if !ok {
		return
	}

	bidPx, err := decimals.FromString(t.BestBid)
	if err != nil {
		return
	}
	bidSz, err := decimals.FromString(t.BestBidQty)
	if err != nil {
		return
	}
	askPx, err := decimals.FromString(t.BestAsk)
	if err != nil {
		return
	}
	askSz, err := decimals.FromString(t.BestAskQty)
	if err != nil {
		return
	}

	book, err := domain.NewTopOfBook(Venue, pair, bidPx, bidSz, askPx, askSz, tsLocalMS, tsExchangeMS)
	if err != nil {
		s.log.Warn("coinbase stream: invalid book",
			slog.String("product", t.ProductID),
			slog.Any("error", err))
		return
	}
	s.cache.Put(book)
}
