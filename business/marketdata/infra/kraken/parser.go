package kraken

import (
	"log/slog"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/decimals"
)

// tickerPayload is one pair's entry in the Ticker result. The a/b arrays
// are [price, whole lot volume, lot volume]; index 2 is the displayed size.
type tickerPayload struct {
	Ask []string `json:"a"`
	Bid []string `json:"b"`
}

// parseTickers converts a Ticker result into validated books. Entries with
// unknown symbols or malformed numbers are logged and skipped; one bad
// entry never poisons the batch.
func parseTickers(result map[string]tickerPayload, tsLocalMS int64, log *slog.Logger) map[domain.Pair]domain.TopOfBook {
	out := make(map[domain.Pair]domain.TopOfBook, len(result))
	for symbol, payload := range result {
		pair, ok := Symbols.Canonical(symbol)
		if !ok {
			log.Warn("skipping unknown kraken symbol", slog.String("symbol", symbol))
			continue
		}
		book, err := parseOne(pair, payload, tsLocalMS)
		if err != nil {
			log.Warn("skipping invalid kraken ticker",
				slog.String("symbol", symbol),
				slog.Any("error", err))
			continue
		}
		out[pair] = book
	}
	return out
}

func parseOne(pair domain.Pair, p tickerPayload, tsLocalMS int64) (domain.TopOfBook, error) {
	if len(p.Ask) < 3 || len(p.Bid) < 3 {
		return domain.TopOfBook{}, apperror.Validation(apperror.CodeMissingValue,
			pair.String()+": ticker a/b arrays")
	}
	askPx, err := decimals.FromString(p.Ask[0])
	if err != nil {
		return domain.TopOfBook{}, err
	}
	askSz, err := decimals.FromString(p.Ask[2])
	if err != nil {
		return domain.TopOfBook{}, err
	}
	bidPx, err := decimals.FromString(p.Bid[0])
	if err != nil {
		return domain.TopOfBook{}, err
	}
	bidSz, err := decimals.FromString(p.Bid[2])
	if err != nil {
		return domain.TopOfBook{}, err
	}
	// Kraken's Ticker endpoint carries no exchange timestamp.
	return domain.NewTopOfBook(Venue, pair, bidPx, bidSz, askPx, askSz, tsLocalMS, 0)
}
