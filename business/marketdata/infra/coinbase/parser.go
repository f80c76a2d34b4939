package coinbase

import (
	"time"

	"github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/apperror"
	"github.com/arbscan/arbscan/internal/decimals"
)

// productBookResponse is the /market/product_book envelope.
type productBookResponse struct {
	Pricebook *pricebook `json:"pricebook"`
}

type pricebook struct {
	ProductID string       `json:"product_id"`
	Bids      []priceLevel `json:"bids"`
	Asks      []priceLevel `json:"asks"`
	Time      string       `json:"time"`
}

type priceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// parseProductBook converts one product_book response into a validated
// book for the canonical pair.
func parseProductBook(resp productBookResponse, pair domain.Pair, tsLocalMS int64) (domain.TopOfBook, error) {
	if resp.Pricebook == nil {
		return domain.TopOfBook{}, apperror.Validation(apperror.CodeMissingValue,
			pair.String()+": pricebook")
	}
	pb := resp.Pricebook
	if len(pb.Bids) == 0 || len(pb.Asks) == 0 {
		return domain.TopOfBook{}, apperror.Validation(apperror.CodeMissingValue,
			pair.String()+": pricebook bids/asks")
	}

	bidPx, err := decimals.FromString(pb.Bids[0].Price)
	if err != nil {
		return domain.TopOfBook{}, err
	}
	bidSz, err := decimals.FromString(pb.Bids[0].Size)
	if err != nil {
		return domain.TopOfBook{}, err
	}
	askPx, err := decimals.FromString(pb.Asks[0].Price)
	if err != nil {
		return domain.TopOfBook{}, err
	}
	askSz, err := decimals.FromString(pb.Asks[0].Size)
	if err != nil {
		return domain.TopOfBook{}, err
	}

	// The exchange time is nice-to-have; a missing or garbled one does
	// not invalidate the quote.
	var tsExchangeMS int64
	if pb.Time != "" {
		if ts, err := time.Parse(time.RFC3339Nano, pb.Time); err == nil {
			tsExchangeMS = ts.UnixMilli()
		}
	}

	return domain.NewTopOfBook(Venue, pair, bidPx, bidSz, askPx, askSz, tsLocalMS, tsExchangeMS)
}
