package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
)

// DetectorConfig tunes the scan loop.
type DetectorConfig struct {
	Pairs    []marketdata.Pair
	Interval time.Duration
}

// Detector drives the scan loop: fetch quotes, scan every configured pair,
// report. One detector owns the whole loop; Run blocks until the context is
// cancelled.
type Detector struct {
	cfg      DetectorConfig
	scanner  *Scanner
	quotes   QuoteSource
	reporter Reporter
	log      *slog.Logger

	tracer        trace.Tracer
	cycles        metric.Int64Counter
	oppsFound     metric.Int64Counter
	staleDropped  metric.Int64Counter
	tradesSized   metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

// NewDetector wires the loop together and registers its instruments on the
// global meter provider.
func NewDetector(cfg DetectorConfig, scanner *Scanner, quotes QuoteSource, reporter Reporter, log *slog.Logger) (*Detector, error) {
	meter := otel.Meter("arbscan/detector")

	cycles, err := meter.Int64Counter("arb_scan_cycles_total",
		metric.WithDescription("Completed scan cycles per pair"))
	if err != nil {
		return nil, err
	}
	opps, err := meter.Int64Counter("arb_opportunities_total",
		metric.WithDescription("Opportunities above the net-return threshold"))
	if err != nil {
		return nil, err
	}
	stale, err := meter.Int64Counter("arb_quotes_stale_dropped_total",
		metric.WithDescription("Quotes dropped by the staleness filter"))
	if err != nil {
		return nil, err
	}
	trades, err := meter.Int64Counter("arb_trades_sized_total",
		metric.WithDescription("Trades selected and sized for execution"))
	if err != nil {
		return nil, err
	}
	dur, err := meter.Float64Histogram("arb_cycle_duration_seconds",
		metric.WithDescription("Wall time of one full scan cycle"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Detector{
		cfg:           cfg,
		scanner:       scanner,
		quotes:        quotes,
		reporter:      reporter,
		log:           log,
		tracer:        otel.Tracer("arbscan/detector"),
		cycles:        cycles,
		oppsFound:     opps,
		staleDropped:  stale,
		tradesSized:   trades,
		cycleDuration: dur,
	}, nil
}

// Run executes scan cycles at the configured interval until ctx is done.
// The first cycle fires immediately.
func (d *Detector) Run(ctx context.Context) error {
	d.log.Info("detector started",
		slog.Int("pairs", len(d.cfg.Pairs)),
		slog.Duration("interval", d.cfg.Interval))

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	d.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("detector stopped")
			return ctx.Err()
		case <-ticker.C:
			d.runCycle(ctx)
		}
	}
}

func (d *Detector) runCycle(ctx context.Context) {
	ctx, span := d.tracer.Start(ctx, "scan_cycle")
	defer span.End()
	start := time.Now()

	snapshot, err := d.quotes.Snapshot(ctx, d.cfg.Pairs)
	if err != nil {
		span.RecordError(err)
		d.log.Error("quote snapshot failed", slog.Any("error", err))
		return
	}
	nowMS := time.Now().UnixMilli()

	for _, pair := range d.cfg.Pairs {
		pairAttr := metric.WithAttributes(attribute.String("pair", pair.String()))

		report, err := d.scanner.ScanPair(pair, snapshot[pair], nowMS)
		if err != nil {
			span.RecordError(err)
			d.log.Error("scan failed",
				slog.String("pair", pair.String()),
				slog.Any("error", err))
			continue
		}

		d.cycles.Add(ctx, 1, pairAttr)
		d.oppsFound.Add(ctx, int64(len(report.Ranked)), pairAttr)
		d.staleDropped.Add(ctx, int64(report.StaleDropped), pairAttr)

		d.reporter.ReportCycle(report)
		if report.Decision != nil {
			d.tradesSized.Add(ctx, 1, pairAttr)
			d.reporter.ReportTrade(*report.Decision)
			d.log.Info("trade sized",
				slog.String("pair", pair.String()),
				slog.String("buy_venue", report.Decision.Opportunity.BuyVenue),
				slog.String("sell_venue", report.Decision.Opportunity.SellVenue),
				slog.String("return_net", report.Decision.Opportunity.ReturnNet.String()),
				slog.String("size", report.Decision.Size.String()),
				slog.String("limiting", string(report.Decision.Limiting)))
		} else {
			d.log.Debug("no trade",
				slog.String("pair", pair.String()),
				slog.Int("considered", report.Considered),
				slog.Int("stale_dropped", report.StaleDropped),
				slog.String("reason", report.SkipReason))
		}
	}

	d.cycleDuration.Record(ctx, time.Since(start).Seconds())
}
