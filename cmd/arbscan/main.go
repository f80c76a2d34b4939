// Command arbscan scans US exchange pairs for fee-aware arbitrage, sizes
// the best trade per cycle and reports it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	arbapp "github.com/arbscan/arbscan/business/arbitrage/app"
	arbinfra "github.com/arbscan/arbscan/business/arbitrage/infra"
	mdapp "github.com/arbscan/arbscan/business/marketdata/app"
	"github.com/arbscan/arbscan/business/marketdata/infra/coinbase"
	"github.com/arbscan/arbscan/business/marketdata/infra/kraken"
	"github.com/arbscan/arbscan/internal/apm"
	"github.com/arbscan/arbscan/internal/config"
	"github.com/arbscan/arbscan/internal/health"
	"github.com/arbscan/arbscan/internal/httpclient"
	"github.com/arbscan/arbscan/internal/logging"
	"github.com/arbscan/arbscan/internal/metrics"
	"github.com/arbscan/arbscan/internal/ratelimit"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("arbscan", version)
		return
	}

	// Optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	log.Info("starting",
		slog.String("app", cfg.App.Name),
		slog.String("version", version),
		slog.String("environment", cfg.App.Environment))

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Telemetry.Enabled {
		traces := apm.NewTraceProvider(apm.Config{
			ServiceName: cfg.Telemetry.ServiceName,
			Provider:    apm.Provider(cfg.Telemetry.TraceProvider),
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
		}, log)
		defer func() {
			if err := traces.Stop(); err != nil {
				log.Error("trace provider shutdown failed", slog.Any("error", err))
			}
		}()

		meters, err := metrics.NewProvider(ctx, metrics.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Prometheus:   cfg.Telemetry.PrometheusPort > 0,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: cfg.App.Environment != "production",
		}, log)
		if err != nil {
			return fmt.Errorf("metrics provider: %w", err)
		}
		defer shutdownWithTimeout(meters.Shutdown, log, "meter provider")

		if cfg.Telemetry.PrometheusPort > 0 {
			metricsServer = metrics.ServePrometheus(cfg.Telemetry.PrometheusPort, log)
			defer shutdownWithTimeout(metricsServer.Shutdown, log, "metrics server")
		}
	}

	pairs := cfg.Scanner.ParsedPairs()

	connectors := make([]mdapp.Connector, 0, len(cfg.Venues))
	healthSrv := health.NewServer(cfg.Telemetry.HealthPort, version, log)

	cache := mdapp.NewQuoteCache()
	var streams []*coinbase.Stream

	for name, venue := range cfg.Venues {
		if !venue.Enabled {
			continue
		}
		httpc, err := httpclient.New(
			httpclient.WithProviderName(name),
			httpclient.WithBaseURL(venue.BaseURL),
			httpclient.WithTimeout(cfg.Scanner.RequestTimeout),
		)
		if err != nil {
			return fmt.Errorf("http client for %s: %w", name, err)
		}
		limiter := ratelimit.New(venue.RequestsPerMinute)

		switch name {
		case kraken.Venue:
			connectors = append(connectors, kraken.New(httpc, limiter, log))
		case coinbase.Venue:
			connectors = append(connectors, coinbase.New(httpc, limiter, log))
			if venue.StreamEnabled && venue.WebSocketURL != "" {
				streams = append(streams, coinbase.NewStream(venue.WebSocketURL, pairs, cache, log))
			}
		default:
			return fmt.Errorf("no connector for venue %q", name)
		}

		healthSrv.RegisterCheck(name, venueCheck(limiter))
	}

	poller := mdapp.NewPoller(connectors, cfg.Scanner.MaxInflight, cfg.Scanner.RequestTimeout, log)
	var quotes arbapp.QuoteSource = poller
	if len(streams) > 0 {
		quotes = mdapp.NewMergedSource(poller, cache)
	}

	tables := arbinfra.BuildTables(cfg)
	scanner := arbapp.NewScanner(
		arbapp.NewGenerator(arbapp.GeneratorConfig{
			Threshold:      cfg.Scanner.ThresholdDecimal(),
			MaxStalenessMS: cfg.Scanner.MaxStalenessMS,
			TradeAmount:    cfg.Scanner.TradeAmountDecimal(),
		}),
		arbapp.NewSizer(arbapp.SizerConfig{
			ProbSuccess:         cfg.Sizing.ProbSuccessDecimal(),
			KellyCap:            cfg.Sizing.KellyFractionCapDecimal(),
			MaxBankrollFraction: cfg.Sizing.MaxBankrollFractionDecimal(),
			MinBankroll:         cfg.Sizing.MinBankrollDecimal(),
		}),
		tables,
		arbinfra.BuildBalances(cfg),
	)

	detector, err := arbapp.NewDetector(arbapp.DetectorConfig{
		Pairs:    pairs,
		Interval: cfg.Scanner.Interval,
	}, scanner, quotes, arbinfra.NewConsoleReporter(), log)
	if err != nil {
		return fmt.Errorf("detector: %w", err)
	}

	healthSrv.Start()
	defer shutdownWithTimeout(healthSrv.Stop, log, "health server")

	for _, s := range streams {
		go func() {
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("stream stopped", slog.Any("error", err))
			}
		}()
	}

	return detector.Run(ctx)
}

// venueCheck reports a venue unhealthy when its rate limiter is exhausted,
// which usually means the venue is answering slowly and requests are piling
// up behind the throttle.
func venueCheck(limiter *ratelimit.Limiter) health.CheckFunc {
	return func(context.Context) (bool, string) {
		if limiter.Tokens() <= 0 {
			return false, "rate limiter exhausted"
		}
		return true, ""
	}
}

func shutdownWithTimeout(fn func(context.Context) error, log *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("shutdown failed", slog.String("component", name), slog.Any("error", err))
	}
}
