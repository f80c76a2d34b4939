// Package config provides configuration loading and validation.
//
// Monetary and rate values are carried as strings and parsed into decimals
// exactly once, in Validate. Nothing in the process constructs a decimal
// from a float.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	marketdata "github.com/arbscan/arbscan/business/marketdata/domain"
	"github.com/arbscan/arbscan/internal/decimals"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig              `mapstructure:"app"`
	Scanner     ScannerConfig          `mapstructure:"scanner"`
	Sizing      SizingConfig           `mapstructure:"sizing"`
	Venues      map[string]VenueConfig `mapstructure:"venues"`
	Withdrawals []WithdrawalConfig     `mapstructure:"withdrawals"`
	Accuracy    []AccuracyConfig       `mapstructure:"accuracy"`
	Telemetry   TelemetryConfig        `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ScannerConfig tunes the scan loop.
type ScannerConfig struct {
	Pairs          []string      `mapstructure:"pairs"`
	Threshold      string        `mapstructure:"threshold"`
	MaxStalenessMS int64         `mapstructure:"max_staleness_ms"`
	TradeAmount    string        `mapstructure:"trade_amount"`
	Interval       time.Duration `mapstructure:"interval"`
	MaxInflight    int           `mapstructure:"max_inflight"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ThresholdDecimal returns the net-return threshold. Call after Validate.
func (c *ScannerConfig) ThresholdDecimal() decimal.Decimal {
	return decimals.MustFromString(c.Threshold)
}

// TradeAmountDecimal returns the costing amount. Call after Validate.
func (c *ScannerConfig) TradeAmountDecimal() decimal.Decimal {
	return decimals.MustFromString(c.TradeAmount)
}

// ParsedPairs returns the configured pairs. Call after Validate.
func (c *ScannerConfig) ParsedPairs() []marketdata.Pair {
	out := make([]marketdata.Pair, len(c.Pairs))
	for i, p := range c.Pairs {
		out[i] = marketdata.MustParsePair(p)
	}
	return out
}

// SizingConfig tunes the Kelly sizer.
type SizingConfig struct {
	ProbSuccess         string `mapstructure:"prob_success"`
	KellyFractionCap    string `mapstructure:"kelly_fraction_cap"`
	MaxBankrollFraction string `mapstructure:"max_bankroll_fraction"`
	MinBankroll         string `mapstructure:"min_bankroll"`
}

// ProbSuccessDecimal returns the fill probability. Call after Validate.
func (c *SizingConfig) ProbSuccessDecimal() decimal.Decimal {
	return decimals.MustFromString(c.ProbSuccess)
}

// KellyFractionCapDecimal returns the fractional-Kelly multiplier.
func (c *SizingConfig) KellyFractionCapDecimal() decimal.Decimal {
	return decimals.MustFromString(c.KellyFractionCap)
}

// MaxBankrollFractionDecimal returns the per-trade bankroll cap.
func (c *SizingConfig) MaxBankrollFractionDecimal() decimal.Decimal {
	return decimals.MustFromString(c.MaxBankrollFraction)
}

// MinBankrollDecimal returns the bankroll floor below which no trade sizes.
func (c *SizingConfig) MinBankrollDecimal() decimal.Decimal {
	return decimals.MustFromString(c.MinBankroll)
}

// VenueConfig holds one exchange's connection and fee settings. Balances
// are static for now: execution is out of scope, sizing only needs to know
// what it could spend.
type VenueConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BaseURL           string `mapstructure:"base_url"`
	WebSocketURL      string `mapstructure:"websocket_url"`
	StreamEnabled     bool   `mapstructure:"stream_enabled"`
	TradingFeePct     string `mapstructure:"trading_fee_pct"`
	TradingFeeFlat    string `mapstructure:"trading_fee_flat"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	BalanceBase       string `mapstructure:"balance_base"`
	BalanceQuote      string `mapstructure:"balance_quote"`
}

// WithdrawalConfig is one (venue, currency) withdrawal fee row.
type WithdrawalConfig struct {
	Venue    string `mapstructure:"venue"`
	Currency string `mapstructure:"currency"`
	FlatFee  string `mapstructure:"flat_fee"`
	PctFee   string `mapstructure:"pct_fee"`
}

// AccuracyConfig is one (venue, pair) precision row. MaxOrderSize empty
// means the venue publishes no maximum.
type AccuracyConfig struct {
	Venue         string `mapstructure:"venue"`
	Pair          string `mapstructure:"pair"`
	PriceDecimals int32  `mapstructure:"price_decimals"`
	LotDecimals   int32  `mapstructure:"lot_decimals"`
	MinOrderSize  string `mapstructure:"min_order_size"`
	MaxOrderSize  string `mapstructure:"max_order_size"`
	TickSize      string `mapstructure:"tick_size"`
	LotStep       string `mapstructure:"lot_step"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()
	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: defaults plus env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.log_format", "ARB_LOG_FORMAT", "LOG_FORMAT")

	v.BindEnv("scanner.pairs", "ARB_PAIRS")
	v.BindEnv("scanner.threshold", "ARB_THRESHOLD")
	v.BindEnv("scanner.max_staleness_ms", "ARB_MAX_STALENESS_MS")
	v.BindEnv("scanner.trade_amount", "ARB_TRADE_AMOUNT")
	v.BindEnv("scanner.interval", "ARB_SCAN_INTERVAL")

	v.BindEnv("sizing.prob_success", "ARB_PROB_SUCCESS")
	v.BindEnv("sizing.kelly_fraction_cap", "ARB_KELLY_FRACTION_CAP")
	v.BindEnv("sizing.max_bankroll_fraction", "ARB_MAX_BANKROLL_FRACTION")
	v.BindEnv("sizing.min_bankroll", "ARB_MIN_BANKROLL")

	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "arbscan")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("scanner.pairs", []string{"BTC/USD"})
	v.SetDefault("scanner.threshold", "0.0055")
	v.SetDefault("scanner.max_staleness_ms", 5000)
	v.SetDefault("scanner.trade_amount", "0.01")
	v.SetDefault("scanner.interval", "2s")
	v.SetDefault("scanner.max_inflight", 4)
	v.SetDefault("scanner.request_timeout", "10s")

	v.SetDefault("sizing.prob_success", "0.995")
	v.SetDefault("sizing.kelly_fraction_cap", "0.25")
	v.SetDefault("sizing.max_bankroll_fraction", "0.1")
	v.SetDefault("sizing.min_bankroll", "100")

	v.SetDefault("venues.kraken.enabled", true)
	v.SetDefault("venues.kraken.base_url", "https://api.kraken.com")
	v.SetDefault("venues.kraken.trading_fee_pct", "0.0026")
	v.SetDefault("venues.kraken.trading_fee_flat", "0")
	v.SetDefault("venues.kraken.requests_per_minute", 60)
	v.SetDefault("venues.kraken.balance_base", "0")
	v.SetDefault("venues.kraken.balance_quote", "0")

	v.SetDefault("venues.coinbase.enabled", true)
	v.SetDefault("venues.coinbase.base_url", "https://api.coinbase.com")
	v.SetDefault("venues.coinbase.websocket_url", "wss://advanced-trade-ws.coinbase.com")
	v.SetDefault("venues.coinbase.trading_fee_pct", "0.006")
	v.SetDefault("venues.coinbase.trading_fee_flat", "0")
	v.SetDefault("venues.coinbase.requests_per_minute", 600)
	v.SetDefault("venues.coinbase.balance_base", "0")
	v.SetDefault("venues.coinbase.balance_quote", "0")

	v.SetDefault("withdrawals", []map[string]any{
		{"venue": "kraken", "currency": "BTC", "flat_fee": "0.00005", "pct_fee": "0"},
	})

	v.SetDefault("accuracy", []map[string]any{
		{
			"venue": "kraken", "pair": "BTC/USD",
			"price_decimals": 1, "lot_decimals": 8,
			"min_order_size": "0.00005", "tick_size": "0.1", "lot_step": "0.00000001",
		},
		{
			"venue": "coinbase", "pair": "BTC/USD",
			"price_decimals": 2, "lot_decimals": 8,
			"min_order_size": "0.00000001", "max_order_size": "3500",
			"tick_size": "0.01", "lot_step": "0.00000001",
		},
	})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arbscan")
	v.SetDefault("telemetry.trace_provider", "empty")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate checks the configuration and proves every decimal-valued string
// parses. After Validate succeeds, the *Decimal accessors cannot panic.
func (c *Config) Validate() error {
	if len(c.Scanner.Pairs) == 0 {
		return fmt.Errorf("scanner.pairs cannot be empty")
	}
	for _, p := range c.Scanner.Pairs {
		if _, err := marketdata.ParsePair(p); err != nil {
			return fmt.Errorf("scanner.pairs: %w", err)
		}
	}
	if c.Scanner.MaxStalenessMS <= 0 {
		return fmt.Errorf("scanner.max_staleness_ms must be positive")
	}
	if c.Scanner.Interval <= 0 {
		return fmt.Errorf("scanner.interval must be positive")
	}
	if c.Scanner.MaxInflight <= 0 {
		return fmt.Errorf("scanner.max_inflight must be positive")
	}

	threshold, err := requireDecimal("scanner.threshold", c.Scanner.Threshold)
	if err != nil {
		return err
	}
	if threshold.Sign() < 0 {
		return fmt.Errorf("scanner.threshold must not be negative")
	}
	amount, err := requireDecimal("scanner.trade_amount", c.Scanner.TradeAmount)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("scanner.trade_amount must be positive")
	}

	one := decimal.NewFromInt(1)
	prob, err := requireDecimal("sizing.prob_success", c.Sizing.ProbSuccess)
	if err != nil {
		return err
	}
	if prob.Sign() <= 0 || prob.Cmp(one) > 0 {
		return fmt.Errorf("sizing.prob_success must be in (0, 1]")
	}
	kellyCap, err := requireDecimal("sizing.kelly_fraction_cap", c.Sizing.KellyFractionCap)
	if err != nil {
		return err
	}
	if kellyCap.Sign() <= 0 || kellyCap.Cmp(one) > 0 {
		return fmt.Errorf("sizing.kelly_fraction_cap must be in (0, 1]")
	}
	frac, err := requireDecimal("sizing.max_bankroll_fraction", c.Sizing.MaxBankrollFraction)
	if err != nil {
		return err
	}
	if frac.Sign() <= 0 || frac.Cmp(one) > 0 {
		return fmt.Errorf("sizing.max_bankroll_fraction must be in (0, 1]")
	}
	if _, err := requireDecimal("sizing.min_bankroll", c.Sizing.MinBankroll); err != nil {
		return err
	}

	enabled := 0
	for name, venue := range c.Venues {
		if !venue.Enabled {
			continue
		}
		enabled++
		if venue.BaseURL == "" {
			return fmt.Errorf("venues.%s.base_url is required", name)
		}
		if _, err := requireDecimal("venues."+name+".trading_fee_pct", venue.TradingFeePct); err != nil {
			return err
		}
		if _, err := requireDecimal("venues."+name+".trading_fee_flat", venue.TradingFeeFlat); err != nil {
			return err
		}
		if _, err := requireDecimal("venues."+name+".balance_base", venue.BalanceBase); err != nil {
			return err
		}
		if _, err := requireDecimal("venues."+name+".balance_quote", venue.BalanceQuote); err != nil {
			return err
		}
		if venue.RequestsPerMinute <= 0 {
			return fmt.Errorf("venues.%s.requests_per_minute must be positive", name)
		}
	}
	if enabled < 2 {
		return fmt.Errorf("at least two venues must be enabled, got %d", enabled)
	}

	for _, w := range c.Withdrawals {
		if w.Venue == "" || w.Currency == "" {
			return fmt.Errorf("withdrawals: venue and currency are required")
		}
		if _, err := requireDecimal("withdrawals.flat_fee", w.FlatFee); err != nil {
			return err
		}
		if _, err := requireDecimal("withdrawals.pct_fee", w.PctFee); err != nil {
			return err
		}
	}
	for _, a := range c.Accuracy {
		if a.Venue == "" {
			return fmt.Errorf("accuracy: venue is required")
		}
		if _, err := marketdata.ParsePair(a.Pair); err != nil {
			return fmt.Errorf("accuracy.%s: %w", a.Venue, err)
		}
		if _, err := requireDecimal("accuracy.min_order_size", a.MinOrderSize); err != nil {
			return err
		}
		if a.MaxOrderSize != "" {
			if _, err := requireDecimal("accuracy.max_order_size", a.MaxOrderSize); err != nil {
				return err
			}
		}
		step, err := requireDecimal("accuracy.lot_step", a.LotStep)
		if err != nil {
			return err
		}
		if step.Sign() <= 0 {
			return fmt.Errorf("accuracy.%s.%s: lot_step must be positive", a.Venue, a.Pair)
		}
		if _, err := requireDecimal("accuracy.tick_size", a.TickSize); err != nil {
			return err
		}
	}
	return nil
}

func requireDecimal(key, value string) (decimal.Decimal, error) {
	d, err := decimals.FromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %q is not a valid decimal", key, value)
	}
	return d, nil
}
