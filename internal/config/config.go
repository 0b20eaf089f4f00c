// Package config defines the top-level configuration for the arbitrage
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/markets"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ARBISPORT_* environment
// variables.
type Config struct {
	OddsAPI   OddsAPIConfig   `toml:"odds_api"`
	Scan      ScanSection     `toml:"scan"`
	Detection DetectionConfig `toml:"detection"`
	Normalize NormalizeConfig `toml:"normalize"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// OddsAPIConfig holds the odds provider endpoint, credentials, and the
// self-imposed request budget.
type OddsAPIConfig struct {
	BaseURL       string   `toml:"base_url"`
	APIKey        string   `toml:"api_key"`
	RequestLimit  int      `toml:"request_limit"`
	RequestWindow duration `toml:"request_window"`
}

// ScanSection holds what to scan and how to pace it.
type ScanSection struct {
	Sports      []string            `toml:"sports"`
	Regions     []string            `toml:"regions"`
	Bookmakers  []string            `toml:"bookmakers"`
	Markets     []string            `toml:"markets"`
	DeepMarkets []string            `toml:"deep_markets"`
	DeepBySport map[string][]string `toml:"deep_markets_by_sport"`

	// AutoDeepMarkets fills per-sport deep lists from the built-in
	// per-sport-group catalog for sports without an explicit override.
	AutoDeepMarkets bool `toml:"auto_deep_markets"`

	// The commence-time window is expressed as offsets from scan start, so
	// a long-running process always looks at a rolling horizon.
	WindowStartOffset duration `toml:"window_start_offset"`
	WindowEndOffset   duration `toml:"window_end_offset"`

	Mode          string   `toml:"mode"` // snapshot, continuous, burst
	Interval      duration `toml:"interval"`
	BurstInterval duration `toml:"burst_interval"`
	BurstWindow   duration `toml:"burst_window"`
}

// DetectionConfig holds the stake model. Monetary values are decimal strings
// so they survive the TOML round trip without binary-float drift.
type DetectionConfig struct {
	MinEdge      string `toml:"min_edge"`
	Bankroll     string `toml:"bankroll"`
	RoundTo      string `toml:"round_to"`
	MaxPerBook   string `toml:"max_per_book"` // empty means uncapped
	MinBookCount int    `toml:"min_book_count"`
}

// NormalizeConfig holds manual outcome-name overrides applied before the
// built-in cleanup rules.
type NormalizeConfig struct {
	Overrides map[string]string `toml:"overrides"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled          bool     `toml:"enabled"`
	Port             int      `toml:"port"`
	CORSOrigins      []string `toml:"cors_origins"`
	APIKey           string   `toml:"api_key"`
	ClientRateLimit  int      `toml:"client_rate_limit"`
	ClientRateWindow duration `toml:"client_rate_window"`
}

// NotifyConfig holds notification channel credentials and the event filter.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration wraps time.Duration for TOML text decoding.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		OddsAPI: OddsAPIConfig{
			BaseURL:       "https://api.the-odds-api.com",
			RequestLimit:  5,
			RequestWindow: duration{time.Second},
		},
		Scan: ScanSection{
			Sports:            []string{"basketball_nba"},
			Regions:           []string{"us"},
			Markets:           []string{"h2h", "spreads", "totals"},
			WindowStartOffset: duration{0},
			WindowEndOffset:   duration{72 * time.Hour},
			Mode:              "continuous",
			Interval:          duration{5 * time.Minute},
			BurstInterval:     duration{45 * time.Second},
			BurstWindow:       duration{30 * time.Minute},
		},
		Detection: DetectionConfig{
			MinEdge:      "0.005",
			Bankroll:     "1000",
			RoundTo:      "1",
			MinBookCount: 2,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "arbisport",
			User:          "arbisport",
			SSLMode:       "disable",
			PoolMaxConns:  8,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 8,
		},
		Server: ServerConfig{
			Enabled:          true,
			Port:             8000,
			CORSOrigins:      []string{"http://localhost:3000", "http://localhost:5173"},
			ClientRateLimit:  20,
			ClientRateWindow: duration{time.Second},
		},
		Notify: NotifyConfig{
			Events: []string{"arbitrage"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":     true, // continuous scanning only
	"snapshot": true, // one pass, then exit
	"serve":    true, // API server only, no automatic scanning
	"full":     true, // scanning plus the API server
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validScanModes = map[string]bool{
	string(domain.ModeSnapshot):   true,
	string(domain.ModeContinuous): true,
	string(domain.ModeBurst):      true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, snapshot, serve, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Odds API
	if c.OddsAPI.APIKey == "" {
		errs = append(errs, "odds_api: api_key must not be empty")
	}
	if c.OddsAPI.RequestLimit < 1 {
		errs = append(errs, "odds_api: request_limit must be >= 1")
	}
	if c.OddsAPI.RequestWindow.Duration <= 0 {
		errs = append(errs, "odds_api: request_window must be positive")
	}

	// Scan
	if len(c.Scan.Sports) == 0 {
		errs = append(errs, "scan: at least one sport is required")
	}
	if len(c.Scan.Markets) == 0 {
		errs = append(errs, "scan: at least one primary market is required")
	}
	if !validScanModes[strings.ToLower(c.Scan.Mode)] {
		errs = append(errs, fmt.Sprintf("scan: unknown mode %q (valid: snapshot, continuous, burst)", c.Scan.Mode))
	}
	if c.Scan.Mode != string(domain.ModeSnapshot) && c.Scan.Interval.Duration <= 0 {
		errs = append(errs, "scan: interval must be positive for continuous scanning")
	}
	if c.Scan.Mode == string(domain.ModeBurst) {
		if c.Scan.BurstInterval.Duration <= 0 {
			errs = append(errs, "scan: burst_interval must be positive in burst mode")
		}
		if c.Scan.BurstWindow.Duration <= 0 {
			errs = append(errs, "scan: burst_window must be positive in burst mode")
		}
	}
	if c.Scan.WindowEndOffset.Duration <= c.Scan.WindowStartOffset.Duration {
		errs = append(errs, "scan: window_end_offset must be after window_start_offset")
	}

	// Detection
	if v, err := decimal.NewFromString(c.Detection.MinEdge); err != nil || v.IsNegative() {
		errs = append(errs, fmt.Sprintf("detection: min_edge %q must be a non-negative decimal", c.Detection.MinEdge))
	}
	if v, err := decimal.NewFromString(c.Detection.Bankroll); err != nil || !v.IsPositive() {
		errs = append(errs, fmt.Sprintf("detection: bankroll %q must be a positive decimal", c.Detection.Bankroll))
	}
	if v, err := decimal.NewFromString(c.Detection.RoundTo); err != nil || !v.IsPositive() {
		errs = append(errs, fmt.Sprintf("detection: round_to %q must be a positive decimal", c.Detection.RoundTo))
	}
	if c.Detection.MaxPerBook != "" {
		if v, err := decimal.NewFromString(c.Detection.MaxPerBook); err != nil || !v.IsPositive() {
			errs = append(errs, fmt.Sprintf("detection: max_per_book %q must be a positive decimal", c.Detection.MaxPerBook))
		}
	}
	if c.Detection.MinBookCount < 0 {
		errs = append(errs, "detection: min_book_count must be >= 0")
	}

	// Postgres
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Notify — token and chat ID travel together.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ScanParams materializes the domain scan configuration: the rolling window
// is anchored at now, the decimal fields are parsed, and auto deep markets
// are expanded from the built-in catalog. Call Validate first; parse errors
// here are reported as domain.ErrInvalidConfig.
func (c *Config) ScanParams(now time.Time) (domain.ScanConfig, error) {
	minEdge, err := decimal.NewFromString(c.Detection.MinEdge)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("min_edge %q: %w", c.Detection.MinEdge, domain.ErrInvalidConfig)
	}
	bankroll, err := decimal.NewFromString(c.Detection.Bankroll)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("bankroll %q: %w", c.Detection.Bankroll, domain.ErrInvalidConfig)
	}
	rounding, err := decimal.NewFromString(c.Detection.RoundTo)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("round_to %q: %w", c.Detection.RoundTo, domain.ErrInvalidConfig)
	}

	var maxPerBook *decimal.Decimal
	if c.Detection.MaxPerBook != "" {
		v, err := decimal.NewFromString(c.Detection.MaxPerBook)
		if err != nil {
			return domain.ScanConfig{}, fmt.Errorf("max_per_book %q: %w", c.Detection.MaxPerBook, domain.ErrInvalidConfig)
		}
		maxPerBook = &v
	}

	deepBySport := make(map[string][]string, len(c.Scan.DeepBySport))
	for sport, keys := range c.Scan.DeepBySport {
		deepBySport[sport] = append([]string(nil), keys...)
	}
	if c.Scan.AutoDeepMarkets {
		for _, sport := range c.Scan.Sports {
			if _, ok := deepBySport[sport]; ok {
				continue
			}
			if fallback := markets.FallbackDeepMarkets(sport); len(fallback) > 0 {
				deepBySport[sport] = fallback
			}
		}
	}

	now = now.UTC()
	return domain.ScanConfig{
		Sports:       append([]string(nil), c.Scan.Sports...),
		Regions:      append([]string(nil), c.Scan.Regions...),
		Bookmakers:   append([]string(nil), c.Scan.Bookmakers...),
		Markets:      append([]string(nil), c.Scan.Markets...),
		DeepMarkets:  append([]string(nil), c.Scan.DeepMarkets...),
		DeepBySport:  deepBySport,
		WindowStart:  now.Add(c.Scan.WindowStartOffset.Duration),
		WindowEnd:    now.Add(c.Scan.WindowEndOffset.Duration),
		MinEdge:      minEdge,
		Bankroll:     bankroll,
		Rounding:     rounding,
		MinBookCount: c.Detection.MinBookCount,
		MaxPerBook:   maxPerBook,
		Mode:         domain.ScanMode(strings.ToLower(c.Scan.Mode)),
		Schedule: domain.ScanSchedule{
			Interval:      c.Scan.Interval.Duration,
			BurstInterval: c.Scan.BurstInterval.Duration,
			BurstWindow:   c.Scan.BurstWindow.Duration,
		},
	}, nil
}
