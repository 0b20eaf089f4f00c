package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ARBISPORT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ARBISPORT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Odds API ──
	setStr(&cfg.OddsAPI.BaseURL, "ARBISPORT_ODDS_API_BASE_URL")
	setStr(&cfg.OddsAPI.APIKey, "ARBISPORT_ODDS_API_KEY")
	setInt(&cfg.OddsAPI.RequestLimit, "ARBISPORT_ODDS_API_REQUEST_LIMIT")
	setDuration(&cfg.OddsAPI.RequestWindow, "ARBISPORT_ODDS_API_REQUEST_WINDOW")

	// ── Scan ──
	setStringSlice(&cfg.Scan.Sports, "ARBISPORT_SCAN_SPORTS")
	setStringSlice(&cfg.Scan.Regions, "ARBISPORT_SCAN_REGIONS")
	setStringSlice(&cfg.Scan.Bookmakers, "ARBISPORT_SCAN_BOOKMAKERS")
	setStringSlice(&cfg.Scan.Markets, "ARBISPORT_SCAN_MARKETS")
	setStringSlice(&cfg.Scan.DeepMarkets, "ARBISPORT_SCAN_DEEP_MARKETS")
	setBool(&cfg.Scan.AutoDeepMarkets, "ARBISPORT_SCAN_AUTO_DEEP_MARKETS")
	setDuration(&cfg.Scan.WindowStartOffset, "ARBISPORT_SCAN_WINDOW_START_OFFSET")
	setDuration(&cfg.Scan.WindowEndOffset, "ARBISPORT_SCAN_WINDOW_END_OFFSET")
	setStr(&cfg.Scan.Mode, "ARBISPORT_SCAN_MODE")
	setDuration(&cfg.Scan.Interval, "ARBISPORT_SCAN_INTERVAL")
	setDuration(&cfg.Scan.BurstInterval, "ARBISPORT_SCAN_BURST_INTERVAL")
	setDuration(&cfg.Scan.BurstWindow, "ARBISPORT_SCAN_BURST_WINDOW")

	// ── Detection ──
	setStr(&cfg.Detection.MinEdge, "ARBISPORT_DETECTION_MIN_EDGE")
	setStr(&cfg.Detection.Bankroll, "ARBISPORT_DETECTION_BANKROLL")
	setStr(&cfg.Detection.RoundTo, "ARBISPORT_DETECTION_ROUND_TO")
	setStr(&cfg.Detection.MaxPerBook, "ARBISPORT_DETECTION_MAX_PER_BOOK")
	setInt(&cfg.Detection.MinBookCount, "ARBISPORT_DETECTION_MIN_BOOK_COUNT")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "ARBISPORT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "ARBISPORT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "ARBISPORT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "ARBISPORT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "ARBISPORT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "ARBISPORT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "ARBISPORT_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "ARBISPORT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "ARBISPORT_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "ARBISPORT_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "ARBISPORT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ARBISPORT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ARBISPORT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ARBISPORT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ARBISPORT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ARBISPORT_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "ARBISPORT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "ARBISPORT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ARBISPORT_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "ARBISPORT_SERVER_API_KEY")
	setInt(&cfg.Server.ClientRateLimit, "ARBISPORT_SERVER_CLIENT_RATE_LIMIT")
	setDuration(&cfg.Server.ClientRateWindow, "ARBISPORT_SERVER_CLIENT_RATE_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "ARBISPORT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ARBISPORT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ARBISPORT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ARBISPORT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "ARBISPORT_MODE")
	setStr(&cfg.LogLevel, "ARBISPORT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
