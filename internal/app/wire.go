package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arbisport/arbisport/internal/cache/redis"
	"github.com/arbisport/arbisport/internal/catalog"
	"github.com/arbisport/arbisport/internal/config"
	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/markets"
	"github.com/arbisport/arbisport/internal/normalize"
	"github.com/arbisport/arbisport/internal/notify"
	"github.com/arbisport/arbisport/internal/platform/oddsapi"
	"github.com/arbisport/arbisport/internal/scan"
	"github.com/arbisport/arbisport/internal/service"
	"github.com/arbisport/arbisport/internal/store/postgres"
)

// Dependencies bundles everything the application modes need: the odds feed,
// the persistence ledger, the scan core, and the shared Redis collaborators.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Feed    domain.OddsFeed
	Ledger  domain.Ledger
	Limiter domain.RateLimiter
	Bus     domain.SignalBus

	// Read-back surfaces for the API.
	ArbHistory domain.ArbHistory
	ScanLog    domain.ScanLog

	// Per-client API rate limiting (separate budget from the feed limiter).
	ClientLimiter domain.RateLimiter

	// Scan core.
	Tracker      *markets.AvailabilityTracker
	Orchestrator *scan.Orchestrator
	Scheduler    *scan.Scheduler
	Rescan       *scan.RescanService

	// Notifications.
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	eventStore := postgres.NewEventStore(pool)
	quoteStore := postgres.NewQuoteStore(pool)
	arbStore := postgres.NewArbStore(pool)
	usageStore := postgres.NewUsageStore(pool)
	logStore := postgres.NewLogStore(pool)

	deps.Ledger = service.NewLedger(eventStore, quoteStore, arbStore, usageStore, logStore, logger)
	deps.ArbHistory = arbStore
	deps.ScanLog = logStore

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.Limiter = redis.NewRateLimiter(redisClient, cfg.OddsAPI.RequestLimit, cfg.OddsAPI.RequestWindow.Duration)
	deps.Bus = redis.NewSignalBus(redisClient)
	if cfg.Server.Enabled && cfg.Server.ClientRateLimit > 0 {
		deps.ClientLimiter = redis.NewRateLimiter(redisClient, cfg.Server.ClientRateLimit, cfg.Server.ClientRateWindow.Duration)
	}

	// --- Odds feed ---
	deps.Feed = oddsapi.NewClient(cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey, deps.Limiter)

	// --- Scan core ---
	for _, key := range cfg.Scan.Sports {
		if sport, ok := catalog.LookupSport(key); ok {
			logger.Debug("sport configured",
				slog.String("key", key),
				slog.String("title", sport.Title),
			)
		} else {
			logger.Warn("sport key not in catalog, scanning anyway", slog.String("key", key))
		}
	}

	names := normalize.New(cfg.Normalize.Overrides)
	deps.Tracker = markets.NewAvailabilityTracker(deps.Feed, deps.Ledger, logger)
	deps.Orchestrator = scan.NewOrchestrator(deps.Feed, deps.Ledger, deps.Tracker, names, deps.Bus, logger)
	deps.Scheduler = scan.NewScheduler(deps.Orchestrator, logger)
	deps.Rescan = scan.NewRescanService(deps.Orchestrator, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
