package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/notify"
	"github.com/arbisport/arbisport/internal/scan"
	"github.com/arbisport/arbisport/internal/server"
	"github.com/arbisport/arbisport/internal/server/handler"
	"github.com/arbisport/arbisport/internal/server/ws"
)

const serverShutdownTimeout = 10 * time.Second

// scanParams materializes the domain scan configuration anchored at the
// current time. Validation already proved the decimal fields parse, so a
// failure here means the config changed underneath us; log and return the
// zero value, which the scheduler rejects.
func (a *App) scanParams() domain.ScanConfig {
	params, err := a.cfg.ScanParams(time.Now())
	if err != nil {
		a.logger.Error("scan config rejected", slog.String("error", err.Error()))
		return domain.ScanConfig{}
	}
	return params
}

// ScanMode runs the continuous scan loop without the API server. The process
// exits when the context is cancelled.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	g, ctx := errgroup.WithContext(ctx)

	a.startAlertForwarder(ctx, g, deps)

	if err := deps.Scheduler.Start(ctx, a.scanParams()); err != nil {
		return fmt.Errorf("scan mode: %w", err)
	}
	g.Go(func() error {
		<-ctx.Done()
		return a.stopScheduler(deps.Scheduler)
	})

	return g.Wait()
}

// SnapshotMode runs exactly one scan pass and exits. Used for cron-driven
// deployments and smoke tests.
func (a *App) SnapshotMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting snapshot mode")

	counters, err := deps.Scheduler.RunSnapshot(ctx, a.scanParams())
	if err != nil {
		return fmt.Errorf("snapshot mode: %w", err)
	}
	a.logger.InfoContext(ctx, "snapshot complete",
		slog.Int("events_considered", counters.EventsConsidered),
		slog.Int("markets_evaluated", counters.MarketsEvaluated),
		slog.Int("opportunities_found", counters.OpportunitiesFound),
	)
	return nil
}

// ServeMode runs the API server only. Scanning happens on demand through
// POST /api/scan/start, /api/scan/snapshot, and /api/rescan.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	a.startAlertForwarder(ctx, g, deps)
	a.startHTTPServer(ctx, g, deps)

	// An operator-started loop must not outlive the process.
	g.Go(func() error {
		<-ctx.Done()
		return a.stopScheduler(deps.Scheduler)
	})

	return g.Wait()
}

// FullMode runs the continuous scan loop plus the API server.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	a.startAlertForwarder(ctx, g, deps)

	if err := deps.Scheduler.Start(ctx, a.scanParams()); err != nil {
		return fmt.Errorf("full mode: %w", err)
	}
	g.Go(func() error {
		<-ctx.Done()
		return a.stopScheduler(deps.Scheduler)
	})

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps)
	}

	return g.Wait()
}

// stopScheduler joins the scan loop with a bounded wait so shutdown cannot
// hang on a slow pass. A scheduler that was never started is not an error
// here.
func (a *App) stopScheduler(sched *scan.Scheduler) error {
	stopCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// startAlertForwarder subscribes to the opportunity channel and forwards
// detected opportunities to the configured notification senders. Skipped when
// no sender is configured.
func (a *App) startAlertForwarder(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if deps.Notifier == nil || !deps.Notifier.HasSenders() {
		return
	}
	g.Go(func() error {
		err := notify.Forward(ctx, deps.Bus, scan.ChannelOpportunities, deps.Notifier, a.logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

// startHTTPServer adds the API server and the WebSocket hub to the errgroup.
// The server is shut down gracefully when the context is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	hub := ws.NewHub(deps.Bus, scan.ChannelOpportunities, a.logger)
	g.Go(func() error {
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("ws hub: %w", err)
		}
		return nil
	})

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Scan:   handler.NewScanHandler(deps.Scheduler, deps.Rescan, a.scanParams, ctx, a.logger),
		Arb:    handler.NewArbHandler(deps.ArbHistory, a.logger),
		Logs:   handler.NewLogsHandler(deps.ScanLog, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		Limiter:     deps.ClientLimiter,
		ClientLimit: a.cfg.Server.ClientRateLimit,
		ClientWin:   a.cfg.Server.ClientRateWindow.Duration,
	}, handlers, hub, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
