package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jensholdgaard/eventdesk/internal/bot"
	"github.com/jensholdgaard/eventdesk/internal/catalog"
	"github.com/jensholdgaard/eventdesk/internal/clock"
	"github.com/jensholdgaard/eventdesk/internal/config"
	"github.com/jensholdgaard/eventdesk/internal/health"
	"github.com/jensholdgaard/eventdesk/internal/httpapi"
	"github.com/jensholdgaard/eventdesk/internal/leader"
	"github.com/jensholdgaard/eventdesk/internal/notify"
	"github.com/jensholdgaard/eventdesk/internal/snapshot"
	"github.com/jensholdgaard/eventdesk/internal/store"
	"github.com/jensholdgaard/eventdesk/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and leader-only background work",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), a.cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if version != "dev" {
		cfg.Telemetry.ServiceVersion = version
	}
	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.System{}

	repos, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening store (driver=%s): %w", cfg.Database.Driver, err)
	}
	defer repos.Close()
	logger.InfoContext(ctx, "connected to database", slog.String("driver", cfg.Database.Driver))

	checkers := []health.Checker{{Name: "database", Check: repos.Ping}}

	var pub notify.Publisher = notify.NoopPublisher{}
	if cfg.Notify.NATSURL != "" {
		np, natsErr := notify.NewNATSPublisher(cfg.Notify.NATSURL)
		if natsErr != nil {
			return natsErr
		}
		pub = np
		checkers = append(checkers, health.Checker{Name: "nats", Check: np.Flush})
		logger.InfoContext(ctx, "publishing change notifications", slog.String("nats_url", cfg.Notify.NATSURL))
	}
	defer pub.Close()

	mgr, err := catalog.NewManager(repos.Events, pub, clk, logger, tp.TracerProvider, tp.MeterProvider)
	if err != nil {
		return fmt.Errorf("creating catalog: %w", err)
	}

	// Leader work is built before the listener starts so a setup failure
	// leaves nothing to shut down.
	work, err := leaderWork(ctx, cfg, mgr, repos, clk, logger, tp)
	if err != nil {
		return err
	}

	healthHandler := health.NewHandler(clk, checkers...)

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: httpapi.NewHandler(httpapi.Options{
			Catalog:        mgr,
			Health:         healthHandler,
			Logger:         logger,
			JWTSecret:      cfg.Server.JWTSecret,
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting http server", slog.Int("port", cfg.Server.Port))
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serverErr <- listenErr
		}
	}()

	var wg sync.WaitGroup
	if work != nil {
		if cfg.LeaderElection.Enabled {
			logger.InfoContext(ctx, "leader election enabled, waiting for leadership...")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gateErr := leader.Gate(ctx, cfg.LeaderElection, logger, work); gateErr != nil {
				logger.ErrorContext(ctx, "leader election failed", slog.Any("error", gateErr))
			}
		}()
	}

	healthHandler.SetReady(true)
	logger.InfoContext(ctx, "eventdesk is running", slog.String("version", version))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case runErr = <-serverErr:
		logger.Error("http server error", slog.Any("error", runErr))
		cancel()
	}

	healthHandler.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", slog.Any("error", err))
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return runErr
}

// leaderWork returns the work only one replica should run: the snapshot
// scheduler and the Discord bot. It returns nil when neither is configured.
func leaderWork(ctx context.Context, cfg *config.Config, mgr *catalog.Manager, repos *store.Repositories, clk clock.Clock, logger *slog.Logger, tp *telemetry.Provider) (func(context.Context), error) {
	var jobs []func(context.Context)

	if cfg.Snapshot.Interval > 0 {
		dests, err := snapshotDestinations(ctx, cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		sched := snapshot.NewScheduler(repos.Events, dests, cfg.Snapshot.Interval, clk, logger)
		jobs = append(jobs, sched.Run)
	}

	if cfg.Discord.Token != "" {
		jobs = append(jobs, func(ctx context.Context) {
			discordBot, err := bot.New(cfg.Discord, mgr, logger, tp.TracerProvider)
			if err != nil {
				logger.ErrorContext(ctx, "creating bot failed", slog.Any("error", err))
				return
			}
			if err := discordBot.Run(ctx); err != nil {
				logger.ErrorContext(ctx, "bot failed", slog.Any("error", err))
			}
		})
	}

	if len(jobs) == 0 {
		return nil, nil
	}
	return func(ctx context.Context) {
		logger.InfoContext(ctx, "starting leader work", slog.Int("jobs", len(jobs)))
		var wg sync.WaitGroup
		for _, job := range jobs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				job(ctx)
			}()
		}
		wg.Wait()
	}, nil
}

// snapshotDestinations builds the configured snapshot targets.
func snapshotDestinations(ctx context.Context, cfg config.SnapshotConfig) ([]snapshot.Destination, error) {
	var dests []snapshot.Destination
	if cfg.Dir != "" {
		dests = append(dests, snapshot.FileDestination{Dir: cfg.Dir})
	}
	if cfg.S3Bucket != "" {
		s3, err := snapshot.NewS3Destination(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("configuring s3 snapshots: %w", err)
		}
		dests = append(dests, s3)
	}
	return dests, nil
}
