package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/api"
	"github.com/aatumaykin/nextrun/internal/config"
	"github.com/aatumaykin/nextrun/internal/constants"
	"github.com/aatumaykin/nextrun/internal/dashboard"
	"github.com/aatumaykin/nextrun/internal/definitions"
	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/metrics"
	"github.com/aatumaykin/nextrun/internal/resolver"
	"github.com/aatumaykin/nextrun/internal/urgency"
	"github.com/aatumaykin/nextrun/internal/version"
	"github.com/aatumaykin/nextrun/internal/workers"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the schedule dashboard service",
	Long: `Run the dashboard service: stored definitions are re-resolved every
dashboard.refresh_interval_seconds on a worker pool, and, when
server.enabled is set, the latest snapshot is served over HTTP.

SIGINT and SIGTERM trigger a graceful shutdown.`,
	Args: cobra.NoArgs,
	RunE: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize logger: %v\n", err)
		return err
	}
	logger.SetDefault(log)

	log.Info(version.FormatStartupMessage(),
		logger.Field{Key: "git_commit", Value: version.GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "storage", Value: cfg.Storage.FilePath()},
		logger.Field{Key: "workers", Value: cfg.Dashboard.Workers},
		logger.Field{Key: "server_enabled", Value: cfg.Server.Enabled})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runService(ctx, cfg, log)
}

// runService blocks until ctx is cancelled or the HTTP server fails.
func runService(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	reg := prometheus.NewRegistry()
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(cfg.Metrics.Namespace, reg)
	}

	poolOpts := []workers.Option{workers.WithTaskTimeout(cfg.Dashboard.TaskTimeout())}
	if m != nil {
		poolOpts = append(poolOpts, workers.WithObserver(m))
	}
	pool := workers.NewPool(cfg.Dashboard.Workers, cfg.Dashboard.QueueSize, log, poolOpts...)
	pool.Start()
	defer pool.Stop()

	loc, err := cfg.Engine.Location()
	if err != nil {
		return err
	}
	holidays, err := cfg.Engine.HolidaySet()
	if err != nil {
		return err
	}

	store := definitions.NewStore(cfg.Storage.FilePath(), log)
	engine := resolver.New(resolver.WithLogger(log), resolver.WithMetrics(m))
	poller := dashboard.New(store, engine, pool,
		dashboard.WithInterval(cfg.Dashboard.RefreshInterval()),
		dashboard.WithFormatter(urgency.NewFormatter(cfg.Engine.Locale)),
		dashboard.WithMetrics(m),
		dashboard.WithLocation(loc),
		dashboard.WithHolidays(holidays),
		dashboard.WithLogger(log))

	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("start dashboard: %w", err)
	}
	defer poller.Stop()

	errCh := make(chan error, 1)
	var srv *api.Server
	if cfg.Server.Enabled {
		opts := []api.Option{api.WithDefinitions(store, engine), api.WithLogger(log)}
		if m != nil {
			opts = append(opts, api.WithGatherer(reg))
		}
		srv = api.New(cfg.Server.ListenAddr, poller, opts...)
		go func() { errCh <- srv.ListenAndServe() }()
	} else {
		log.Warn("HTTP API is disabled, the dashboard is only refreshed")
	}

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP API failed", err)
			return err
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP API shutdown failed", err)
		}
	}

	log.Info(constants.MsgServiceStopped)
	return nil
}
