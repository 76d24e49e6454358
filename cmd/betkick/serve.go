package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betkick/internal/health"
	"github.com/yourusername/betkick/internal/metrics"
	"github.com/yourusername/betkick/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled pipeline",
	Long: `Starts the health server, the event websocket and the scheduler, then runs
until SIGINT or SIGTERM. With scheduler.run_bootstrap_on_start the database is
refilled in the background before the regular tasks take over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("betkick starting")

	a, err := newApp(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer a.close()

	var notifier scheduler.MaintenanceNotifier
	var grpcHealth *health.GRPCHealth
	if cfg.Health.GRPCPort > 0 {
		grpcHealth = health.NewGRPCHealth(strconv.Itoa(cfg.Health.GRPCPort), appLog)
		if err := grpcHealth.Start(ctx); err != nil {
			return err
		}
		notifier = grpcHealth
	}

	healthCfg := health.Config{
		ServiceName: "betkick",
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Health.Port),
		Logger:      appLog,
		DB:          a.db,
		Pipeline:    a.state,
		Backlog:     a.repos.Match,
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		healthCfg.MetricsPath = cfg.Metrics.Path
	}
	if a.hub != nil {
		go a.hub.Run(ctx)
		healthCfg.Events = http.HandlerFunc(a.hub.ServeWS)
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	coordinator := a.newCoordinator(cfg, notifier, appLog)
	if err := coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if cfg.Scheduler.RunBootstrapOnStart {
		go func() {
			if err := coordinator.Bootstrap(ctx); err != nil {
				appLog.WithError(err).Warn("Bootstrap did not complete cleanly")
			}
		}()
	} else if err := coordinator.Prime(ctx); err != nil {
		appLog.WithError(err).Warn("Failed to check today's calendar")
	}

	healthServer.SetReady(true)
	appLog.WithField("phase", a.state.Snapshot().Phase()).Info("Pipeline running")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	healthServer.SetReady(false)
	coordinator.Stop()
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}
	if grpcHealth != nil {
		grpcHealth.Shutdown()
	}

	appLog.Info("betkick shut down")
	return nil
}
