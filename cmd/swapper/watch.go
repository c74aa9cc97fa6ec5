package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gdaSwap/internal/membership"
	"gdaSwap/internal/metrics"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	autoConnect, _ := cmd.Flags().GetBool("auto-connect")

	rt, err := openRuntime(ctx, cfg, logger, autoConnect)
	if err != nil {
		return err
	}
	defer rt.Close()

	m := metrics.NewMetrics("")
	controller, err := membership.NewController(
		membership.ConfigFromDeployment(rt.deployment, rt.account),
		rt.transport, append(rt.sinks, m), m, logger,
	)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("watch start",
		zap.String("account", rt.account.Hex()),
		zap.String("pool", rt.deployment.DistributionPool.Hex()),
		zap.Duration("poll_interval", rt.deployment.Policy.PollInterval),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.Bool("auto_connect", autoConnect),
	)

	first := true
	var connected bool
	for state := range controller.Poll(ctx) {
		if state.ObservedAt.IsZero() {
			continue
		}
		if first || state.Connected != connected {
			logger.Info("membership changed",
				zap.Bool("connected", state.Connected),
				zap.Time("observed_at", state.ObservedAt),
			)
		}
		first = false
		connected = state.Connected

		if autoConnect && !state.Connected && !state.Connecting {
			if outcome := controller.Connect(ctx); outcome.Failed() {
				logger.Warn("auto connect failed, retrying on next poll", zap.Error(outcome.Err))
			}
		}
	}

	logger.Info("watch stopped")
	return nil
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
