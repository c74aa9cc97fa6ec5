package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gdaSwap/internal/membership"
)

func runConnect(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	controller, err := membership.NewController(
		membership.ConfigFromDeployment(rt.deployment, rt.account),
		rt.transport, rt.sinks, nil, logger,
	)
	if err != nil {
		return err
	}

	state := controller.Refresh(ctx)
	logger.Info("connect start",
		zap.String("account", rt.account.Hex()),
		zap.String("pool", rt.deployment.DistributionPool.Hex()),
		zap.Bool("connected", state.Connected),
		zap.Uint64("confirmations", rt.deployment.Policy.ConnectConfirmations),
	)

	outcome := controller.Connect(ctx)
	if err := printJSON(controller.Record(outcome)); err != nil {
		return err
	}
	return outcomeError("connect", outcome)
}
