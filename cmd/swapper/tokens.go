package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gdaSwap/internal/chain"
	"gdaSwap/internal/dex"
	"gdaSwap/internal/model"
)

type tokenReport struct {
	Role string `json:"role"`
	model.TokenMeta
	Configured uint8 `json:"configured_decimals"`
	Mismatch   bool  `json:"decimals_mismatch,omitempty"`
}

func runTokens(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	deployment, err := cfg.Deployment()
	if err != nil {
		return err
	}
	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	assets := []struct {
		role  string
		asset model.Asset
	}{
		{role: "input", asset: deployment.Pair.Input},
		{role: "output", asset: deployment.Pair.Output},
	}

	reports := make([]tokenReport, 0, len(assets))
	for _, item := range assets {
		meta, err := dex.FetchTokenMeta(ctx, client, item.asset.Address, logger)
		if err != nil {
			return fmt.Errorf("fetch %s token meta: %w", item.role, err)
		}
		reports = append(reports, tokenReport{
			Role:       item.role,
			TokenMeta:  meta,
			Configured: item.asset.Decimals,
			Mismatch:   meta.Decimals != item.asset.Decimals,
		})
	}
	return printJSON(reports)
}
