package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gdaSwap/internal/chain"
	"gdaSwap/internal/dex"
	"gdaSwap/internal/model"
	"gdaSwap/internal/swap"
	"gdaSwap/internal/transport"
)

func runSwap(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cmd.Flags().Changed("wait") {
		cfg.SwapConfirmations, _ = cmd.Flags().GetUint64("wait")
	}
	tokenField, _ := cmd.Flags().GetString("token")
	unitField, _ := cmd.Flags().GetString("units")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	resolveDecimals, _ := cmd.Flags().GetBool("resolve-decimals")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dryRun {
		deployment, err := cfg.Deployment()
		if err != nil {
			return err
		}
		if resolveDecimals {
			if cfg.RPCURL == "" {
				return fmt.Errorf("rpc url is required to resolve decimals")
			}
			client, err := chain.NewClient(ctx, cfg.RPCURL)
			if err != nil {
				return fmt.Errorf("connect rpc: %w", err)
			}
			defer client.Close()
			if deployment, err = resolveAssetDecimals(ctx, client, deployment, logger); err != nil {
				return err
			}
		}
		return printPlan(deployment, tokenField, unitField, logger)
	}

	rt, err := openRuntime(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	deployment := rt.deployment
	if resolveDecimals {
		if deployment, err = resolveAssetDecimals(ctx, rt.client, deployment, logger); err != nil {
			return err
		}
	}

	orchestrator, err := swap.NewOrchestrator(swap.Config{
		Deployment: deployment,
		Account:    rt.account,
	}, rt.transport, rt.sinks, logger)
	if err != nil {
		return err
	}

	logger.Info("swap start",
		zap.String("account", rt.account.Hex()),
		zap.String("swapper", deployment.Swapper.Hex()),
		zap.String("token", tokenField),
		zap.String("units", unitField),
		zap.Uint64("confirmations", deployment.Policy.SwapConfirmations),
	)

	outcome := orchestrator.ExecuteFields(ctx, tokenField, unitField)
	intent, _ := swap.DeriveIntent(tokenField, unitField)
	if err := printJSON(orchestrator.Record(intent, outcome)); err != nil {
		return err
	}
	return outcomeError("swap", outcome)
}

func printPlan(deployment model.Deployment, tokenField, unitField string, logger *zap.Logger) error {
	orchestrator, err := swap.NewOrchestrator(swap.Config{Deployment: deployment}, transport.Offline{}, nil, logger)
	if err != nil {
		return err
	}
	intent, err := swap.DeriveIntent(tokenField, unitField)
	if err != nil {
		return err
	}
	plan, err := orchestrator.Plan(intent)
	if err != nil {
		return err
	}
	return printJSON(plan.Summary(deployment))
}

func resolveAssetDecimals(ctx context.Context, caller dex.ContractCaller, deployment model.Deployment, logger *zap.Logger) (model.Deployment, error) {
	cache := dex.NewTokenMetaCache()

	input, err := dex.ResolveAsset(ctx, caller, deployment.Pair.Input, cache, logger)
	if err != nil {
		return deployment, fmt.Errorf("resolve input asset: %w", err)
	}
	output, err := dex.ResolveAsset(ctx, caller, deployment.Pair.Output, cache, logger)
	if err != nil {
		return deployment, fmt.Errorf("resolve output asset: %w", err)
	}

	logger.Info("asset decimals resolved",
		zap.String("input", input.Address.Hex()),
		zap.Uint8("input_decimals", input.Decimals),
		zap.String("output", output.Address.Hex()),
		zap.Uint8("output_decimals", output.Decimals),
	)

	deployment.Pair = model.AssetPair{Input: input, Output: output}
	return deployment, nil
}
