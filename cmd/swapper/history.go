package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gdaSwap/internal/model"
	"gdaSwap/internal/storage"
	"gdaSwap/internal/storage/postgres"
)

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	operation, _ := cmd.Flags().GetString("operation")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than zero")
	}
	switch operation {
	case "", model.OperationSwap, model.OperationConnect:
	default:
		return fmt.Errorf("unknown operation %q", operation)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		records, err := store.RecentOutcomes(ctx, operation, limit)
		if err != nil {
			return err
		}
		return printJSON(records)
	}

	if cfg.Journal == "" {
		return fmt.Errorf("journal path or pg dsn is required")
	}
	records, err := storage.ReadOutcomes(cfg.Journal)
	if err != nil {
		return err
	}
	return printJSON(lastOutcomes(records, operation, limit))
}

// lastOutcomes returns up to limit records of operation, newest first.
func lastOutcomes(records []model.OutcomeRecord, operation string, limit int) []model.OutcomeRecord {
	out := make([]model.OutcomeRecord, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		if operation != "" && records[i].Operation != operation {
			continue
		}
		out = append(out, records[i])
	}
	return out
}
