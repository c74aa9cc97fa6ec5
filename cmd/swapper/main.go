package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "swapper",
		Short:        "Swap against the GDA pool and manage distribution pool membership",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Approve both assets and swap through the pool",
		RunE:  runSwap,
	}

	addChainFlags(swapCmd)
	swapCmd.Flags().String("token", "", "amount of output token to receive (token_in side)")
	swapCmd.Flags().String("units", "", "amount of virtual units to sell (unit_in side, wins over --token)")
	swapCmd.Flags().Bool("dry-run", false, "print the planned calls without dispatching")
	swapCmd.Flags().Bool("resolve-decimals", false, "read asset decimals from chain instead of config")
	swapCmd.Flags().Uint64("wait", 0, "confirmations to wait for after the swap is accepted, 0 returns on acceptance")
	swapCmd.Flags().Int64("approval-multiplier", 10, "allowance granted per approval as a multiple of the amount")
	swapCmd.Flags().Bool("approve-both", true, "approve both pool assets instead of only the sold one")

	root.AddCommand(swapCmd)

	connectCmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect the account to the distribution pool",
		RunE:  runConnect,
	}

	addChainFlags(connectCmd)
	connectCmd.Flags().Uint64("connect-confirmations", 5, "confirmations required before re-reading membership")

	root.AddCommand(connectCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll distribution pool membership",
		RunE:  runWatch,
	}

	addChainFlags(watchCmd)
	watchCmd.Flags().Duration("poll-interval", 5*time.Second, "membership poll interval")
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9102)")
	watchCmd.Flags().Bool("auto-connect", false, "connect to the pool whenever the account is observed disconnected")

	root.AddCommand(watchCmd)

	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "Show ERC20 metadata of both pool assets",
		RunE:  runTokens,
	}

	tokensCmd.Flags().String("rpc", "", "RPC URL")
	tokensCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(tokensCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded outcomes",
		RunE:  runHistory,
	}

	historyCmd.Flags().String("operation", "", "filter by operation (swap, connect)")
	historyCmd.Flags().Int("limit", 20, "maximum records to list")
	historyCmd.Flags().String("journal", "./data/outcomes.jsonl", "outcome journal JSONL path")
	historyCmd.Flags().String("pg-dsn", "", "Postgres DSN, read from tx_outcomes when set")
	historyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(historyCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("private-key", "", "hex private key of the sending account")
	cmd.Flags().String("account", "", "account address for read-only commands")
	cmd.Flags().String("journal", "./data/outcomes.jsonl", "outcome journal JSONL path, empty disables")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for the outcome journal")
	cmd.Flags().Duration("wait-timeout", 5*time.Minute, "maximum time to wait for confirmations")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts for RPC reads")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
