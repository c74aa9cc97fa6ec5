package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gdaSwap/internal/chain"
	"gdaSwap/internal/config"
	"gdaSwap/internal/model"
	"gdaSwap/internal/storage"
	"gdaSwap/internal/storage/postgres"
	"gdaSwap/internal/transport"
)

// runtime is the wiring shared by the chain-facing commands.
type runtime struct {
	cfg        config.Config
	deployment model.Deployment
	logger     *zap.Logger
	client     *chain.Client
	transport  transport.Transport
	account    common.Address
	sinks      storage.Multi
	closers    []func()
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// openRuntime connects to the RPC endpoint and builds the transport and outcome sinks.
// requireSigner rejects configurations without a private key.
func openRuntime(ctx context.Context, cfg config.Config, logger *zap.Logger, requireSigner bool) (*runtime, error) {
	rt := &runtime{cfg: cfg, logger: logger}

	if err := rt.open(ctx, requireSigner); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) open(ctx context.Context, requireSigner bool) error {
	cfg := rt.cfg

	deployment, err := cfg.Deployment()
	if err != nil {
		return err
	}
	rt.deployment = deployment

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	var signer chain.Signer
	if strings.TrimSpace(cfg.PrivateKey) != "" {
		keySigner, err := chain.NewKeySigner(cfg.PrivateKey)
		if err != nil {
			return err
		}
		signer = keySigner
		rt.account = keySigner.Address()
	} else if requireSigner {
		return fmt.Errorf("private key is required")
	} else {
		if !common.IsHexAddress(cfg.Account) {
			return fmt.Errorf("account or private key is required")
		}
		rt.account = common.HexToAddress(cfg.Account)
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	rt.client = client
	rt.closers = append(rt.closers, client.Close)

	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if chainID.Uint64() != deployment.ChainID {
		return fmt.Errorf("rpc chain id %s does not match configured %d", chainID, deployment.ChainID)
	}

	evm, err := transport.NewEVM(transport.EVMConfig{
		ChainID:             new(big.Int).SetUint64(deployment.ChainID),
		WaitTimeout:         cfg.WaitTimeout,
		ReceiptPollInterval: cfg.ReceiptPollInterval,
		MaxRetries:          cfg.MaxRetries,
		RetryBackoff:        cfg.RetryBackoff,
	}, client, signer, rt.logger)
	if err != nil {
		return err
	}
	rt.transport = evm

	return rt.openSinks(ctx)
}

func (rt *runtime) openSinks(ctx context.Context) error {
	if rt.cfg.Journal != "" {
		rt.sinks = append(rt.sinks, storage.NewJsonlStorage(rt.cfg.Journal))
	}
	if rt.cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, rt.cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		rt.sinks = append(rt.sinks, store)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outcomeError turns a failed outcome into the command's error so the process exits non-zero.
func outcomeError(operation string, outcome model.Outcome) error {
	if outcome.Status != model.StatusFailed {
		return nil
	}
	return fmt.Errorf("%s failed: %w", operation, outcome.Err)
}
