package transport

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"gdaSwap/internal/chain"
)

// Backend is the subset of chain.Client used by EVM.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// EVMConfig holds runtime settings for the EVM transport.
type EVMConfig struct {
	ChainID             *big.Int
	WaitTimeout         time.Duration
	ReceiptPollInterval time.Duration
	MaxRetries          int
	RetryBackoff        time.Duration
}

// EVM dispatches calls as signed transactions over JSON-RPC.
type EVM struct {
	cfg     EVMConfig
	backend Backend
	signer  chain.Signer
	logger  *zap.Logger
}

// NewEVM builds an EVM transport with its dependencies.
func NewEVM(cfg EVMConfig, backend Backend, signer chain.Signer, logger *zap.Logger) (*EVM, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain id is required")
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 5 * time.Minute
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EVM{cfg: cfg, backend: backend, signer: signer, logger: logger}, nil
}

// Account returns the signing account, zero when the transport is read-only.
func (e *EVM) Account() common.Address {
	if e.signer == nil {
		return common.Address{}
	}
	return e.signer.Address()
}

// Call signs and broadcasts req. Any failure before broadcast wraps ErrRejected.
func (e *EVM) Call(ctx context.Context, req CallRequest) (common.Hash, error) {
	if e.signer == nil {
		return common.Hash{}, rejected("sign", fmt.Errorf("no signer configured"))
	}

	data, err := req.Pack()
	if err != nil {
		return common.Hash{}, rejected("encode", err)
	}

	tx, err := e.prepareTransaction(ctx, req.Contract, data)
	if err != nil {
		return common.Hash{}, rejected("prepare "+req.Method, err)
	}

	signed, err := e.signer.SignTx(tx, e.cfg.ChainID)
	if err != nil {
		return common.Hash{}, rejected("sign "+req.Method, err)
	}

	if err := e.backend.SendTransaction(ctx, signed); err != nil {
		e.logger.Warn("send transaction failed", zap.String("method", req.Method), zap.Error(err))
		return common.Hash{}, rejected("send "+req.Method, err)
	}

	e.logger.Info("transaction sent",
		zap.String("method", req.Method),
		zap.String("to", req.Contract.Hex()),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("nonce", signed.Nonce()),
		zap.Uint64("gas", signed.Gas()),
	)
	return signed.Hash(), nil
}

func (e *EVM) prepareTransaction(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	from := e.signer.Address()

	var nonce uint64
	err := chain.WithRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		nonce, err = e.backend.PendingNonceAt(ctx, from)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	estimated, err := e.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	gasLimit := estimated + estimated/10

	var head *types.Header
	err = chain.WithRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		head, err = e.backend.HeaderByNumber(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get head: %w", err)
	}

	if head.BaseFee != nil {
		var tip *big.Int
		err = chain.WithRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryBackoff, func(ctx context.Context) error {
			var err error
			tip, err = e.backend.SuggestGasTipCap(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("get gas tip: %w", err)
		}
		feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)

		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   e.cfg.ChainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        &to,
			Value:     big.NewInt(0),
			Data:      data,
		}), nil
	}

	var gasPrice *big.Int
	err = chain.WithRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		gasPrice, err = e.backend.SuggestGasPrice(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	}), nil
}

// WaitForConfirmations polls for the receipt of hash until it has threshold confirmations.
func (e *EVM) WaitForConfirmations(ctx context.Context, hash common.Hash, threshold uint64) error {
	if threshold == 0 {
		threshold = 1
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(e.cfg.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		done, err := e.checkConfirmations(ctx, hash, threshold)
		if done || err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			e.logger.Warn("wait for confirmations timed out", zap.String("tx_hash", hash.Hex()), zap.Uint64("threshold", threshold))
			return fmt.Errorf("%w: %s: %w", ErrTimedOut, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (e *EVM) checkConfirmations(ctx context.Context, hash common.Hash, threshold uint64) (bool, error) {
	receipt, err := e.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) || ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("get receipt: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return false, fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
	}

	head, err := e.backend.LatestBlockNumber(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("get block number: %w", err)
	}

	got := Confirmations(head, receipt.BlockNumber.Uint64())
	e.logger.Debug("confirmations", zap.String("tx_hash", hash.Hex()), zap.Uint64("got", got), zap.Uint64("threshold", threshold))
	return got >= threshold, nil
}

// Confirmations counts the inclusion block itself as the first confirmation.
func Confirmations(head, included uint64) uint64 {
	if head < included {
		return 0
	}
	return head - included + 1
}

// Read executes req as an eth_call against the latest block.
func (e *EVM) Read(ctx context.Context, req CallRequest) ([]interface{}, error) {
	data, err := req.Pack()
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{To: &req.Contract, Data: data}
	resp, err := e.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", req.Method, err)
	}
	values, err := req.ABI.Unpack(req.Method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", req.Method, err)
	}
	return values, nil
}
