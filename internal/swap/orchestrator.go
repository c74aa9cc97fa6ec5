// Package swap sequences the approvals and the pool swap for one user submission.
package swap

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"gdaSwap/internal/dex"
	"gdaSwap/internal/model"
	"gdaSwap/internal/storage"
	"gdaSwap/internal/transport"
)

// Config holds the orchestrator settings.
type Config struct {
	Deployment model.Deployment
	// Account is only used to label journal records.
	Account common.Address
}

// Orchestrator turns a SwapIntent into approve, approve, swap.
type Orchestrator struct {
	cfg        Config
	transport  transport.Transport
	recorder   storage.Storage
	logger     *zap.Logger
	erc20ABI   abi.ABI
	swapperABI abi.ABI
	now        func() time.Time
}

// NewOrchestrator builds an Orchestrator with its dependencies. A nil recorder discards records.
func NewOrchestrator(cfg Config, tr transport.Transport, recorder storage.Storage, logger *zap.Logger) (*Orchestrator, error) {
	if tr == nil {
		return nil, fmt.Errorf("transport is nil")
	}
	if cfg.Deployment.Policy.ApprovalMultiplier <= 0 {
		return nil, fmt.Errorf("approval multiplier must be greater than zero")
	}
	if recorder == nil {
		recorder = storage.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	erc20ABI, err := dex.ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	swapperABI, err := dex.SwapperABI()
	if err != nil {
		return nil, fmt.Errorf("parse swapper abi: %w", err)
	}

	return &Orchestrator{
		cfg:        cfg,
		transport:  tr,
		recorder:   recorder,
		logger:     logger,
		erc20ABI:   erc20ABI,
		swapperABI: swapperABI,
		now:        time.Now,
	}, nil
}

// ExecuteFields derives the intent from the two input fields and executes it.
func (o *Orchestrator) ExecuteFields(ctx context.Context, tokenField, unitField string) model.Outcome {
	intent, err := DeriveIntent(tokenField, unitField)
	if err != nil {
		return o.finish(ctx, intent, model.FailedOutcome(common.Hash{}, err))
	}
	return o.Execute(ctx, intent)
}

// Execute dispatches the approvals and the swap strictly in order. The first
// error aborts the sequence; accepted approvals are left in place.
// Once a call has been dispatched, cancelling ctx no longer stops the sequence.
func (o *Orchestrator) Execute(ctx context.Context, intent model.SwapIntent) model.Outcome {
	plan, err := o.Plan(intent)
	if err != nil {
		return o.finish(ctx, intent, model.FailedOutcome(common.Hash{}, err))
	}
	if err := ctx.Err(); err != nil {
		return o.finish(ctx, intent, model.FailedOutcome(common.Hash{}, err))
	}

	o.record(ctx, intent, model.PendingOutcome(common.Hash{}))
	o.logger.Info("swap start",
		zap.String("side", intent.Side.String()),
		zap.String("amount", plan.Amount.String()),
		zap.Bool("zero_for_one", plan.ZeroForOne),
		zap.Int("approvals", len(plan.Approvals)),
	)

	dispatchCtx := context.WithoutCancel(ctx)

	var last common.Hash
	for _, approval := range plan.Approvals {
		hash, err := o.transport.Call(dispatchCtx, approval.Request)
		if err != nil {
			return o.finish(ctx, intent, model.FailedOutcome(last, fmt.Errorf("approve %s: %w", approval.Asset.Hex(), err)))
		}
		last = hash
		o.logger.Info("approval accepted",
			zap.String("step", "approve"),
			zap.String("asset", approval.Asset.Hex()),
			zap.String("amount", approval.Amount.String()),
			zap.String("tx_hash", hash.Hex()),
		)
	}

	hash, err := o.transport.Call(dispatchCtx, plan.Swap)
	if err != nil {
		return o.finish(ctx, intent, model.FailedOutcome(last, fmt.Errorf("swap: %w", err)))
	}
	o.logger.Info("swap accepted", zap.String("step", "swap"), zap.String("tx_hash", hash.Hex()))

	threshold := o.cfg.Deployment.Policy.SwapConfirmations
	if threshold == 0 {
		return o.finish(ctx, intent, model.Outcome{Status: model.StatusAccepted, TxHash: hash})
	}

	o.record(ctx, intent, model.PendingOutcome(hash))
	if err := o.transport.WaitForConfirmations(dispatchCtx, hash, threshold); err != nil {
		return o.finish(ctx, intent, model.FailedOutcome(hash, fmt.Errorf("confirm swap: %w", err)))
	}
	return o.finish(ctx, intent, model.Outcome{Status: model.StatusConfirmed, TxHash: hash})
}

func (o *Orchestrator) finish(ctx context.Context, intent model.SwapIntent, outcome model.Outcome) model.Outcome {
	if outcome.Failed() {
		o.logger.Error("swap failed", zap.String("side", intent.Side.String()), zap.String("amount", intent.RawAmount), zap.Error(outcome.Err))
	} else {
		o.logger.Info("swap done", zap.String("status", outcome.Status.String()), zap.String("tx_hash", outcome.TxHash.Hex()))
	}
	o.record(ctx, intent, outcome)
	return outcome
}

// Record builds the journal row for outcome of intent. A zero intent carries no side.
func (o *Orchestrator) Record(intent model.SwapIntent, outcome model.Outcome) model.OutcomeRecord {
	d := o.cfg.Deployment
	record := model.NewOutcomeRecord(d.ChainID, model.OperationSwap, d.Swapper, outcome, o.now())
	if intent.RawAmount != "" {
		record.Side = intent.Side.String()
		record.Amount = intent.RawAmount
	}
	if o.cfg.Account != (common.Address{}) {
		record.Account = o.cfg.Account.Hex()
	}
	return record
}

func (o *Orchestrator) record(ctx context.Context, intent model.SwapIntent, outcome model.Outcome) {
	record := o.Record(intent, outcome)
	if err := o.recorder.PutOutcome(context.WithoutCancel(ctx), record); err != nil {
		o.logger.Warn("record outcome failed", zap.String("operation", model.OperationSwap), zap.Error(err))
	}
}
