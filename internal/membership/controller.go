// Package membership tracks and changes whether an account is connected to a
// GDA distribution pool.
package membership

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"gdaSwap/internal/dex"
	"gdaSwap/internal/model"
	"gdaSwap/internal/storage"
	"gdaSwap/internal/transport"
)

// Config holds the controller settings.
type Config struct {
	ChainID       uint64
	Forwarder     common.Address
	Pool          common.Address
	Account       common.Address
	Confirmations uint64
	PollInterval  time.Duration
}

// ConfigFromDeployment fills Config for account from a deployment.
func ConfigFromDeployment(d model.Deployment, account common.Address) Config {
	return Config{
		ChainID:       d.ChainID,
		Forwarder:     d.GDAForwarder,
		Pool:          d.DistributionPool,
		Account:       account,
		Confirmations: d.Policy.ConnectConfirmations,
		PollInterval:  d.Policy.PollInterval,
	}
}

// Observer receives every membership observation.
type Observer interface {
	ObserveMembership(state model.MembershipState)
}

// Controller polls isMemberConnected and issues connectPool.
type Controller struct {
	cfg          Config
	transport    transport.Transport
	recorder     storage.Storage
	observer     Observer
	logger       *zap.Logger
	forwarderABI abi.ABI
	now          func() time.Time

	state atomic.Pointer[model.MembershipState]
}

// NewController builds a Controller. recorder and observer may be nil.
func NewController(cfg Config, tr transport.Transport, recorder storage.Storage, observer Observer, logger *zap.Logger) (*Controller, error) {
	if tr == nil {
		return nil, fmt.Errorf("transport is nil")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be greater than zero")
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = 1
	}
	if recorder == nil {
		recorder = storage.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	forwarderABI, err := dex.GDAForwarderABI()
	if err != nil {
		return nil, fmt.Errorf("parse gda forwarder abi: %w", err)
	}

	c := &Controller{
		cfg:          cfg,
		transport:    tr,
		recorder:     recorder,
		observer:     observer,
		logger:       logger,
		forwarderABI: forwarderABI,
		now:          time.Now,
	}
	c.state.Store(&model.MembershipState{Pool: cfg.Pool, Account: cfg.Account})
	return c, nil
}

// Latest returns the most recent snapshot.
func (c *Controller) Latest() model.MembershipState {
	return *c.state.Load()
}

// update replaces the snapshot with fn applied to the current one.
func (c *Controller) update(fn func(model.MembershipState) model.MembershipState) model.MembershipState {
	for {
		current := c.state.Load()
		next := fn(*current)
		if c.state.CompareAndSwap(current, &next) {
			return next
		}
	}
}

// Refresh reads the connected flag once. A failed read keeps the previous
// value; an empty or non-bool result reads as not connected.
func (c *Controller) Refresh(ctx context.Context) model.MembershipState {
	values, err := c.transport.Read(ctx, transport.CallRequest{
		Contract: c.cfg.Forwarder,
		ABI:      c.forwarderABI,
		Method:   "isMemberConnected",
		Args:     []interface{}{c.cfg.Pool, c.cfg.Account},
	})
	if err != nil {
		c.logger.Warn("membership read failed", zap.String("pool", c.cfg.Pool.Hex()), zap.Error(err))
		return c.Latest()
	}

	connected := dex.AsBool(values)
	observedAt := c.now()
	state := c.update(func(s model.MembershipState) model.MembershipState {
		s.Connected = connected
		s.ObservedAt = observedAt
		return s
	})

	if c.observer != nil {
		c.observer.ObserveMembership(state)
	}
	return state
}

// Poll reads immediately and then every PollInterval until ctx is done.
// The returned channel is closed when polling stops.
func (c *Controller) Poll(ctx context.Context) <-chan model.MembershipState {
	out := make(chan model.MembershipState, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(c.cfg.PollInterval)
		defer ticker.Stop()

		for {
			state := c.Refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case out <- state:
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

// Connect issues connectPool unless the latest snapshot is already connected,
// then waits for the configured confirmations. It never retries.
func (c *Controller) Connect(ctx context.Context) model.Outcome {
	if c.Latest().Connected {
		c.logger.Info("already connected", zap.String("pool", c.cfg.Pool.Hex()), zap.String("account", c.cfg.Account.Hex()))
		return c.finish(ctx, model.Outcome{Status: model.StatusConfirmed, Noop: true})
	}
	if err := ctx.Err(); err != nil {
		return c.finish(ctx, model.FailedOutcome(common.Hash{}, err))
	}

	c.setConnecting(true)
	c.record(ctx, model.PendingOutcome(common.Hash{}))

	dispatchCtx := context.WithoutCancel(ctx)

	hash, err := c.transport.Call(dispatchCtx, transport.CallRequest{
		Contract: c.cfg.Forwarder,
		ABI:      c.forwarderABI,
		Method:   "connectPool",
		Args:     []interface{}{c.cfg.Pool, []byte{}},
	})
	if err != nil {
		return c.finish(ctx, model.FailedOutcome(common.Hash{}, fmt.Errorf("connect pool: %w", err)))
	}
	c.logger.Info("connect accepted", zap.String("tx_hash", hash.Hex()), zap.Uint64("confirmations", c.cfg.Confirmations))
	c.record(ctx, model.PendingOutcome(hash))

	if err := c.transport.WaitForConfirmations(dispatchCtx, hash, c.cfg.Confirmations); err != nil {
		return c.finish(ctx, model.FailedOutcome(hash, fmt.Errorf("confirm connect: %w", err)))
	}

	c.setConnecting(false)
	c.Refresh(dispatchCtx)
	return c.finish(ctx, model.Outcome{Status: model.StatusConfirmed, TxHash: hash})
}

func (c *Controller) setConnecting(connecting bool) {
	c.update(func(s model.MembershipState) model.MembershipState {
		s.Connecting = connecting
		return s
	})
}

func (c *Controller) finish(ctx context.Context, outcome model.Outcome) model.Outcome {
	c.setConnecting(false)
	if outcome.Failed() {
		c.logger.Error("connect failed", zap.String("pool", c.cfg.Pool.Hex()), zap.Error(outcome.Err))
	} else {
		c.logger.Info("connect done", zap.String("status", outcome.Status.String()), zap.Bool("noop", outcome.Noop))
	}
	c.record(ctx, outcome)
	return outcome
}

// Record builds the journal row for a connect outcome.
func (c *Controller) Record(outcome model.Outcome) model.OutcomeRecord {
	record := model.NewOutcomeRecord(c.cfg.ChainID, model.OperationConnect, c.cfg.Pool, outcome, c.now())
	record.Account = c.cfg.Account.Hex()
	return record
}

func (c *Controller) record(ctx context.Context, outcome model.Outcome) {
	record := c.Record(outcome)
	if err := c.recorder.PutOutcome(context.WithoutCancel(ctx), record); err != nil {
		c.logger.Warn("record outcome failed", zap.String("operation", model.OperationConnect), zap.Error(err))
	}
}
