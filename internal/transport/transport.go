// Package transport describes how the orchestration engine reaches the chain:
// dispatching state-changing calls, waiting for them to confirm, and reading
// contract state.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrRejected means the signer declined the call or the node refused it before broadcast.
	ErrRejected = errors.New("call rejected")
	// ErrTimedOut means a dispatched transaction did not reach the threshold in time.
	ErrTimedOut = errors.New("confirmation timed out")
	// ErrReverted means a dispatched transaction was mined with a failed status.
	ErrReverted = errors.New("transaction reverted")
)

// CallRequest describes one contract method invocation.
type CallRequest struct {
	Contract common.Address
	ABI      abi.ABI
	Method   string
	Args     []interface{}
}

// Pack returns the calldata for the request.
func (r CallRequest) Pack() ([]byte, error) {
	data, err := r.ABI.Pack(r.Method, r.Args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", r.Method, err)
	}
	return data, nil
}

// Transport is the capability consumed by the swap orchestrator and the membership controller.
type Transport interface {
	// Call signs and broadcasts req, returning the transaction hash once the node accepted it.
	Call(ctx context.Context, req CallRequest) (common.Hash, error)
	// WaitForConfirmations blocks until hash has threshold confirmations, counting its own block.
	WaitForConfirmations(ctx context.Context, hash common.Hash, threshold uint64) error
	// Read executes req as a side-effect free call and returns the unpacked outputs.
	Read(ctx context.Context, req CallRequest) ([]interface{}, error)
}

func rejected(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRejected, step, err)
}
