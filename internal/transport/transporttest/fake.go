// Package transporttest provides a scripted in-memory transport for tests.
package transporttest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"gdaSwap/internal/transport"
)

// Fake records every call and answers from scripted errors.
type Fake struct {
	mu sync.Mutex

	// CallErrs fails the n-th Call (0-based) with the given error.
	CallErrs map[int]error
	// WaitErr is returned by WaitForConfirmations.
	WaitErr error
	// OnWait runs inside WaitForConfirmations before it returns.
	OnWait func(Wait)
	// ReadFunc answers Read; nil returns no values.
	ReadFunc func(req transport.CallRequest) ([]interface{}, error)

	Calls []transport.CallRequest
	Waits []Wait
	Reads int
}

// Wait is one recorded WaitForConfirmations invocation.
type Wait struct {
	Hash      common.Hash
	Threshold uint64
}

// HashFor is the hash the fake returns for the n-th accepted call.
func HashFor(n int) common.Hash {
	return common.BigToHash(big.NewInt(int64(n + 1)))
}

func (f *Fake) Call(_ context.Context, req transport.CallRequest) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.Calls)
	f.Calls = append(f.Calls, req)
	if err, ok := f.CallErrs[n]; ok {
		return common.Hash{}, err
	}
	return HashFor(n), nil
}

func (f *Fake) WaitForConfirmations(_ context.Context, hash common.Hash, threshold uint64) error {
	w := Wait{Hash: hash, Threshold: threshold}

	f.mu.Lock()
	f.Waits = append(f.Waits, w)
	fn, err := f.OnWait, f.WaitErr
	f.mu.Unlock()

	if fn != nil {
		fn(w)
	}
	return err
}

func (f *Fake) Read(_ context.Context, req transport.CallRequest) ([]interface{}, error) {
	f.mu.Lock()
	f.Reads++
	fn := f.ReadFunc
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(req)
}

// CallCount returns the number of dispatched calls.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// ReadCount returns the number of reads performed.
func (f *Fake) ReadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Reads
}
