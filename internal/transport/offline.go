package transport

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrOffline is returned by Offline for every chain access.
var ErrOffline = errors.New("no rpc endpoint configured")

// Offline is a Transport with no chain behind it, used to plan calls without dispatching them.
type Offline struct{}

func (Offline) Call(context.Context, CallRequest) (common.Hash, error) {
	return common.Hash{}, rejected("dispatch", ErrOffline)
}

func (Offline) WaitForConfirmations(context.Context, common.Hash, uint64) error {
	return ErrOffline
}

func (Offline) Read(context.Context, CallRequest) ([]interface{}, error) {
	return nil, ErrOffline
}
