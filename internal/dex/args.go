package dex

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"gdaSwap/internal/model"
)

// PoolKeyArg mirrors the PoolKey tuple of the swapper ABI.
type PoolKeyArg struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

// SwapParamsArg mirrors IPoolManager.SwapParams.
type SwapParamsArg struct {
	ZeroForOne        bool
	AmountSpecified   *big.Int
	SqrtPriceLimitX96 *big.Int
}

// TestSettingsArg mirrors PoolSwapTest.TestSettings.
type TestSettingsArg struct {
	TakeClaims      bool
	SettleUsingBurn bool
}

// NewPoolKeyArg converts a pool key into its ABI tuple.
func NewPoolKeyArg(key model.PoolKey) PoolKeyArg {
	return PoolKeyArg{
		Currency0:   key.Currency0,
		Currency1:   key.Currency1,
		Fee:         new(big.Int).SetUint64(uint64(key.Fee)),
		TickSpacing: big.NewInt(int64(key.TickSpacing)),
		Hooks:       key.Hooks,
	}
}
