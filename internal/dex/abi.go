package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const swapperABIJSON = `[
  {
    "inputs": [
      {
        "components": [
          {"internalType": "Currency", "name": "currency0", "type": "address"},
          {"internalType": "Currency", "name": "currency1", "type": "address"},
          {"internalType": "uint24", "name": "fee", "type": "uint24"},
          {"internalType": "int24", "name": "tickSpacing", "type": "int24"},
          {"internalType": "contract IHooks", "name": "hooks", "type": "address"}
        ],
        "internalType": "struct PoolKey",
        "name": "key",
        "type": "tuple"
      },
      {
        "components": [
          {"internalType": "bool", "name": "zeroForOne", "type": "bool"},
          {"internalType": "int256", "name": "amountSpecified", "type": "int256"},
          {"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
        ],
        "internalType": "struct IPoolManager.SwapParams",
        "name": "params",
        "type": "tuple"
      },
      {
        "components": [
          {"internalType": "bool", "name": "takeClaims", "type": "bool"},
          {"internalType": "bool", "name": "settleUsingBurn", "type": "bool"}
        ],
        "internalType": "struct PoolSwapTest.TestSettings",
        "name": "testSettings",
        "type": "tuple"
      },
      {"internalType": "bytes", "name": "hookData", "type": "bytes"}
    ],
    "name": "swap",
    "outputs": [{"internalType": "BalanceDelta", "name": "delta", "type": "int256"}],
    "stateMutability": "payable",
    "type": "function"
  }
]`

const gdaForwarderABIJSON = `[
  {
    "inputs": [
      {"internalType": "contract ISuperfluidPool", "name": "pool", "type": "address"},
      {"internalType": "bytes", "name": "userData", "type": "bytes"}
    ],
    "name": "connectPool",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "contract ISuperfluidPool", "name": "pool", "type": "address"},
      {"internalType": "address", "name": "member", "type": "address"}
    ],
    "name": "isMemberConnected",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	swapperABI          abi.ABI
	swapperABIOnce      sync.Once
	swapperABIErr       error
	gdaForwarderABI     abi.ABI
	gdaForwarderABIOnce sync.Once
	gdaForwarderABIErr  error
)

// SwapperABI returns the parsed swap router ABI.
func SwapperABI() (abi.ABI, error) {
	swapperABIOnce.Do(func() {
		swapperABI, swapperABIErr = abi.JSON(strings.NewReader(swapperABIJSON))
	})
	return swapperABI, swapperABIErr
}

// GDAForwarderABI returns the parsed GDA forwarder ABI.
func GDAForwarderABI() (abi.ABI, error) {
	gdaForwarderABIOnce.Do(func() {
		gdaForwarderABI, gdaForwarderABIErr = abi.JSON(strings.NewReader(gdaForwarderABIJSON))
	})
	return gdaForwarderABI, gdaForwarderABIErr
}
