package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKey identifies a v4 pool: its currencies, fee tier, tick spacing, and hook contract.
type PoolKey struct {
	Currency0   common.Address `json:"currency0"`
	Currency1   common.Address `json:"currency1"`
	Fee         uint32         `json:"fee"`
	TickSpacing int32          `json:"tick_spacing"`
	Hooks       common.Address `json:"hooks"`
}

// PriceLimits holds the protocol extremes used as sqrtPriceLimitX96.
type PriceLimits struct {
	min *big.Int
	max *big.Int
}

// NewPriceLimits copies min and max into an immutable PriceLimits.
func NewPriceLimits(min, max *big.Int) PriceLimits {
	return PriceLimits{min: new(big.Int).Set(min), max: new(big.Int).Set(max)}
}

// Min returns a copy of the lower bound.
func (p PriceLimits) Min() *big.Int {
	if p.min == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p.min)
}

// Max returns a copy of the upper bound.
func (p PriceLimits) Max() *big.Int {
	if p.max == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p.max)
}

// For returns the limit matching the swap direction.
func (p PriceLimits) For(zeroForOne bool) *big.Int {
	if zeroForOne {
		return p.Min()
	}
	return p.Max()
}
