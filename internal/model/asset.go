package model

import "github.com/ethereum/go-ethereum/common"

// Asset is an ERC20 token and the decimals of its smallest unit.
type Asset struct {
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
}

// AssetPair is the two assets approved for the swapper. Input is the
// virtual-unit asset, Output the underlying token.
type AssetPair struct {
	Input  Asset `json:"input"`
	Output Asset `json:"output"`
}
