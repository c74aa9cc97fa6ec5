package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Policy holds the tunable behaviour of the orchestration engine.
type Policy struct {
	// ApprovalMultiplier scales the entered amount for both approvals.
	ApprovalMultiplier int64
	// ApproveBoth approves both assets on every swap; otherwise only the sold currency.
	ApproveBoth bool
	// SwapConfirmations is 0 when a swap succeeds on acceptance.
	SwapConfirmations    uint64
	ConnectConfirmations uint64
	PollInterval         time.Duration
}

// Deployment is the immutable set of contracts and constants for one network.
type Deployment struct {
	ChainID          uint64
	Swapper          common.Address
	Pair             AssetPair
	Pool             PoolKey
	Limits           PriceLimits
	GDAForwarder     common.Address
	DistributionPool common.Address
	Policy           Policy
}
