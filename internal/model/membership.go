package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MembershipState is the latest known connection of an account to a distribution pool.
type MembershipState struct {
	Pool       common.Address `json:"pool"`
	Account    common.Address `json:"account"`
	Connected  bool           `json:"connected"`
	Connecting bool           `json:"connecting"`
	ObservedAt time.Time      `json:"observed_at"`
}
