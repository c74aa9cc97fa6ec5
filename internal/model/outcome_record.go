package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Operation names recorded in the outcome journal.
const (
	OperationSwap    = "swap"
	OperationConnect = "connect"
)

// OutcomeRecord is one outcome transition persisted to the journal.
type OutcomeRecord struct {
	ChainID    uint64 `json:"chain_id"`
	Operation  string `json:"operation"`
	Status     string `json:"status"`
	TxHash     string `json:"tx_hash,omitempty"`
	Error      string `json:"error,omitempty"`
	Side       string `json:"side,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Account    string `json:"account,omitempty"`
	Target     string `json:"target"`
	Noop       bool   `json:"noop,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

// NewOutcomeRecord builds a journal row for outcome o of operation against target.
func NewOutcomeRecord(chainID uint64, operation string, target common.Address, o Outcome, at time.Time) OutcomeRecord {
	record := OutcomeRecord{
		ChainID:    chainID,
		Operation:  operation,
		Status:     o.Status.String(),
		Target:     target.Hex(),
		Noop:       o.Noop,
		RecordedAt: at.UTC().Format(time.RFC3339Nano),
	}
	if o.TxHash != (common.Hash{}) {
		record.TxHash = o.TxHash.Hex()
	}
	if o.Err != nil {
		record.Error = o.Err.Error()
	}
	return record
}
