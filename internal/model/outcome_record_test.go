package model

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestNewOutcomeRecord(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	target := common.HexToAddress("0x1111111111111111111111111111111111111111")
	hash := common.HexToHash("0xdead")

	record := NewOutcomeRecord(8453, OperationSwap, target, FailedOutcome(hash, errors.New("call rejected")), at)

	want := OutcomeRecord{
		ChainID:    8453,
		Operation:  "swap",
		Status:     "failed",
		TxHash:     hash.Hex(),
		Error:      "call rejected",
		Target:     target.Hex(),
		RecordedAt: "2024-01-01T00:00:00Z",
	}
	if record != want {
		t.Fatalf("record mismatch: %+v != %+v", record, want)
	}

	pending := NewOutcomeRecord(8453, OperationConnect, target, PendingOutcome(common.Hash{}), at)
	if pending.TxHash != "" || pending.Error != "" {
		t.Fatalf("empty hash and error should be omitted: %+v", pending)
	}
}
