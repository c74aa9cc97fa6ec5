package model

import "github.com/ethereum/go-ethereum/common"

// Status is a transaction outcome state.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusAccepted
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusConfirmed || s == StatusFailed
}

// Outcome is the observed result of one orchestrated call sequence.
// TxHash is the last dispatched transaction, zero if none was dispatched.
type Outcome struct {
	Status Status
	TxHash common.Hash
	Err    error
	// Noop is set when the operation completed without dispatching anything.
	Noop bool
}

func (o Outcome) Pending() bool {
	return o.Status == StatusPending
}

func (o Outcome) Succeeded() bool {
	return o.Status == StatusAccepted || o.Status == StatusConfirmed
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// PendingOutcome marks a sequence in flight.
func PendingOutcome(hash common.Hash) Outcome {
	return Outcome{Status: StatusPending, TxHash: hash}
}

// FailedOutcome wraps err as a terminal failure.
func FailedOutcome(hash common.Hash, err error) Outcome {
	return Outcome{Status: StatusFailed, TxHash: hash, Err: err}
}
