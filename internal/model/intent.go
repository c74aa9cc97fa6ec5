package model

// Side is the user-facing amount field that was populated.
type Side int

const (
	SideTokenIn Side = iota
	SideUnitIn
)

func (s Side) String() string {
	switch s {
	case SideTokenIn:
		return "token_in"
	case SideUnitIn:
		return "unit_in"
	default:
		return "unknown"
	}
}

// ZeroForOne reports the pool direction implied by the side.
func (s Side) ZeroForOne() bool {
	return s == SideUnitIn
}

// SwapIntent is a single user submission.
type SwapIntent struct {
	RawAmount string `json:"raw_amount"`
	Side      Side   `json:"side"`
}
