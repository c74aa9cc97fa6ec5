package swap

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"gdaSwap/internal/model"
)

func TestDeriveIntent(t *testing.T) {
	tests := []struct {
		name  string
		token string
		unit  string
		want  model.SwapIntent
		err   error
	}{
		{name: "both empty", err: ErrEmptyInput},
		{name: "whitespace only", token: "  ", unit: "\t", err: ErrEmptyInput},
		{name: "token", token: "2.5", want: model.SwapIntent{RawAmount: "2.5", Side: model.SideTokenIn}},
		{name: "unit", unit: "5", want: model.SwapIntent{RawAmount: "5", Side: model.SideUnitIn}},
		{name: "unit wins", token: "1", unit: "3", want: model.SwapIntent{RawAmount: "3", Side: model.SideUnitIn}},
	}

	for _, tt := range tests {
		got, err := DeriveIntent(tt.token, tt.unit)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Fatalf("%s: expected %v, got %v", tt.name, tt.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: intent mismatch: %+v != %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "-1", "1,5", "0x10"} {
		if _, err := ParseAmount(raw); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}

func TestParseAmountBounds(t *testing.T) {
	for _, raw := range []string{"1e80", "1e400000000", "1e-400000000", "1" + strings.Repeat("0", 78)} {
		if _, err := ParseAmount(raw); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
	for _, raw := range []string{"1e59", "0", "0.000000000000000001", strings.Repeat("9", 78)} {
		if _, err := ParseAmount(raw); err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
	}
}

func TestToSmallestUnits(t *testing.T) {
	tests := []struct {
		raw      string
		decimals uint8
		want     string
	}{
		{"5", 18, "5000000000000000000"},
		{"2.5", 18, "2500000000000000000"},
		{"0", 18, "0"},
		{"1.5", 6, "1500000"},
		{"0.0000005", 6, "1"},
		{"0.0000004", 6, "0"},
	}

	for _, tt := range tests {
		amount, err := ParseAmount(tt.raw)
		if err != nil {
			t.Fatalf("%q: parse: %v", tt.raw, err)
		}
		if got := ToSmallestUnits(amount, tt.decimals).String(); got != tt.want {
			t.Fatalf("%q@%d: got %s, want %s", tt.raw, tt.decimals, got, tt.want)
		}
	}
}

func TestApprovalAmountIsTenfold(t *testing.T) {
	for _, raw := range []string{"1", "2.5", "0.001", "123456.789"} {
		amount, err := ParseAmount(raw)
		if err != nil {
			t.Fatalf("%q: parse: %v", raw, err)
		}
		base := ToSmallestUnits(amount, 18)
		want := new(big.Int).Mul(base, big.NewInt(10))
		if got := ApprovalAmount(amount, 10, 18); got.Cmp(want) != 0 {
			t.Fatalf("%q: got %s, want %s", raw, got, want)
		}
	}
}
