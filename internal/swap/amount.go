package swap

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"gdaSwap/internal/model"
)

var (
	// ErrEmptyInput means neither amount field was filled in.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidAmount means the amount is not a non-negative number.
	ErrInvalidAmount = errors.New("invalid amount")
)

const (
	// maxIntegerDigits is the digit count of 2^256.
	maxIntegerDigits = 78
	// maxFractionDigits bounds the scale of an entered amount; asset decimals never exceed 255.
	maxFractionDigits = 1024
)

// DeriveIntent turns the two mutually exclusive amount fields into a SwapIntent.
// The unit field wins when both are set.
func DeriveIntent(tokenField, unitField string) (model.SwapIntent, error) {
	tokenField = strings.TrimSpace(tokenField)
	unitField = strings.TrimSpace(unitField)

	switch {
	case unitField != "":
		return model.SwapIntent{RawAmount: unitField, Side: model.SideUnitIn}, nil
	case tokenField != "":
		return model.SwapIntent{RawAmount: tokenField, Side: model.SideTokenIn}, nil
	default:
		return model.SwapIntent{}, ErrEmptyInput
	}
}

// ParseAmount parses a user-entered decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, raw)
	}
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if int64(amount.NumDigits())+int64(amount.Exponent()) > maxIntegerDigits {
		return decimal.Zero, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, raw)
	}
	if amount.Exponent() < -maxFractionDigits {
		return decimal.Zero, fmt.Errorf("%w: %q has too many fractional digits", ErrInvalidAmount, raw)
	}
	return amount, nil
}

// ToSmallestUnits scales amount by 10^decimals, rounding half away from zero.
func ToSmallestUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Round(0).BigInt()
}

// ApprovalAmount is amount*multiplier in smallest units.
func ApprovalAmount(amount decimal.Decimal, multiplier int64, decimals uint8) *big.Int {
	return ToSmallestUnits(amount.Mul(decimal.NewFromInt(multiplier)), decimals)
}
