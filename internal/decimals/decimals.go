// Package decimals provides exact-arithmetic helpers for money and size
// values. Every monetary quantity in the application is a
// shopspring/decimal.Decimal built from a string; the package deliberately
// exposes no float64 entry point, so binary floating-point values cannot
// leak into fee math.
package decimals

import (
	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/internal/apperror"
)

// Zero is a shared zero value for comparisons.
var Zero = decimal.Zero

// FromString parses an exact decimal from its string representation.
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidValue,
			apperror.WithContext("decimal: "+s), apperror.WithCause(err))
	}
	return d, nil
}

// MustFromString parses an exact decimal, panicking on malformed input.
// Reserved for package-level constants and test fixtures.
func MustFromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// FloorToStep quantizes value DOWN to the nearest multiple of step.
// Uses Mod rather than Div so the result is exact at any scale.
// Intended for non-negative money/size values.
func FloorToStep(value, step decimal.Decimal) (decimal.Decimal, error) {
	if err := checkStepArgs(value, step); err != nil {
		return decimal.Zero, err
	}
	rem := value.Mod(step)
	return value.Sub(rem), nil
}

// CeilToStep quantizes value UP to the nearest multiple of step.
// Intended for non-negative money/size values.
func CeilToStep(value, step decimal.Decimal) (decimal.Decimal, error) {
	if err := checkStepArgs(value, step); err != nil {
		return decimal.Zero, err
	}
	rem := value.Mod(step)
	if rem.IsZero() {
		return value, nil
	}
	return value.Sub(rem).Add(step), nil
}

func checkStepArgs(value, step decimal.Decimal) error {
	if step.Sign() <= 0 {
		return apperror.Validation(apperror.CodeInvalidValue, "step must be > 0")
	}
	if value.Sign() < 0 {
		return apperror.Validation(apperror.CodeInvalidValue, "value must be >= 0")
	}
	return nil
}
