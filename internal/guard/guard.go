// Package guard implements the validation boundary.
//
// Validation happens ONLY at data boundaries: connector parsers, domain
// factory constructors, and config loading. Everything downstream of a
// factory receives already-validated types and performs no checks of its
// own. If a Require* call shows up inside the calculation or strategy
// layers, the boundary upstream is broken — fix it there.
package guard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/internal/apperror"
)

// RequirePresent fails with MISSING_VALUE when s is empty.
// Returns the value unchanged otherwise, so calls can be chained.
func RequirePresent(s, name string) (string, error) {
	if s == "" {
		return "", apperror.Validation(apperror.CodeMissingValue, name)
	}
	return s, nil
}

// RequirePositive fails with INVALID_VALUE unless d > 0.
func RequirePositive(d decimal.Decimal, name string) (decimal.Decimal, error) {
	if d.Sign() <= 0 {
		return decimal.Zero, apperror.New(apperror.CodeInvalidValue,
			apperror.WithContext(fmt.Sprintf("%s must be positive, got %s", name, d)))
	}
	return d, nil
}

// RequireNonNegative fails with INVALID_VALUE unless d >= 0. Zero is allowed.
func RequireNonNegative(d decimal.Decimal, name string) (decimal.Decimal, error) {
	if d.Sign() < 0 {
		return decimal.Zero, apperror.New(apperror.CodeInvalidValue,
			apperror.WithContext(fmt.Sprintf("%s must be non-negative, got %s", name, d)))
	}
	return d, nil
}
