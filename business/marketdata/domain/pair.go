// Package domain contains the core domain types for the marketdata context.
package domain

import (
	"strings"

	"github.com/arbscan/arbscan/internal/apperror"
)

// Pair is a canonical trading pair like BTC/USD. Two pairs are equal only if
// both symbols match exactly; USD and USDC are distinct quote currencies and
// never interchangeable.
type Pair struct {
	Base  string
	Quote string
}

// ParsePair parses canonical pair strings like "SOL/USDC".
func ParsePair(s string) (Pair, error) {
	if s == "" || !strings.Contains(s, "/") {
		return Pair{}, apperror.Validation(apperror.CodeInvalidPair, s)
	}

	base, quote, _ := strings.Cut(s, "/")
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return Pair{}, apperror.Validation(apperror.CodeInvalidPair, s)
	}

	return Pair{Base: base, Quote: quote}, nil
}

// MustParsePair parses a canonical pair, panicking on malformed input.
// Reserved for constants and test fixtures.
func MustParsePair(s string) Pair {
	p, err := ParsePair(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical representation (e.g., "BTC/USD").
func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// IsZero reports whether the pair is the zero value.
func (p Pair) IsZero() bool {
	return p.Base == "" && p.Quote == ""
}
