package domain

import (
	"testing"

	"github.com/arbscan/arbscan/internal/apperror"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Pair
		wantErr bool
	}{
		{name: "btc_usd", input: "BTC/USD", want: Pair{Base: "BTC", Quote: "USD"}},
		{name: "lowercase_normalized", input: "sol/usdc", want: Pair{Base: "SOL", Quote: "USDC"}},
		{name: "whitespace_trimmed", input: " LTC / BTC ", want: Pair{Base: "LTC", Quote: "BTC"}},
		{name: "no_separator", input: "BTCUSD", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "missing_quote", input: "BTC/", wantErr: true},
		{name: "missing_base", input: "/USD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePair(tt.input)
			if tt.wantErr {
				if apperror.GetCode(err) != apperror.CodeInvalidPair {
					t.Errorf("code = %s, want INVALID_PAIR", apperror.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePair(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPairEquality(t *testing.T) {
	// USD and USDC are different quote currencies, never interchangeable.
	usd := MustParsePair("BTC/USD")
	usdc := MustParsePair("BTC/USDC")

	if usd == usdc {
		t.Fatal("BTC/USD must not equal BTC/USDC")
	}
	if usd != MustParsePair("btc/usd") {
		t.Error("parsing must normalize case for equality")
	}
}
