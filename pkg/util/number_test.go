package util

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	if got, ok := Round(1.005, 2); !ok || got != 1.01 {
		t.Fatalf("Round(1.005) = %v, %v", got, ok)
	}
	if got, ok := Round(-2.345, 2); !ok || got != -2.35 {
		t.Fatalf("Round(-2.345) = %v, %v", got, ok)
	}
	if _, ok := Round(math.NaN(), 2); ok {
		t.Fatalf("NaN must not round")
	}
	if RoundPtr(math.Inf(1), 2) != nil {
		t.Fatalf("Inf must give nil")
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := map[float64]string{
		3:            "3.00",
		-0.126:       "-0.13",
		math.Inf(1):  "Inf",
		math.Inf(-1): "-Inf",
		1234.5:       "1234.50",
	}
	for in, want := range cases {
		if got := FormatDecimal(in, 2); got != want {
			t.Fatalf("FormatDecimal(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatDecimal(math.NaN(), 2); got != "NaN" {
		t.Fatalf("FormatDecimal(NaN) = %q", got)
	}
}
