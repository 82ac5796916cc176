package util

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to places decimals. ok is false for NaN and ±Inf.
func Round(v float64, places int32) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, false
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64(), true
}

// RoundPtr is Round returning nil for non-finite input, for JSON payloads.
func RoundPtr(v float64, places int32) *float64 {
	r, ok := Round(v, places)
	if !ok {
		return nil
	}
	return &r
}

// FormatDecimal renders v with exactly places decimals; non-finite values become NaN, Inf or -Inf.
func FormatDecimal(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
