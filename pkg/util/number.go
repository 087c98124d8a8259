package util

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if !IsFinite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseFloat parses a trimmed decimal string into a finite float.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

// MaxFinite returns the largest finite value in vals.
func MaxFinite(vals []float64) (float64, bool) {
	best, found := 0.0, false
	for _, v := range vals {
		if !IsFinite(v) {
			continue
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}
