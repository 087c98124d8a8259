package httpsource

import (
	"fmt"

	"MarketTemp/internal/domain/service"
	xutil "MarketTemp/pkg/util"

	"github.com/tidwall/gjson"
)

// PositiveFloat reads path as a finite number greater than zero.
// Providers sometimes send numbers as strings, so numeric strings are accepted.
func PositiveFloat(doc gjson.Result, path string) (float64, error) {
	v, ok := number(doc.Get(path))
	if !ok {
		return 0, fmt.Errorf("%w: %s missing or not numeric", service.ErrShapeMismatch, path)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s not positive (%g)", service.ErrShapeMismatch, path, v)
	}
	return v, nil
}

// FirstPositive returns the first path holding a positive number.
func FirstPositive(doc gjson.Result, paths ...string) (float64, error) {
	var lastErr error
	for _, p := range paths {
		v, err := PositiveFloat(doc, p)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return 0, lastErr
}

// OptionalNonNegative reads path when present and valid, otherwise nil.
func OptionalNonNegative(doc gjson.Result, path string) *float64 {
	v, ok := number(doc.Get(path))
	if !ok || v < 0 {
		return nil
	}
	return &v
}

// MaxOf returns the largest positive number in the array at path, skipping nulls.
func MaxOf(doc gjson.Result, path string) (float64, error) {
	arr := doc.Get(path)
	if !arr.IsArray() {
		return 0, fmt.Errorf("%w: %s is not an array", service.ErrShapeMismatch, path)
	}
	var vals []float64
	for _, item := range arr.Array() {
		if v, ok := number(item); ok && v > 0 {
			vals = append(vals, v)
		}
	}
	best, ok := xutil.MaxFinite(vals)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no usable values", service.ErrShapeMismatch, path)
	}
	return best, nil
}

func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		if xutil.IsFinite(r.Num) {
			return r.Num, true
		}
	case gjson.String:
		return xutil.ParseFloat(r.Str)
	}
	return 0, false
}
