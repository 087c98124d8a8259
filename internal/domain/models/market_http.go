package models

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Requests for the market HTTP endpoints.

type MarketDataRequest struct {
	APIKey       string `query:"apiKey" validate:"required_without=HeaderAPIKey"`
	HeaderAPIKey string `header:"x-api-key"`
}

// Key returns the query key, falling back to the header.
func (r *MarketDataRequest) Key() string {
	if k := strings.TrimSpace(r.APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(r.HeaderAPIKey)
}

type CalculateRequest struct {
	PE           FlexFloat `json:"pe" validate:"required"`
	VIX          FlexFloat `json:"vix" validate:"required"`
	CurrentPrice FlexFloat `json:"currentPrice" validate:"required"`
	High52Week   FlexFloat `json:"high52Week" validate:"required"`
}

// Inputs converts the request into decision inputs.
func (r *CalculateRequest) Inputs() DecisionInputs {
	return DecisionInputs{
		ValuationRatio:  float64(r.PE),
		VolatilityIndex: float64(r.VIX),
		Price:           float64(r.CurrentPrice),
		High52Week:      float64(r.High52Week),
	}
}

// FlexFloat decodes a JSON number or a numeric string.
// An empty string or null leaves the zero value, which "required" rejects.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}

	text := raw
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return flexTypeError(raw)
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return nil
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return flexTypeError(raw)
	}
	*f = FlexFloat(v)
	return nil
}

func flexTypeError(raw string) error {
	return &json.UnmarshalTypeError{Value: raw, Type: reflect.TypeOf(float64(0))}
}
