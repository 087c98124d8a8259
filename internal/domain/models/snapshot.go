package models

import "time"

// Unavailable marks a snapshot field whose fallback chain was exhausted.
const Unavailable = "unavailable"

// Provenance records which provider supplied each snapshot field.
type Provenance struct {
	Price      string `json:"price"`
	High52Week string `json:"high52Week"`
	Volatility string `json:"vix"`
	Valuation  string `json:"pe"`
}

// MarketSnapshot is the aggregated view of all signals for one request.
// Nil fields were unavailable; their provenance is Unavailable.
type MarketSnapshot struct {
	Price               *float64   `json:"currentPrice"`
	High52Week          *float64   `json:"high52Week"`
	VolatilityIndex     *float64   `json:"vix"`
	ValuationRatio      *float64   `json:"pe"`
	ValuationPercentile *float64   `json:"pePercentile"`
	Timestamp           time.Time  `json:"timestamp"`
	DataSource          Provenance `json:"dataSource"`
}

// Complete reports whether every input the decision engine needs is present.
func (s *MarketSnapshot) Complete() bool {
	return s.Price != nil && s.High52Week != nil && s.VolatilityIndex != nil && s.ValuationRatio != nil
}

// Missing lists the snapshot fields that were unavailable.
func (s *MarketSnapshot) Missing() []string {
	var out []string
	if s.Price == nil {
		out = append(out, "currentPrice")
	}
	if s.High52Week == nil {
		out = append(out, "high52Week")
	}
	if s.VolatilityIndex == nil {
		out = append(out, "vix")
	}
	if s.ValuationRatio == nil {
		out = append(out, "pe")
	}
	return out
}
