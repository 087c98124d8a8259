package models

import "fmt"

// Metric names one logical market signal a source can provide.
type Metric string

const (
	MetricPrice      Metric = "price"
	MetricHigh52Week Metric = "high52Week"
	MetricVolatility Metric = "volatility"
	MetricValuation  Metric = "valuation"
)

// AllMetrics lists every metric in snapshot order.
var AllMetrics = []Metric{MetricPrice, MetricHigh52Week, MetricVolatility, MetricValuation}

// ParseMetric maps a metric name to its Metric.
func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Reading is one normalized scalar fetched from a provider.
type Reading struct {
	Value float64
	// Percentile is the historical percentile (0..100) of a valuation reading, when the provider has one.
	Percentile *float64
	// DayHigh is the same-day high reported alongside a price quote.
	DayHigh *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
