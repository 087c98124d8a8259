package service

import "time"

// Metrics records operational measurements of the aggregation and decision paths.
type Metrics interface {
	RecordFetch(source, metric, outcome string, elapsed time.Duration)
	RecordResolution(metric, source string)
	RecordRateLimitWait(provider string, waited time.Duration)
	RecordRecommendation(drawdownLevel string)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) RecordFetch(string, string, string, time.Duration) {}
func (NopMetrics) RecordResolution(string, string)                  {}
func (NopMetrics) RecordRateLimitWait(string, time.Duration)        {}
func (NopMetrics) RecordRecommendation(string)                      {}
