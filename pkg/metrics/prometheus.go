package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain service.Metrics using Prometheus.
type Recorder struct {
	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	resolutions     *prometheus.CounterVec
	rateLimitWait   *prometheus.HistogramVec
	recommendations *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markettemp_source_fetch_total",
				Help: "Provider fetch attempts by outcome",
			},
			[]string{"source", "metric", "outcome"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "markettemp_source_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
			[]string{"source", "metric"},
		),
		resolutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markettemp_chain_resolution_total",
				Help: "Fallback chain results by winning source",
			},
			[]string{"metric", "source"},
		),
		rateLimitWait: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "markettemp_ratelimit_wait_seconds",
				Help:    "Time spent waiting for a provider rate limit slot",
				Buckets: []float64{0.1, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"provider"},
		),
		recommendations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markettemp_recommendations_total",
				Help: "Recommendations computed by drawdown level",
			},
			[]string{"drawdown_level"},
		),
	}
}

// RecordFetch records one provider fetch attempt.
func (r *Recorder) RecordFetch(source, metric, outcome string, elapsed time.Duration) {
	r.fetchTotal.WithLabelValues(source, metric, outcome).Inc()
	r.fetchDuration.WithLabelValues(source, metric).Observe(elapsed.Seconds())
}

// RecordResolution records which source won a fallback chain.
func (r *Recorder) RecordResolution(metric, source string) {
	r.resolutions.WithLabelValues(metric, source).Inc()
}

// RecordRateLimitWait records a rate limiter delay.
func (r *Recorder) RecordRateLimitWait(provider string, waited time.Duration) {
	r.rateLimitWait.WithLabelValues(provider).Observe(waited.Seconds())
}

// RecordRecommendation records a decision outcome.
func (r *Recorder) RecordRecommendation(drawdownLevel string) {
	r.recommendations.WithLabelValues(drawdownLevel).Inc()
}
