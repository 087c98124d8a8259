package usecase

import (
	"context"
	"errors"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	xlogger "MarketTemp/pkg/logger"
	xutil "MarketTemp/pkg/util"
)

// Attempt records one source tried during a resolution.
type Attempt struct {
	Source  string        `json:"source"`
	Outcome string        `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Resolution is the outcome of one fallback chain.
// When OK is false no source produced a value and Source is models.Unavailable.
type Resolution struct {
	Metric   models.Metric
	Reading  models.Reading
	Source   string
	OK       bool
	Attempts []Attempt
}

// FallbackResolver tries the sources of a chain strictly in order and keeps the first success.
// It holds no per-request state.
type FallbackResolver struct {
	logger  *xlogger.Logger
	metrics service.Metrics
	clock   func() time.Time
}

func NewFallbackResolver(logger *xlogger.Logger, metrics service.Metrics) *FallbackResolver {
	if logger == nil {
		logger = xlogger.Nop()
	}
	if metrics == nil {
		metrics = service.NopMetrics{}
	}
	return &FallbackResolver{
		logger:  logger.With(xlogger.String("component", "resolver")),
		metrics: metrics,
		clock:   time.Now,
	}
}

// Resolve fetches metric from sources in order. Provider errors are logged and never returned.
func (r *FallbackResolver) Resolve(ctx context.Context, metric models.Metric, sources []service.MetricSource) Resolution {
	res := Resolution{Metric: metric, Source: models.Unavailable}

	for _, src := range sources {
		if ctx.Err() != nil {
			res.Attempts = append(res.Attempts, Attempt{Source: src.Name(), Outcome: "canceled", Reason: ctx.Err().Error()})
			break
		}

		start := r.clock()
		reading, err := src.Fetch(ctx, metric)
		if err == nil {
			err = checkReading(&reading)
		}
		elapsed := r.clock().Sub(start)
		outcome := service.Outcome(err)
		r.metrics.RecordFetch(src.Name(), string(metric), outcome, elapsed)

		attempt := Attempt{Source: src.Name(), Outcome: outcome, Elapsed: elapsed}
		if err != nil {
			attempt.Reason = err.Error()
			res.Attempts = append(res.Attempts, attempt)
			r.logFailure(src.Name(), metric, outcome, err, elapsed)
			continue
		}

		res.Attempts = append(res.Attempts, attempt)
		res.Reading = reading
		res.Source = src.Name()
		res.OK = true
		break
	}

	r.metrics.RecordResolution(string(metric), res.Source)
	if res.OK {
		r.logger.Info("metric resolved",
			xlogger.String("metric", string(metric)),
			xlogger.String("source", res.Source),
			xlogger.Float64("value", res.Reading.Value),
		)
	} else {
		r.logger.Warn("metric unavailable",
			xlogger.String("metric", string(metric)),
			xlogger.Int("attempts", len(res.Attempts)),
		)
	}
	return res
}

func (r *FallbackResolver) logFailure(source string, metric models.Metric, outcome string, err error, elapsed time.Duration) {
	fields := []xlogger.Field{
		xlogger.String("source", source),
		xlogger.String("metric", string(metric)),
		xlogger.String("reason", outcome),
		xlogger.Duration("elapsed_ms", elapsed),
		xlogger.Error(err),
	}
	// Unconfigured optional providers are expected; keep them out of the warning stream.
	if errors.Is(err, service.ErrMissingCredential) {
		r.logger.Debug("source skipped", fields...)
		return
	}
	r.logger.Warn("source failed", fields...)
}

// checkReading rejects values no provider should produce and drops an out-of-range percentile.
func checkReading(reading *models.Reading) error {
	if !xutil.IsFinite(reading.Value) || reading.Value < 0 {
		return errInvalidValue(reading.Value)
	}
	if p := reading.Percentile; p != nil && (!xutil.IsFinite(*p) || *p < 0 || *p > 100) {
		reading.Percentile = nil
	}
	if h := reading.DayHigh; h != nil && (!xutil.IsFinite(*h) || *h <= 0) {
		reading.DayHigh = nil
	}
	return nil
}
