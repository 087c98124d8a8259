package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	xlogger "MarketTemp/pkg/logger"
	"MarketTemp/pkg/settle"
	xutil "MarketTemp/pkg/util"
)

// DayHighSuffix tags a 52-week high derived from the price quote's same-day high.
const DayHighSuffix = " (today high)"

// ChainSource returns the ordered provider names for a metric.
type ChainSource interface {
	For(metric models.Metric) []string
}

// SnapshotAggregator runs the four metric chains concurrently and assembles a MarketSnapshot.
type SnapshotAggregator struct {
	registry *Registry
	chains   ChainSource
	resolver *FallbackResolver
	timeout  time.Duration
	clock    func() time.Time
	logger   *xlogger.Logger
}

type AggregatorOption func(*SnapshotAggregator)

func WithTimeout(d time.Duration) AggregatorOption {
	return func(a *SnapshotAggregator) { a.timeout = d }
}

func WithClock(clock func() time.Time) AggregatorOption {
	return func(a *SnapshotAggregator) { a.clock = clock }
}

func WithLogger(l *xlogger.Logger) AggregatorOption {
	return func(a *SnapshotAggregator) { a.logger = l }
}

func NewSnapshotAggregator(registry *Registry, chains ChainSource, resolver *FallbackResolver, opts ...AggregatorOption) *SnapshotAggregator {
	a := &SnapshotAggregator{
		registry: registry,
		chains:   chains,
		resolver: resolver,
		timeout:  90 * time.Second,
		clock:    time.Now,
		logger:   xlogger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetSnapshot fetches all signals for one request. price, when non-nil, replaces the
// registered source of the same name in every chain for this call only.
// Only the exhaustion of the price chain fails the call.
func (a *SnapshotAggregator) GetSnapshot(ctx context.Context, price service.MetricSource) (*models.MarketSnapshot, error) {
	var overrides map[string]service.MetricSource
	if price != nil {
		overrides = map[string]service.MetricSource{price.Name(): price}
	}

	chains := make([][]service.MetricSource, len(models.AllMetrics))
	for i, metric := range models.AllMetrics {
		sources, err := a.registry.Chain(a.chains.For(metric), overrides)
		if err != nil {
			return nil, fmt.Errorf("build %s chain: %w", metric, err)
		}
		chains[i] = sources
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	tasks := make([]settle.Task[Resolution], len(models.AllMetrics))
	for i, metric := range models.AllMetrics {
		sources := chains[i]
		tasks[i] = func(ctx context.Context) (Resolution, error) {
			return a.resolver.Resolve(ctx, metric, sources), nil
		}
	}
	results := settle.All(ctx, tasks...)

	byMetric := make(map[models.Metric]Resolution, len(results))
	for i, r := range results {
		metric := models.AllMetrics[i]
		if r.Err != nil {
			a.logger.Error("metric chain crashed", xlogger.String("metric", string(metric)), xlogger.Error(r.Err))
			byMetric[metric] = Resolution{Metric: metric, Source: models.Unavailable}
			continue
		}
		byMetric[metric] = r.Value
	}

	priceRes := byMetric[models.MetricPrice]
	if !priceRes.OK {
		return nil, fmt.Errorf("%w: %s", ErrMandatorySignalUnavailable, describeAttempts(priceRes.Attempts))
	}

	snap := &models.MarketSnapshot{
		Price:     models.Float(priceRes.Reading.Value),
		Timestamp: a.clock(),
		DataSource: models.Provenance{
			Price:      priceRes.Source,
			High52Week: models.Unavailable,
			Volatility: models.Unavailable,
			Valuation:  models.Unavailable,
		},
	}

	if r := byMetric[models.MetricHigh52Week]; r.OK {
		snap.High52Week = models.Float(r.Reading.Value)
		snap.DataSource.High52Week = r.Source
	} else if dh := priceRes.Reading.DayHigh; dh != nil {
		high, _ := xutil.MaxFinite([]float64{*dh, priceRes.Reading.Value})
		snap.High52Week = models.Float(high)
		snap.DataSource.High52Week = priceRes.Source + DayHighSuffix
		a.logger.Warn("52-week high derived from today's high", xlogger.String("source", priceRes.Source))
	}

	if r := byMetric[models.MetricVolatility]; r.OK {
		snap.VolatilityIndex = models.Float(r.Reading.Value)
		snap.DataSource.Volatility = r.Source
	}

	if r := byMetric[models.MetricValuation]; r.OK {
		snap.ValuationRatio = models.Float(r.Reading.Value)
		snap.ValuationPercentile = r.Reading.Percentile
		snap.DataSource.Valuation = r.Source
	}

	if missing := snap.Missing(); len(missing) > 0 {
		a.logger.Info("snapshot incomplete", xlogger.Strings("missing", missing))
	}
	return snap, nil
}

func describeAttempts(attempts []Attempt) string {
	if len(attempts) == 0 {
		return "no sources configured"
	}
	parts := make([]string, 0, len(attempts))
	for _, at := range attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", at.Source, at.Outcome))
	}
	return strings.Join(parts, "; ")
}
