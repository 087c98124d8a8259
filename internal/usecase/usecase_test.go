package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/domain/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newSource(ctrl *gomock.Controller, name string) *mocks.MockMetricSource {
	s := mocks.NewMockMetricSource(ctrl)
	s.EXPECT().Name().Return(name).AnyTimes()
	return s
}

func unreachable(name string) error {
	return fmt.Errorf("%s: %w: dial tcp: i/o timeout", name, service.ErrProviderUnreachable)
}

type chainMap map[models.Metric][]string

func (c chainMap) For(metric models.Metric) []string { return c[metric] }

type resolutionRecorder struct {
	service.NopMetrics
	mu       sync.Mutex
	resolved map[string]string
	outcomes []string
}

func (r *resolutionRecorder) RecordResolution(metric, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved == nil {
		r.resolved = map[string]string{}
	}
	r.resolved[metric] = source
}

func (r *resolutionRecorder) RecordFetch(source, metric, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, source+"/"+metric+"/"+outcome)
}

func TestResolve_FirstSuccessWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := newSource(ctrl, "yahoo")
	second := newSource(ctrl, "xueqiu")
	third := newSource(ctrl, "alphavantage")

	gomock.InOrder(
		first.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{}, unreachable("yahoo")),
		second.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: 16.2}, nil),
	)
	// third has no expectation: calling it fails the test.

	rec := &resolutionRecorder{}
	res := NewFallbackResolver(nil, rec).Resolve(context.Background(), models.MetricVolatility,
		[]service.MetricSource{first, second, third})

	require.True(t, res.OK)
	assert.Equal(t, "xueqiu", res.Source)
	assert.Equal(t, 16.2, res.Reading.Value)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, "unreachable", res.Attempts[0].Outcome)
	assert.Equal(t, "ok", res.Attempts[1].Outcome)
	assert.Equal(t, "xueqiu", rec.resolved["volatility"])
	assert.Equal(t, []string{"yahoo/volatility/unreachable", "xueqiu/volatility/ok"}, rec.outcomes)
}

func TestResolve_Exhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newSource(ctrl, "xueqiu")
	b := newSource(ctrl, "danjuan")
	a.EXPECT().Fetch(gomock.Any(), models.MetricValuation).
		Return(models.Reading{}, fmt.Errorf("xueqiu: %w: data.quote.pe_ttm missing", service.ErrShapeMismatch))
	b.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{}, unreachable("danjuan"))

	rec := &resolutionRecorder{}
	res := NewFallbackResolver(nil, rec).Resolve(context.Background(), models.MetricValuation,
		[]service.MetricSource{a, b})

	assert.False(t, res.OK)
	assert.Equal(t, models.Unavailable, res.Source)
	assert.Len(t, res.Attempts, 2)
	assert.Equal(t, "shape_mismatch", res.Attempts[0].Outcome)
	assert.Equal(t, models.Unavailable, rec.resolved["valuation"])
}

func TestResolve_EmptyChain(t *testing.T) {
	res := NewFallbackResolver(nil, nil).Resolve(context.Background(), models.MetricVolatility, nil)
	assert.False(t, res.OK)
	assert.Equal(t, models.Unavailable, res.Source)
	assert.Empty(t, res.Attempts)
}

func TestResolve_RejectsInvalidValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	bad := newSource(ctrl, "twelvedata")
	good := newSource(ctrl, "alphavantage")
	bad.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: -3}, nil)
	good.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: 21}, nil)

	res := NewFallbackResolver(nil, nil).Resolve(context.Background(), models.MetricVolatility,
		[]service.MetricSource{bad, good})

	require.True(t, res.OK)
	assert.Equal(t, "alphavantage", res.Source)
	assert.Equal(t, "shape_mismatch", res.Attempts[0].Outcome)
}

func TestResolve_DropsOutOfRangePercentile(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := newSource(ctrl, "danjuan")
	src.EXPECT().Fetch(gomock.Any(), models.MetricValuation).
		Return(models.Reading{Value: 31.5, Percentile: models.Float(140)}, nil)

	res := NewFallbackResolver(nil, nil).Resolve(context.Background(), models.MetricValuation,
		[]service.MetricSource{src})

	require.True(t, res.OK)
	assert.Equal(t, 31.5, res.Reading.Value)
	assert.Nil(t, res.Reading.Percentile)
}

func TestResolve_StopsOnCanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := newSource(ctrl, "yahoo")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewFallbackResolver(nil, nil).Resolve(ctx, models.MetricVolatility, []service.MetricSource{src})
	assert.False(t, res.OK)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, "canceled", res.Attempts[0].Outcome)
}

type aggregatorFixture struct {
	ctrl    *gomock.Controller
	finnhub *mocks.MockMetricSource
	yahoo   *mocks.MockMetricSource
	xueqiu  *mocks.MockMetricSource
	danjuan *mocks.MockMetricSource
	agg     *SnapshotAggregator
	now     time.Time
}

func newAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &aggregatorFixture{
		ctrl:    ctrl,
		finnhub: newSource(ctrl, "finnhub"),
		yahoo:   newSource(ctrl, "yahoo"),
		xueqiu:  newSource(ctrl, "xueqiu"),
		danjuan: newSource(ctrl, "danjuan"),
		now:     time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC),
	}
	chains := chainMap{
		models.MetricPrice:      {"finnhub"},
		models.MetricHigh52Week: {"yahoo", "finnhub"},
		models.MetricVolatility: {"yahoo", "xueqiu"},
		models.MetricValuation:  {"xueqiu", "danjuan"},
	}
	registry := NewRegistry(f.finnhub, f.yahoo, f.xueqiu, f.danjuan)
	f.agg = NewSnapshotAggregator(registry, chains, NewFallbackResolver(nil, nil),
		WithClock(func() time.Time { return f.now }),
		WithTimeout(5*time.Second),
	)
	return f
}

func TestGetSnapshot_AllChainsSucceed(t *testing.T) {
	f := newAggregatorFixture(t)
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricPrice).
		Return(models.Reading{Value: 480.12, DayHigh: models.Float(483)}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{Value: 540.81}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: 19.4}, nil)
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{Value: 33.1}, nil)

	snap, err := f.agg.GetSnapshot(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 480.12, *snap.Price)
	assert.Equal(t, 540.81, *snap.High52Week)
	assert.Equal(t, 19.4, *snap.VolatilityIndex)
	assert.Equal(t, 33.1, *snap.ValuationRatio)
	assert.Nil(t, snap.ValuationPercentile)
	assert.Equal(t, f.now, snap.Timestamp)
	assert.Equal(t, models.Provenance{
		Price:      "finnhub",
		High52Week: "yahoo",
		Volatility: "yahoo",
		Valuation:  "xueqiu",
	}, snap.DataSource)
	assert.True(t, snap.Complete())
}

func TestGetSnapshot_OneChainFails(t *testing.T) {
	f := newAggregatorFixture(t)
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricPrice).Return(models.Reading{Value: 480}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{Value: 540}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{}, unreachable("yahoo"))
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{}, unreachable("xueqiu"))
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{}, unreachable("xueqiu"))
	f.danjuan.EXPECT().Fetch(gomock.Any(), models.MetricValuation).
		Return(models.Reading{Value: 29.8, Percentile: models.Float(71.25)}, nil)

	snap, err := f.agg.GetSnapshot(context.Background(), nil)
	require.NoError(t, err)

	assert.Nil(t, snap.VolatilityIndex)
	assert.Equal(t, models.Unavailable, snap.DataSource.Volatility)
	assert.Equal(t, 29.8, *snap.ValuationRatio)
	assert.Equal(t, 71.25, *snap.ValuationPercentile)
	assert.Equal(t, "danjuan", snap.DataSource.Valuation)
	assert.Equal(t, []string{"vix"}, snap.Missing())
}

func TestGetSnapshot_PriceChainFails(t *testing.T) {
	f := newAggregatorFixture(t)
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricPrice).
		Return(models.Reading{}, fmt.Errorf("finnhub: %w", service.ErrMissingCredential))
	f.yahoo.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(models.Reading{Value: 20}, nil).AnyTimes()
	f.xueqiu.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(models.Reading{Value: 30}, nil).AnyTimes()

	snap, err := f.agg.GetSnapshot(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.True(t, errors.Is(err, ErrMandatorySignalUnavailable))
	assert.Contains(t, err.Error(), "finnhub: missing_credential")
}

func TestGetSnapshot_YearHighFromDayHigh(t *testing.T) {
	f := newAggregatorFixture(t)
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricPrice).
		Return(models.Reading{Value: 480, DayHigh: models.Float(486.5)}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{}, unreachable("yahoo"))
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{}, unreachable("finnhub"))
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: 15}, nil)
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{Value: 28}, nil)

	snap, err := f.agg.GetSnapshot(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 486.5, *snap.High52Week)
	assert.Equal(t, "finnhub (today high)", snap.DataSource.High52Week)
}

func TestGetSnapshot_YearHighUnavailableWithoutDayHigh(t *testing.T) {
	f := newAggregatorFixture(t)
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricPrice).Return(models.Reading{Value: 480}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{}, unreachable("yahoo"))
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{}, unreachable("finnhub"))
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: 15}, nil)
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{Value: 28}, nil)

	snap, err := f.agg.GetSnapshot(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, snap.High52Week)
	assert.Equal(t, models.Unavailable, snap.DataSource.High52Week)
}

func TestGetSnapshot_PriceOverride(t *testing.T) {
	f := newAggregatorFixture(t)
	keyed := newSource(f.ctrl, "finnhub")
	keyed.EXPECT().Fetch(gomock.Any(), models.MetricPrice).Return(models.Reading{Value: 481}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{Value: 540}, nil)
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{Value: 15}, nil)
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{Value: 28}, nil)
	// The registered finnhub source must not be used.

	snap, err := f.agg.GetSnapshot(context.Background(), keyed)
	require.NoError(t, err)
	assert.Equal(t, 481.0, *snap.Price)
}

func TestGetSnapshot_ChainsRunConcurrently(t *testing.T) {
	f := newAggregatorFixture(t)

	// Each of the four chains blocks until all four have started.
	var started sync.WaitGroup
	started.Add(4)
	block := func(v float64) func(context.Context, models.Metric) (models.Reading, error) {
		return func(ctx context.Context, _ models.Metric) (models.Reading, error) {
			started.Done()
			started.Wait()
			return models.Reading{Value: v}, nil
		}
	}
	f.finnhub.EXPECT().Fetch(gomock.Any(), models.MetricPrice).DoAndReturn(block(480))
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).DoAndReturn(block(540))
	f.yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).DoAndReturn(block(15))
	f.xueqiu.EXPECT().Fetch(gomock.Any(), models.MetricValuation).DoAndReturn(block(28))

	done := make(chan struct{})
	go func() {
		defer close(done)
		snap, err := f.agg.GetSnapshot(context.Background(), nil)
		assert.NoError(t, err)
		assert.True(t, snap != nil && snap.Complete())
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("chains did not run concurrently")
	}
}

func TestRegistry_Chain(t *testing.T) {
	ctrl := gomock.NewController(t)
	yahoo := newSource(ctrl, "yahoo")
	xueqiu := newSource(ctrl, "xueqiu")
	r := NewRegistry(yahoo, xueqiu)

	chain, err := r.Chain([]string{"xueqiu", "yahoo"}, nil)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "xueqiu", chain[0].Name())
	assert.Equal(t, "yahoo", chain[1].Name())

	_, err = r.Chain([]string{"bloomberg"}, nil)
	assert.Error(t, err)

	assert.Equal(t, []string{"xueqiu", "yahoo"}, r.Names())

	got, ok := r.Get("yahoo")
	require.True(t, ok)
	assert.Equal(t, "yahoo", got.Name())
	_, ok = r.Get("bloomberg")
	assert.False(t, ok)
}

type listedSource struct {
	*mocks.MockMetricSource
	metrics []models.Metric
}

func (l listedSource) Supports() []models.Metric { return l.metrics }

func TestProbe(t *testing.T) {
	ctrl := gomock.NewController(t)
	danjuan := listedSource{newSource(ctrl, "danjuan"), []models.Metric{models.MetricValuation}}
	yahoo := listedSource{newSource(ctrl, "yahoo"), []models.Metric{models.MetricHigh52Week, models.MetricVolatility}}

	danjuan.EXPECT().Fetch(gomock.Any(), models.MetricValuation).Return(models.Reading{Value: 31}, nil)
	yahoo.EXPECT().Fetch(gomock.Any(), models.MetricHigh52Week).Return(models.Reading{Value: 540}, nil)
	yahoo.EXPECT().Fetch(gomock.Any(), models.MetricVolatility).Return(models.Reading{}, unreachable("yahoo"))

	results, err := Probe(context.Background(), NewRegistry(danjuan, yahoo), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Sources are reported in name order, metrics in snapshot order.
	assert.Equal(t, "danjuan", results[0].Source)
	assert.Equal(t, 31.0, *results[0].Value)
	assert.Equal(t, models.MetricHigh52Week, results[1].Metric)
	assert.Equal(t, "ok", results[1].Outcome)
	assert.Equal(t, models.MetricVolatility, results[2].Metric)
	assert.Equal(t, "unreachable", results[2].Outcome)
	assert.Nil(t, results[2].Value)
}
