// Package decision turns market inputs into an allocation recommendation.
package decision

import (
	"fmt"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	xutil "MarketTemp/pkg/util"
)

// Engine classifies inputs into tiers and looks up the allocation matrix.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	thresholds models.ThresholdConfig
	matrix     models.DecisionMatrix
	metrics    service.Metrics
}

type Option func(*Engine)

func WithMetrics(m service.Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine validates thresholds and matrix before accepting them.
func NewEngine(thresholds models.ThresholdConfig, matrix models.DecisionMatrix, opts ...Option) (*Engine, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decision matrix: %w", err)
	}
	e := &Engine{thresholds: thresholds, matrix: matrix, metrics: service.NopMetrics{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Thresholds() models.ThresholdConfig { return e.thresholds }

func (e *Engine) Matrix() models.DecisionMatrix { return e.matrix }

// Evaluate computes the recommendation for in. It is a pure function of its inputs and the engine config.
func (e *Engine) Evaluate(in models.DecisionInputs) models.Recommendation {
	drawdown := Drawdown(in.Price, in.High52Week)

	vt := ValuationTier(in.ValuationRatio, e.thresholds.Valuation)
	xt := VolatilityTier(in.VolatilityIndex, e.thresholds.Volatility)
	dt := DrawdownTier(drawdown, e.thresholds.Drawdown)
	units := e.matrix.Lookup(dt, vt, xt)
	level := models.DrawdownLevels[dt]

	e.metrics.RecordRecommendation(string(level))

	return models.Recommendation{
		Inputs:          in,
		DrawdownPercent: xutil.Round(drawdown, 2),
		ValuationTier:   vt,
		VolatilityTier:  xt,
		DrawdownTier:    dt,
		DrawdownLevel:   level,
		AllocationUnits: units,
		Labels:          labels(vt, xt, dt),
		Action:          action(units, vt, xt, dt),
	}
}

// EvaluateSnapshot runs Evaluate on a complete snapshot.
func (e *Engine) EvaluateSnapshot(s *models.MarketSnapshot) (models.Recommendation, error) {
	if s == nil || !s.Complete() {
		var missing []string
		if s != nil {
			missing = s.Missing()
		}
		return models.Recommendation{}, fmt.Errorf("snapshot incomplete: missing %v", missing)
	}
	return e.Evaluate(models.DecisionInputs{
		ValuationRatio:  *s.ValuationRatio,
		VolatilityIndex: *s.VolatilityIndex,
		Price:           *s.Price,
		High52Week:      *s.High52Week,
	}), nil
}
