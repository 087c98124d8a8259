package models

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// TierCount is the number of tiers on each decision axis.
const TierCount = 4

// ValuationThresholds bound the valuation tiers; Reasonable < Expensive < Bubble.
type ValuationThresholds struct {
	Bubble     float64 `yaml:"bubble" json:"bubble" default:"35"`
	Expensive  float64 `yaml:"expensive" json:"expensive" default:"30"`
	Reasonable float64 `yaml:"reasonable" json:"reasonable" default:"25"`
}

// VolatilityThresholds bound the volatility tiers; Greed < Calm < Fear.
type VolatilityThresholds struct {
	Greed float64 `yaml:"greed" json:"greed" default:"13"`
	Calm  float64 `yaml:"calm" json:"calm" default:"18"`
	Fear  float64 `yaml:"fear" json:"fear" default:"25"`
}

// DrawdownThresholds bound the drawdown tiers in percent; Medium < High < Super.
type DrawdownThresholds struct {
	Super  float64 `yaml:"super" json:"super" default:"20"`
	High   float64 `yaml:"high" json:"high" default:"10"`
	Medium float64 `yaml:"medium" json:"medium" default:"5"`
}

// ThresholdConfig holds the three strictly ordered threshold triples.
type ThresholdConfig struct {
	Valuation  ValuationThresholds  `yaml:"pe_thresholds" json:"peThresholds"`
	Volatility VolatilityThresholds `yaml:"vix_thresholds" json:"vixThresholds"`
	Drawdown   DrawdownThresholds   `yaml:"drawdown_thresholds" json:"drawdownThresholds"`
}

// DefaultThresholds returns the stock threshold values.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		Valuation:  ValuationThresholds{Bubble: 35, Expensive: 30, Reasonable: 25},
		Volatility: VolatilityThresholds{Greed: 13, Calm: 18, Fear: 25},
		Drawdown:   DrawdownThresholds{Super: 20, High: 10, Medium: 5},
	}
}

// Validate checks every triple is finite and strictly ordered.
func (t ThresholdConfig) Validate() error {
	if err := strictlyIncreasing("pe_thresholds", "reasonable", "expensive", "bubble",
		t.Valuation.Reasonable, t.Valuation.Expensive, t.Valuation.Bubble); err != nil {
		return err
	}
	if err := strictlyIncreasing("vix_thresholds", "greed", "calm", "fear",
		t.Volatility.Greed, t.Volatility.Calm, t.Volatility.Fear); err != nil {
		return err
	}
	return strictlyIncreasing("drawdown_thresholds", "medium", "high", "super",
		t.Drawdown.Medium, t.Drawdown.High, t.Drawdown.Super)
}

func strictlyIncreasing(group, n1, n2, n3 string, a, b, c float64) error {
	for _, v := range []float64{a, b, c} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: values must be finite", group)
		}
	}
	if !(a < b && b < c) {
		return fmt.Errorf("%s: expected %s < %s < %s, got %g, %g, %g", group, n1, n2, n3, a, b, c)
	}
	return nil
}

// DrawdownLevel is the display key of a drawdown tier.
type DrawdownLevel string

const (
	LowDrawdown    DrawdownLevel = "lowDrawdown"
	MediumDrawdown DrawdownLevel = "mediumDrawdown"
	HighDrawdown   DrawdownLevel = "highDrawdown"
	SuperDrawdown  DrawdownLevel = "superDrawdown"
)

// DrawdownLevels is indexed by drawdown tier.
var DrawdownLevels = [TierCount]DrawdownLevel{LowDrawdown, MediumDrawdown, HighDrawdown, SuperDrawdown}

// DecisionMatrix maps [drawdownTier][valuationTier][volatilityTier] to allocation units.
// Tier 0 is the shallowest drawdown, the most expensive valuation and the greediest volatility.
type DecisionMatrix [TierCount][TierCount][TierCount]float64

// DefaultMatrix returns the stock allocation table.
func DefaultMatrix() DecisionMatrix {
	return DecisionMatrix{
		{ // lowDrawdown
			{0, 0, 0, 0.5},
			{0, 0.5, 1, 1.5},
			{0.5, 1, 1.5, 2},
			{1, 2, 3, 4},
		},
		{ // mediumDrawdown
			{0, 0, 0.5, 1},
			{0, 1, 2, 3},
			{1, 2, 3, 5},
			{3, 5, 8, 10},
		},
		{ // highDrawdown
			{0, 0.5, 1, 2},
			{0.5, 2, 3, 5},
			{2, 4, 6, 8},
			{5, 8, 12, 15},
		},
		{ // superDrawdown
			{0, 1, 2, 3},
			{1, 3, 5, 8},
			{3, 6, 10, 12},
			{8, 12, 16, 20},
		},
	}
}

// Lookup returns the units for the given tiers.
func (m *DecisionMatrix) Lookup(drawdown, valuation, volatility int) float64 {
	return m[drawdown][valuation][volatility]
}

// Validate checks cells are finite, non-negative and non-decreasing along every axis.
func (m *DecisionMatrix) Validate() error {
	for d := 0; d < TierCount; d++ {
		for v := 0; v < TierCount; v++ {
			for x := 0; x < TierCount; x++ {
				cell := m[d][v][x]
				if math.IsNaN(cell) || math.IsInf(cell, 0) || cell < 0 {
					return fmt.Errorf("matrix[%s][%d][%d]: invalid cell %g", DrawdownLevels[d], v, x, cell)
				}
				if d > 0 && cell < m[d-1][v][x] {
					return fmt.Errorf("matrix[%s][%d][%d]: decreases with deeper drawdown", DrawdownLevels[d], v, x)
				}
				if v > 0 && cell < m[d][v-1][x] {
					return fmt.Errorf("matrix[%s][%d][%d]: decreases with cheaper valuation", DrawdownLevels[d], v, x)
				}
				if x > 0 && cell < m[d][v][x-1] {
					return fmt.Errorf("matrix[%s][%d][%d]: decreases with higher fear", DrawdownLevels[d], v, x)
				}
			}
		}
	}
	return nil
}

// Levels returns the matrix keyed by drawdown level.
func (m *DecisionMatrix) Levels() map[DrawdownLevel][][]float64 {
	out := make(map[DrawdownLevel][][]float64, TierCount)
	for d, level := range DrawdownLevels {
		rows := make([][]float64, TierCount)
		for v := range rows {
			rows[v] = append([]float64(nil), m[d][v][:]...)
		}
		out[level] = rows
	}
	return out
}

// MatrixFromLevels builds a matrix from a level-keyed table; every level must be a 4x4 grid.
func MatrixFromLevels(levels map[DrawdownLevel][][]float64) (DecisionMatrix, error) {
	var m DecisionMatrix
	if len(levels) != TierCount {
		return m, fmt.Errorf("matrix: expected %d drawdown levels, got %d", TierCount, len(levels))
	}
	for d, level := range DrawdownLevels {
		rows, ok := levels[level]
		if !ok {
			return m, fmt.Errorf("matrix: missing level %s", level)
		}
		if len(rows) != TierCount {
			return m, fmt.Errorf("matrix[%s]: expected %d rows, got %d", level, TierCount, len(rows))
		}
		for v, row := range rows {
			if len(row) != TierCount {
				return m, fmt.Errorf("matrix[%s][%d]: expected %d columns, got %d", level, v, TierCount, len(row))
			}
			copy(m[d][v][:], row)
		}
	}
	return m, nil
}

func (m DecisionMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Levels())
}

func (m *DecisionMatrix) UnmarshalJSON(b []byte) error {
	var levels map[DrawdownLevel][][]float64
	if err := json.Unmarshal(b, &levels); err != nil {
		return err
	}
	parsed, err := MatrixFromLevels(levels)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m DecisionMatrix) MarshalYAML() (interface{}, error) {
	return m.Levels(), nil
}

func (m *DecisionMatrix) UnmarshalYAML(node *yaml.Node) error {
	var levels map[DrawdownLevel][][]float64
	if err := node.Decode(&levels); err != nil {
		return err
	}
	parsed, err := MatrixFromLevels(levels)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
