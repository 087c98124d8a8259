package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultMatrixIsMonotonic(t *testing.T) {
	m := DefaultMatrix()
	require.NoError(t, m.Validate())
	require.Equal(t, 0.0, m.Lookup(0, 0, 0))
	require.Equal(t, 20.0, m.Lookup(3, 3, 3))
	require.Equal(t, 3.0, m.Lookup(1, 2, 2))
}

func TestMatrixValidateRejectsDecrease(t *testing.T) {
	tests := []struct {
		name string
		edit func(m *DecisionMatrix)
	}{
		{"drawdown axis", func(m *DecisionMatrix) { m[3][3][3] = 14 }},
		{"valuation axis", func(m *DecisionMatrix) { m[0][3][0] = 0.25 }},
		{"volatility axis", func(m *DecisionMatrix) { m[2][2][3] = 5 }},
		{"negative cell", func(m *DecisionMatrix) { m[0][0][0] = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMatrix()
			tt.edit(&m)
			require.Error(t, m.Validate())
		})
	}
}

func TestMatrixJSONIsLevelKeyed(t *testing.T) {
	m := DefaultMatrix()
	b, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string][][]float64
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Len(t, raw, TierCount)
	require.Equal(t, []float64{8, 12, 16, 20}, raw["superDrawdown"][3])
	require.Equal(t, []float64{0, 0, 0, 0.5}, raw["lowDrawdown"][0])
}

func TestMatrixYAMLRejectsShortRow(t *testing.T) {
	doc := `
lowDrawdown: [[0,0,0,0.5],[0,0.5,1,1.5],[0.5,1,1.5,2],[1,2,3]]
mediumDrawdown: [[0,0,0.5,1],[0,1,2,3],[1,2,3,5],[3,5,8,10]]
highDrawdown: [[0,0.5,1,2],[0.5,2,3,5],[2,4,6,8],[5,8,12,15]]
superDrawdown: [[0,1,2,3],[1,3,5,8],[3,6,10,12],[8,12,16,20]]
`
	var m DecisionMatrix
	err := yaml.Unmarshal([]byte(doc), &m)
	require.ErrorContains(t, err, "lowDrawdown")
}

func TestThresholdValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.Valuation.Expensive = bad.Valuation.Bubble
	require.ErrorContains(t, bad.Validate(), "pe_thresholds")

	bad = DefaultThresholds()
	bad.Volatility.Greed = 20
	require.ErrorContains(t, bad.Validate(), "vix_thresholds")

	bad = DefaultThresholds()
	bad.Drawdown.Medium = 10
	require.ErrorContains(t, bad.Validate(), "drawdown_thresholds")
}
