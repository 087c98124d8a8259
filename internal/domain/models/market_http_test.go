package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateRequestAcceptsNumericStrings(t *testing.T) {
	var req CalculateRequest
	err := json.Unmarshal([]byte(`{"pe":"32","vix":20,"currentPrice":" 300.5 ","high52Week":350}`), &req)
	require.NoError(t, err)
	require.Equal(t, DecisionInputs{ValuationRatio: 32, VolatilityIndex: 20, Price: 300.5, High52Week: 350}, req.Inputs())
}

func TestCalculateRequestRejectsNonNumeric(t *testing.T) {
	var req CalculateRequest
	err := json.Unmarshal([]byte(`{"pe":"abc","vix":20,"currentPrice":300,"high52Week":350}`), &req)

	var ute *json.UnmarshalTypeError
	require.True(t, errors.As(err, &ute))
	require.Equal(t, "pe", ute.Field)
}

func TestCalculateRequestEmptyStringStaysZero(t *testing.T) {
	var req CalculateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"pe":"","vix":null}`), &req))
	require.Zero(t, req.PE)
	require.Zero(t, req.VIX)
}

func TestMarketDataRequestKeyFallsBackToHeader(t *testing.T) {
	req := MarketDataRequest{HeaderAPIKey: "hdr"}
	require.Equal(t, "hdr", req.Key())

	req.APIKey = "q"
	require.Equal(t, "q", req.Key())
}
