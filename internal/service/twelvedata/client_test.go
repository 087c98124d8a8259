package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, key, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, key, r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(config.TwelveDataConfig{BaseURL: srv.URL, APIKey: key, Symbol: "VIX", Timeout: time.Second})
}

func TestQuoteClose(t *testing.T) {
	c := newClient(t, "k", `{"symbol":"VIX","close":"22.15000","is_market_open":false}`)

	got, err := c.Fetch(context.Background(), models.MetricVolatility)
	require.NoError(t, err)
	require.Equal(t, 22.15, got.Value)
}

func TestErrorStatus(t *testing.T) {
	c := newClient(t, "k", `{"code":404,"message":"symbol not found","status":"error"}`)

	_, err := c.Fetch(context.Background(), models.MetricVolatility)
	require.ErrorIs(t, err, service.ErrProviderUnreachable)
	require.ErrorContains(t, err, "symbol not found")
}

func TestMissingKeySkipsRequest(t *testing.T) {
	c := New(config.TwelveDataConfig{BaseURL: "http://127.0.0.1:1", Symbol: "VIX", Timeout: time.Second})

	_, err := c.Fetch(context.Background(), models.MetricVolatility)
	require.ErrorIs(t, err, service.ErrMissingCredential)

	_, err = c.Fetch(context.Background(), models.MetricValuation)
	require.ErrorIs(t, err, service.ErrUnsupportedMetric)
}
