package yahoo

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

func newServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		body, ok := routes[r.URL.EscapedPath()+"?range="+r.URL.Query().Get("range")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(url string) *Client {
	return New(config.YahooConfig{BaseURL: url, Symbol: "QQQ", VolatilitySymbol: "^VIX", Timeout: time.Second})
}

func TestYearHighFromMeta(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/QQQ?range=1y": `{"chart":{"result":[{"meta":{"fiftyTwoWeekHigh":540.81,"regularMarketPrice":500},"indicators":{"quote":[{"high":[1,2]}]}}],"error":null}}`,
	})

	got, err := newClient(srv.URL).Fetch(context.Background(), models.MetricHigh52Week)
	require.NoError(t, err)
	require.Equal(t, 540.81, got.Value)
}

func TestYearHighFromDailyHighs(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/QQQ?range=1y": `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{"high":[410.2,null,455.9,430]}]}}],"error":null}}`,
	})

	got, err := newClient(srv.URL).Fetch(context.Background(), models.MetricHigh52Week)
	require.NoError(t, err)
	require.Equal(t, 455.9, got.Value)
}

func TestVolatilityUsesEscapedSymbol(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/%5EVIX?range=1d": `{"chart":{"result":[{"meta":{"regularMarketPrice":18.42}}],"error":null}}`,
	})

	got, err := newClient(srv.URL).Fetch(context.Background(), models.MetricVolatility)
	require.NoError(t, err)
	require.Equal(t, 18.42, got.Value)
}

func TestChartErrors(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/QQQ?range=1y":    `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`,
		"/%5EVIX?range=1d": `{"chart":{"result":[]}}`,
	})
	c := newClient(srv.URL)

	_, err := c.Fetch(context.Background(), models.MetricHigh52Week)
	require.ErrorIs(t, err, service.ErrShapeMismatch)
	require.ErrorContains(t, err, "No data found")

	_, err = c.Fetch(context.Background(), models.MetricVolatility)
	require.ErrorIs(t, err, service.ErrShapeMismatch)

	_, err = c.Fetch(context.Background(), models.MetricPrice)
	require.ErrorIs(t, err, service.ErrUnsupportedMetric)
}
