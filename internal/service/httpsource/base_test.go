package httpsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketTemp/internal/domain/service"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type countingLimiter struct{ keys []string }

func (l *countingLimiter) Acquire(_ context.Context, key string) error {
	l.keys = append(l.keys, key)
	return nil
}

func TestGetJSONClassifiesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"c":"412.5"}`))
		case "/html":
			_, _ = w.Write([]byte(`<html>blocked</html>`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	lim := &countingLimiter{}
	b := NewBase("demo", srv.URL, 50*time.Millisecond, WithLimiter(lim), WithHeaders(map[string]string{"X-Test": "1"}))

	doc, err := b.GetJSON(context.Background(), "/ok", nil)
	require.NoError(t, err)
	v, err := PositiveFloat(doc, "c")
	require.NoError(t, err)
	require.Equal(t, 412.5, v)

	_, err = b.GetJSON(context.Background(), "/html", nil)
	require.ErrorIs(t, err, service.ErrShapeMismatch)

	_, err = b.GetJSON(context.Background(), "/down", nil)
	require.ErrorIs(t, err, service.ErrProviderUnreachable)

	_, err = b.GetJSON(context.Background(), "/slow", nil)
	require.ErrorIs(t, err, service.ErrProviderUnreachable)

	require.Equal(t, []string{"demo", "demo", "demo", "demo"}, lim.keys)
}

func TestExtractHelpers(t *testing.T) {
	doc := gjson.Parse(`{
		"zero": 0,
		"neg": -3,
		"str": "18.2",
		"bad": "n/a",
		"nul": null,
		"highs": [410.1, null, 432.7, "x", 399],
		"empty": [null]
	}`)

	for _, path := range []string{"zero", "neg", "bad", "nul", "missing"} {
		_, err := PositiveFloat(doc, path)
		require.ErrorIs(t, err, service.ErrShapeMismatch, path)
	}

	v, err := FirstPositive(doc, "missing", "zero", "str")
	require.NoError(t, err)
	require.Equal(t, 18.2, v)

	max, err := MaxOf(doc, "highs")
	require.NoError(t, err)
	require.Equal(t, 432.7, max)

	_, err = MaxOf(doc, "empty")
	require.ErrorIs(t, err, service.ErrShapeMismatch)

	require.Nil(t, OptionalNonNegative(doc, "neg"))
	require.Equal(t, 0.0, *OptionalNonNegative(doc, "zero"))
}
