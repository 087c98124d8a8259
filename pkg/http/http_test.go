package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string  `json:"name" validate:"required"`
	Ratio float64 `json:"ratio" validate:"gt=0"`
	Token string  `header:"x-token"`
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestReadAndValidateRequestUsesWireNames(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", `{"ratio":0}`)
	verr := ReadAndValidateRequest(c, &sampleRequest{})

	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)
	require.Equal(t, "ERR_REQUIRED", errs[0].Code)
	require.Equal(t, "name", errs[0].Field)
	require.Equal(t, "ERR_GT", errs[1].Code)
	require.Equal(t, "ratio must be greater than 0", errs[1].Message)
}

func TestReadAndValidateRequestMapsTypeErrors(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", `{"name":"x","ratio":"high"}`)
	verr := ReadAndValidateRequest(c, &sampleRequest{})

	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	require.Equal(t, "ERR_NUMERIC", errs[0].Code)
	require.Equal(t, "ratio", errs[0].Field)
}

func TestReadAndValidateRequestBindsHeaders(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", `{"name":"x","ratio":1}`)
	c.Request().Header.Set("X-Token", "secret")

	req := &sampleRequest{}
	require.Nil(t, ReadAndValidateRequest(c, req))
	require.Equal(t, "secret", req.Token)
}

func TestBadRequestResponseEnvelope(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	require.NoError(t, BadRequestResponse(c, []ValidationError{{Code: "ERR_REQUIRED", Field: "pe", Message: "pe is required"}}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body APIResponse400Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "pe is required", body.Message)
	require.Len(t, body.Details, 1)
}

func TestHTTPErrorHandlerRendersNotFoundAsJSON(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "Not Found", body.Error)
}

func TestClientReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "QQQ", r.URL.Query().Get("symbol"))
		assert.Equal(t, "markettemp/1.0", r.Header.Get("User-Agent"))
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient().Get(context.Background(), &RequestOptions{
		URL:         srv.URL,
		QueryParams: map[string][]string{"symbol": {"QQQ"}},
	})

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	require.Equal(t, "slow down", se.Body)
}

func TestClientLimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	_, err := NewClient(WithMaxBody(32)).Get(context.Background(), &RequestOptions{URL: srv.URL})
	require.True(t, errors.Is(err, ErrBodyTooLarge))

	body, err := NewClient(WithMaxBody(64)).Get(context.Background(), &RequestOptions{URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, body, 64)
}
