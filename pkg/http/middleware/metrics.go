package middleware

import (
	"strconv"
	"time"

	applogger "MarketTemp/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics holds request collectors registered on one registry.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP collectors on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	f := promauto.With(reg)
	labels := []string{"route", "method", "status"}
	return &HTTPMetrics{
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route template and status.",
		}, labels),
		// Snapshot requests wait on several upstream chains, so the buckets reach past a minute.
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}, labels),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Requests currently being served.",
		}),
	}
}

// Metrics records every request under its route template and warns about requests slower than slow.
func Metrics(m *HTTPMetrics, l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			if err := next(c); err != nil {
				// Render now so the recorded status is the one the client sees.
				c.Error(err)
			}
			elapsed := time.Since(start)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			values := []string{route, c.Request().Method, strconv.Itoa(c.Response().Status)}
			m.requestsTotal.WithLabelValues(values...).Inc()
			m.requestDuration.WithLabelValues(values...).Observe(elapsed.Seconds())

			if slow > 0 && elapsed >= slow {
				l.Warn("slow request",
					applogger.String("route", values[0]),
					applogger.String("method", values[1]),
					applogger.String("status", values[2]),
					applogger.Duration("latency", elapsed),
				)
			}
			return nil
		}
	}
}
