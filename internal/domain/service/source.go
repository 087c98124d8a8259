package service

//go:generate mockgen -package=mocks -destination=mocks/source_mock.go -source=source.go MetricSource

import (
	"context"
	"errors"

	"MarketTemp/internal/domain/models"
)

// Provider failure classes. Sources wrap one of these with context so callers can classify with errors.Is.
var (
	// ErrProviderUnreachable covers network errors, timeouts and non-2xx responses.
	ErrProviderUnreachable = errors.New("provider unreachable")
	// ErrShapeMismatch means the payload parsed but the expected field was missing or not a positive number.
	ErrShapeMismatch = errors.New("provider shape mismatch")
	// ErrMissingCredential means the provider needs an API key that is not configured.
	ErrMissingCredential = errors.New("missing credential")
	// ErrUnsupportedMetric means the source does not provide the requested metric.
	ErrUnsupportedMetric = errors.New("unsupported metric")
)

// MetricSource fetches one normalized metric from one external provider.
type MetricSource interface {
	// Name identifies the provider in provenance and logs.
	Name() string
	// Fetch returns the metric or an error wrapping one of the provider failure classes.
	Fetch(ctx context.Context, metric models.Metric) (models.Reading, error)
}

// Outcome maps a fetch error to a short label for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrUnsupportedMetric):
		return "unsupported"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unreachable"
	}
}
