package usecase

import (
	"errors"
	"fmt"

	"MarketTemp/internal/domain/service"
)

// ErrMandatorySignalUnavailable is returned when the price chain is exhausted.
var ErrMandatorySignalUnavailable = errors.New("mandatory signal unavailable")

func errInvalidValue(v float64) error {
	return fmt.Errorf("%w: value %g is not a finite non-negative number", service.ErrShapeMismatch, v)
}
