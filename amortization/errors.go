package amortization

import (
	"errors"
	"fmt"
)

// Precondition failures. Each is returned wrapped with the offending value,
// so callers match with errors.Is.
var (
	ErrInvalidPrincipal         = errors.New("principal must be positive")
	ErrInvalidRate              = errors.New("annual interest rate cannot be negative")
	ErrInvalidTerm              = errors.New("term in years must be positive")
	ErrInvalidExtraAmortization = errors.New("extra amortization cannot be negative")

	ErrComputation = errors.New("amortization computation failed")
)

// IsValidationError reports whether err is one of the input precondition errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPrincipal) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrInvalidTerm) ||
		errors.Is(err, ErrInvalidExtraAmortization)
}

// ComputationError reports a non-finite intermediate result. It keeps the
// inputs that produced it so the failure can be logged with full context.
type ComputationError struct {
	Principal                 float64
	AnnualInterestRatePercent float64
	TermYears                 int
	ExtraAmortization         float64
	Month                     int
	Reason                    string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf(
		"%v at month %d: %s (principal=%g rate=%g%% years=%d extra=%g)",
		ErrComputation, e.Month, e.Reason,
		e.Principal, e.AnnualInterestRatePercent, e.TermYears, e.ExtraAmortization,
	)
}

func (e *ComputationError) Unwrap() error {
	return ErrComputation
}
