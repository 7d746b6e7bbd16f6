package quad

import (
	"errors"
	"fmt"
)

var (
	// ErrDomainFailure indicates the integrand is undefined or non-finite at
	// a required sample point.
	ErrDomainFailure = errors.New("quad: integrand undefined on interval")

	// ErrInvalidInterval indicates a NaN or infinite bound.
	ErrInvalidInterval = errors.New("quad: interval bounds must be finite")

	// ErrInvalidSubdivisions indicates a non-positive rectangle count.
	ErrInvalidSubdivisions = errors.New("quad: subdivision count must be positive")
)

// DomainFailure records the sample point that failed.
type DomainFailure struct {
	X   float64
	Err error
}

func (e *DomainFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v at x=%g", ErrDomainFailure, e.X)
	}
	return fmt.Sprintf("%v at x=%g: %v", ErrDomainFailure, e.X, e.Err)
}

// Is lets errors.Is match ErrDomainFailure while Unwrap exposes the
// evaluation error underneath.
func (e *DomainFailure) Is(target error) bool {
	return target == ErrDomainFailure
}

func (e *DomainFailure) Unwrap() error {
	return e.Err
}
