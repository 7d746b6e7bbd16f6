package quad

import (
	"errors"
	"math"

	"github.com/san-kum/calclab/internal/expr"
)

// DefaultSubdivisions keeps the trapezoid error visually negligible for
// smooth integrands on display-sized intervals.
const DefaultSubdivisions = 1000

// Func is a real function that may be undefined at some points.
// *expr.Compiled satisfies it.
type Func interface {
	Eval(x float64) (float64, error)
}

// DomainChecker is implemented by integrands that can vouch for a whole
// interval at once. *expr.Compiled implements it.
type DomainChecker interface {
	CheckDomain(lo, hi float64) error
}

// FuncOf adapts a plain Go function. Non-finite results count as failures.
type FuncOf func(float64) float64

func (f FuncOf) Eval(x float64) (float64, error) {
	v := f(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), &DomainFailure{X: x}
	}
	return v, nil
}

// Integrate approximates the oriented integral of f over [a, b] with the
// composite trapezoidal rule on n equal panels. n <= 0 selects
// DefaultSubdivisions.
func Integrate(f Func, a, b float64, n int) (float64, error) {
	if err := checkInterval(a, b); err != nil {
		return 0, err
	}
	if n <= 0 {
		n = DefaultSubdivisions
	}
	if a == b {
		return 0, nil
	}

	// Cheap structural check before the full sweep.
	if _, err := sample(f, a+(b-a)/2); err != nil {
		return 0, err
	}
	// A pole between grid points never shows up in the sweep.
	if dc, ok := f.(DomainChecker); ok {
		if err := dc.CheckDomain(a, b); err != nil {
			return 0, domainFailure(err, a+(b-a)/2)
		}
	}

	h := (b - a) / float64(n)
	sum := 0.0
	for i := 0; i <= n; i++ {
		x := a + float64(i)*h
		if i == n {
			x = b
		}
		y, err := sample(f, x)
		if err != nil {
			return 0, err
		}
		if i == 0 || i == n {
			sum += y
		} else {
			sum += 2 * y
		}
	}

	v := h / 2 * sum
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DomainFailure{X: a + (b-a)/2}
	}
	return v, nil
}

func sample(f Func, x float64) (float64, error) {
	y, err := f.Eval(x)
	if err != nil {
		var df *DomainFailure
		if errors.As(err, &df) {
			return 0, err
		}
		return 0, &DomainFailure{X: x, Err: err}
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &DomainFailure{X: x}
	}
	return y, nil
}

func domainFailure(err error, fallback float64) *DomainFailure {
	var de *expr.DomainError
	if errors.As(err, &de) {
		return &DomainFailure{X: de.X, Err: err}
	}
	return &DomainFailure{X: fallback, Err: err}
}

func checkInterval(a, b float64) error {
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return ErrInvalidInterval
	}
	return nil
}
