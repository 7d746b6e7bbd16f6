package quad

import (
	"encoding/json"
	"math"
)

const (
	DefaultCurveSteps  = 200
	DefaultRegionSteps = 100
	// MaxCurveSteps caps the curve after it is scaled to the widened range.
	MaxCurveSteps = 4000
	// CurveMargin extends the plotted curve beyond the integration bounds.
	CurveMargin = 1.0
)

// Sample is f evaluated at X. Err is non-nil when f is undefined or
// non-finite there; Y is then NaN.
type Sample struct {
	X   float64
	Y   float64
	Err error
}

func (s Sample) Valid() bool { return s.Err == nil }

// MarshalJSON writes an invalid sample as {"x":..,"y":null,"error":..}
// since JSON has no NaN.
func (s Sample) MarshalJSON() ([]byte, error) {
	out := struct {
		X     float64  `json:"x"`
		Y     *float64 `json:"y"`
		Error string   `json:"error,omitempty"`
	}{X: s.X}
	if s.Valid() {
		y := s.Y
		out.Y = &y
	} else {
		out.Error = s.Err.Error()
	}
	return json.Marshal(out)
}

// At samples f at a single point.
func At(f Func, x float64) Sample {
	y, err := sample(f, x)
	if err != nil {
		return Sample{X: x, Y: math.NaN(), Err: err}
	}
	return Sample{X: x, Y: y}
}

// Curve is an ordered run of samples.
type Curve []Sample

// Valid returns the finite points of the curve in order.
func (c Curve) Valid() (xs, ys []float64) {
	xs = make([]float64, 0, len(c))
	ys = make([]float64, 0, len(c))
	for _, s := range c {
		if s.Valid() {
			xs = append(xs, s.X)
			ys = append(ys, s.Y)
		}
	}
	return xs, ys
}

// Invalid counts the samples that failed.
func (c Curve) Invalid() int {
	n := 0
	for _, s := range c {
		if !s.Valid() {
			n++
		}
	}
	return n
}

// Range returns the min and max of the valid samples. ok is false when no
// sample is valid.
func (c Curve) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range c {
		if !s.Valid() {
			continue
		}
		ok = true
		lo = math.Min(lo, s.Y)
		hi = math.Max(hi, s.Y)
	}
	return lo, hi, ok
}

// SampleCurve evaluates f at steps+1 evenly spaced points from from to to.
// It never fails as a whole.
func SampleCurve(f Func, from, to float64, steps int) Curve {
	if steps < 1 {
		steps = 1
	}
	h := (to - from) / float64(steps)
	c := make(Curve, 0, steps+1)
	for i := 0; i <= steps; i++ {
		x := from + float64(i)*h
		if i == steps {
			x = to
		}
		c = append(c, At(f, x))
	}
	return c
}

// Options controls Visualize. Zero values select the defaults.
type Options struct {
	Subdivisions int
	CurveSteps   int
	RegionSteps  int
	// RiemannSteps > 0 adds a midpoint Riemann sum with that many rectangles.
	RiemannSteps int
}

// Visualization is the integral of f over [A, B] with everything needed to
// draw it.
type Visualization struct {
	A        float64        `json:"a"`
	B        float64        `json:"b"`
	Integral float64        `json:"integral"`
	Curve    Curve          `json:"curve"`
	Region   Curve          `json:"region"`
	FA       Sample         `json:"fa"`
	FB       Sample         `json:"fb"`
	Riemann  *RiemannResult `json:"riemann,omitempty"`
}

// Visualize integrates f over [a, b] and samples the curve over the
// bounds widened by CurveMargin on each side. CurveSteps sets the spacing
// across [a, b]; the margins are sampled at the same spacing.
func Visualize(f Func, a, b float64, opts Options) (*Visualization, error) {
	if opts.CurveSteps <= 0 {
		opts.CurveSteps = DefaultCurveSteps
	}
	if opts.RegionSteps <= 0 {
		opts.RegionSteps = DefaultRegionSteps
	}

	value, err := Integrate(f, a, b, opts.Subdivisions)
	if err != nil {
		return nil, err
	}

	lo, hi := math.Min(a, b), math.Max(a, b)
	v := &Visualization{
		A:        a,
		B:        b,
		Integral: value,
		Curve:    SampleCurve(f, lo-CurveMargin, hi+CurveMargin, curveSteps(opts.CurveSteps, lo, hi)),
		Region:   SampleCurve(f, a, b, opts.RegionSteps),
	}
	v.FA = At(f, a)
	v.FB = At(f, b)

	if opts.RiemannSteps > 0 {
		r, err := Riemann(f, a, b, opts.RiemannSteps)
		if err != nil {
			return nil, err
		}
		v.Riemann = r
	}
	return v, nil
}

// curveSteps scales steps so the widened range keeps the spacing
// (hi-lo)/steps.
func curveSteps(steps int, lo, hi float64) int {
	if hi <= lo {
		return steps
	}
	scaled := math.Ceil(float64(steps) * (hi - lo + 2*CurveMargin) / (hi - lo))
	return int(math.Min(scaled, MaxCurveSteps))
}
