// Package quad approximates definite integrals of single-variable
// functions.
//
//   - [Integrate]: composite trapezoidal rule over equal-width panels
//   - [Riemann]: midpoint Riemann sum with per-rectangle geometry
//   - [SampleCurve]: per-point samples for plotting
//   - [Visualize]: everything needed to draw an integral and its rectangles
//
// Integration is oriented: swapping the bounds negates the result. The
// panel width h = (b-a)/n is signed, so no special case is needed.
//
// [Integrate] and [Riemann] are all-or-nothing. A single undefined sample
// fails the whole call with an error wrapping [ErrDomainFailure].
// [Integrate] also consults a [DomainChecker], which catches a pole that
// falls between panel boundaries. Plot
// sampling instead reports failures per [Sample] and lets the caller
// decide what to skip.
//
// # Example
//
//	f, _ := expr.Compile("x^2")
//	v, _ := quad.Integrate(f, 0, 2, quad.DefaultSubdivisions)   // ≈ 8/3
//	r, _ := quad.Riemann(f, 0, 2, 10)
//	for _, rect := range r.Rectangles {
//	    fmt.Println(rect.Left, rect.Height, rect.Area)
//	}
package quad
