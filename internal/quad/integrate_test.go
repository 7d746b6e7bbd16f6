package quad_test

import (
	"encoding/json"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/calclab/internal/expr"
	"github.com/san-kum/calclab/internal/quad"
)

// knownIntegral is a definite integral with a closed-form value.
type knownIntegral struct {
	expr  string
	a, b  float64
	value float64
}

var known = []knownIntegral{
	{"x^2", 0, 2, 8.0 / 3},
	{"sin(x)", 0, math.Pi, 2},
	{"exp(x)", 0, 1, math.E - 1},
	{"1/x", 1, 3, math.Log(3)},
	{"x^3 - 2*x^2 + x", -1, 3, 16.0 / 3},
	{"cos(x)", 0, math.Pi / 2, 1},
	{"x*exp(-x)", 0, 1, (math.E - 2) / math.E},
	{"7", -1, 2, 21},
}

type countingFunc struct {
	f     quad.Func
	calls int
}

func (c *countingFunc) Eval(x float64) (float64, error) {
	c.calls++
	return c.f.Eval(x)
}

var _ = Describe("Integrate", func() {
	for _, k := range known {
		k := k
		It("matches the closed form of "+k.expr, func() {
			v, err := quad.Integrate(expr.MustCompile(k.expr), k.a, k.b, quad.DefaultSubdivisions)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeNumerically("~", k.value, 1e-4))
		})

		It("is antisymmetric in its bounds for "+k.expr, func() {
			f := expr.MustCompile(k.expr)
			fwd, err := quad.Integrate(f, k.a, k.b, 0)
			Expect(err).NotTo(HaveOccurred())
			rev, err := quad.Integrate(f, k.b, k.a, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(fwd).To(BeNumerically("~", -rev, 1e-9))
		})
	}

	It("is zero over an empty interval even where f is undefined", func() {
		v, err := quad.Integrate(expr.MustCompile("1/x"), 0, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(0.0))

		v, err = quad.Integrate(expr.MustCompile("x^2"), 1.5, 1.5, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(0.0))
	})

	It("fails with a domain failure across a pole", func() {
		_, err := quad.Integrate(expr.MustCompile("1/x"), -1, 1, 0)
		Expect(err).To(MatchError(quad.ErrDomainFailure))
		Expect(errors.Is(err, expr.ErrEvaluation)).To(BeTrue())

		var df *quad.DomainFailure
		Expect(errors.As(err, &df)).To(BeTrue())
		Expect(df.X).To(Equal(0.0))
	})

	DescribeTable("fails on a pole between grid points",
		func(text string, a, b, pole float64) {
			f := expr.MustCompile(text)
			for _, n := range []int{0, 10, 1000, 1001} {
				_, err := quad.Integrate(f, a, b, n)
				Expect(err).To(MatchError(quad.ErrDomainFailure))

				var df *quad.DomainFailure
				Expect(errors.As(err, &df)).To(BeTrue())
				Expect(df.X).To(BeNumerically("~", pole, 1e-6))
			}
		},
		Entry("1/x on [-1, 2]", "1/x", -1.0, 2.0, 0.0),
		Entry("1/x on [-0.5, 1]", "1/x", -0.5, 1.0, 0.0),
		Entry("reversed bounds", "1/x", 2.0, -1.0, 0.0),
		Entry("shifted pole", "1/(x-1.1)", 0.0, 2.0, 1.1),
		Entry("tan pole", "tan(x)", 0.0, 2.0, math.Pi/2),
	)

	It("stops at the midpoint pre-check before sweeping", func() {
		f := &countingFunc{f: expr.MustCompile("1/(x-1)")}
		_, err := quad.Integrate(f, 0, 2, 1000)
		Expect(err).To(MatchError(quad.ErrDomainFailure))
		Expect(f.calls).To(Equal(1))
	})

	It("fails the whole call when an interior panel sample fails", func() {
		f := &countingFunc{f: expr.MustCompile("sqrt(x)")}
		_, err := quad.Integrate(f, -0.5, 4, 1000)
		Expect(err).To(MatchError(quad.ErrDomainFailure))
		Expect(f.calls).To(BeNumerically(">", 1))
	})

	It("samples n+1 boundaries after the pre-check", func() {
		f := &countingFunc{f: expr.MustCompile("x")}
		_, err := quad.Integrate(f, 0, 1, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.calls).To(Equal(12))
	})

	It("selects the default subdivision count for non-positive n", func() {
		f := expr.MustCompile("x^2")
		def, _ := quad.Integrate(f, 0, 2, 0)
		explicit, _ := quad.Integrate(f, 0, 2, quad.DefaultSubdivisions)
		Expect(def).To(Equal(explicit))
	})

	It("accepts a single panel", func() {
		v, err := quad.Integrate(expr.MustCompile("x"), 0, 2, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 2, 1e-12))
	})

	It("rejects non-finite bounds", func() {
		_, err := quad.Integrate(expr.MustCompile("x"), 0, math.Inf(1), 0)
		Expect(err).To(MatchError(quad.ErrInvalidInterval))
	})

	It("accepts plain Go functions", func() {
		v, err := quad.Integrate(quad.FuncOf(math.Sqrt), 0, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 2.0/3, 1e-4))

		_, err = quad.Integrate(quad.FuncOf(math.Log), -1, 1, 0)
		Expect(err).To(MatchError(quad.ErrDomainFailure))
	})
})

var _ = Describe("Riemann", func() {
	It("partitions the interval left to right", func() {
		r, err := quad.Riemann(expr.MustCompile("x^2"), 0, 2, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Rectangles).To(HaveLen(10))
		Expect(r.Width).To(BeNumerically("~", 0.2, 1e-15))
		for i, rect := range r.Rectangles {
			Expect(rect.Index).To(Equal(i))
			Expect(rect.Width).To(Equal(r.Width))
			Expect(rect.Area).To(BeNumerically("~", rect.Height*rect.Width, 1e-15))
			Expect(rect.Height).To(BeNumerically("~", rect.Mid()*rect.Mid(), 1e-12))
			if i > 0 {
				Expect(rect.Left).To(BeNumerically(">", r.Rectangles[i-1].Left))
			}
		}
		Expect(r.Rectangles[9].Right()).To(BeNumerically("~", 2, 1e-12))
	})

	It("uses the midpoint rule", func() {
		r, err := quad.Riemann(expr.MustCompile("x^2"), 0, 2, 10)
		Expect(err).NotTo(HaveOccurred())
		// Midpoint error for x^2 is exactly -(b-a)h^2/12.
		Expect(r.Total).To(BeNumerically("~", 8.0/3-2*0.04/12, 1e-12))
	})

	DescribeTable("converges to the trapezoid value",
		func(text string, a, b float64) {
			f := expr.MustCompile(text)
			want, err := quad.Integrate(f, a, b, 0)
			Expect(err).NotTo(HaveOccurred())

			r, err := quad.Riemann(f, a, b, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(r.Total - want)).To(BeNumerically("<", 0.01))

			fine, err := quad.Riemann(f, a, b, 5000)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(fine.Total - want)).To(BeNumerically("<=", math.Abs(r.Total-want)+1e-9))
		},
		Entry("x^2", "x^2", 0.0, 2.0),
		Entry("sin", "sin(x)", 0.0, math.Pi),
		Entry("exp", "exp(x)", 0.0, 1.0),
		Entry("cubic", "x^3 - 2*x^2 + x", -1.0, 3.0),
	)

	It("follows the orientation of the interval", func() {
		f := expr.MustCompile("x+1")
		fwd, err := quad.Riemann(f, 0, 3, 6)
		Expect(err).NotTo(HaveOccurred())
		rev, err := quad.Riemann(f, 3, 0, 6)
		Expect(err).NotTo(HaveOccurred())
		Expect(rev.Width).To(BeNumerically("<", 0))
		Expect(rev.Total).To(BeNumerically("~", -fwd.Total, 1e-12))
	})

	It("returns zero-width rectangles for an empty interval", func() {
		r, err := quad.Riemann(expr.MustCompile("1/x"), 0, 0, 6)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Total).To(Equal(0.0))
		Expect(r.Width).To(Equal(0.0))
		Expect(r.Rectangles).To(HaveLen(6))
		for i, rect := range r.Rectangles {
			Expect(rect.Index).To(Equal(i))
			Expect(rect.Left).To(Equal(0.0))
			Expect(rect.Width).To(Equal(0.0))
			Expect(rect.Area).To(Equal(0.0))
		}
	})

	It("rejects a non-positive rectangle count", func() {
		_, err := quad.Riemann(expr.MustCompile("x"), 0, 1, 0)
		Expect(err).To(MatchError(quad.ErrInvalidSubdivisions))
	})

	It("fails when a midpoint is undefined", func() {
		// n=2 on [-1,1] puts a midpoint at -0.5 and 0.5, n=1 at 0.
		_, err := quad.Riemann(expr.MustCompile("1/x"), -1, 1, 1)
		Expect(err).To(MatchError(quad.ErrDomainFailure))

		r, err := quad.Riemann(expr.MustCompile("1/x"), -1, 1, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Total).To(BeNumerically("~", 0, 1e-12))
	})

	It("clamps display counts", func() {
		Expect(quad.ClampSteps(1)).To(Equal(quad.MinRiemannSteps))
		Expect(quad.ClampSteps(20)).To(Equal(20))
		Expect(quad.ClampSteps(500)).To(Equal(quad.MaxRiemannSteps))
	})
})

var _ = Describe("Sampling", func() {
	It("reports invalid samples without failing", func() {
		c := quad.SampleCurve(expr.MustCompile("1/x"), -1, 1, 4)
		Expect(c).To(HaveLen(5))
		Expect(c.Invalid()).To(Equal(1))
		Expect(c[2].Valid()).To(BeFalse())
		Expect(c[2].Err).To(MatchError(expr.ErrEvaluation))

		xs, ys := c.Valid()
		Expect(xs).To(Equal([]float64{-1, -0.5, 0.5, 1}))
		Expect(ys).To(Equal([]float64{-1, -2, 2, 1}))
	})

	It("writes invalid samples as null", func() {
		data, err := json.Marshal(quad.At(expr.MustCompile("ln(x)"), -1))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"y":null`))
		Expect(string(data)).To(ContainSubstring(`"error"`))
	})

	It("builds a full visualization", func() {
		v, err := quad.Visualize(expr.MustCompile("x^2"), 0, 2, quad.Options{RiemannSteps: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Integral).To(BeNumerically("~", 8.0/3, 1e-4))
		// [-1, 3] at the spacing of 200 steps over [0, 2].
		Expect(v.Curve).To(HaveLen(2*quad.DefaultCurveSteps + 1))
		Expect(v.Curve[1].X - v.Curve[0].X).To(BeNumerically("~", 2.0/quad.DefaultCurveSteps, 1e-12))
		Expect(v.Curve[0].X).To(Equal(-1.0))
		Expect(v.Curve[len(v.Curve)-1].X).To(Equal(3.0))
		Expect(v.Region).To(HaveLen(quad.DefaultRegionSteps + 1))
		Expect(v.FA.Y).To(Equal(0.0))
		Expect(v.FB.Y).To(Equal(4.0))
		Expect(v.Riemann.Rectangles).To(HaveLen(10))

		lo, hi, ok := v.Curve.Range()
		Expect(ok).To(BeTrue())
		Expect(lo).To(BeNumerically("~", 0, 1e-12))
		Expect(hi).To(Equal(9.0))

		_, err = json.Marshal(v)
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps curve gaps when the integral itself is defined", func() {
		v, err := quad.Visualize(expr.MustCompile("sqrt(x)"), 0, 4, quad.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Curve.Invalid()).To(BeNumerically(">", 0))
		Expect(v.Riemann).To(BeNil())
	})

	It("keeps the curve spacing on narrow intervals up to a cap", func() {
		v, err := quad.Visualize(expr.MustCompile("x"), 0, 0.5, quad.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Curve).To(HaveLen(5*quad.DefaultCurveSteps + 1))

		v, err = quad.Visualize(expr.MustCompile("x"), 0, 0.001, quad.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Curve).To(HaveLen(quad.MaxCurveSteps + 1))

		v, err = quad.Visualize(expr.MustCompile("x"), 1, 1, quad.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Curve).To(HaveLen(quad.DefaultCurveSteps + 1))
	})

	It("fails when the integral is undefined", func() {
		_, err := quad.Visualize(expr.MustCompile("1/x"), -1, 1, quad.Options{})
		Expect(err).To(MatchError(quad.ErrDomainFailure))
	})
})
