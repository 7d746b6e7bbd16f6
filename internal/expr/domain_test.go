package expr_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/calclab/internal/expr"
)

var _ = Describe("CheckDomain", func() {
	// X is the leftmost offending point the bisection converges on.
	DescribeTable("finds points off the real domain between any grid",
		func(text string, lo, hi, at float64) {
			err := expr.MustCompile(text).CheckDomain(lo, hi)
			Expect(err).To(MatchError(expr.ErrEvaluation))

			var dom *expr.DomainError
			Expect(errors.As(err, &dom)).To(BeTrue())
			Expect(dom.X).To(BeNumerically("~", at, 1e-6))
		},
		Entry("pole of 1/x", "1/x", -1.0, 2.0, 0.0),
		Entry("pole of 1/x, short left side", "1/x", -0.5, 1.0, 0.0),
		Entry("shifted pole", "1/(x-0.3)", 0.0, 1.0, 0.3),
		Entry("reversed bounds", "1/x", 2.0, -1.0, 0.0),
		Entry("ln left of zero", "ln(x)", -0.7, 3.0, -0.7),
		Entry("sqrt going negative", "sqrt(x-1)", 0.0, 2.0, 0.0),
		Entry("negative power at zero", "x^-2", -1.0, 3.0, 0.0),
		Entry("fractional power of negatives", "x^0.5", -2.0, 1.0, -2.0),
		Entry("tan across its pole", "tan(x)", 1.0, 2.0, math.Pi/2),
	)

	DescribeTable("accepts integrands defined everywhere on the interval",
		func(text string, lo, hi float64) {
			Expect(expr.MustCompile(text).CheckDomain(lo, hi)).To(Succeed())
		},
		Entry("positive reciprocal", "1/x", 1.0, 3.0),
		Entry("bounded denominator", "1/(1+x^2)", -5.0, 5.0),
		Entry("product denominator", "1/(x*x+1)", -1.0, 1.0),
		Entry("sqrt touching zero", "sqrt(x)", 0.0, 4.0),
		Entry("semicircle", "sqrt(1-x^2)", -1.0, 1.0),
		Entry("trig denominator", "1/(2+sin(x))", -10.0, 10.0),
		Entry("ln of a square plus one", "ln(x^2+1)", -3.0, 3.0),
		Entry("polynomial", "x^3 - 2x^2 + x", -1.0, 3.0),
		Entry("tan inside a branch", "tan(x)", -1.0, 1.0),
	)
})

var _ = Describe("Range", func() {
	DescribeTable("encloses the values on the interval",
		func(text string, lo, hi, wantLo, wantHi float64) {
			r, err := expr.MustCompile(text).Range(lo, hi)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Lo).To(BeNumerically("~", wantLo, 1e-12))
			Expect(r.Hi).To(BeNumerically("~", wantHi, 1e-12))
		},
		Entry("even power across zero", "x^2", -1.0, 2.0, 0.0, 4.0),
		Entry("odd power", "x^3", -1.0, 2.0, -1.0, 8.0),
		Entry("sin over a crest", "sin(x)", 0.0, 2.0, 0.0, 1.0),
		Entry("cos over a trough", "cos(x)", 3.0, 4.0, -1.0, math.Cos(4)),
		Entry("abs across zero", "|x|", -3.0, 1.0, 0.0, 3.0),
		Entry("negation", "-x", 1.0, 2.0, -2.0, -1.0),
	)
})
