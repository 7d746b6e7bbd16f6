package expr_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/calclab/internal/expr"
)

var _ = Describe("Compile", func() {
	DescribeTable("rejects malformed text",
		func(text string) {
			c, err := expr.Compile(text)
			Expect(c).To(BeNil())
			Expect(err).To(MatchError(expr.ErrInvalidExpression))

			var syn *expr.SyntaxError
			Expect(errors.As(err, &syn)).To(BeTrue())
			Expect(syn.Pos).To(BeNumerically(">=", 0))
			Expect(syn.Pos).To(BeNumerically("<=", len(text)))
		},
		Entry("empty", ""),
		Entry("blank", "   "),
		Entry("garbage", "not an expression !!"),
		Entry("unbalanced open", "(x+1"),
		Entry("unbalanced close", "x+1)"),
		Entry("unclosed call", "sin(x"),
		Entry("unknown function", "foo(x)"),
		Entry("unknown variable", "y+1"),
		Entry("function without parens", "sin x"),
		Entry("dangling operator", "x+"),
		Entry("double operator", "x*/2"),
		Entry("adjacent numbers", "2 3"),
		Entry("lone dot", "."),
		Entry("unclosed bar", "|x"),
		Entry("empty parens", "()"),
	)

	It("bounds nesting depth", func() {
		deep := ""
		for i := 0; i < 1000; i++ {
			deep += "("
		}
		_, err := expr.Compile(deep + "x")
		Expect(err).To(MatchError(expr.ErrInvalidExpression))
	})

	It("keeps the source text", func() {
		c := expr.MustCompile("x^2 + 1")
		Expect(c.Source()).To(Equal("x^2 + 1"))
	})

	DescribeTable("canonical form",
		func(text, want string) {
			Expect(expr.MustCompile(text).String()).To(Equal(want))
		},
		Entry("precedence", "1+2*x", "(1 + (2 * x))"),
		Entry("power binds tighter than minus", "-x^2", "(-(x ^ 2))"),
		Entry("right associative power", "2^3^2", "(2 ^ (3 ^ 2))"),
		Entry("implicit product", "2x", "(2 * x)"),
		Entry("implicit call", "2sin(x)", "(2 * sin(x))"),
		Entry("log alias", "log(x)", "ln(x)"),
		Entry("abs bars", "|x-1|", "abs((x - 1))"),
		Entry("named constant", "e^x", "(e ^ x)"),
		Entry("double star power", "x**3", "(x ^ 3)"),
		Entry("signed coefficient", "-2x", "((-2) * x)"),
		Entry("signed coefficient in a sum", "-3x^2+2x", "(((-3) * (x ^ 2)) + (2 * x))"),
		Entry("coefficient after a product", "x*2x", "((x * 2) * x)"),
		Entry("coefficient after a quotient", "1/2x", "((1 / 2) * x)"),
		Entry("chained implicit product", "2x(x+1)", "((2 * x) * (x + 1))"),
	)

	DescribeTable("rejects implicit products without a numeric coefficient",
		func(text string) {
			_, err := expr.Compile(text)
			Expect(err).To(MatchError(expr.ErrInvalidExpression))
		},
		Entry("variable then call", "x sin(x)"),
		Entry("variable then group", "x(2)"),
		Entry("constant then variable", "pi x"),
		Entry("power then variable", "2^2x"),
	)
})

var _ = Describe("Eval", func() {
	DescribeTable("computes IEEE-754 values",
		func(text string, x, want float64) {
			v, err := expr.MustCompile(text).Eval(x)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeNumerically("~", want, 1e-12))
		},
		Entry("square", "x^2", 3.0, 9.0),
		Entry("negated square", "-x^2", 3.0, -9.0),
		Entry("tower", "2^3^2", 0.0, 512.0),
		Entry("sin", "sin(x)", math.Pi/2, 1.0),
		Entry("cos", "cos(x)", 0.0, 1.0),
		Entry("exp", "exp(x)", 1.0, math.E),
		Entry("e constant power", "e^x", 2.0, math.Exp(2)),
		Entry("sqrt", "sqrt(x)", 16.0, 4.0),
		Entry("ln", "ln(x)", math.E, 1.0),
		Entry("abs", "abs(x)", -2.5, 2.5),
		Entry("reciprocal", "1/x", 4.0, 0.25),
		Entry("polynomial", "x^3 - 2*x^2 + x", 2.0, 2.0),
		Entry("implicit", "3(x+1)", 1.0, 6.0),
		Entry("scientific literal", "1.5e2 + x", 0.0, 150.0),
		Entry("case insensitive", "SIN(X)", 0.0, 0.0),
		Entry("pi", "pi*x", 2.0, 2*math.Pi),
	)

	DescribeTable("reports domain failures instead of faulting",
		func(text string, x float64) {
			v, err := expr.MustCompile(text).Eval(x)
			Expect(err).To(MatchError(expr.ErrEvaluation))
			Expect(errors.Is(err, expr.ErrInvalidExpression)).To(BeFalse())
			Expect(math.IsNaN(v)).To(BeTrue())

			var dom *expr.DomainError
			Expect(errors.As(err, &dom)).To(BeTrue())
			Expect(dom.X).To(Equal(x))
		},
		Entry("division by zero", "1/x", 0.0),
		Entry("ln of zero", "ln(x)", 0.0),
		Entry("log of negative", "log(x)", -1.0),
		Entry("sqrt of negative", "sqrt(x)", -4.0),
		Entry("fractional power of negative", "x^0.5", -1.0),
		Entry("overflow", "exp(x)", 1000.0),
		Entry("zero to negative power", "x^-1", 0.0),
	)

	It("rejects non-finite input", func() {
		_, err := expr.MustCompile("x").Eval(math.Inf(1))
		Expect(err).To(MatchError(expr.ErrEvaluation))
	})

	It("is safe for concurrent use", func() {
		c := expr.MustCompile("sin(x)*x")
		done := make(chan float64, 8)
		for i := 0; i < 8; i++ {
			go func(x float64) {
				defer GinkgoRecover()
				v, err := c.Eval(x)
				Expect(err).NotTo(HaveOccurred())
				done <- v - math.Sin(x)*x
			}(float64(i))
		}
		for i := 0; i < 8; i++ {
			Expect(<-done).To(BeNumerically("~", 0, 1e-12))
		}
	})
})
