package expr

import (
	"fmt"
	"math"
)

// Compiled is a parsed expression ready for repeated evaluation.
type Compiled struct {
	source string
	root   Node
}

// Compile parses text into a Compiled expression. Errors wrap
// ErrInvalidExpression.
func Compile(text string) (*Compiled, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return &Compiled{source: text, root: root}, nil
}

// MustCompile is Compile for expressions known to be valid.
func MustCompile(text string) *Compiled {
	c, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return c
}

// Evaluate compiles text and evaluates it once at x.
func Evaluate(text string, x float64) (float64, error) {
	c, err := Compile(text)
	if err != nil {
		return math.NaN(), err
	}
	return c.Eval(x)
}

func (c *Compiled) Source() string { return c.source }

func (c *Compiled) Root() Node { return c.root }

// String returns the fully parenthesized form of the expression.
func (c *Compiled) String() string { return c.root.String() }

// Eval evaluates the expression at x. On failure the returned value is NaN
// and the error wraps ErrEvaluation.
func (c *Compiled) Eval(x float64) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN(), &DomainError{Op: "x", X: x, Reason: "non-finite input"}
	}
	v, err := eval(c.root, x)
	if err != nil {
		return math.NaN(), err
	}
	return v, nil
}

func eval(n Node, x float64) (float64, error) {
	switch n := n.(type) {
	case Literal:
		return n.Value, nil

	case Variable:
		return x, nil

	case *UnaryOp:
		v, err := eval(n.Operand, x)
		if err != nil {
			return 0, err
		}
		if n.Op == '-' {
			return -v, nil
		}
		return v, nil

	case *BinaryOp:
		l, err := eval(n.Left, x)
		if err != nil {
			return 0, err
		}
		r, err := eval(n.Right, x)
		if err != nil {
			return 0, err
		}
		return binary(n.Op, l, r, x)

	case *Call:
		arg, err := eval(n.Arg, x)
		if err != nil {
			return 0, err
		}
		return call(n.Func, arg, x)
	}
	return 0, fmt.Errorf("%w: unknown node %T", ErrEvaluation, n)
}

func binary(op byte, l, r, x float64) (float64, error) {
	var v float64
	switch op {
	case '+':
		v = l + r
	case '-':
		v = l - r
	case '*':
		v = l * r
	case '/':
		if r == 0 {
			return 0, &DomainError{Op: "/", X: x, Reason: "division by zero"}
		}
		v = l / r
	case '^':
		if l == 0 && r < 0 {
			return 0, &DomainError{Op: "^", X: x, Reason: "zero to a negative power"}
		}
		v = math.Pow(l, r)
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrEvaluation, op)
	}
	return finite(string(op), v, x)
}

func call(fn Func, arg, x float64) (float64, error) {
	var v float64
	switch fn {
	case FuncSin:
		v = math.Sin(arg)
	case FuncCos:
		v = math.Cos(arg)
	case FuncTan:
		v = math.Tan(arg)
	case FuncExp:
		v = math.Exp(arg)
	case FuncSqrt:
		if arg < 0 {
			return 0, &DomainError{Op: "sqrt", X: x, Reason: "negative argument"}
		}
		v = math.Sqrt(arg)
	case FuncLn:
		if arg <= 0 {
			return 0, &DomainError{Op: "ln", X: x, Reason: "non-positive argument"}
		}
		v = math.Log(arg)
	case FuncAbs:
		v = math.Abs(arg)
	default:
		return 0, fmt.Errorf("%w: unknown function %v", ErrEvaluation, fn)
	}
	return finite(fn.String(), v, x)
}

func finite(op string, v, x float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, &DomainError{Op: op, X: x, Reason: "result is not a real number"}
	}
	if math.IsInf(v, 0) {
		return 0, &DomainError{Op: op, X: x, Reason: "result overflows"}
	}
	return v, nil
}
