package expr

import "math"

const (
	// maxSplit bounds how far CheckDomain bisects a flagged interval.
	maxSplit = 40
	// maxBounds caps the interval evaluations spent on one CheckDomain call.
	maxBounds = 4096
)

// Interval is a closed range [Lo, Hi] of reals.
type Interval struct {
	Lo, Hi float64
}

var whole = Interval{math.Inf(-1), math.Inf(1)}

func point(v float64) Interval { return Interval{v, v} }

// span encloses vals. A NaN collapses the result to the whole line.
func span(vals ...float64) Interval {
	out := Interval{math.Inf(1), math.Inf(-1)}
	for _, v := range vals {
		if math.IsNaN(v) {
			return whole
		}
		out.Lo = math.Min(out.Lo, v)
		out.Hi = math.Max(out.Hi, v)
	}
	return out
}

func (i Interval) mid() float64 {
	if math.IsInf(i.Lo, 0) || math.IsInf(i.Hi, 0) {
		return 0
	}
	return i.Lo + (i.Hi-i.Lo)/2
}

func (i Interval) contains(v float64) bool { return i.Lo <= v && v <= i.Hi }

// unknown is true for ranges the enclosure could not narrow.
func (i Interval) unknown() bool { return i == whole }

// Range returns an enclosure of the values the expression takes for x in
// [lo, hi]. The error is a *DomainError when some x in the interval may
// leave the real domain.
func (c *Compiled) Range(lo, hi float64) (Interval, error) {
	if lo > hi {
		lo, hi = hi, lo
	}
	x := Interval{lo, hi}
	return bound(c.root, x)
}

// CheckDomain reports a *DomainError when f is undefined somewhere in
// [lo, hi], including points no fixed grid would land on, such as the pole
// of 1/x inside [-1, 2]. Flagged intervals are bisected so the reported X
// converges on the offending point and loose enclosures get a chance to
// tighten. A check that runs out of budget reports nothing.
func (c *Compiled) CheckDomain(lo, hi float64) error {
	if lo > hi {
		lo, hi = hi, lo
	}
	budget := maxBounds
	return c.checkDomain(Interval{lo, hi}, 0, &budget)
}

func (c *Compiled) checkDomain(x Interval, depth int, budget *int) error {
	if *budget <= 0 {
		return nil
	}
	*budget--
	_, err := bound(c.root, x)
	if err == nil {
		return nil
	}
	m := x.mid()
	if depth >= maxSplit || m <= x.Lo || m >= x.Hi {
		return err
	}
	if err := c.checkDomain(Interval{x.Lo, m}, depth+1, budget); err != nil {
		return err
	}
	return c.checkDomain(Interval{m, x.Hi}, depth+1, budget)
}

func bound(n Node, x Interval) (Interval, error) {
	switch n := n.(type) {
	case Literal:
		return point(n.Value), nil

	case Variable:
		return x, nil

	case *UnaryOp:
		v, err := bound(n.Operand, x)
		if err != nil {
			return whole, err
		}
		if n.Op == '-' {
			return Interval{-v.Hi, -v.Lo}, nil
		}
		return v, nil

	case *BinaryOp:
		l, err := bound(n.Left, x)
		if err != nil {
			return whole, err
		}
		r, err := bound(n.Right, x)
		if err != nil {
			return whole, err
		}
		return boundBinary(n.Op, l, r, x)

	case *Call:
		arg, err := bound(n.Arg, x)
		if err != nil {
			return whole, err
		}
		return boundCall(n.Func, arg, x)
	}
	return whole, nil
}

func boundBinary(op byte, l, r, x Interval) (Interval, error) {
	if l.unknown() || r.unknown() {
		return whole, nil
	}
	switch op {
	case '+':
		return span(l.Lo+r.Lo, l.Hi+r.Hi), nil
	case '-':
		return span(l.Lo-r.Hi, l.Hi-r.Lo), nil
	case '*':
		return span(l.Lo*r.Lo, l.Lo*r.Hi, l.Hi*r.Lo, l.Hi*r.Hi), nil
	case '/':
		if r.contains(0) {
			return whole, &DomainError{Op: "/", X: x.mid(), Reason: "division by zero"}
		}
		return span(l.Lo/r.Lo, l.Lo/r.Hi, l.Hi/r.Lo, l.Hi/r.Hi), nil
	case '^':
		return boundPow(l, r, x)
	}
	return whole, nil
}

func boundPow(base, exp, x Interval) (Interval, error) {
	if exp.Lo != exp.Hi {
		if base.Lo > 0 {
			return span(
				math.Pow(base.Lo, exp.Lo), math.Pow(base.Lo, exp.Hi),
				math.Pow(base.Hi, exp.Lo), math.Pow(base.Hi, exp.Hi),
			), nil
		}
		return whole, nil
	}

	p := exp.Lo
	if p < 0 && base.contains(0) {
		return whole, &DomainError{Op: "^", X: x.mid(), Reason: "zero to a negative power"}
	}
	if p != math.Trunc(p) {
		if base.Lo < 0 {
			return whole, &DomainError{Op: "^", X: x.mid(), Reason: "result is not a real number"}
		}
		return span(math.Pow(base.Lo, p), math.Pow(base.Hi, p)), nil
	}

	lo, hi := math.Pow(base.Lo, p), math.Pow(base.Hi, p)
	if math.Mod(p, 2) == 0 && p > 0 && base.contains(0) {
		return span(0, lo, hi), nil
	}
	return span(lo, hi), nil
}

func boundCall(fn Func, arg, x Interval) (Interval, error) {
	if arg.unknown() {
		return whole, nil
	}
	switch fn {
	case FuncSin:
		return boundSin(arg), nil
	case FuncCos:
		return boundSin(Interval{arg.Lo + math.Pi/2, arg.Hi + math.Pi/2}), nil
	case FuncTan:
		if arg.Hi-arg.Lo >= math.Pi || hits(arg, math.Pi/2, math.Pi) {
			return whole, &DomainError{Op: "tan", X: x.mid(), Reason: "pole"}
		}
		return span(math.Tan(arg.Lo), math.Tan(arg.Hi)), nil
	case FuncExp:
		return span(math.Exp(arg.Lo), math.Exp(arg.Hi)), nil
	case FuncSqrt:
		if arg.Lo < 0 {
			return whole, &DomainError{Op: "sqrt", X: x.mid(), Reason: "negative argument"}
		}
		return span(math.Sqrt(arg.Lo), math.Sqrt(arg.Hi)), nil
	case FuncLn:
		if arg.Lo <= 0 {
			return whole, &DomainError{Op: "ln", X: x.mid(), Reason: "non-positive argument"}
		}
		return span(math.Log(arg.Lo), math.Log(arg.Hi)), nil
	case FuncAbs:
		switch {
		case arg.Lo >= 0:
			return arg, nil
		case arg.Hi <= 0:
			return Interval{-arg.Hi, -arg.Lo}, nil
		}
		return span(0, -arg.Lo, arg.Hi), nil
	}
	return whole, nil
}

func boundSin(arg Interval) Interval {
	if math.IsInf(arg.Lo, 0) || math.IsInf(arg.Hi, 0) || arg.Hi-arg.Lo >= 2*math.Pi {
		return Interval{-1, 1}
	}
	out := span(math.Sin(arg.Lo), math.Sin(arg.Hi))
	if hits(arg, math.Pi/2, 2*math.Pi) {
		out.Hi = 1
	}
	if hits(arg, -math.Pi/2, 2*math.Pi) {
		out.Lo = -1
	}
	return out
}

// hits reports whether some phase + k*period lies in i.
func hits(i Interval, phase, period float64) bool {
	k := math.Ceil((i.Lo - phase) / period)
	return phase+k*period <= i.Hi
}
