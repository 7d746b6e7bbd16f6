package expr

import (
	"math"
	"strconv"
)

// Node is an element of the expression syntax tree. The concrete variants
// are Literal, Variable, UnaryOp, BinaryOp and Call.
type Node interface {
	String() string
	node()
}

// Literal is a numeric constant. Name is set for named constants (pi, e).
type Literal struct {
	Value float64
	Name  string
}

// Variable is the free variable x.
type Variable struct{}

// UnaryOp applies a sign to its operand. Op is '+' or '-'.
type UnaryOp struct {
	Op      byte
	Operand Node
}

// BinaryOp is one of + - * / ^.
type BinaryOp struct {
	Op          byte
	Left, Right Node
}

// Call applies a named function to a single argument.
type Call struct {
	Func Func
	Arg  Node
}

func (Literal) node()   {}
func (Variable) node()  {}
func (*UnaryOp) node()  {}
func (*BinaryOp) node() {}
func (*Call) node()     {}

func (l Literal) String() string {
	if l.Name != "" {
		return l.Name
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64)
}

func (Variable) String() string { return "x" }

func (u *UnaryOp) String() string {
	return "(" + string(u.Op) + u.Operand.String() + ")"
}

func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

func (c *Call) String() string {
	return c.Func.String() + "(" + c.Arg.String() + ")"
}

// Func identifies a built-in function.
type Func int

const (
	FuncSin Func = iota
	FuncCos
	FuncTan
	FuncExp
	FuncSqrt
	FuncLn
	FuncAbs
)

var funcNames = map[Func]string{
	FuncSin:  "sin",
	FuncCos:  "cos",
	FuncTan:  "tan",
	FuncExp:  "exp",
	FuncSqrt: "sqrt",
	FuncLn:   "ln",
	FuncAbs:  "abs",
}

// funcByName also maps aliases; log is the natural logarithm.
var funcByName = map[string]Func{
	"sin":  FuncSin,
	"cos":  FuncCos,
	"tan":  FuncTan,
	"exp":  FuncExp,
	"sqrt": FuncSqrt,
	"ln":   FuncLn,
	"log":  FuncLn,
	"abs":  FuncAbs,
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func (f Func) String() string {
	if name, ok := funcNames[f]; ok {
		return name
	}
	return "func(" + strconv.Itoa(int(f)) + ")"
}
