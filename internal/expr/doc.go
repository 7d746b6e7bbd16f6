// Package expr compiles single-variable arithmetic expressions into
// callable numeric functions.
//
// The package provides:
//
//   - [Compile]: parse text into a [Compiled] expression
//   - [Compiled.Eval]: evaluate at a point with IEEE-754 double semantics
//   - [Node]: the syntax tree ([Literal], [Variable], [UnaryOp], [BinaryOp], [Call])
//   - [Compiled.CheckDomain]: prove an expression defined on a whole interval
//
// # Grammar
//
//	expr    = term { ("+" | "-") term } .
//	term    = unary { ("*" | "/") unary | implicit } .
//	unary   = ("+" | "-") unary | power .
//	power   = primary [ ("^" | "**") unary ] .
//	primary = number | "x" | "pi" | "e" | func "(" expr ")" | "(" expr ")" | "|" expr "|" .
//	func    = "sin" | "cos" | "tan" | "exp" | "sqrt" | "ln" | "log" | "abs" .
//
// Exponentiation is right associative and binds tighter than unary minus,
// so -x^2 is -(x^2). A number directly followed by an identifier or an
// opening parenthesis multiplies implicitly: 2x, 3(x+1), 2sin(x), -2x.
// The number is the factor just parsed, so 1/2x is (1/2)x.
//
// # Errors
//
// Malformed text fails [Compile] with an error wrapping
// [ErrInvalidExpression]. A well-formed expression that is undefined at a
// point (1/x at 0, ln(x) for x <= 0, sqrt of a negative) fails
// [Compiled.Eval] with an error wrapping [ErrEvaluation].
//
// # Thread Safety
//
// A Compiled expression is immutable and may be evaluated from any number
// of goroutines.
package expr
