package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpression indicates text that cannot be compiled.
	ErrInvalidExpression = errors.New("expr: invalid expression")

	// ErrEvaluation indicates a well-formed expression that is undefined or
	// non-finite at the requested point.
	ErrEvaluation = errors.New("expr: evaluation failure")
)

// SyntaxError describes where compilation stopped.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: invalid expression at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidExpression
}

// DomainError reports the operation that left the real domain.
type DomainError struct {
	Op     string
	X      float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("expr: %s undefined at x=%g: %s", e.Op, e.X, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrEvaluation
}
