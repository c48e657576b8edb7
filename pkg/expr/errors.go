package expr

import "errors"

var (
	// ErrMalformedInfix reports unbalanced parentheses or a missing operand
	// in infix input.
	ErrMalformedInfix = errors.New("malformed infix expression")
	// ErrMalformedPostfix reports a stack underflow, a leftover value or a
	// non-numeric operand while evaluating postfix input.
	ErrMalformedPostfix = errors.New("malformed postfix expression")
	// ErrUnknownOperator reports an operator outside + - * / ^.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrNotDifferentiable reports a tree shape the derivative rules do not cover.
	ErrNotDifferentiable = errors.New("expression is not differentiable")
)
