package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Evaluate computes a whitespace-delimited postfix expression such as
// "3 4 2 * +".
func Evaluate(src string) (float32, error) {
	return EvalPostfix(strings.Fields(src))
}

// EvalPostfix computes a postfix token sequence with float32 arithmetic.
//
// Intermediate values are kept on the stack in their shortest float32 text
// form and re-parsed when an operator consumes them, so results match a
// host that stores the stack as strings.
func EvalPostfix(tokens []string) (float32, error) {
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty expression", ErrMalformedPostfix)
	}

	var stack []string
	pop := func(op string) (float32, error) {
		if len(stack) == 0 {
			return 0, fmt.Errorf("%w: %q needs two operands", ErrMalformedPostfix, op)
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return parseValue(top)
	}

	for _, tok := range tokens {
		if !isOperatorText(tok) {
			stack = append(stack, tok)
			continue
		}
		b, err := pop(tok)
		if err != nil {
			return 0, err
		}
		a, err := pop(tok)
		if err != nil {
			return 0, err
		}
		r, err := apply(tok, a, b)
		if err != nil {
			return 0, err
		}
		stack = append(stack, formatValue(r))
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("%w: %d values left on the stack", ErrMalformedPostfix, len(stack))
	}
	return parseValue(stack[0])
}

func isOperatorText(s string) bool {
	return len(s) == 1 && strings.Contains("+-*/^", s)
}

// apply performs a single binary operation. Division by zero follows
// IEEE-754 and yields ±Inf or NaN.
func apply(op string, a, b float32) (float32, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		return a / b, nil
	case "^":
		return float32(math.Pow(float64(a), float64(b))), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
}

// parseValue reads a stack value. Out-of-range literals saturate to ±Inf
// or zero instead of failing.
func parseValue(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: operand %q is not a number", ErrMalformedPostfix, s)
	}
	return float32(v), nil
}

func formatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// isNumber reports whether s is a numeric literal, including signed and
// exponent forms such as "-1" or "2e-3".
func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}
