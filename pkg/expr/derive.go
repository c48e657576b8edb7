package expr

import (
	"fmt"
	"strings"
)

// Derive returns the derivative of e with respect to the identifier wrt.
// The result is simplified with Fold.
//
// Operands of the form f_u are treated as f applied to u, for f in sin,
// cos and log:
//
//	sin_u  ->  cos_u * du
//	cos_u  ->  -1 * sin_u * du
//	log_u  ->  1 / u * du
//
// Exponents must be numeric literals.
//
// This mode is experimental.
func Derive(e Expr, wrt string) (Expr, error) {
	d, err := derive(e, wrt)
	if err != nil {
		return nil, err
	}
	return Fold(d), nil
}

func derive(e Expr, wrt string) (Expr, error) {
	switch n := e.(type) {
	case *Leaf:
		return deriveLeaf(n, wrt)
	case *BinaryExpr:
		dl, err := derive(n.Left, wrt)
		if err != nil {
			return nil, err
		}
		if n.Op == CARET {
			return derivePower(n, dl)
		}
		dr, err := derive(n.Right, wrt)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case PLUS, MINUS:
			return bin(n.Op, dl, dr), nil
		case STAR:
			return bin(PLUS, bin(STAR, dl, n.Right), bin(STAR, n.Left, dr)), nil
		case SLASH:
			num := bin(MINUS, bin(STAR, dl, n.Right), bin(STAR, n.Left, dr))
			return bin(SLASH, num, bin(CARET, n.Right, leaf("2"))), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, n.Op)
	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrNotDifferentiable, e)
	}
}

func deriveLeaf(l *Leaf, wrt string) (Expr, error) {
	if isNumber(l.Value) {
		return leaf("0"), nil
	}
	if l.Value == wrt {
		return leaf("1"), nil
	}
	fn, arg, ok := strings.Cut(l.Value, "_")
	if !ok {
		return leaf("0"), nil // another variable, constant here
	}
	if arg == "" {
		return nil, fmt.Errorf("%w: %q has no argument", ErrNotDifferentiable, l.Value)
	}

	darg, err := deriveLeaf(&Leaf{Value: arg}, wrt)
	if err != nil {
		return nil, err
	}
	switch fn {
	case "sin":
		return bin(STAR, leaf("cos_"+arg), darg), nil
	case "cos":
		return bin(STAR, bin(STAR, leaf("-1"), leaf("sin_"+arg)), darg), nil
	case "log":
		return bin(STAR, bin(SLASH, leaf("1"), leaf(arg)), darg), nil
	default:
		return nil, fmt.Errorf("%w: unknown function %q", ErrNotDifferentiable, fn)
	}
}

// derivePower handles u ^ n for a numeric literal n.
func derivePower(n *BinaryExpr, du Expr) (Expr, error) {
	exp, ok := n.Right.(*Leaf)
	if !ok || !isNumber(exp.Value) {
		return nil, fmt.Errorf("%w: exponent %s is not a constant", ErrNotDifferentiable, n.Right)
	}
	k, err := parseValue(exp.Value)
	if err != nil {
		return nil, err
	}
	lowered := bin(CARET, n.Left, leaf(formatValue(k-1)))
	return bin(STAR, bin(STAR, exp, lowered), du), nil
}

func leaf(v string) *Leaf { return &Leaf{Value: v} }

func bin(op TokenType, l, r Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: l, Right: r}
}
