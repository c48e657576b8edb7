package expr

import "math"

// Fold returns a simplified copy of e. Literal-only operations are
// computed with float32 arithmetic and identities such as x*1, x+0 and
// x^1 are removed. e itself is left untouched.
func Fold(e Expr) Expr {
	n, ok := e.(*BinaryExpr)
	if !ok {
		return e
	}
	l, r := Fold(n.Left), Fold(n.Right)

	lv, lnum := literal(l)
	rv, rnum := literal(r)
	if lnum && rnum {
		if v, err := apply(n.Op.Symbol(), lv, rv); err == nil && !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0) {
			return leaf(formatValue(v))
		}
	}

	switch n.Op {
	case PLUS:
		if lnum && lv == 0 {
			return r
		}
		if rnum && rv == 0 {
			return l
		}
	case MINUS:
		if rnum && rv == 0 {
			return l
		}
	case STAR:
		if (lnum && lv == 0) || (rnum && rv == 0) {
			return leaf("0")
		}
		if lnum && lv == 1 {
			return r
		}
		if rnum && rv == 1 {
			return l
		}
	case SLASH:
		if rnum && rv == 1 {
			return l
		}
	case CARET:
		if rnum && rv == 1 {
			return l
		}
		if rnum && rv == 0 {
			return leaf("1")
		}
	}

	if l == n.Left && r == n.Right {
		return n
	}
	return bin(n.Op, l, r)
}

// literal reports the value of a numeric leaf.
func literal(e Expr) (float32, bool) {
	l, ok := e.(*Leaf)
	if !ok || !isNumber(l.Value) {
		return 0, false
	}
	v, err := parseValue(l.Value)
	return v, err == nil
}
