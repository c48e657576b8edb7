package expr

import "fmt"

// Expr is implemented by every expression tree node. Trees are built once
// by Parse (or Derive) and never modified afterwards.
type Expr interface {
	exprNode()
	String() string
}

// Leaf is an operand: a numeric literal or an opaque identifier.
//
//	x * 2
//	^   ^  Leaf{Value: "x"}, Leaf{Value: "2"}
type Leaf struct {
	Value string
}

func (*Leaf) exprNode()        {}
func (l *Leaf) String() string { return l.Value }

// BinaryExpr represents Left Op Right.
//
//	a - b - c  parses as  BinaryExpr{MINUS, BinaryExpr{MINUS, a, b}, c}
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op.Symbol(), b.Right)
}

// Walk visits e in post-order: both children (left, then right) before
// the node itself. It stops at the first error returned by fn.
func Walk(e Expr, fn func(Expr) error) error {
	if b, ok := e.(*BinaryExpr); ok {
		if err := Walk(b.Left, fn); err != nil {
			return err
		}
		if err := Walk(b.Right, fn); err != nil {
			return err
		}
	}
	return fn(e)
}
