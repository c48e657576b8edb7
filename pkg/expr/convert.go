package expr

import (
	"fmt"
	"strings"
)

// Postfix is a token sequence in reverse Polish order.
type Postfix []Token

// String joins the lexemes with single spaces, e.g. "3 4 2 * +".
func (p Postfix) String() string {
	parts := make([]string, len(p))
	for i, tok := range p {
		parts[i] = tok.Lexeme
	}
	return strings.Join(parts, " ")
}

// priority returns the binding strength of an operator; anything that is
// not an operator (including "(") is -1.
func priority(tt TokenType) int {
	switch tt {
	case CARET:
		return 3
	case STAR, SLASH:
		return 2
	case PLUS, MINUS:
		return 1
	default:
		return -1
	}
}

func leftAssociative(tt TokenType) bool {
	return tt != CARET
}

// Convert scans an infix expression and returns it in postfix order.
func Convert(src string) (Postfix, error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, err
	}
	return ToPostfix(tokens)
}

// ToPostfix reorders infix tokens with the shunting-yard algorithm.
// A trailing EOF token is allowed and ignored.
func ToPostfix(tokens []Token) (Postfix, error) {
	out := make(Postfix, 0, len(tokens))
	var stack []Token

	for _, tok := range tokens {
		switch {
		case tok.Type == EOF:
			// sentinel
		case tok.Type == OPERAND:
			out = append(out, tok)
		case tok.Type.IsOperator():
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				pt, pc := priority(top.Type), priority(tok.Type)
				if pt < pc || (pt == pc && !leftAssociative(tok.Type)) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case tok.Type == LPAREN:
			stack = append(stack, tok)
		case tok.Type == RPAREN:
			for {
				if len(stack) == 0 {
					return nil, fmt.Errorf("%w: unmatched ')' at position %d", ErrMalformedInfix, tok.Pos)
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Type == LPAREN {
					break
				}
				out = append(out, top)
			}
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrUnknownOperator, tok.Lexeme, tok.Pos)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Type == LPAREN {
			return nil, fmt.Errorf("%w: unmatched '(' at position %d", ErrMalformedInfix, top.Pos)
		}
		out = append(out, top)
	}

	return out, nil
}
