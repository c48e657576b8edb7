package expr

import (
	"fmt"
	"strings"
)

// parser holds the cursor for a single Parse call.
//
// Grammar:
//
//	expression = term (("+" | "-") term)*
//	term       = power (("*" | "/") power)*
//	power      = factor ("^" power)?
//	factor     = "(" expression ")" | OPERAND
type parser struct {
	tokens []Token
	pos    int
	cur    Token // lookahead
}

// Parse builds an expression tree from tokens produced by Fields (or Scan).
// The whole token sequence must form exactly one expression.
func Parse(tokens []Token) (Expr, error) {
	p := &parser{tokens: tokens}
	p.next()

	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != EOF {
		return nil, p.errorf("unexpected %q after expression", p.cur.Lexeme)
	}
	return e, nil
}

// next moves the lookahead forward; past the end it is an EOF token.
func (p *parser) next() {
	if p.pos < len(p.tokens) {
		p.cur = p.tokens[p.pos]
		p.pos++
		return
	}
	end := 0
	if n := len(p.tokens); n > 0 {
		end = p.tokens[n-1].Pos + len([]rune(p.tokens[n-1].Lexeme))
	}
	p.cur = Token{Type: EOF, Pos: end}
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: position %d: %s", ErrMalformedInfix, p.cur.Pos, msg)
}

func (p *parser) parseExpression() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == PLUS || p.cur.Type == MINUS {
		op := p.cur.Type
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *parser) parseTerm() (Expr, error) {
	expr, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == STAR || p.cur.Type == SLASH {
		op := p.cur.Type
		p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parsePower recurses on the right operand, making ^ right associative.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != CARET {
		return base, nil
	}
	p.next()
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: CARET, Left: base, Right: exp}, nil
}

func (p *parser) parseFactor() (Expr, error) {
	switch p.cur.Type {
	case LPAREN:
		p.next()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != RPAREN {
			return nil, p.errorf("expected ')', got %s", describe(p.cur))
		}
		p.next()
		return e, nil
	case OPERAND:
		if strings.ContainsAny(p.cur.Lexeme, "+-*/^") && !isNumber(p.cur.Lexeme) {
			return nil, p.errorf("operand %q contains an operator; separate operators with spaces", p.cur.Lexeme)
		}
		leaf := &Leaf{Value: p.cur.Lexeme}
		p.next()
		return leaf, nil
	default:
		return nil, p.errorf("expected operand, got %s", describe(p.cur))
	}
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
