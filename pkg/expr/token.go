package expr

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: no more tokens

	OPERAND // numeric literal or opaque identifier run

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	CARET // ^

	// Grouping
	LPAREN // (
	RPAREN // )
)

var tokenNames = [...]string{
	EOF:     "EOF",
	OPERAND: "OPERAND",
	PLUS:    "PLUS",
	MINUS:   "MINUS",
	STAR:    "STAR",
	SLASH:   "SLASH",
	CARET:   "CARET",
	LPAREN:  "LPAREN",
	RPAREN:  "RPAREN",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsOperator reports whether tt is one of + - * / ^.
func (tt TokenType) IsOperator() bool {
	return tt >= PLUS && tt <= CARET
}

// symbols maps single-character operators and parentheses to their type.
var symbols = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'^': CARET,
	'(': LPAREN,
	')': RPAREN,
}

// Symbol returns the source character for an operator or parenthesis type.
func (tt TokenType) Symbol() string {
	for r, t := range symbols {
		if t == tt {
			return string(r)
		}
	}
	return ""
}

// Token is a single lexical unit.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Pos    int    // 0-based rune offset in the source
}

func (t Token) String() string {
	return fmt.Sprintf("%-8s %-10q  pos %d", t.Type, t.Lexeme, t.Pos)
}
