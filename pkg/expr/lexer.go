package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scan splits src one character at a time. Every operator and parenthesis
// becomes its own token; a maximal run of any other non-space characters
// becomes one OPERAND. Whitespace only separates tokens.
//
// This is the granularity used by the infix-to-postfix converter:
//
//	Scan("3+4*2")  ->  3 + 4 * 2
//	Scan("sin_x+1") -> sin_x + 1
func Scan(src string) ([]Token, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: invalid UTF-8 input", ErrMalformedInfix)
	}

	var tokens []Token
	runes := []rune(src)
	start := -1 // start of the operand run in progress, -1 when none

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, Token{Type: OPERAND, Lexeme: string(runes[start:end]), Pos: start})
			start = -1
		}
	}

	for i, r := range runes {
		if tt, ok := symbols[r]; ok {
			flush(i)
			tokens = append(tokens, Token{Type: tt, Lexeme: string(r), Pos: i})
			continue
		}
		if unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(runes))

	return append(tokens, Token{Type: EOF, Pos: len(runes)}), nil
}

// Fields splits src on whitespace after isolating parentheses with spaces.
// A field that is exactly one operator character is that operator; every
// other field is an opaque OPERAND, so operators must be surrounded by
// whitespace:
//
//	Fields("(a + b) * 2") -> ( a + b ) * 2
//	Fields("a+b")         -> a+b            (single operand)
//
// This is the granularity used by the expression compiler.
func Fields(src string) ([]Token, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: invalid UTF-8 input", ErrMalformedInfix)
	}

	spaced := strings.NewReplacer("(", " ( ", ")", " ) ").Replace(src)

	var tokens []Token
	pos := 0
	for _, field := range strings.Fields(spaced) {
		// Positions refer to the original text; parentheses are unchanged so
		// searching from the last match finds the field.
		if idx := strings.Index(src[pos:], field); idx >= 0 {
			pos += idx
		}
		tt := OPERAND
		if r, size := utf8.DecodeRuneInString(field); size == len(field) {
			if sym, ok := symbols[r]; ok {
				tt = sym
			}
		}
		tokens = append(tokens, Token{Type: tt, Lexeme: field, Pos: utf8.RuneCountInString(src[:pos])})
		pos += len(field)
	}

	return append(tokens, Token{Type: EOF, Pos: utf8.RuneCountInString(src)}), nil
}
