package expr

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Single Operand",
			input:    "x",
			expected: "t1 = x\n",
		},
		{
			name:  "Precedence",
			input: "a + b * c",
			expected: "t1 = a\n" +
				"t2 = b\n" +
				"t3 = c\n" +
				"mul t4 = t2 * t3\n" +
				"add t5 = t1 + t4\n",
		},
		{
			name:  "Parentheses",
			input: "( 3 + 4 ) * 2",
			expected: "t1 = 3\n" +
				"t2 = 4\n" +
				"add t3 = t1 + t2\n" +
				"t4 = 2\n" +
				"mul t5 = t3 * t4\n",
		},
		{
			name:  "Left Associative",
			input: "8 - 3 - 1",
			expected: "t1 = 8\n" +
				"t2 = 3\n" +
				"sub t3 = t1 - t2\n" +
				"t4 = 1\n" +
				"sub t5 = t3 - t4\n",
		},
		{
			name:  "Division And Power",
			input: "x / 2 ^ y",
			expected: "t1 = x\n" +
				"t2 = 2\n" +
				"t3 = y\n" +
				"pow t4 = t2 ^ t3\n" +
				"div t5 = t1 / t4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Compile(tt.input)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if prog.String() != tt.expected {
				t.Errorf("Compile(%q) =\n%s\nwant\n%s", tt.input, prog, tt.expected)
			}
		})
	}
}

func TestCompileInstructions(t *testing.T) {
	prog, err := Compile("a - b")
	if err != nil {
		t.Fatal(err)
	}
	expected := Program{
		{Op: OpLoad, Dst: 1, Value: "a"},
		{Op: OpLoad, Dst: 2, Value: "b"},
		{Op: OpSub, Dst: 3, Left: 1, Right: 2},
	}
	if !reflect.DeepEqual(prog, expected) {
		t.Errorf("got %#v, want %#v", prog, expected)
	}
}

// Each call starts numbering temporaries from 1.
func TestCompileIsRepeatable(t *testing.T) {
	src := "( a + b ) * ( c - d ) / e"
	first, err := Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("listings differ:\n%s\n%s", first, second)
	}
	if first[0].Dst != 1 {
		t.Errorf("expected first temporary t1, got t%d", first[0].Dst)
	}
}

// Every referenced temporary is defined by an earlier instruction.
func TestCompileDefinesBeforeUse(t *testing.T) {
	prog, err := Compile("( a + b * c ) - ( d / ( e - f ) ) * g")
	if err != nil {
		t.Fatal(err)
	}
	defined := map[int]bool{}
	for i, in := range prog {
		if in.Dst != i+1 {
			t.Errorf("instruction %d defines t%d", i, in.Dst)
		}
		if in.Op != OpLoad && (!defined[in.Left] || !defined[in.Right]) {
			t.Errorf("instruction %q uses an undefined temporary", in)
		}
		defined[in.Dst] = true
	}
}

func TestProgramRelative(t *testing.T) {
	prog, err := Compile("a + b * c")
	if err != nil {
		t.Fatal(err)
	}
	expected := "ld a\n" +
		"ld b\n" +
		"ld c\n" +
		"mul .. .\n" +
		"add .... .\n"
	if got := prog.Relative(); got != expected {
		t.Errorf("Relative() =\n%s\nwant\n%s", got, expected)
	}
}

func TestFprint(t *testing.T) {
	prog, err := Compile("1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Fprint(&buf, prog); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "t1 = 1\nt2 = 2\nadd t3 = t1 + t2\n" {
		t.Errorf("unexpected listing:\n%s", buf.String())
	}
}

func TestGenerateErrors(t *testing.T) {
	bad := &BinaryExpr{Op: LPAREN, Left: &Leaf{Value: "a"}, Right: &Leaf{Value: "b"}}
	if _, err := Generate(bad); !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
	if _, err := Generate(nil); !errors.Is(err, ErrMalformedInfix) {
		t.Errorf("expected ErrMalformedInfix, got %v", err)
	}
	if _, err := Compile("( 1 + 2"); !errors.Is(err, ErrMalformedInfix) {
		t.Errorf("expected ErrMalformedInfix, got %v", err)
	}
}

func TestParseOpcode(t *testing.T) {
	for _, name := range []string{"ld", "add", "SUB", "mul", "div", "pow"} {
		op, ok := ParseOpcode(name)
		if !ok {
			t.Errorf("ParseOpcode(%q) failed", name)
			continue
		}
		if op.String() != strings.ToLower(name) {
			t.Errorf("ParseOpcode(%q) = %s", name, op)
		}
	}
	if _, ok := ParseOpcode("dad"); ok {
		t.Errorf("ParseOpcode(\"dad\") should fail")
	}
}
