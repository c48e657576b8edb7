package cpu

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"exprcore/pkg/expr"
)

func compile(t *testing.T, src string) expr.Program {
	t.Helper()
	prog, err := expr.Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	return prog
}

func TestRunLiterals(t *testing.T) {
	tests := []struct {
		src      string
		expected float32
	}{
		{"3 + 4 * 2", 11},
		{"8 - 3 - 1", 4},
		{"( 3 + 4 ) * 2", 14},
		{"2 ^ 3 ^ 2", 512},
		{"7 / 2", 3.5},
		{"-1 * 5", -5},
	}
	for _, tt := range tests {
		got, err := New(compile(t, tt.src)).Run(nil)
		if err != nil {
			t.Errorf("%s: %v", tt.src, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.src, tt.expected, got)
		}
	}
}

// Compiled code must agree with the postfix route for the same expression.
func TestRunMatchesPostfixEvaluation(t *testing.T) {
	sources := []string{
		"1 + 2 * 3 - 4 / 5",
		"( 1.5 + 2.25 ) * ( 3 - 0.125 )",
		"100 / ( 2 + 3 ) / 2",
		"0.1 + 0.2",
		"2 ^ 0.5 * 3",
	}
	for _, src := range sources {
		compiled, err := New(compile(t, src)).Run(nil)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		postfix, err := expr.Convert(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		evaluated, err := expr.Evaluate(postfix.String())
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if compiled != evaluated {
			t.Errorf("%s: compiled %v, evaluated %v", src, compiled, evaluated)
		}
	}
}

func TestRunVariables(t *testing.T) {
	c := New(compile(t, "( x + y ) * x"))
	got, err := c.Run(map[string]float32{"x": 3, "y": 4})
	if err != nil {
		t.Fatal(err)
	}
	if got != 21 {
		t.Errorf("expected 21, got %v", got)
	}

	// Bindings persist and can be overridden between runs.
	got, err = c.Run(map[string]float32{"x": 2})
	if err != nil {
		t.Fatal(err)
	}
	if got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
}

func TestRunFunctions(t *testing.T) {
	c := New(compile(t, "sin_x + cos_x + log_y"))
	got, err := c.Run(map[string]float32{"x": 0, "y": 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestRunUnbound(t *testing.T) {
	for _, src := range []string{"z + 1", "tan_x", "sin_"} {
		_, err := New(compile(t, src)).Run(map[string]float32{"x": 1})
		if !errors.Is(err, ErrUnboundVariable) {
			t.Errorf("%s: expected ErrUnboundVariable, got %v", src, err)
		}
	}
}

func TestRunBadProgram(t *testing.T) {
	if _, err := New(nil).Run(nil); err == nil {
		t.Error("expected error for empty program")
	}

	bad := expr.Program{
		{Op: expr.OpLoad, Dst: 1, Value: "1"},
		{Op: expr.Opcode(99), Dst: 2, Left: 1, Right: 1},
	}
	if _, err := New(bad).Run(nil); !errors.Is(err, expr.ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}

	dangling := expr.Program{
		{Op: expr.OpLoad, Dst: 1, Value: "1"},
		{Op: expr.OpAdd, Dst: 2, Left: 1, Right: 7},
	}
	if _, err := New(dangling).Run(nil); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out of range error, got %v", err)
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	c := New(compile(t, "1 + 2"))
	c.Trace = true
	c.Output = &buf
	if _, err := c.Run(nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 trace lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[2], "; t3 = 3") {
		t.Errorf("unexpected last trace line %q", lines[2])
	}
}

// A symbolic derivative evaluated by the CPU matches a finite difference.
func TestDerivativeNumerically(t *testing.T) {
	tokens, err := expr.Fields("sin_x * x + x ^ 3 / 2")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := expr.Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}
	d, err := expr.Derive(tree, "x")
	if err != nil {
		t.Fatal(err)
	}
	prog, err := expr.Generate(d)
	if err != nil {
		t.Fatal(err)
	}

	const x = 0.75
	got, err := New(prog).Run(map[string]float32{"x": x})
	if err != nil {
		t.Fatal(err)
	}
	want := math.Cos(x)*x + math.Sin(x) + 1.5*x*x
	if math.Abs(float64(got)-want) > 1e-5 {
		t.Errorf("expected %v, got %v", want, got)
	}
}
