package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestConvertMode(t *testing.T) {
	code, out, errOut := runCLI(t, "3+4*2", "(3+4)*2")
	if code != 0 {
		t.Fatalf("exit=%d stderr:\n%s", code, errOut)
	}
	if out != "3 4 2 * +\n3 4 + 2 *\n" {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestEvalMode(t *testing.T) {
	code, out, errOut := runCLI(t, "-mode", "eval", "8 3 - 1 -")
	if code != 0 {
		t.Fatalf("exit=%d stderr:\n%s", code, errOut)
	}
	if out != "4\n" {
		t.Errorf("expected 4, got %q", out)
	}
}

func TestCompileModeForms(t *testing.T) {
	code, out, _ := runCLI(t, "-mode", "compile", "a + b")
	if code != 0 || out != "t1 = a\nt2 = b\nadd t3 = t1 + t2\n" {
		t.Errorf("named: exit=%d output:\n%s", code, out)
	}

	code, out, _ = runCLI(t, "-mode", "compile", "-form", "relative", "a + b")
	if code != 0 || out != "ld a\nld b\nadd .. .\n" {
		t.Errorf("relative: exit=%d output:\n%s", code, out)
	}
}

func TestRunMode(t *testing.T) {
	code, out, errOut := runCLI(t, "-mode", "run", "-vars", "x=3, y=4", "( x + y ) * 2")
	if code != 0 {
		t.Fatalf("exit=%d stderr:\n%s", code, errOut)
	}
	if out != "14\n" {
		t.Errorf("expected 14, got %q", out)
	}
}

func TestDerivMode(t *testing.T) {
	code, out, errOut := runCLI(t, "-mode", "deriv", "-wrt", "y", "y * y")
	if code != 0 {
		t.Fatalf("exit=%d stderr:\n%s", code, errOut)
	}
	if out != "t1 = y\nt2 = y\nadd t3 = t1 + t2\n" {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestInputFileAndOutputFile(t *testing.T) {
	in := writeTempFile(t, "exprs.txt", "1 + 2\n\n( 1 + 2\n2 * 3\n")
	outPath := filepath.Join(t.TempDir(), "out.txt")

	code, _, errOut := runCLI(t, "-mode", "compile", "-in", in, "-out", outPath)
	if code != 1 {
		t.Errorf("expected exit 1 for the malformed line, got %d", code)
	}
	if !strings.Contains(errOut, "( 1 + 2: malformed infix expression") {
		t.Errorf("missing error report:\n%s", errOut)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	expected := "; 1 + 2\nt1 = 1\nt2 = 2\nadd t3 = t1 + t2\n" +
		"; 2 * 3\nt1 = 2\nt2 = 3\nmul t3 = t1 * t2\n"
	if string(data) != expected {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestListingMode(t *testing.T) {
	path := writeTempFile(t, "prog.tac", "; x squared plus one\nt1 = x\nt2 = x\nmul t3 = t1 * t2\nt4 = 1\nadd t5 = t3 + t4\n")
	code, out, errOut := runCLI(t, "-listing", "-in", path, "-vars", "x=5")
	if code != 0 {
		t.Fatalf("exit=%d stderr:\n%s", code, errOut)
	}
	if out != "26\n" {
		t.Errorf("expected 26, got %q", out)
	}
}

func TestTrace(t *testing.T) {
	code, out, _ := runCLI(t, "-mode", "run", "-trace", "1 + 2")
	if code != 0 {
		t.Fatalf("exit=%d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || lines[3] != "3" {
		t.Errorf("unexpected trace output:\n%s", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"-mode", "nope", "1"},
		{"-form", "dots", "1"},
		{"-vars", "x", "1"},
		{"-listing"},
	}
	for _, args := range tests {
		if code, _, _ := runCLI(t, args...); code != 2 {
			t.Errorf("%v: expected exit 2, got %d", args, code)
		}
	}
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars("a=1, b = -2.5")
	if err != nil {
		t.Fatal(err)
	}
	if vars["a"] != 1 || vars["b"] != -2.5 {
		t.Errorf("unexpected bindings %v", vars)
	}
	if _, err := parseVars("a=zz"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
