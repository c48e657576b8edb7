package expr

import (
	"errors"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"3+4*2", "3 4 2 * +"},
		{"(3+4)*2", "3 4 + 2 *"},
		{"8-3-1", "8 3 - 1 -"},
		{"8/4/2", "8 4 / 2 /"},
		{"2^3^2", "2 3 2 ^ ^"},
		{"a*(b+c)/d", "a b c + * d /"},
		{"12 + 30", "12 30 +"},
		{"2*3^2", "2 3 2 ^ *"},
		{"((7))", "7"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := Convert(tt.input)
		if err != nil {
			t.Errorf("Convert(%q) error = %v", tt.input, err)
			continue
		}
		if got.String() != tt.expected {
			t.Errorf("Convert(%q) = %q, want %q", tt.input, got.String(), tt.expected)
		}
	}
}

func TestConvertUnbalanced(t *testing.T) {
	for _, input := range []string{"(1+2", "1+2)", ")(", "((1)", "1)+(2"} {
		got, err := Convert(input)
		if !errors.Is(err, ErrMalformedInfix) {
			t.Errorf("Convert(%q): expected ErrMalformedInfix, got %v", input, err)
		}
		if got != nil {
			t.Errorf("Convert(%q): expected no output on failure, got %q", input, got)
		}
	}
}

// The conversion must agree with direct evaluation under normal precedence.
func TestConvertEvaluateRoundTrip(t *testing.T) {
	tests := []struct {
		input    string
		expected float32
	}{
		{"3+4*2", 11},
		{"8-3-1", 4},
		{"(3+4)*2", 14},
		{"(1+2)*(3+4)", 21},
		{"10/4-1", 1.5},
		{"2*3+4*5", 26},
		{"100/(2+3)/2", 10},
		{"2^3^2", 512},
		{"1-(2-3)", 2},
	}
	for _, tt := range tests {
		postfix, err := Convert(tt.input)
		if err != nil {
			t.Fatalf("Convert(%q) error = %v", tt.input, err)
		}
		got, err := Evaluate(postfix.String())
		if err != nil {
			t.Fatalf("Evaluate(%q) error = %v", postfix, err)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}
