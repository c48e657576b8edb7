package cpu

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"exprcore/pkg/expr"
)

// ErrUnboundVariable reports a load of an identifier with no binding.
var ErrUnboundVariable = errors.New("unbound variable")

// CPU executes a compiled expression program over float32 temporaries.
// Temps[i] holds t<i>; Temps[0] is unused.
type CPU struct {
	Program expr.Program
	Temps   []float32
	Vars    map[string]float32

	PC     int
	Halted bool

	// Trace writes each executed instruction and its result to Output.
	Trace bool
	// Output receives trace lines. If nil, os.Stdout is used.
	Output io.Writer
}

// New creates a CPU loaded with prog. Variables are bound with Bind or
// through Run.
func New(prog expr.Program) *CPU {
	return &CPU{
		Program: prog,
		Temps:   make([]float32, len(prog)+1),
		Vars:    make(map[string]float32),
	}
}

func (c *CPU) outputSink() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

// Bind sets the value an identifier operand loads.
func (c *CPU) Bind(name string, v float32) {
	c.Vars[name] = v
}

// Reset rewinds the program counter and clears every temporary.
func (c *CPU) Reset() {
	c.PC = 0
	c.Halted = false
	for i := range c.Temps {
		c.Temps[i] = 0
	}
}

// Step executes the instruction at PC.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}
	if c.PC >= len(c.Program) {
		c.Halted = true
		return nil
	}

	in := c.Program[c.PC]
	if in.Dst < 1 || in.Dst >= len(c.Temps) {
		return fmt.Errorf("instruction %d: destination t%d out of range", c.PC+1, in.Dst)
	}

	var result float32
	switch in.Op {
	case expr.OpLoad:
		v, err := c.resolve(in.Value)
		if err != nil {
			return fmt.Errorf("instruction %d: %w", c.PC+1, err)
		}
		result = v
	default:
		a, err := c.temp(in.Left)
		if err != nil {
			return err
		}
		b, err := c.temp(in.Right)
		if err != nil {
			return err
		}
		switch in.Op {
		case expr.OpAdd:
			result = a + b
		case expr.OpSub:
			result = a - b
		case expr.OpMul:
			result = a * b
		case expr.OpDiv:
			result = a / b
		case expr.OpPow:
			result = float32(math.Pow(float64(a), float64(b)))
		default:
			return fmt.Errorf("instruction %d: %w: %s", c.PC+1, expr.ErrUnknownOperator, in.Op)
		}
	}

	c.Temps[in.Dst] = result
	if c.Trace {
		fmt.Fprintf(c.outputSink(), "%-24s ; t%d = %g\n", in, in.Dst, result)
	}
	c.PC++
	return nil
}

// Run binds vars, executes the whole program from the start and returns
// the value of the last instruction.
func (c *CPU) Run(vars map[string]float32) (float32, error) {
	for k, v := range vars {
		c.Bind(k, v)
	}
	if len(c.Program) == 0 {
		return 0, fmt.Errorf("%w: empty program", expr.ErrMalformedInfix)
	}

	c.Reset()
	for !c.Halted {
		if err := c.Step(); err != nil {
			return 0, err
		}
	}
	return c.Temps[c.Program[len(c.Program)-1].Dst], nil
}

func (c *CPU) temp(n int) (float32, error) {
	if n < 1 || n >= len(c.Temps) {
		return 0, fmt.Errorf("instruction %d: t%d out of range", c.PC+1, n)
	}
	return c.Temps[n], nil
}

// resolve reads a load operand: a numeric literal, a bound variable, or
// f_u for f in sin, cos and log.
func (c *CPU) resolve(operand string) (float32, error) {
	if v, err := strconv.ParseFloat(operand, 32); err == nil || errors.Is(err, strconv.ErrRange) {
		return float32(v), nil
	}
	if v, ok := c.Vars[operand]; ok {
		return v, nil
	}
	fn, arg, ok := strings.Cut(operand, "_")
	if !ok || arg == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnboundVariable, operand)
	}
	x, err := c.resolve(arg)
	if err != nil {
		return 0, err
	}
	switch fn {
	case "sin":
		return float32(math.Sin(float64(x))), nil
	case "cos":
		return float32(math.Cos(float64(x))), nil
	case "log":
		return float32(math.Log(float64(x))), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnboundVariable, operand)
}
