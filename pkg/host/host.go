// Package host provides the collaborators an expression operation runs
// against: a string table, a float32 memory and an output stream.
package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"exprcore/pkg/expr"
)

var (
	// ErrIndexOutOfRange reports a string-table slot or memory cell outside
	// the machine.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownOperation reports an operation name with no registration.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrBadArgument reports a missing, extra or mistyped operation argument.
	ErrBadArgument = errors.New("bad argument")
)

// Machine is the host state shared by all expression operations. It is not
// safe for concurrent use.
type Machine struct {
	Strings []string
	Memory  []float32

	// Output is where PING, EQCODEGEN and EQDERIV write.
	// If nil, os.Stdout is used.
	Output io.Writer
}

// NewMachine creates a machine with the given number of string slots and
// memory cells.
func NewMachine(stringSlots, memoryCells int) *Machine {
	return &Machine{
		Strings: make([]string, stringSlots),
		Memory:  make([]float32, memoryCells),
	}
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

// Slot returns the string-table entry at index.
func (m *Machine) Slot(index int) (string, error) {
	if index < 0 || index >= len(m.Strings) {
		return "", fmt.Errorf("%w: string slot %d (table has %d)", ErrIndexOutOfRange, index, len(m.Strings))
	}
	return m.Strings[index], nil
}

func (m *Machine) checkCell(cell int) error {
	if cell < 0 || cell >= len(m.Memory) {
		return fmt.Errorf("%w: memory cell %d (memory has %d)", ErrIndexOutOfRange, cell, len(m.Memory))
	}
	return nil
}

// Resolve returns arg unchanged, or the string-table entry it names when it
// has the form #<index>.
func (m *Machine) Resolve(arg string) (string, error) {
	ref, ok := strings.CutPrefix(arg, "#")
	if !ok {
		return arg, nil
	}
	index, err := strconv.Atoi(ref)
	if err != nil {
		return "", fmt.Errorf("%w: invalid string reference %q", ErrBadArgument, arg)
	}
	return m.Slot(index)
}

// Ping returns the liveness acknowledgement.
func (m *Machine) Ping() string {
	return "Pong!"
}

// Convert turns an infix expression (or #<n> reference) into postfix text
// stored in Strings[index].
func (m *Machine) Convert(infix string, index int) error {
	if _, err := m.Slot(index); err != nil {
		return err
	}
	src, err := m.Resolve(infix)
	if err != nil {
		return err
	}
	postfix, err := expr.Convert(src)
	if err != nil {
		return err
	}
	m.Strings[index] = postfix.String()
	return nil
}

// Evaluate computes the postfix text in Strings[index] and stores the
// result in Memory[cell].
func (m *Machine) Evaluate(index, cell int) error {
	src, err := m.Slot(index)
	if err != nil {
		return err
	}
	if err := m.checkCell(cell); err != nil {
		return err
	}
	v, err := expr.Evaluate(src)
	if err != nil {
		return err
	}
	m.Memory[cell] = v
	return nil
}

// Compile writes the three-address listing for the infix expression in
// Strings[index] to Output. Nothing is written when compilation fails.
func (m *Machine) Compile(index int) error {
	src, err := m.Slot(index)
	if err != nil {
		return err
	}
	prog, err := expr.Compile(src)
	if err != nil {
		return err
	}
	return expr.Fprint(m.outputSink(), prog)
}

// Derive writes the listing for the derivative of Strings[index] with
// respect to wrt.
func (m *Machine) Derive(index int, wrt string) error {
	src, err := m.Slot(index)
	if err != nil {
		return err
	}
	tokens, err := expr.Fields(src)
	if err != nil {
		return err
	}
	tree, err := expr.Parse(tokens)
	if err != nil {
		return err
	}
	d, err := expr.Derive(tree, wrt)
	if err != nil {
		return err
	}
	prog, err := expr.Generate(d)
	if err != nil {
		return err
	}
	return expr.Fprint(m.outputSink(), prog)
}
