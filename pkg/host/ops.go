package host

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ArgType is the declared type of an operation argument.
type ArgType int

const (
	STRING ArgType = iota
	NUMBER
)

func (t ArgType) String() string {
	if t == NUMBER {
		return "NUMBER"
	}
	return "STRING"
}

// Arg is one decoded operation argument.
type Arg struct {
	Type ArgType
	Text string // STRING value
	Num  int    // NUMBER value
}

// Operation is a host instruction implemented by this package.
type Operation interface {
	Arguments() []ArgType
	Execute(m *Machine, args []Arg) error
	Help() string
}

// OpFunc adapts a function to the Operation interface.
type OpFunc struct {
	Args []ArgType
	Desc string
	Fn   func(m *Machine, args []Arg) error
}

func (o OpFunc) Arguments() []ArgType                 { return o.Args }
func (o OpFunc) Help() string                         { return o.Desc }
func (o OpFunc) Execute(m *Machine, args []Arg) error { return o.Fn(m, args) }

var registry = map[string]Operation{}

// Register makes op available to Exec under name. Names are case-insensitive.
func Register(name string, op Operation) {
	registry[strings.ToUpper(name)] = op
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Operation, bool) {
	op, ok := registry[strings.ToUpper(name)]
	return op, ok
}

// Operations lists the registered operation names in sorted order.
func Operations() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("PING", OpFunc{
		Desc: "Replies with Pong!",
		Fn: func(m *Machine, _ []Arg) error {
			_, err := fmt.Fprintln(m.outputSink(), m.Ping())
			return err
		},
	})
	Register("EQCONV", OpFunc{
		Args: []ArgType{STRING, NUMBER},
		Desc: "Converts an infix equation to postfix",
		Fn: func(m *Machine, args []Arg) error {
			return m.Convert(args[0].Text, args[1].Num)
		},
	})
	Register("EQEVAL", OpFunc{
		Args: []ArgType{NUMBER, NUMBER},
		Desc: "Evaluates a postfix expression into a memory cell",
		Fn: func(m *Machine, args []Arg) error {
			return m.Evaluate(args[0].Num, args[1].Num)
		},
	})
	Register("EQCODEGEN", OpFunc{
		Args: []ArgType{NUMBER},
		Desc: "Generates three-address code from a given expression",
		Fn: func(m *Machine, args []Arg) error {
			return m.Compile(args[0].Num)
		},
	})
	Register("EQDERIV", OpFunc{
		Args: []ArgType{NUMBER, STRING},
		Desc: "Generates code for the derivative of an expression (experimental)",
		Fn: func(m *Machine, args []Arg) error {
			return m.Derive(args[0].Num, args[1].Text)
		},
	})
}

// Exec parses and runs one host line such as
//
//	EQCONV "3+4*2" 0
//
// Strings may be quoted or bare; numbers are decimal integers.
func (m *Machine) Exec(line string) error {
	fields, err := splitLine(line)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	name := fields[0]
	op, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	types := op.Arguments()
	if len(fields)-1 != len(types) {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrBadArgument, strings.ToUpper(name), len(types), len(fields)-1)
	}

	args := make([]Arg, len(types))
	for i, t := range types {
		args[i] = Arg{Type: t, Text: fields[i+1]}
		if t == NUMBER {
			n, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return fmt.Errorf("%w: argument %d of %s must be a number, got %q", ErrBadArgument, i+1, strings.ToUpper(name), fields[i+1])
			}
			args[i].Num = n
		}
	}
	return op.Execute(m, args)
}

// splitLine breaks a host line into fields. Double-quoted fields may
// contain spaces and Go escape sequences.
func splitLine(line string) ([]string, error) {
	var fields []string
	rest := strings.TrimSpace(line)
	for rest != "" {
		if rest[0] == '"' {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("%w: unterminated string in %q", ErrBadArgument, line)
			}
			s, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadArgument, err)
			}
			fields = append(fields, s)
			rest = strings.TrimLeftFunc(rest[len(quoted):], unicode.IsSpace)
			continue
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		fields = append(fields, rest[:end])
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	return fields, nil
}
