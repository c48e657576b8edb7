package asm

import (
	"fmt"
	"strconv"
	"strings"

	"exprcore/pkg/expr"
)

// Assembler reads an instruction listing produced by expr.Program. Both
// listing forms are accepted, and may not be mixed within one listing:
//
//	named:     t1 = 3          relative:  ld 3
//	           t2 = 4                     ld 4
//	           add t3 = t1 + t2           add .. .
type Assembler struct {
	form form
	prog expr.Program
}

type form int

const (
	formUnknown form = iota
	formNamed
	formRelative
)

type parsedLine struct {
	lineNo   int
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble parses a complete listing into a program.
func Assemble(listing string) (expr.Program, error) {
	return NewAssembler().Assemble(listing)
}

func (a *Assembler) Assemble(listing string) (expr.Program, error) {
	a.form = formUnknown
	a.prog = nil

	for i, raw := range strings.Split(listing, "\n") {
		p, ok := parseLine(raw, i+1)
		if !ok {
			continue
		}
		in, err := a.instruction(p)
		if err != nil {
			return nil, err
		}
		a.prog = append(a.prog, in)
	}

	if len(a.prog) == 0 {
		return nil, fmt.Errorf("empty listing")
	}
	return a.prog, nil
}

// parseLine splits a raw line into mnemonic and operands. Blank and
// comment-only lines report ok == false.
func parseLine(raw string, lineNo int) (parsedLine, bool) {
	line := strings.TrimSpace(stripComments(raw))
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return parsedLine{}, false
	}
	return parsedLine{lineNo: lineNo, mnemonic: fields[0], operands: fields[1:]}, true
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func (a *Assembler) setForm(f form, lineNo int) error {
	if a.form == formUnknown {
		a.form = f
		return nil
	}
	if a.form != f {
		return fmt.Errorf("line %d: named and relative instructions mixed", lineNo)
	}
	return nil
}

func (a *Assembler) instruction(p parsedLine) (expr.Instr, error) {
	dst := len(a.prog) + 1

	// Named load: t1 = value
	if isTemp(p.mnemonic) {
		if err := a.setForm(formNamed, p.lineNo); err != nil {
			return expr.Instr{}, err
		}
		if len(p.operands) != 2 || p.operands[0] != "=" {
			return expr.Instr{}, fmt.Errorf("line %d: expected 't<n> = <value>'", p.lineNo)
		}
		if err := a.checkDst(p.mnemonic, dst, p.lineNo); err != nil {
			return expr.Instr{}, err
		}
		return expr.Instr{Op: expr.OpLoad, Dst: dst, Value: p.operands[1]}, nil
	}

	op, ok := expr.ParseOpcode(p.mnemonic)
	if !ok {
		return expr.Instr{}, fmt.Errorf("line %d: %w: %q", p.lineNo, expr.ErrUnknownOperator, p.mnemonic)
	}

	if op == expr.OpLoad {
		if err := a.setForm(formRelative, p.lineNo); err != nil {
			return expr.Instr{}, err
		}
		if len(p.operands) != 1 {
			return expr.Instr{}, fmt.Errorf("line %d: ld expects exactly one operand", p.lineNo)
		}
		return expr.Instr{Op: op, Dst: dst, Value: p.operands[0]}, nil
	}

	switch len(p.operands) {
	case 2:
		// Relative: add .. .
		if err := a.setForm(formRelative, p.lineNo); err != nil {
			return expr.Instr{}, err
		}
		left, err := a.relative(p.operands[0], dst, p.lineNo)
		if err != nil {
			return expr.Instr{}, err
		}
		right, err := a.relative(p.operands[1], dst, p.lineNo)
		if err != nil {
			return expr.Instr{}, err
		}
		return expr.Instr{Op: op, Dst: dst, Left: left, Right: right}, nil
	case 5:
		// Named: add t3 = t1 + t2
		if err := a.setForm(formNamed, p.lineNo); err != nil {
			return expr.Instr{}, err
		}
		if p.operands[1] != "=" || p.operands[3] != op.Symbol() {
			return expr.Instr{}, fmt.Errorf("line %d: expected '%s t<n> = t<a> %s t<b>'", p.lineNo, op, op.Symbol())
		}
		if err := a.checkDst(p.operands[0], dst, p.lineNo); err != nil {
			return expr.Instr{}, err
		}
		left, err := a.named(p.operands[2], dst, p.lineNo)
		if err != nil {
			return expr.Instr{}, err
		}
		right, err := a.named(p.operands[4], dst, p.lineNo)
		if err != nil {
			return expr.Instr{}, err
		}
		return expr.Instr{Op: op, Dst: dst, Left: left, Right: right}, nil
	default:
		return expr.Instr{}, fmt.Errorf("line %d: wrong number of operands for %s", p.lineNo, op)
	}
}

// checkDst requires temporaries to be defined in order t1, t2, ...
func (a *Assembler) checkDst(token string, want, lineNo int) error {
	n, err := parseTemp(token)
	if err != nil {
		return fmt.Errorf("line %d: %v", lineNo, err)
	}
	if n != want {
		return fmt.Errorf("line %d: expected t%d, got %s", lineNo, want, token)
	}
	return nil
}

func (a *Assembler) named(token string, dst, lineNo int) (int, error) {
	n, err := parseTemp(token)
	if err != nil {
		return 0, fmt.Errorf("line %d: %v", lineNo, err)
	}
	if n >= dst {
		return 0, fmt.Errorf("line %d: %s used before it is defined", lineNo, token)
	}
	return n, nil
}

func (a *Assembler) relative(token string, dst, lineNo int) (int, error) {
	if token == "" || strings.Trim(token, ".") != "" {
		return 0, fmt.Errorf("line %d: invalid relative operand %q", lineNo, token)
	}
	ref := dst - len(token)
	if ref < 1 {
		return 0, fmt.Errorf("line %d: operand %q points before the first instruction", lineNo, token)
	}
	return ref, nil
}

func isTemp(s string) bool {
	_, err := parseTemp(s)
	return err == nil
}

func parseTemp(s string) (int, error) {
	if len(s) < 2 || s[0] != 't' {
		return 0, fmt.Errorf("invalid temporary %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid temporary %q", s)
	}
	return n, nil
}
