package expr

import (
	"fmt"
	"io"
	"strings"
)

// Opcode is the operation of one three-address instruction.
type Opcode int

const (
	OpLoad Opcode = iota // t<n> = <literal or identifier>
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
)

var opcodeNames = [...]string{
	OpLoad: "ld",
	OpAdd:  "add",
	OpSub:  "sub",
	OpMul:  "mul",
	OpDiv:  "div",
	OpPow:  "pow",
}

func (op Opcode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Symbol returns the infix operator for a binary opcode.
func (op Opcode) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	}
	return ""
}

// ParseOpcode maps a mnemonic such as "add" back to its Opcode.
func ParseOpcode(mnemonic string) (Opcode, bool) {
	for op, name := range opcodeNames {
		if strings.EqualFold(name, mnemonic) {
			return Opcode(op), true
		}
	}
	return 0, false
}

// opcodeFor maps an operator token to its opcode.
func opcodeFor(tt TokenType) (Opcode, error) {
	switch tt {
	case PLUS:
		return OpAdd, nil
	case MINUS:
		return OpSub, nil
	case STAR:
		return OpMul, nil
	case SLASH:
		return OpDiv, nil
	case CARET:
		return OpPow, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownOperator, tt)
	}
}

// Instr is one emitted instruction. Temporaries are numbered from 1.
//
//	t1 = 3              Instr{Op: OpLoad, Dst: 1, Value: "3"}
//	add t3 = t1 + t2    Instr{Op: OpAdd, Dst: 3, Left: 1, Right: 2}
type Instr struct {
	Op    Opcode
	Dst   int
	Left  int
	Right int
	Value string // OpLoad only
}

func (in Instr) String() string {
	if in.Op == OpLoad {
		return fmt.Sprintf("t%d = %s", in.Dst, in.Value)
	}
	return fmt.Sprintf("%s t%d = t%d %s t%d", in.Op, in.Dst, in.Left, in.Op.Symbol(), in.Right)
}

// Program is an instruction sequence in post-order. Every temporary is
// defined before it is referenced and the last instruction holds the result.
type Program []Instr

// String renders the named listing, one instruction per line.
func (prog Program) String() string {
	var sb strings.Builder
	for _, in := range prog {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Relative renders the positional listing, where each operand is written as
// a run of dots counting back from the instruction to the operand:
//
//	ld 3
//	ld 4
//	add .. .
func (prog Program) Relative() string {
	var sb strings.Builder
	for _, in := range prog {
		if in.Op == OpLoad {
			fmt.Fprintf(&sb, "%s %s\n", in.Op, in.Value)
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s\n", in.Op,
			strings.Repeat(".", in.Dst-in.Left), strings.Repeat(".", in.Dst-in.Right))
	}
	return sb.String()
}

// Fprint writes the named listing of prog to w.
func Fprint(w io.Writer, prog Program) error {
	_, err := io.WriteString(w, prog.String())
	return err
}

// Compile splits src with Fields, parses it and generates code.
func Compile(src string) (Program, error) {
	tokens, err := Fields(src)
	if err != nil {
		return nil, err
	}
	tree, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	return Generate(tree)
}

// codeGen numbers nodes for a single Generate call.
type codeGen struct {
	next int
	prog Program
}

// Generate walks e in post-order and emits one instruction per node. The
// temporary counter starts at 1 on every call.
func Generate(e Expr) (Program, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: empty expression", ErrMalformedInfix)
	}
	cg := &codeGen{}
	if _, err := cg.gen(e); err != nil {
		return nil, err
	}
	return cg.prog, nil
}

func (cg *codeGen) newTemp() int {
	cg.next++
	return cg.next
}

// gen emits code for e and returns the temporary holding its value.
func (cg *codeGen) gen(e Expr) (int, error) {
	switch n := e.(type) {
	case *Leaf:
		id := cg.newTemp()
		cg.prog = append(cg.prog, Instr{Op: OpLoad, Dst: id, Value: n.Value})
		return id, nil
	case *BinaryExpr:
		op, err := opcodeFor(n.Op)
		if err != nil {
			return 0, err
		}
		left, err := cg.gen(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := cg.gen(n.Right)
		if err != nil {
			return 0, err
		}
		id := cg.newTemp()
		cg.prog = append(cg.prog, Instr{Op: op, Dst: id, Left: left, Right: right})
		return id, nil
	default:
		return 0, fmt.Errorf("unsupported node %T", e)
	}
}
