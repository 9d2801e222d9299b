package zkasm

import (
	"fmt"
	"strconv"
	"strings"
)

// BinOp is one of the eight dyadic zkASM operators the target VM exposes.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpAnd
	OpOr
	OpXor
	OpEq
	OpLt  // unsigned less-than
	OpSlt // signed less-than
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpXor:
		return "XOR"
	case OpEq:
		return "EQ"
	case OpLt:
		return "LT"
	case OpSlt:
		return "SLT"
	default:
		return "?"
	}
}

// Assembler buffers zkASM instruction lines the way
// oisee-minz/minzc's Z80Generator buffers its output via its own
// line-at-a-time emit helper, and the way the original codegen.rs's
// ZkAssembler accumulates into instructions []string. Every method appends
// exactly the line(s) the contract in spec.md §4.1 names; Finalize joins
// them with newlines.
type Assembler struct {
	lines []string
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

func (a *Assembler) emit(format string, args ...interface{}) {
	a.lines = append(a.lines, fmt.Sprintf("\t"+format, args...))
}

// Label emits a bare "name: " line, with no leading tab.
func (a *Assembler) Label(name string) {
	a.lines = append(a.lines, name+": ")
}

// PushConst emits the push-constant-onto-stack instruction.
func (a *Assembler) PushConst(v int32) {
	a.emit("%d :MSTORE(SP++)", v)
}

// PushReg emits the push-register-onto-stack instruction.
func (a *Assembler) PushReg(r Register) {
	a.emit("%s :MSTORE(SP++)", r)
}

// Pop emits the two-line stack-pop-into-register sequence.
func (a *Assembler) Pop(r Register) {
	a.lines = append(a.lines,
		"\tSP - 1 => SP",
		fmt.Sprintf("\t$ => %s: MLOAD(SP)", r),
	)
}

// stackAddress renders an SP-relative offset per spec.md's rendering rule:
// zero renders bare, positive offsets add, negative offsets subtract the
// absolute value.
func stackAddress(offset int32) string {
	switch {
	case offset == 0:
		return "SP"
	case offset > 0:
		return "SP + " + strconv.Itoa(int(offset))
	default:
		return "SP - " + strconv.Itoa(int(-offset))
	}
}

// LoadFrom emits a load from an SP-relative stack address into r.
func (a *Assembler) LoadFrom(r Register, offset int32) {
	a.emit("$ => %s :MLOAD(%s)", r, stackAddress(offset))
}

// StoreTo emits a store of r to an SP-relative stack address.
func (a *Assembler) StoreTo(r Register, offset int32) {
	a.emit("%s :MSTORE(%s)", r, stackAddress(offset))
}

// BinOp emits a dyadic operator instruction. The operator reads its
// operands from registers A and B; "$" stands for its result, which is
// written into dst.
func (a *Assembler) BinOp(op BinOp, dst Register) {
	a.emit("$ => %s :%s", dst, op)
}

// AssertReg emits a register-operand assertion.
func (a *Assembler) AssertReg(r Register) {
	a.emit("%s :ASSERT", r)
}

// AssertConst emits a constant-operand assertion. Unused by the one-argument
// call-lowering convention this module implements (see DESIGN.md's Open
// Question decision), but carried since it is part of the assembler
// contract spec.md §4.1 specifies.
func (a *Assembler) AssertConst(v int32) {
	a.emit("%d :ASSERT", v)
}

// Jump emits an unconditional jump.
func (a *Assembler) Jump(dst string) {
	a.emit(":JMP(%s)", dst)
}

// JumpIfZero emits a conditional jump taken when r == 0.
func (a *Assembler) JumpIfZero(r Register, dst string) {
	a.emit("%s :JMPZ(%s)", r, dst)
}

// JumpIfNonzero emits a conditional jump taken when r != 0.
func (a *Assembler) JumpIfNonzero(r Register, dst string) {
	a.emit("%s :JMPNZ(%s)", r, dst)
}

// Finalize joins the buffered lines into the function's zkASM text.
func (a *Assembler) Finalize() string {
	return strings.Join(a.lines, "\n")
}
