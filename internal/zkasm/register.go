// Package zkasm implements the core of the compiler: the operand-stack
// model, the textual zkASM emitter, and the operator-by-operator codegen
// rules that turn a single Wasm function body into zkASM text.
package zkasm

// Register is one of the five general-purpose registers the target VM
// exposes. The codegen never allocates more than two at a time (A and B for
// binary operators, E as a scratch register for local-stack traffic); C and D
// are reserved for future use and never emitted by this package today.
type Register int

const (
	RegA Register = iota
	RegB
	RegC
	RegD
	RegE
)

// String returns the assembler mnemonic for the register.
func (r Register) String() string {
	switch r {
	case RegA:
		return "A"
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	default:
		return "?"
	}
}
