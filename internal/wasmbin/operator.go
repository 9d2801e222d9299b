package wasmbin

// OperatorKind tags a decoded Wasm operator. Only the operators
// internal/zkasm.Codegen knows how to lower get a dedicated kind; every
// other named opcode decodes as OpOther, carrying its mnemonic name so the
// codegen can report a precise UnsupportedOperator error.
type OperatorKind int

const (
	OpI32Const OperatorKind = iota
	OpLocalGet
	OpLocalSet
	OpI32Add
	OpI32Sub
	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Eq
	OpI32LtS
	OpI32LtU
	OpCall
	OpEnd
	OpOther
)

// Operator is one decoded instruction from a function body's operator
// stream.
type Operator struct {
	Kind OperatorKind

	// I32Value is the immediate for OpI32Const.
	I32Value int32
	// LocalIndex is the operand for OpLocalGet/OpLocalSet.
	LocalIndex uint32
	// FunctionIndex is the operand for OpCall.
	FunctionIndex uint32
	// RawName names the opcode for OpOther, e.g. "i32.mul", so
	// zkasm.ErrUnsupportedOperator can report something actionable.
	RawName string
}

// opcodeNames maps single-byte MVP opcodes this decoder recognizes by name,
// together with a known immediate shape in decoder.go's skipImmediate, to
// produce readable UnsupportedOperator errors even though Codegen has no
// lowering for them. An opcode absent from this map is not decodable at
// all: Decode fails with a ParseError rather than guessing its shape.
var opcodeNames = map[byte]string{
	0x00: "unreachable",
	0x01: "nop",
	0x02: "block",
	0x03: "loop",
	0x04: "if",
	0x05: "else",
	0x0c: "br",
	0x0d: "br_if",
	0x0e: "br_table",
	0x0f: "return",
	0x11: "call_indirect",
	0x1a: "drop",
	0x1b: "select",
	0x22: "local.tee",
	0x23: "global.get",
	0x24: "global.set",
	0x28: "i32.load",
	0x36: "i32.store",
	0x3f: "memory.size",
	0x40: "memory.grow",
	0x42: "i64.const",
	0x43: "f32.const",
	0x44: "f64.const",
	0x45: "i32.eqz",
	0x47: "i32.ne",
	0x4a: "i32.gt_s",
	0x4b: "i32.gt_u",
	0x4c: "i32.le_s",
	0x4d: "i32.le_u",
	0x4e: "i32.ge_s",
	0x4f: "i32.ge_u",
	0x6a: "i32.add",
	0x6b: "i32.sub",
	0x6c: "i32.mul",
	0x6d: "i32.div_s",
	0x6e: "i32.div_u",
	0x6f: "i32.rem_s",
	0x70: "i32.rem_u",
}
