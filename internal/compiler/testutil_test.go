package compiler_test

import (
	"testing"

	"github.com/aborg-dev/zkwasm/internal/leb128"
)

// This file assembles minimal Wasm 1.0 binaries by hand, since no
// WAT-to-Wasm assembler library is available in the retrieval pack. Each
// helper writes exactly the bytes the Wasm binary format
// spec defines for the construct it names.

func encodeName(s string) []byte {
	b := leb128.EncodeUint32(uint32(len(s)))
	return append(b, []byte(s)...)
}

func funcType(params, results []byte) []byte {
	b := []byte{0x60}
	b = append(b, leb128.EncodeUint32(uint32(len(params)))...)
	b = append(b, params...)
	b = append(b, leb128.EncodeUint32(uint32(len(results)))...)
	b = append(b, results...)
	return b
}

func section(id byte, payload []byte) []byte {
	b := []byte{id}
	b = append(b, leb128.EncodeUint32(uint32(len(payload)))...)
	return append(b, payload...)
}

// buildModule assembles a module exporting a single function "run" with
// the given body, optionally importing a one-argument "env"."assert" host
// function (func index 0, bumping "run" to func index 1).
func buildModule(t *testing.T, results []byte, withAssertImport bool, body []byte) []byte {
	t.Helper()

	runType := funcType(nil, results)
	var typePayload []byte
	typePayload = append(typePayload, leb128.EncodeUint32(1+boolToU32(withAssertImport))...)
	typePayload = append(typePayload, runType...)
	if withAssertImport {
		typePayload = append(typePayload, funcType([]byte{0x7f}, nil)...)
	}

	runFuncIndex := uint32(0)
	var importPayload []byte
	if withAssertImport {
		importPayload = append(importPayload, leb128.EncodeUint32(1)...)
		importPayload = append(importPayload, encodeName("env")...)
		importPayload = append(importPayload, encodeName("assert")...)
		importPayload = append(importPayload, 0x00) // import kind: func
		importPayload = append(importPayload, leb128.EncodeUint32(1)...)
		runFuncIndex = 1
	}

	funcPayload := append(leb128.EncodeUint32(1), leb128.EncodeUint32(0)...) // one function, type index 0

	var exportPayload []byte
	exportPayload = append(exportPayload, leb128.EncodeUint32(1)...)
	exportPayload = append(exportPayload, encodeName("run")...)
	exportPayload = append(exportPayload, 0x00) // export kind: func
	exportPayload = append(exportPayload, leb128.EncodeUint32(runFuncIndex)...)

	var codePayload []byte
	codePayload = append(codePayload, leb128.EncodeUint32(1)...)
	codePayload = append(codePayload, leb128.EncodeUint32(uint32(len(body)))...)
	codePayload = append(codePayload, body...)

	var mod []byte
	mod = append(mod, 0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00)
	mod = append(mod, section(0x01, typePayload)...)
	if withAssertImport {
		mod = append(mod, section(0x02, importPayload)...)
	}
	mod = append(mod, section(0x03, funcPayload)...)
	mod = append(mod, section(0x07, exportPayload)...)
	mod = append(mod, section(0x0a, codePayload)...)
	return mod
}

// buildCodeOnlyModule assembles a module containing nothing but a code
// section with the given bodies appended verbatim (each already including
// its local-declaration prefix and trailing 0x0b). It is only useful for
// exercising the decoder/driver directly, since it has no type, function,
// or export sections a real Wasm engine could instantiate.
func buildCodeOnlyModule(t *testing.T, bodies ...[]byte) []byte {
	t.Helper()
	var code []byte
	code = append(code, leb128.EncodeUint32(uint32(len(bodies)))...)
	for _, b := range bodies {
		code = append(code, leb128.EncodeUint32(uint32(len(b)))...)
		code = append(code, b...)
	}
	var mod []byte
	mod = append(mod, 0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00)
	mod = append(mod, section(0x0a, code)...)
	return mod
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func concatOps(chunks ...[]byte) []byte {
	var b []byte
	for _, c := range chunks {
		b = append(b, c...)
	}
	b = append(b, 0x0b) // end
	return b
}

func noLocalsBody(chunks ...[]byte) []byte {
	return append([]byte{0x00}, concatOps(chunks...)...)
}

func oneI32LocalBody(chunks ...[]byte) []byte {
	locals := []byte{0x01, 0x01, 0x7f} // 1 group, count 1, i32
	return append(locals, concatOps(chunks...)...)
}

func i32Const(v int32) []byte {
	return append([]byte{0x41}, leb128.EncodeInt32(v)...)
}

func localOp(opcode byte, index uint32) []byte {
	return append([]byte{opcode}, leb128.EncodeUint32(index)...)
}

func callOp(index uint32) []byte {
	return append([]byte{0x10}, leb128.EncodeUint32(index)...)
}

var (
	i32Add = []byte{0x6a}
	i32Sub = []byte{0x6b}
	i32Eq  = []byte{0x46}
	i32Mul = []byte{0x6c}
)

func localGet(index uint32) []byte { return localOp(0x20, index) }
func localSet(index uint32) []byte { return localOp(0x21, index) }
