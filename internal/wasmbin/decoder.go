package wasmbin

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aborg-dev/zkwasm/internal/leb128"
	"github.com/aborg-dev/zkwasm/internal/zkasm"
)

// ParseError reports a failure to decode the Wasm binary itself (as
// opposed to a zkasm.CompileError, which reports a failure to lower an
// otherwise well-formed operator stream). It corresponds to spec.md §7's
// ParseError and IoError categories.
type ParseError struct {
	msg     string
	wrapped error
}

func (e *ParseError) Error() string { return e.msg }
func (e *ParseError) Unwrap() error { return e.wrapped }

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

func wrapParseError(msg string, err error) *ParseError {
	return &ParseError{msg: fmt.Sprintf("%s: %v", msg, err), wrapped: err}
}

// Decode reads a Wasm binary module and returns the subset of it this
// package models: the code section's function bodies, each fully decoded
// into local-declaration groups and an operator stream.
//
// Decode does not validate the module against the Wasm spec's type system;
// it only decodes section framing, the fixed set of opcodes Codegen lowers,
// and every other named opcode in opcodeNames by skipping its immediate's
// known byte shape (see skipImmediate), so that an operator Codegen has no
// lowering for still decodes as OpOther and is reported as
// UnsupportedOperator by the codegen rather than aborting the whole parse.
// An opcode absent from opcodeNames fails with a ParseError; exhaustive
// coverage of every Wasm 1.0 opcode is out of scope (see DESIGN.md).
func Decode(data []byte) (*Module, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, wrapParseError("reading magic", err)
	}
	if magic != Magic {
		return nil, parseErrorf("not a Wasm binary: bad magic %x", magic)
	}
	var version [4]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, wrapParseError("reading version", err)
	}
	if version != Version {
		return nil, parseErrorf("unsupported Wasm version %x", version)
	}

	mod := &Module{}
	for r.Len() > 0 {
		idByte, err := r.ReadByte()
		if err != nil {
			return nil, wrapParseError("reading section id", err)
		}
		id := SectionID(idByte)

		size, _, err := readU32(r)
		if err != nil {
			return nil, wrapParseError("reading section size", err)
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, wrapParseError("reading section payload", err)
		}

		if id == SectionCode {
			entries, err := decodeCodeSection(payload)
			if err != nil {
				return nil, err
			}
			mod.CodeEntries = append(mod.CodeEntries, entries...)
		}
		// Every other section (custom, type, import, function, table,
		// memory, global, export, start, element, data, data count) is a
		// no-op: this package mirrors original_source/src/codegen.rs's
		// `parse` match arms, which ignore every payload variant except
		// CodeSectionEntry.
	}
	return mod, nil
}

func decodeCodeSection(payload []byte) ([]CodeSectionEntry, error) {
	r := bytes.NewReader(payload)
	count, _, err := readU32(r)
	if err != nil {
		return nil, wrapParseError("reading code section function count", err)
	}

	entries := make([]CodeSectionEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		bodySize, _, err := readU32(r)
		if err != nil {
			return nil, wrapParseError("reading function body size", err)
		}
		body := make([]byte, bodySize)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, wrapParseError("reading function body", err)
		}
		entry, err := decodeFunctionBody(body)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeFunctionBody(body []byte) (CodeSectionEntry, error) {
	r := bytes.NewReader(body)

	groupCount, _, err := readU32(r)
	if err != nil {
		return CodeSectionEntry{}, wrapParseError("reading local group count", err)
	}
	groups := make([]zkasm.LocalGroup, 0, groupCount)
	for i := uint32(0); i < groupCount; i++ {
		n, _, err := readU32(r)
		if err != nil {
			return CodeSectionEntry{}, wrapParseError("reading local group count field", err)
		}
		vt, err := readValType(r)
		if err != nil {
			return CodeSectionEntry{}, err
		}
		groups = append(groups, zkasm.LocalGroup{Count: n, Type: vt})
	}

	ops, err := decodeOperators(r)
	if err != nil {
		return CodeSectionEntry{}, err
	}
	return CodeSectionEntry{Locals: groups, Operators: ops}, nil
}

func readValType(r *bytes.Reader) (zkasm.ValType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, wrapParseError("reading value type", err)
	}
	switch b {
	case 0x7f:
		return zkasm.ValI32, nil
	case 0x7e:
		return zkasm.ValI64, nil
	case 0x7d:
		return zkasm.ValF32, nil
	case 0x7c:
		return zkasm.ValF64, nil
	default:
		return 0, parseErrorf("unknown value type byte 0x%x", b)
	}
}

func readU32(r *bytes.Reader) (uint32, uint64, error) {
	buf, err := peekLEB(r)
	if err != nil {
		return 0, 0, err
	}
	v, n, err := leb128.LoadUint32(buf)
	if err != nil {
		return 0, 0, err
	}
	if _, err := r.Seek(int64(n), io.SeekCurrent); err != nil {
		return 0, 0, err
	}
	return v, n, nil
}

func readI32(r *bytes.Reader) (int32, error) {
	buf, err := peekLEB(r)
	if err != nil {
		return 0, err
	}
	v, n, err := leb128.LoadInt32(buf)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(int64(n), io.SeekCurrent); err != nil {
		return 0, err
	}
	return v, nil
}

func readI64(r *bytes.Reader) (int64, error) {
	buf, err := peekLEB(r)
	if err != nil {
		return 0, err
	}
	v, n, err := leb128.LoadInt64(buf)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(int64(n), io.SeekCurrent); err != nil {
		return 0, err
	}
	return v, nil
}

// peekLEB returns up to the next 10 bytes (the longest an LEB128 value can
// be) from r without advancing it, so the leb128 package's buffer-oriented
// API can decode directly from the reader's remaining bytes.
func peekLEB(r *bytes.Reader) ([]byte, error) {
	remaining := r.Len()
	if remaining == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	n := remaining
	if n > 10 {
		n = 10
	}
	buf := make([]byte, n)
	pos, _ := r.Seek(0, io.SeekCurrent)
	if _, err := r.ReadAt(buf, pos); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// decodeOperators drains a function body's operator stream (everything
// after the local declarations) into a slice of Operator, stopping at the
// function-ending `end` opcode (0x0b).
func decodeOperators(r *bytes.Reader) ([]Operator, error) {
	var ops []Operator
	for r.Len() > 0 {
		opByte, err := r.ReadByte()
		if err != nil {
			return nil, wrapParseError("reading opcode", err)
		}
		switch opByte {
		case 0x0b: // end
			ops = append(ops, Operator{Kind: OpEnd})
			return ops, nil
		case 0x41: // i32.const
			v, err := readI32(r)
			if err != nil {
				return nil, wrapParseError("reading i32.const immediate", err)
			}
			ops = append(ops, Operator{Kind: OpI32Const, I32Value: v})
		case 0x20: // local.get
			idx, _, err := readU32(r)
			if err != nil {
				return nil, wrapParseError("reading local.get index", err)
			}
			ops = append(ops, Operator{Kind: OpLocalGet, LocalIndex: idx})
		case 0x21: // local.set
			idx, _, err := readU32(r)
			if err != nil {
				return nil, wrapParseError("reading local.set index", err)
			}
			ops = append(ops, Operator{Kind: OpLocalSet, LocalIndex: idx})
		case 0x10: // call
			idx, _, err := readU32(r)
			if err != nil {
				return nil, wrapParseError("reading call function index", err)
			}
			ops = append(ops, Operator{Kind: OpCall, FunctionIndex: idx})
		case 0x6a:
			ops = append(ops, Operator{Kind: OpI32Add})
		case 0x6b:
			ops = append(ops, Operator{Kind: OpI32Sub})
		case 0x71:
			ops = append(ops, Operator{Kind: OpI32And})
		case 0x72:
			ops = append(ops, Operator{Kind: OpI32Or})
		case 0x73:
			ops = append(ops, Operator{Kind: OpI32Xor})
		case 0x46:
			ops = append(ops, Operator{Kind: OpI32Eq})
		case 0x48:
			ops = append(ops, Operator{Kind: OpI32LtS})
		case 0x49:
			ops = append(ops, Operator{Kind: OpI32LtU})
		default:
			name, known := opcodeNames[opByte]
			if !known {
				return nil, parseErrorf("unknown opcode 0x%02x", opByte)
			}
			if err := skipImmediate(r, opByte); err != nil {
				return nil, wrapParseError(fmt.Sprintf("reading %s immediate", name), err)
			}
			ops = append(ops, Operator{Kind: OpOther, RawName: name})
		}
	}
	return nil, wrapParseError("reading operator stream", io.ErrUnexpectedEOF)
}

// skipImmediate advances r past opByte's immediate operand(s), for every
// opcode this decoder recognizes by name (opcodeNames) but has no Codegen
// lowering for. spec.md §4.3 requires that every one of these still
// produce a named UnsupportedOperator once Codegen.VisitUnsupported sees
// it, so the immediate must be consumed here rather than aborting the
// parse with a decode-layer error.
func skipImmediate(r *bytes.Reader, opByte byte) error {
	switch opByte {
	case 0x00, // unreachable
		0x01, // nop
		0x05, // else
		0x0f, // return
		0x1a, // drop
		0x1b, // select
		0x45, // i32.eqz
		0x47, // i32.ne
		0x4a, // i32.gt_s
		0x4b, // i32.gt_u
		0x4c, // i32.le_s
		0x4d, // i32.le_u
		0x4e, // i32.ge_s
		0x4f, // i32.ge_u
		0x6c, // i32.mul
		0x6d, // i32.div_s
		0x6e, // i32.div_u
		0x6f, // i32.rem_s
		0x70: // i32.rem_u
		return nil
	case 0x02, 0x03, 0x04: // block, loop, if: blocktype (s33)
		_, _, err := leb128.DecodeInt33AsInt64(r)
		return err
	case 0x0c, 0x0d, 0x22, 0x23, 0x24: // br, br_if, local.tee, global.get, global.set: one index
		_, _, err := readU32(r)
		return err
	case 0x0e: // br_table: vec(labelidx) followed by the default labelidx
		count, _, err := readU32(r)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			if _, _, err := readU32(r); err != nil {
				return err
			}
		}
		_, _, err = readU32(r)
		return err
	case 0x11: // call_indirect: typeidx, then a reserved tableidx byte
		if _, _, err := readU32(r); err != nil {
			return err
		}
		_, _, err := readU32(r)
		return err
	case 0x28, 0x36: // i32.load, i32.store: memarg (align, offset)
		if _, _, err := readU32(r); err != nil {
			return err
		}
		_, _, err := readU32(r)
		return err
	case 0x3f, 0x40: // memory.size, memory.grow: reserved memidx byte
		_, _, err := readU32(r)
		return err
	case 0x42: // i64.const: signed LEB128 i64
		_, err := readI64(r)
		return err
	case 0x43: // f32.const: 4 raw bytes
		var b [4]byte
		_, err := io.ReadFull(r, b[:])
		return err
	case 0x44: // f64.const: 8 raw bytes
		var b [8]byte
		_, err := io.ReadFull(r, b[:])
		return err
	default:
		return fmt.Errorf("no known immediate shape for opcode 0x%02x", opByte)
	}
}
