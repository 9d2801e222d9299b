// Package wasmbin is a minimal WebAssembly 1.0 binary-format reader: just
// enough section framing and operator decoding to drive
// internal/zkasm.Codegen over a module's code section. It is not a
// validator; malformed, non-validated input can panic or return a decode
// error, matching spec.md §1's framing of the Wasm parser as an external
// collaborator this repository does not need to harden beyond its own use.
package wasmbin

import "github.com/aborg-dev/zkwasm/internal/zkasm"

// Magic and version bytes every Wasm binary must start with.
var (
	Magic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	Version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// SectionID is a Wasm 1.0 section discriminant.
type SectionID byte

const (
	SectionCustom    SectionID = 0
	SectionType      SectionID = 1
	SectionImport    SectionID = 2
	SectionFunction  SectionID = 3
	SectionTable     SectionID = 4
	SectionMemory    SectionID = 5
	SectionGlobal    SectionID = 6
	SectionExport    SectionID = 7
	SectionStart     SectionID = 8
	SectionElement   SectionID = 9
	SectionCode      SectionID = 10
	SectionData      SectionID = 11
	SectionDataCount SectionID = 12
)

// CodeSectionEntry is one function body from the code section: its local
// declaration groups (flattened by NewLocalTable) and its operator stream,
// already fully decoded into Operator values.
type CodeSectionEntry struct {
	Locals    []zkasm.LocalGroup
	Operators []Operator
}

// Module is the subset of a decoded Wasm module this package yields:
// every other section (type, import, function, table, memory, global,
// export, start, element, data) is parsed only far enough to be skipped,
// mirroring original_source/src/codegen.rs's `parse` match arms, which act
// on CodeSectionEntry and ignore everything else.
type Module struct {
	CodeEntries []CodeSectionEntry
}
