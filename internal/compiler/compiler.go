// Package compiler is the module driver: it wires internal/wasmbin's
// decoder to internal/zkasm's codegen, the way
// original_source/src/codegen.rs's `parse` function and
// oisee-minz/minzc/cmd/minzc/main.go's `compile(sourceFile string) error`
// both drive parse-then-generate over a single input.
package compiler

import (
	"errors"
	"fmt"

	"github.com/aborg-dev/zkwasm/internal/logging"
	"github.com/aborg-dev/zkwasm/internal/wasmbin"
	"github.com/aborg-dev/zkwasm/internal/zkasm"
	"go.uber.org/zap"
)

// ErrMultipleFunctions is returned when a module's code section has more
// than one entry. spec.md §9 leaves multi-function modules an open
// question with no call convention designed; rather than silently emit a
// second illegal "start:" label, this driver refuses the input outright,
// consistent with spec.md §7's "no partial output on failure" policy (see
// DESIGN.md's Open Question decision).
var ErrMultipleFunctions = errors.New("compiler: modules with more than one function are not supported")

// Compiler drives decode-then-lower over Wasm modules, carrying ambient
// state (its logger, how many function bodies it has compiled so far)
// across calls the way oisee-minz/minzc/cmd/minzc/main.go's package-level
// flag vars carry CLI state across a run.
type Compiler struct {
	logger   *zap.Logger
	compiled int
}

// NewCompiler constructs a Compiler using the shared package logger.
func NewCompiler() *Compiler {
	return &Compiler{logger: logging.L()}
}

// Compiled returns how many function bodies this Compiler has lowered.
func (c *Compiler) Compiled() int { return c.compiled }

// Compile decodes a Wasm binary module and lowers its single function body
// to zkASM text, appending the fixed trailer once. It returns
// ErrMultipleFunctions if the module declares more than one function body.
func (c *Compiler) Compile(wasmBytes []byte) (string, error) {
	mod, err := wasmbin.Decode(wasmBytes)
	if err != nil {
		return "", fmt.Errorf("decoding wasm module: %w", err)
	}

	if len(mod.CodeEntries) > 1 {
		return "", ErrMultipleFunctions
	}
	if len(mod.CodeEntries) == 0 {
		return zkasm.Trailer, nil
	}

	c.logger.Debug("compiling function", zap.Int("locals", len(mod.CodeEntries[0].Locals)), zap.Int("operators", len(mod.CodeEntries[0].Operators)))

	program, err := compileFunction(mod.CodeEntries[0], true)
	if err != nil {
		return "", fmt.Errorf("compiling function: %w", err)
	}

	c.compiled++
	return program + zkasm.Trailer, nil
}

// Compile is a convenience wrapper around a fresh Compiler, for one-shot
// callers that don't need to track compiled-function counts across calls.
func Compile(wasmBytes []byte) (string, error) {
	return NewCompiler().Compile(wasmBytes)
}

// compileFunction lowers one CodeSectionEntry, dispatching each decoded
// operator to the matching zkasm.Codegen method, the role
// wasmparser's generic operator dispatch plays in
// original_source/src/codegen.rs.
func compileFunction(entry wasmbin.CodeSectionEntry, emitStartLabel bool) (string, error) {
	locals := zkasm.NewLocalTable(entry.Locals)
	cg := zkasm.NewCodegen(locals, emitStartLabel)

	for _, op := range entry.Operators {
		var err error
		switch op.Kind {
		case wasmbin.OpI32Const:
			err = cg.VisitI32Const(op.I32Value)
		case wasmbin.OpLocalGet:
			err = cg.VisitLocalGet(op.LocalIndex)
		case wasmbin.OpLocalSet:
			err = cg.VisitLocalSet(op.LocalIndex)
		case wasmbin.OpI32Add:
			err = cg.VisitI32Add()
		case wasmbin.OpI32Sub:
			err = cg.VisitI32Sub()
		case wasmbin.OpI32And:
			err = cg.VisitI32And()
		case wasmbin.OpI32Or:
			err = cg.VisitI32Or()
		case wasmbin.OpI32Xor:
			err = cg.VisitI32Xor()
		case wasmbin.OpI32Eq:
			err = cg.VisitI32Eq()
		case wasmbin.OpI32LtS:
			err = cg.VisitI32LtS()
		case wasmbin.OpI32LtU:
			err = cg.VisitI32LtU()
		case wasmbin.OpCall:
			err = cg.VisitCall(op.FunctionIndex)
		case wasmbin.OpEnd:
			err = cg.VisitEnd()
		case wasmbin.OpOther:
			err = cg.VisitUnsupported(op.RawName)
		default:
			err = cg.VisitUnsupported(fmt.Sprintf("kind(%d)", op.Kind))
		}
		if err != nil {
			return "", err
		}
	}

	return cg.Finalize(), nil
}
