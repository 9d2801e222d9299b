package zkasm

// Codegen is the per-function compiler state: an Assembler accumulating
// output, the function's LocalTable, and the compile-time operand-stack
// depth counter. Its Visit* methods implement spec.md §4.3's lowering rule
// for each supported operator; something external (internal/compiler)
// drives the calls, one per decoded operator, the way wasmparser's generic
// operator dispatch drove original_source/src/codegen.rs's
// ZkCodegenVisitor. Keeping the dispatch outside this package (rather than
// having Codegen import the decoder's operator type) keeps the decoder and
// the codegen independent of each other, matching
// tetratelabs-wazero/internal/engine/compiler/compiler.go's one-method-per-
// operation interface shape.
type Codegen struct {
	asm    *Assembler
	locals *LocalTable
	depth  int32

	startEmitted bool
}

// NewCodegen constructs a Codegen over locals, emitting the function's
// entry label immediately (the "start:" label is only emitted once, by
// whichever Codegen the compiler driver treats as the module's entry
// function).
func NewCodegen(locals *LocalTable, emitStartLabel bool) *Codegen {
	c := &Codegen{asm: NewAssembler(), locals: locals}
	if emitStartLabel {
		c.asm.Label("start")
		c.startEmitted = true
	}
	return c
}

// VisitI32Const lowers i32.const.
func (c *Codegen) VisitI32Const(v int32) error {
	c.asm.PushConst(v)
	c.depth++
	return nil
}

// VisitLocalGet lowers local.get per spec.md §4.3: a Stack-resident local
// loads through E at its SP-relative address (recomputed against the
// current stack_depth on every access, since depth changes between
// accesses); a Register-resident local's value is pushed directly;
// reading an Uninitialized local is fatal.
func (c *Codegen) VisitLocalGet(index uint32) error {
	loc, err := c.locals.LocationOf(index)
	if err != nil {
		return err
	}
	switch loc.Kind {
	case LocStack:
		c.asm.LoadFrom(RegE, loc.Offset-c.depth)
		c.asm.PushReg(RegE)
		c.depth++
	case LocRegister:
		c.asm.PushReg(loc.Reg)
		c.depth++
	case LocUninitialized:
		return ErrUninitializedLocalRead(index)
	}
	return nil
}

// VisitLocalSet lowers local.set per spec.md §4.3. The Stack case computes
// the store address *after* popping (the pop already decremented depth, so
// the address reflects the post-pop depth, matching original_source's
// `stack_pop` before `stack_set`). The Uninitialized case commits the
// local's home as the post-pop stack_depth and then re-pushes through E,
// giving local.set-of-an-uninitialized-local local.tee semantics on its
// first write.
func (c *Codegen) VisitLocalSet(index uint32) error {
	loc, err := c.locals.LocationOf(index)
	if err != nil {
		return err
	}
	switch loc.Kind {
	case LocStack:
		c.asm.Pop(RegE)
		c.depth--
		c.asm.StoreTo(RegE, loc.Offset-c.depth)
	case LocRegister:
		c.asm.Pop(loc.Reg)
		c.depth--
	case LocUninitialized:
		c.asm.Pop(RegE)
		c.depth--
		if err := c.locals.SetLocation(index, StackLocation(c.depth)); err != nil {
			return err
		}
		c.asm.PushReg(RegE)
		c.depth++
	}
	return nil
}

// visitBinOp implements the shared pop-pop-op-push shape all eight binary
// operators use: the Wasm top-of-stack value lands in A, the value beneath
// it in B, and `op` consumes both (via the "$" accumulator convention) to
// produce a result in A. For non-commutative operators (sub, lt_s, lt_u)
// this ordering yields `B op A`, i.e. (second-from-top) op (top), which is
// exactly Wasm's `a - b` with a below b on the stack.
func (c *Codegen) visitBinOp(op BinOp) error {
	c.asm.Pop(RegA)
	c.depth--
	c.asm.Pop(RegB)
	c.depth--
	c.asm.BinOp(op, RegA)
	c.asm.PushReg(RegA)
	c.depth++
	return nil
}

func (c *Codegen) VisitI32Add() error { return c.visitBinOp(OpAdd) }
func (c *Codegen) VisitI32Sub() error { return c.visitBinOp(OpSub) }
func (c *Codegen) VisitI32And() error { return c.visitBinOp(OpAnd) }
func (c *Codegen) VisitI32Or() error  { return c.visitBinOp(OpOr) }
func (c *Codegen) VisitI32Xor() error { return c.visitBinOp(OpXor) }
func (c *Codegen) VisitI32Eq() error  { return c.visitBinOp(OpEq) }
func (c *Codegen) VisitI32LtS() error { return c.visitBinOp(OpSlt) }
func (c *Codegen) VisitI32LtU() error { return c.visitBinOp(OpLt) }

// VisitCall lowers the single supported `call` target, the one-argument
// host `assert` import: pop the asserted value into A and assert it
// directly, per spec.md §8's one-argument convention (see DESIGN.md's Open
// Question decision). The function index is not inspected; this core
// does not support calling anything else.
func (c *Codegen) VisitCall(functionIndex uint32) error {
	c.asm.Pop(RegA)
	c.depth--
	c.asm.AssertReg(RegA)
	return nil
}

// VisitEnd lowers `end`: no emission, matching
// original_source/src/codegen.rs's visit_end.
func (c *Codegen) VisitEnd() error { return nil }

// VisitUnsupported reports an operator this codegen does not implement a
// lowering for. It is always fatal; the caller must discard any output
// accumulated for the current function.
func (c *Codegen) VisitUnsupported(name string) error {
	return ErrUnsupportedOperator(name)
}

// Finalize returns the function's zkASM text.
func (c *Codegen) Finalize() string {
	return c.asm.Finalize()
}

// StackDepth returns the current compile-time operand-stack depth. Tests
// use this to check property P1: at function end the depth equals the
// number of values the body leaves on the operand stack.
func (c *Codegen) StackDepth() int32 { return c.depth }
