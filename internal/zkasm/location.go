package zkasm

// ValType is the Wasm value type carried on a Local. The current core
// treats every value as a 32-bit integer; the field is carried for parity
// with the source format and for future type-aware lowering, but no
// lowering rule inspects it yet.
type ValType int

const (
	ValI32 ValType = iota
	ValI64
	ValF32
	ValF64
)

// LocationKind tags which variant of Location a value holds.
type LocationKind int

const (
	// LocStack means the local's home is an absolute offset on the
	// compile-time operand stack, resolved to an SP-relative address at
	// emission time via stack_depth.
	LocStack LocationKind = iota
	// LocRegister means the local lives permanently in a register.
	// Nothing in this codegen currently assigns this variant (no register
	// allocator precedes codegen), but LocalTable carries it because the
	// Location contract names it and a future allocator may populate it.
	LocRegister
	// LocUninitialized means the local has never been written. Reading it
	// is a fatal error; writing it commits its home as LocStack at the
	// current stack_depth (first-write-is-tee).
	LocUninitialized
)

// Location is a tagged variant describing where a local currently lives.
type Location struct {
	Kind   LocationKind
	Offset int32    // valid when Kind == LocStack
	Reg    Register // valid when Kind == LocRegister
}

// StackLocation builds a Location pointing at an absolute stack offset.
func StackLocation(offset int32) Location {
	return Location{Kind: LocStack, Offset: offset}
}

// RegisterLocation builds a Location pinned to a register.
func RegisterLocation(r Register) Location {
	return Location{Kind: LocRegister, Reg: r}
}

// UninitializedLocation is the Location every local starts in.
func UninitializedLocation() Location {
	return Location{Kind: LocUninitialized}
}

// Local is one entry of a function's local table: its current Location
// and its declared Wasm value type.
type Local struct {
	Location Location
	Type     ValType
}

// LocalTable is the ordered, indexable set of a function body's declared
// locals, flattened from their (count, type) declaration groups. Function
// parameters are not included, so indices match the operator stream's
// local.get/local.set indices only for functions without parameters.
type LocalTable struct {
	locals []Local
}

// NewLocalTable builds a LocalTable from (count, type) declaration groups,
// in declaration order, with every slot starting Uninitialized.
func NewLocalTable(groups []LocalGroup) *LocalTable {
	t := &LocalTable{}
	for _, g := range groups {
		for i := uint32(0); i < g.Count; i++ {
			t.locals = append(t.locals, Local{Location: UninitializedLocation(), Type: g.Type})
		}
	}
	return t
}

// LocalGroup is one (count, type) run as declared in a Wasm function body's
// local-declarations section.
type LocalGroup struct {
	Count uint32
	Type  ValType
}

// KindOf returns the Wasm value type of the local at index, or an
// out-of-range error. This is a fatal-bug category: a validated Wasm
// module never references an out-of-range local index.
func (t *LocalTable) KindOf(index uint32) (ValType, error) {
	if index >= uint32(len(t.locals)) {
		return 0, ErrLocalIndexOutOfRange(index)
	}
	return t.locals[index].Type, nil
}

// LocationOf returns the current Location of the local at index.
func (t *LocalTable) LocationOf(index uint32) (Location, error) {
	if index >= uint32(len(t.locals)) {
		return Location{}, ErrLocalIndexOutOfRange(index)
	}
	return t.locals[index].Location, nil
}

// SetLocation updates the Location of the local at index.
func (t *LocalTable) SetLocation(index uint32, loc Location) error {
	if index >= uint32(len(t.locals)) {
		return ErrLocalIndexOutOfRange(index)
	}
	t.locals[index].Location = loc
	return nil
}

// Len returns the number of locals in the table.
func (t *LocalTable) Len() int { return len(t.locals) }
