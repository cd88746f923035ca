package reactor

import "fmt"

// Resolver satisfies external symbol calls a built function makes. It is
// supplied by the application; an unresolved name fails the build
// (spec.md §4.B, "External symbol resolution").
type Resolver func(name string) (fn uintptr, ok bool)

// Backend lowers a finished Builder to a Routine. The two concrete
// implementations (reactor/backend/asm, reactor/backend/opt) satisfy
// this; they differ only in code quality vs build latency, never in
// observable behavior, which is what the cache-hit property in
// spec.md §8 depends on.
type Backend interface {
	Lower(b *Builder, name string, resolver Resolver) (*Routine, error)
}

// OptLevel selects which optimization passes run before lowering.
type OptLevel uint8

const (
	OptNone OptLevel = iota
	OptLess
	OptDefault
	OptAggressive
)

// Builder accumulates a typed SSA-like expression graph for a single
// function, starting from Begin and ending at Emit. Programmer errors —
// type mismatches, using a Value from a different Builder — abort via
// panic, matching spec.md §4.B's "construction-time type mismatches are
// programmer errors and abort."
type Builder struct {
	arena    arena
	args     []Type
	ops      []int // op stream in emission order, indices into arena.defs
	final    bool
	optLevel OptLevel
}

// Begin starts a new function with the given argument types. The
// returned Values are the function's formal parameters, valid for the
// lifetime of the Builder.
func Begin(argTypes ...Type) (*Builder, []Value) {
	b := &Builder{args: argTypes}
	args := make([]Value, len(argTypes))
	for i, t := range argTypes {
		v := b.arena.alloc(valueDef{op: OpArg, typ: t, imm: i})
		b.ops = append(b.ops, v.id)
		args[i] = v
	}
	return b, args
}

// SetOptLevel records the optimization level a backend should apply;
// backends that ignore optimization (e.g. a debug-speed backend) may
// treat this as advisory.
func (b *Builder) SetOptLevel(level OptLevel) {
	b.checkOpen()
	b.optLevel = level
}

func (b *Builder) checkOpen() {
	if b.final {
		panic("reactor: builder used after Emit")
	}
}

func (b *Builder) push(d valueDef) Value {
	b.checkOpen()
	v := b.arena.alloc(d)
	b.ops = append(b.ops, v.id)
	return v
}

func requireType(v Value, want Type, ctx string) {
	if v.typ != want {
		panic(fmt.Sprintf("reactor: %s expects %s, got %s", ctx, want, v.typ))
	}
}

func requireSameType(a, b Value, ctx string) {
	if a.typ != b.typ {
		panic(fmt.Sprintf("reactor: %s operand type mismatch: %s vs %s", ctx, a.typ, b.typ))
	}
}

func requireNumeric(v Value, ctx string) {
	switch v.typ {
	case TypeInt32, TypeFloat32, TypeInt4, TypeFloat4:
		return
	}
	panic(fmt.Sprintf("reactor: %s expects a numeric type, got %s", ctx, v.typ))
}

// --- Constants ---

func (b *Builder) ConstInt(v int32) Value {
	return b.push(valueDef{op: OpConstInt, typ: TypeInt32, imm: v})
}

func (b *Builder) ConstFloat(v float32) Value {
	return b.push(valueDef{op: OpConstFloat, typ: TypeFloat32, imm: v})
}

func (b *Builder) ConstBool(v bool) Value {
	return b.push(valueDef{op: OpConstBool, typ: TypeBool, imm: v})
}

// --- Arithmetic ---

func (b *Builder) binary(op Op, x, y Value, ctx string) Value {
	requireNumeric(x, ctx)
	requireSameType(x, y, ctx)
	return b.push(valueDef{op: op, typ: x.typ, operands: []int{x.id, y.id}})
}

func (b *Builder) Add(x, y Value) Value { return b.binary(OpAdd, x, y, "Add") }
func (b *Builder) Sub(x, y Value) Value { return b.binary(OpSub, x, y, "Sub") }
func (b *Builder) Mul(x, y Value) Value { return b.binary(OpMul, x, y, "Mul") }
func (b *Builder) Div(x, y Value) Value { return b.binary(OpDiv, x, y, "Div") }
func (b *Builder) Rem(x, y Value) Value { return b.binary(OpRem, x, y, "Rem") }
func (b *Builder) Min(x, y Value) Value { return b.binary(OpMin, x, y, "Min") }
func (b *Builder) Max(x, y Value) Value { return b.binary(OpMax, x, y, "Max") }

func (b *Builder) Neg(x Value) Value {
	requireNumeric(x, "Neg")
	return b.push(valueDef{op: OpNeg, typ: x.typ, operands: []int{x.id}})
}

// --- Comparison ---

// compareResultType returns Bool for scalar operands and Int4 (a lane
// mask) for SIMD operands, per spec.md §4.B.
func compareResultType(x Value) Type {
	if x.typ.IsSIMD() {
		return TypeInt4
	}
	return TypeBool
}

func (b *Builder) compare(op Op, x, y Value, ctx string) Value {
	requireNumeric(x, ctx)
	requireSameType(x, y, ctx)
	return b.push(valueDef{op: op, typ: compareResultType(x), operands: []int{x.id, y.id}})
}

func (b *Builder) CmpEQ(x, y Value) Value { return b.compare(OpCmpEQ, x, y, "CmpEQ") }
func (b *Builder) CmpNE(x, y Value) Value { return b.compare(OpCmpNE, x, y, "CmpNE") }
func (b *Builder) CmpLT(x, y Value) Value { return b.compare(OpCmpLT, x, y, "CmpLT") }
func (b *Builder) CmpLE(x, y Value) Value { return b.compare(OpCmpLE, x, y, "CmpLE") }
func (b *Builder) CmpGT(x, y Value) Value { return b.compare(OpCmpGT, x, y, "CmpGT") }
func (b *Builder) CmpGE(x, y Value) Value { return b.compare(OpCmpGE, x, y, "CmpGE") }

// ReduceAny collapses a SIMD lane mask to a single bool: true if any
// lane is non-zero. Required before a SIMD comparison can drive an If
// condition.
func (b *Builder) ReduceAny(mask Value) Value {
	if mask.typ != TypeInt4 {
		panic("reactor: ReduceAny expects an Int4 mask")
	}
	return b.push(valueDef{op: OpReduceAny, typ: TypeBool, operands: []int{mask.id}})
}

// ReduceAll collapses a SIMD lane mask to a single bool: true only if
// every lane is non-zero.
func (b *Builder) ReduceAll(mask Value) Value {
	if mask.typ != TypeInt4 {
		panic("reactor: ReduceAll expects an Int4 mask")
	}
	return b.push(valueDef{op: OpReduceAll, typ: TypeBool, operands: []int{mask.id}})
}

// --- Bitwise ---

func (b *Builder) bitwise(op Op, x, y Value, ctx string) Value {
	requireSameType(x, y, ctx)
	return b.push(valueDef{op: op, typ: x.typ, operands: []int{x.id, y.id}})
}

func (b *Builder) And(x, y Value) Value { return b.bitwise(OpAnd, x, y, "And") }
func (b *Builder) Or(x, y Value) Value  { return b.bitwise(OpOr, x, y, "Or") }
func (b *Builder) Xor(x, y Value) Value { return b.bitwise(OpXor, x, y, "Xor") }

func (b *Builder) Not(x Value) Value {
	return b.push(valueDef{op: OpNot, typ: x.typ, operands: []int{x.id}})
}

func (b *Builder) Shl(x, shift Value) Value {
	requireType(shift, TypeInt32, "Shl shift amount")
	return b.push(valueDef{op: OpShl, typ: x.typ, operands: []int{x.id, shift.id}})
}

func (b *Builder) Shr(x, shift Value) Value {
	requireType(shift, TypeInt32, "Shr shift amount")
	return b.push(valueDef{op: OpShr, typ: x.typ, operands: []int{x.id, shift.id}})
}

// --- Memory ---

// AllocaStack reserves a stack slot able to hold a value of type t and
// returns a typed pointer to it.
func (b *Builder) AllocaStack(t Type) Value {
	return b.push(valueDef{op: OpAllocaStack, typ: TypePointer, imm: t})
}

// Load reads a value of type t through a typed pointer.
func (b *Builder) Load(ptr Value, t Type) Value {
	requireType(ptr, TypePointer, "Load")
	return b.push(valueDef{op: OpLoad, typ: t, operands: []int{ptr.id}})
}

// Store writes val through a typed pointer.
func (b *Builder) Store(ptr, val Value) {
	requireType(ptr, TypePointer, "Store")
	b.push(valueDef{op: OpStore, typ: TypeInvalid, operands: []int{ptr.id, val.id}})
}

// PointerOffset computes ptr+byteOffset, preserving the pointer's type.
func (b *Builder) PointerOffset(ptr Value, byteOffset int) Value {
	requireType(ptr, TypePointer, "PointerOffset")
	return b.push(valueDef{op: OpPointerOffset, typ: TypePointer, operands: []int{ptr.id}, imm: byteOffset})
}

// PointerAdd computes ptr+byteOffset where byteOffset is itself a
// runtime TypeInt32 value (unlike PointerOffset's Go-constant form),
// for addresses a codec or sampler generator computes from dynamic
// strides/pitches rather than a fixed struct-field layout.
func (b *Builder) PointerAdd(ptr, byteOffset Value) Value {
	requireType(ptr, TypePointer, "PointerAdd")
	requireType(byteOffset, TypeInt32, "PointerAdd offset")
	return b.push(valueDef{op: OpPointerAdd, typ: TypePointer, operands: []int{ptr.id, byteOffset.id}})
}

// --- SIMD lane manipulation ---

// InsertLane returns a copy of v with lane replaced by scalar.
func (b *Builder) InsertLane(v Value, lane int, scalar Value) Value {
	if !v.typ.IsSIMD() {
		panic("reactor: InsertLane expects a SIMD value")
	}
	requireType(scalar, v.typ.scalarLaneType(), "InsertLane scalar")
	if lane < 0 || lane > 3 {
		panic("reactor: InsertLane lane out of range [0,3]")
	}
	return b.push(valueDef{op: OpInsertLane, typ: v.typ, operands: []int{v.id, scalar.id}, imm: lane})
}

// ExtractLane reads a single scalar lane out of a SIMD value.
func (b *Builder) ExtractLane(v Value, lane int) Value {
	if !v.typ.IsSIMD() {
		panic("reactor: ExtractLane expects a SIMD value")
	}
	if lane < 0 || lane > 3 {
		panic("reactor: ExtractLane lane out of range [0,3]")
	}
	return b.push(valueDef{op: OpExtractLane, typ: v.typ.scalarLaneType(), operands: []int{v.id}, imm: lane})
}

// Swizzle reorders the four lanes of v according to mask (each entry in
// [0,3] selects a source lane).
func (b *Builder) Swizzle(v Value, mask [4]int) Value {
	if !v.typ.IsSIMD() {
		panic("reactor: Swizzle expects a SIMD value")
	}
	return b.push(valueDef{op: OpSwizzle, typ: v.typ, operands: []int{v.id}, imm: mask})
}

// Splat broadcasts a scalar into all four lanes of the corresponding
// SIMD type.
func (b *Builder) Splat(scalar Value) Value {
	var t Type
	switch scalar.typ {
	case TypeInt32:
		t = TypeInt4
	case TypeFloat32:
		t = TypeFloat4
	default:
		panic("reactor: Splat expects a scalar int32 or float32")
	}
	return b.push(valueDef{op: OpSplat, typ: t, operands: []int{scalar.id}})
}

// --- Conversion ---

func (b *Builder) SExt(v Value) Value {
	return b.push(valueDef{op: OpSExt, typ: v.typ, operands: []int{v.id}})
}

func (b *Builder) ZExt(v Value) Value {
	return b.push(valueDef{op: OpZExt, typ: v.typ, operands: []int{v.id}})
}

func (b *Builder) Trunc(v Value) Value {
	return b.push(valueDef{op: OpTrunc, typ: v.typ, operands: []int{v.id}})
}

// IntToFloat converts a scalar or SIMD integer value to the
// corresponding float type.
func (b *Builder) IntToFloat(v Value) Value {
	t := TypeFloat32
	if v.typ.IsSIMD() {
		t = TypeFloat4
	}
	return b.push(valueDef{op: OpIntToFloat, typ: t, operands: []int{v.id}})
}

// FloatToInt converts a scalar or SIMD float value to the corresponding
// integer type, truncating toward zero.
func (b *Builder) FloatToInt(v Value) Value {
	t := TypeInt32
	if v.typ.IsSIMD() {
		t = TypeInt4
	}
	return b.push(valueDef{op: OpFloatToInt, typ: t, operands: []int{v.id}})
}

// --- Calls ---

// Call invokes an externally resolved native function by name, passing
// args, and yields a value of the given return type (TypeInvalid for a
// void call).
func (b *Builder) Call(name string, retType Type, args ...Value) Value {
	ids := make([]int, len(args))
	for i, a := range args {
		ids[i] = a.id
	}
	return b.push(valueDef{op: OpCall, typ: retType, operands: ids, imm: name})
}

// Return sets the routine's result word and ends the function. A
// Builder with no Return yields zero on every call.
func (b *Builder) Return(v Value) {
	b.push(valueDef{op: OpReturn, typ: TypeInvalid, operands: []int{v.id}})
}

// --- Structured control flow ---

// If opens a conditional block; cond must be TypeBool (reduce a SIMD
// mask first). Call Else or EndIf to close it. Blocks nest freely.
func (b *Builder) If(cond Value) {
	requireType(cond, TypeBool, "If")
	b.push(valueDef{op: OpBlockIf, typ: TypeInvalid, operands: []int{cond.id}})
}

func (b *Builder) Else() {
	b.push(valueDef{op: OpBlockElse, typ: TypeInvalid})
}

func (b *Builder) EndIf() {
	b.push(valueDef{op: OpBlockEndIf, typ: TypeInvalid})
}

// While opens a pre-tested loop. The condition closure is invoked once
// per iteration by the backend at evaluation time; it is expressed here
// as a marker pair because the condition itself depends on values
// rebuilt each pass (e.g. a loop counter comparison) — callers re-issue
// the comparison ops between While and EndWhile using the loop-carried
// Values.
func (b *Builder) While(cond Value) {
	requireType(cond, TypeBool, "While")
	b.push(valueDef{op: OpBlockWhile, typ: TypeInvalid, operands: []int{cond.id}})
}

func (b *Builder) EndWhile() {
	b.push(valueDef{op: OpBlockEndWhile, typ: TypeInvalid})
}

// DoUntil opens a post-tested loop that EndDo closes: the body between
// them runs once, then again after each pass in which cond, re-evaluated
// like While's, is still false.
func (b *Builder) DoUntil(cond Value) {
	requireType(cond, TypeBool, "DoUntil")
	b.push(valueDef{op: OpBlockDoUntil, typ: TypeInvalid, operands: []int{cond.id}})
}

func (b *Builder) EndDo() {
	b.push(valueDef{op: OpBlockEndDo, typ: TypeInvalid})
}

// For opens a counted loop from 0 (inclusive) to count (exclusive),
// yielding the induction variable.
func (b *Builder) For(count Value) Value {
	requireType(count, TypeInt32, "For count")
	iv := b.push(valueDef{op: OpBlockFor, typ: TypeInt32, operands: []int{count.id}})
	return iv
}

func (b *Builder) EndFor() {
	b.push(valueDef{op: OpBlockEndFor, typ: TypeInvalid})
}

// Emit finalizes the builder and lowers it through the given backend.
// No further ops may be added afterward; doing so panics.
func (b *Builder) Emit(name string, backend Backend, resolver Resolver) (*Routine, error) {
	if b.final {
		panic("reactor: Emit called twice on the same builder")
	}
	b.final = true
	return backend.Lower(b, name, resolver)
}

// Ops exposes the finalized op stream for a backend to walk. Valid only
// after Emit has started lowering (backends receive *Builder directly
// during Lower, before finalization would otherwise block access).
func (b *Builder) Ops() []int { return b.ops }

// Def resolves a Value's defining record; used by backends and
// optimization passes.
func (b *Builder) Def(v Value) (Op, Type, []int, any) {
	d := b.arena.def(v)
	return d.op, d.typ, d.operands, d.imm
}

// DefByID resolves a defining record by raw arena index, for backends
// that only carry the index (e.g. while walking Ops()).
func (b *Builder) DefByID(id int) (Op, Type, []int, any) {
	d := b.arena.defs[id]
	return d.op, d.typ, d.operands, d.imm
}

// Args returns the function's declared argument types in order.
func (b *Builder) Args() []Type { return b.args }

// OptLevel reports the level set by SetOptLevel (OptNone by default).
func (b *Builder) OptLevel() OptLevel { return b.optLevel }

// NumValues returns the number of Values allocated in the arena,
// including dead ones a pass may have bypassed.
func (b *Builder) NumValues() int { return len(b.arena.defs) }
