package sampler

import (
	"fmt"

	"github.com/gogpu/swr/reactor"
)

// OutOfBoundsPolicy selects how an out-of-range texel access behaves,
// per spec.md §4.D.
type OutOfBoundsPolicy uint8

const (
	OutOfBoundsUndefined OutOfBoundsPolicy = iota
	OutOfBoundsNullify
	OutOfBoundsRobustBufferAccess
)

// ImageDescriptor is the generator-time (not routine-time) image-view
// metadata a fetch/write routine is specialized for: format, per-axis
// addressing and border color are baked into the emitted IR the way
// the rest of State-keyed code generation in spec.md §4.E bakes
// pipeline state into a routine rather than branching on it at call
// time. OutOfBounds is carried here but neither BuildFetchRoutine nor
// BuildWriteRoutine reads it, so no out-of-bounds policy is applied.
type ImageDescriptor struct {
	Format     Format
	AddressU   AddressMode
	AddressV   AddressMode
	Border     BorderColorMode
	OutOfBounds OutOfBoundsPolicy
	Width, Height int32
}

// descriptor struct layout the routine's first argument points to:
// { basePtr uintptr; rowPitchBytes int32 }, packed at fixed byte
// offsets matching spec.md §4.D's "pointer to the descriptor (image
// base pointer, row/slice/sample pitches, extents, format)" — extents
// and format are generator-time constants (ImageDescriptor) since they
// drive which IR gets built, not runtime branches.
const (
	descBasePtrOffset     = 0
	descRowPitchOffset    = 8
)

// BuildFetchRoutine emits a Fetch-method sampler routine (point filter,
// no LOD computation, per spec.md §4.D) with the ABI
// (descriptor*, coords*, out*, constants*). coords is read as an Int4
// whose lanes 0/1 are the integer x/y texel indices; out receives rgba
// via codec.Pack's inverse (codec.Unpack, here — a fetch reads).
func BuildFetchRoutine(name string, desc ImageDescriptor, backend reactor.Backend, resolver reactor.Resolver) (*reactor.Routine, error) {
	info, ok := Lookup(desc.Format)
	if !ok {
		return nil, fmt.Errorf("sampler: unsupported format %v", desc.Format)
	}

	b, args := reactor.Begin(reactor.TypePointer, reactor.TypePointer, reactor.TypePointer, reactor.TypePointer)
	descPtr, coordPtr, outPtr := args[0], args[1], args[2]

	basePtr := b.Load(b.PointerOffset(descPtr, descBasePtrOffset), reactor.TypePointer)
	rowPitch := b.Load(b.PointerOffset(descPtr, descRowPitchOffset), reactor.TypeInt32)

	coords := b.Load(coordPtr, reactor.TypeInt4)
	x := b.ExtractLane(coords, 0)
	y := b.ExtractLane(coords, 1)

	width := b.ConstInt(desc.Width)
	height := b.ConstInt(desc.Height)
	xClamped, xInBounds := ApplyAddressMode(b, desc.AddressU, x, width)
	yClamped, yInBounds := ApplyAddressMode(b, desc.AddressV, y, height)
	inBounds := b.And(xInBounds, yInBounds)

	texelSize := b.ConstInt(int32(info.BlockSizeBytes))
	rowOffset := b.Mul(yClamped, rowPitch)
	colOffset := b.Mul(xClamped, texelSize)
	texelPtr := offsetPtrDynamic(b, basePtr, b.Add(rowOffset, colOffset))

	rgba, err := Unpack(b, desc.Format, texelPtr)
	if err != nil {
		return nil, err
	}

	if desc.AddressU == AddressClampToBorder || desc.AddressV == AddressClampToBorder {
		border := BorderColor(b, desc.Border, info.Kind == KindUint || info.Kind == KindSint)
		// selectSIMD picks its onTrue arg when cond holds: keep the
		// sampled texel in bounds, substitute the border color when
		// not.
		rgba = selectSIMD(b, inBounds, rgba, border, info.Kind == KindUint || info.Kind == KindSint)
	}

	b.Store(outPtr, rgba)
	b.Return(b.ConstInt(0))
	return b.Emit(name, backend, resolver)
}

// BuildWriteRoutine emits the write-method counterpart: ABI
// (descriptor*, coords*, value*, constants*), with an additional
// per-lane execution mask the caller is expected to have already
// applied upstream (the generator itself performs an unconditional
// store, matching spec.md §4.D's "for writes, an additional per-lane
// execution mask is consumed" at the pixel-routine call site rather
// than inside the codec).
func BuildWriteRoutine(name string, desc ImageDescriptor, backend reactor.Backend, resolver reactor.Resolver) (*reactor.Routine, error) {
	_, ok := Lookup(desc.Format)
	if !ok {
		return nil, fmt.Errorf("sampler: unsupported format %v", desc.Format)
	}

	b, args := reactor.Begin(reactor.TypePointer, reactor.TypePointer, reactor.TypePointer, reactor.TypePointer)
	descPtr, coordPtr, valuePtr := args[0], args[1], args[2]

	basePtr := b.Load(b.PointerOffset(descPtr, descBasePtrOffset), reactor.TypePointer)
	rowPitch := b.Load(b.PointerOffset(descPtr, descRowPitchOffset), reactor.TypeInt32)

	coords := b.Load(coordPtr, reactor.TypeInt4)
	x := b.ExtractLane(coords, 0)
	y := b.ExtractLane(coords, 1)

	texelSize := b.ConstInt(int32(mustInfo(desc.Format).BlockSizeBytes))
	offset := b.Add(b.Mul(y, rowPitch), b.Mul(x, texelSize))
	texelPtr := offsetPtrDynamic(b, basePtr, offset)

	isInt := mustInfo(desc.Format).Kind == KindUint || mustInfo(desc.Format).Kind == KindSint
	loadType := reactor.TypeFloat4
	if isInt {
		loadType = reactor.TypeInt4
	}
	value := b.Load(valuePtr, loadType)
	if err := Pack(b, desc.Format, texelPtr, value); err != nil {
		return nil, err
	}
	b.Return(b.ConstInt(0))
	return b.Emit(name, backend, resolver)
}

func mustInfo(f Format) Info {
	info, _ := Lookup(f)
	return info
}

// offsetPtrDynamic adds a runtime-computed byte offset (row/column
// strides depend on the coordinates a routine is called with, unlike
// PointerOffset's Go-constant form) to ptr.
func offsetPtrDynamic(b *reactor.Builder, ptr, byteOffset reactor.Value) reactor.Value {
	return b.PointerAdd(ptr, byteOffset)
}

// selectSIMD picks onTrue when cond holds, else onFalse, lane-by-lane
// via the same AllocaStack-backed conditional store selectInt uses for
// scalars.
func selectSIMD(b *reactor.Builder, cond, onTrue, onFalse reactor.Value, isInt bool) reactor.Value {
	t := reactor.TypeFloat4
	if isInt {
		t = reactor.TypeInt4
	}
	slot := b.AllocaStack(t)
	b.If(cond)
	{
		b.Store(slot, onTrue)
	}
	b.Else()
	{
		b.Store(slot, onFalse)
	}
	b.EndIf()
	return b.Load(slot, t)
}
