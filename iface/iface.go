// Package iface is the narrow surface the core requires from its
// Vulkan-object collaborators, per spec.md §4.I: just enough to read
// vertex/image data and report query/fence completion, without the
// core ever depending on the full buffer/image/descriptor-set object
// lattice. Concrete implementations live outside this module (or, for
// tests, in iface/testfixtures); swr only ever programs against these
// interfaces.
package iface

// Buffer is a host-visible range of bytes with a lifetime that outlives
// every draw reading from it.
type Buffer interface {
	// Pointer returns the address of byte offset within the buffer.
	Pointer(offset uint64) uintptr
	Size() uint64
}

// ComponentSwizzle reorders an image view's rgba channels on read.
type ComponentSwizzle uint8

const (
	SwizzleIdentity ComponentSwizzle = iota
	SwizzleZero
	SwizzleOne
	SwizzleR
	SwizzleG
	SwizzleB
	SwizzleA
)

// ImageAspect selects which plane of a (possibly depth/stencil) image
// an access addresses.
type ImageAspect uint8

const (
	AspectColor ImageAspect = iota
	AspectDepth
	AspectStencil
)

// ViewIdentifier is the compact identity spec.md §4.I requires an image
// view to expose: enough state-key material to distinguish two views
// that could produce different generated code, without the core
// interpreting what the bits mean beyond equality.
type ViewIdentifier struct {
	Format           uint32
	ViewType         uint8
	ComponentSwizzle [4]ComponentSwizzle
	SingleMipLevel   bool
}

// ImageView is a sampled or render-target view into image storage.
type ImageView interface {
	// OffsetPointer returns the address of the texel/block at origin
	// (x, y, z) within layer/level, for the given aspect.
	OffsetPointer(origin [3]int32, aspect ImageAspect, layer, level uint32) uintptr
	RowPitchBytes() int64
	SlicePitchBytes() int64
	Identifier() ViewIdentifier
}

// DescriptorKind distinguishes what a DescriptorSet slot resolves to.
type DescriptorKind uint8

const (
	DescriptorBuffer DescriptorKind = iota
	DescriptorImage
)

// Descriptor is one bound resource behind a binding+array index.
type Descriptor struct {
	Kind   DescriptorKind
	Buffer Buffer          // set when Kind == DescriptorBuffer
	Image  ImageView       // set when Kind == DescriptorImage
	Offset uint64          // buffer descriptors only
	Range  uint64          // buffer descriptors only; ^uint64(0) means "to end"
}

// DescriptorSet resolves (binding, arrayIndex) pairs to descriptors.
// The core never allocates or writes these; it only reads them while
// building a draw's DrawData.
type DescriptorSet interface {
	At(binding uint32, arrayIndex uint32) (Descriptor, bool)
}

// PipelineLayoutID is an opaque identity that factors into state keys;
// the core never interprets its internals, only compares it for
// equality when hashing VertexState. PixelState does not include it.
type PipelineLayoutID uint64

// QueryType distinguishes what a Query counts.
type QueryType uint8

const (
	QueryOcclusion QueryType = iota
	QueryTimestamp
)

// Query is one query-pool slot a draw can target. Start/Finish bracket
// the draw; Add accumulates a per-cluster contribution (e.g. occlusion
// sample counts) once at draw teardown.
type Query interface {
	Start()
	Finish()
	Add(v uint64)
	Type() QueryType
}

// TaskEvents lets an external observer (typically a fence) learn about
// a draw's completion without the core depending on the fence type
// itself.
type TaskEvents interface {
	Start()
	Finish()
}
