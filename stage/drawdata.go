// Package stage holds the pieces the three per-stage generators
// (stage/vertex, stage/setup, stage/pixel) share: the DrawData layout
// every emitted routine reads, XOR-of-words state-key hashing, and a
// SyncCache-backed RoutineCache wrapper implementing spec.md §4.G's
// get_or_create.
package stage

import "unsafe"

// MaxVertexInputs bounds the vertex attribute streams a vertex routine
// reads, per spec.md §4.E.
const MaxVertexInputs = 16

// MaxVaryings bounds the interpolated varyings carried from the vertex
// routine through setup to the pixel routine.
const MaxVaryings = 16

// MaxColorAttachments bounds the pixel routine's render targets.
const MaxColorAttachments = 8

// ClusterCount is the fixed number of screen-space y-stripes the draw
// scheduler forks pixel work across, per spec.md §4.H.
const ClusterCount = 4

// InputStream describes one bound vertex attribute buffer as seen by
// the generated vertex routine: a pointer plus its byte stride. Format
// is not here — it is part of the vertex State key (spec.md §4.E), so
// it is known at generation time, not read back out of DrawData.
type InputStream struct {
	Buffer uintptr
	Stride int32
	_      int32 // pad to 8-byte alignment for the following pointer field
}

// DrawData is the per-draw block every emitted routine reads, per
// spec.md §3: bound input streams, index buffer, instance index,
// viewport-derived constants, stencil refs, per-target color/depth
// pointers and pitches, scissor, and per-cluster occlusion counters.
// Field order is load-bearing: the IR routines address fields by
// unsafe.Offsetof, computed once in the package-level offset table
// below rather than hand-counted, so a field reorder here cannot
// silently desynchronize the generated code.
type DrawData struct {
	Input       [MaxVertexInputs]InputStream
	IndexBuffer uintptr
	InstanceIndex int32
	_             int32

	ViewportScale [4]float32 // x, y, z scale
	ViewportBias  [4]float32 // x, y, z bias
	DepthRangeMin float32
	DepthRangeMax float32
	HalfPixelX    float32
	HalfPixelY    float32

	StencilRefFront uint32
	StencilRefBack  uint32
	StencilMaskRead uint32
	StencilMaskWrite uint32

	AlphaToCoverageThreshold float32
	_                        float32

	ColorBuffer    [MaxColorAttachments]uintptr
	ColorPitchB    [MaxColorAttachments]int32
	DepthBuffer    uintptr
	DepthPitchB    int32
	StencilBuffer  uintptr
	StencilPitchB  int32

	ScissorMinX int32
	ScissorMinY int32
	ScissorMaxX int32
	ScissorMaxY int32

	Occlusion [ClusterCount]uint32

	PushConstants uintptr
	DescriptorSets uintptr
}

// Offsets collects every DrawData field byte offset the stage
// generators need, computed once via unsafe.Offsetof rather than
// re-derived by hand at every call site. All fields are int so IR
// builders can pass them straight to Builder.PointerOffset.
var Offsets = computeOffsets()

type offsetTable struct {
	Input                    int
	IndexBuffer              int
	InstanceIndex            int
	ViewportScale            int
	ViewportBias             int
	DepthRangeMin            int
	DepthRangeMax            int
	HalfPixelX               int
	HalfPixelY               int
	StencilRefFront          int
	StencilRefBack           int
	StencilMaskRead          int
	StencilMaskWrite         int
	AlphaToCoverageThreshold int
	ColorBuffer              int
	ColorPitchB              int
	DepthBuffer              int
	DepthPitchB              int
	StencilBuffer            int
	StencilPitchB            int
	ScissorMinX              int
	ScissorMinY              int
	ScissorMaxX              int
	ScissorMaxY              int
	Occlusion                int
	PushConstants            int
	DescriptorSets           int
}

func computeOffsets() offsetTable {
	var d DrawData
	return offsetTable{
		Input:                    int(unsafe.Offsetof(d.Input)),
		IndexBuffer:              int(unsafe.Offsetof(d.IndexBuffer)),
		InstanceIndex:            int(unsafe.Offsetof(d.InstanceIndex)),
		ViewportScale:            int(unsafe.Offsetof(d.ViewportScale)),
		ViewportBias:             int(unsafe.Offsetof(d.ViewportBias)),
		DepthRangeMin:            int(unsafe.Offsetof(d.DepthRangeMin)),
		DepthRangeMax:            int(unsafe.Offsetof(d.DepthRangeMax)),
		HalfPixelX:               int(unsafe.Offsetof(d.HalfPixelX)),
		HalfPixelY:               int(unsafe.Offsetof(d.HalfPixelY)),
		StencilRefFront:          int(unsafe.Offsetof(d.StencilRefFront)),
		StencilRefBack:           int(unsafe.Offsetof(d.StencilRefBack)),
		StencilMaskRead:          int(unsafe.Offsetof(d.StencilMaskRead)),
		StencilMaskWrite:         int(unsafe.Offsetof(d.StencilMaskWrite)),
		AlphaToCoverageThreshold: int(unsafe.Offsetof(d.AlphaToCoverageThreshold)),
		ColorBuffer:              int(unsafe.Offsetof(d.ColorBuffer)),
		ColorPitchB:              int(unsafe.Offsetof(d.ColorPitchB)),
		DepthBuffer:              int(unsafe.Offsetof(d.DepthBuffer)),
		DepthPitchB:              int(unsafe.Offsetof(d.DepthPitchB)),
		StencilBuffer:            int(unsafe.Offsetof(d.StencilBuffer)),
		StencilPitchB:            int(unsafe.Offsetof(d.StencilPitchB)),
		ScissorMinX:              int(unsafe.Offsetof(d.ScissorMinX)),
		ScissorMinY:              int(unsafe.Offsetof(d.ScissorMinY)),
		ScissorMaxX:              int(unsafe.Offsetof(d.ScissorMaxX)),
		ScissorMaxY:              int(unsafe.Offsetof(d.ScissorMaxY)),
		Occlusion:                int(unsafe.Offsetof(d.Occlusion)),
		PushConstants:            int(unsafe.Offsetof(d.PushConstants)),
		DescriptorSets:           int(unsafe.Offsetof(d.DescriptorSets)),
	}
}

// InputStreamSize is the byte size of one InputStream record, used by
// the vertex generator to index DrawData.Input[i].
const InputStreamSize = int(unsafe.Sizeof(InputStream{}))

// InputStreamOffset returns the byte offset of DrawData.Input[i] from
// the start of DrawData.
func InputStreamOffset(i int) int {
	return Offsets.Input + i*InputStreamSize
}

// ColorBufferOffset/ColorPitchOffset return the byte offset of
// DrawData.ColorBuffer[i] / ColorPitchB[i].
func ColorBufferOffset(i int) int {
	return Offsets.ColorBuffer + i*int(unsafe.Sizeof(uintptr(0)))
}

func ColorPitchOffset(i int) int {
	return Offsets.ColorPitchB + i*4
}

// OcclusionOffset returns the byte offset of DrawData.Occlusion[cluster].
func OcclusionOffset(cluster int) int {
	return Offsets.Occlusion + cluster*4
}
