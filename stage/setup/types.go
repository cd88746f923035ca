package setup

import (
	"unsafe"

	"github.com/gogpu/swr/stage"
)

// VertexRecordFloat4Bytes matches stage/vertex's output record stride:
// a position Float4 followed by one Float4 per varying. Setup's
// Triangle input is three such records laid out contiguously, exactly
// as the vertex routine (or the clipper's fan triangulation of a
// clipped Polygon) produces them.
const VertexRecordFloat4Bytes = 16

// VertexRecordSize returns the byte size of one input vertex record
// for a State with the given varying count.
func VertexRecordSize(varyingCount int32) int {
	return int(1+varyingCount) * VertexRecordFloat4Bytes
}

// EdgeEq is a half-space edge function A*x + B*y + C, positive inside
// the triangle for a consistently-wound front face, per
// hal/software/raster/triangle.go's edge-function rasterization test
// generalized from inline float32 math to a stored plane.
type EdgeEq struct {
	A, B, C float32
}

// Plane is a perspective-correct interpolation basis for one
// varying's value/w quantity: value(x,y) = V0 + DVDx*x + DVDy*y,
// following hal/software/raster/interpolate.go's barycentric
// perspective-correction scheme generalized into screen-space partial
// derivatives (SwiftShader's own setup computes exactly this form of
// plane equation per attribute).
type Plane struct {
	V0, DVDx, DVDy float32
}

// Primitive is the fixed layout a pixel routine reads: the triangle's
// screen-space bounding box, its three edge equations, a depth plane,
// a 1/w plane for perspective correction, and up to MaxVaryings
// interpolation planes.
type Primitive struct {
	MinX, MinY, MaxX, MaxY int32
	Edge                   [3]EdgeEq
	Depth                  Plane
	InvW                   Plane
	Varying                [stage.MaxVaryings]Plane
	NumVaryings            int32
	FrontFacing            int32 // 0/1; kept as int32 so native Go code and IR agree on width
}

// Offsets gives stage/pixel the byte offsets of Primitive's fields so
// a pixel routine can address them by PointerOffset from a raw
// Primitive* without importing unsafe itself.
var Offsets = computePrimitiveOffsets()

type primitiveOffsetTable struct {
	MinX, MinY, MaxX, MaxY int
	Edge                   int
	Depth                  int
	InvW                   int
	Varying                int
	NumVaryings            int
	FrontFacing            int
}

func computePrimitiveOffsets() primitiveOffsetTable {
	var p Primitive
	return primitiveOffsetTable{
		MinX:        int(unsafe.Offsetof(p.MinX)),
		MinY:        int(unsafe.Offsetof(p.MinY)),
		MaxX:        int(unsafe.Offsetof(p.MaxX)),
		MaxY:        int(unsafe.Offsetof(p.MaxY)),
		Edge:        int(unsafe.Offsetof(p.Edge)),
		Depth:       int(unsafe.Offsetof(p.Depth)),
		InvW:        int(unsafe.Offsetof(p.InvW)),
		Varying:     int(unsafe.Offsetof(p.Varying)),
		NumVaryings: int(unsafe.Offsetof(p.NumVaryings)),
		FrontFacing: int(unsafe.Offsetof(p.FrontFacing)),
	}
}

// PrimitiveSize is the byte size of one Primitive record.
const PrimitiveSize = int(unsafe.Sizeof(Primitive{}))
