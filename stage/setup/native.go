package setup

import (
	"math"
	"unsafe"

	"github.com/gogpu/swr/stage"
)

// vertexRecord reads one (position, varyings...) record out of a
// Triangle input block at byte offset off.
func vertexRecord(base uintptr, recordSize, index int) (pos [4]float32, varyings func(int) [4]float32) {
	rec := base + uintptr(index*recordSize)
	pos = *(*[4]float32)(unsafe.Pointer(rec))
	return pos, func(v int) [4]float32 {
		return *(*[4]float32)(unsafe.Pointer(rec + uintptr((v+1)*VertexRecordFloat4Bytes)))
	}
}

// plane solves for the screen-space plane a(x,y) = V0 + DVDx*x + DVDy*y
// matching value a_i at each vertex (x_i, y_i), via Cramer's rule over
// the triangle's twice-signed area d — the same construction
// original_source's setup routine uses to build one interpolation
// plane per attribute (and, with a = value/w, per perspective-
// corrected attribute).
func plane(x0, y0, a0, x1, y1, a1, x2, y2, a2, invD float32) Plane {
	dAdx := ((a1-a0)*(y2-y0) - (a2-a0)*(y1-y0)) * invD
	dAdy := ((x1-x0)*(a2-a0) - (x2-x0)*(a1-a0)) * invD
	c := a0 - dAdx*x0 - dAdy*y0
	return Plane{V0: c, DVDx: dAdx, DVDy: dAdy}
}

// nativeSetup is the registered Call target build.go's emitted IR
// invokes. It does the actual screen-space transform, edge/plane
// construction, culling and polygon-offset math in plain Go — the
// heavy floating-point geometry spec.md §4.E describes, run natively
// rather than re-expressed op-by-op in the IR (mirroring how the
// sampler package bridges sub-word codec work through reactor.Call
// rather than adding new ops for it).
//
// triPtr points at 3 contiguous vertex records (recordSize bytes
// each); outPtr at one Primitive; drawDataPtr at the DrawData block
// for viewport/scissor. Returns 1 to keep the primitive, 0 if culled.
//
// depthClipEnable is accepted but not yet load-bearing: the clipper
// already clips against the near/far planes before a triangle reaches
// setup, so there is no depth-clamp-instead-of-clip behavior to select
// between here yet.
func nativeSetup(triPtr, outPtr, drawDataPtr uintptr, varyingCount int32, cull CullMode, front FrontFace, depthBiasConstant, depthBiasSlope float32, depthClipEnable bool) int32 {
	recordSize := VertexRecordSize(varyingCount)
	p0, v0 := vertexRecord(triPtr, recordSize, 0)
	p1, v1 := vertexRecord(triPtr, recordSize, 1)
	p2, v2 := vertexRecord(triPtr, recordSize, 2)

	// Perspective divide to screen-space NDC*viewport. DrawData's
	// viewport scale/bias already folds the NDC->pixel transform, per
	// stage.DrawData's ViewportScale/ViewportBias fields.
	scale := (*[4]float32)(unsafe.Pointer(drawDataPtr + uintptr(stage.Offsets.ViewportScale)))
	bias := (*[4]float32)(unsafe.Pointer(drawDataPtr + uintptr(stage.Offsets.ViewportBias)))

	invW0, invW1, invW2 := 1/p0[3], 1/p1[3], 1/p2[3]
	x0, y0, z0 := p0[0]*invW0*scale[0]+bias[0], p0[1]*invW0*scale[1]+bias[1], p0[2]*invW0*scale[2]+bias[2]
	x1, y1, z1 := p1[0]*invW1*scale[0]+bias[0], p1[1]*invW1*scale[1]+bias[1], p1[2]*invW1*scale[2]+bias[2]
	x2, y2, z2 := p2[0]*invW2*scale[0]+bias[0], p2[1]*invW2*scale[1]+bias[1], p2[2]*invW2*scale[2]+bias[2]

	d := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if d == 0 {
		return 0 // zero area
	}
	frontFacingCCW := d > 0
	isFront := frontFacingCCW == (front == FrontFaceCCW)
	switch cull {
	case CullFront:
		if isFront {
			return 0
		}
	case CullBack:
		if !isFront {
			return 0
		}
	}

	minX := math.Floor(float64(min3(x0, x1, x2)))
	maxX := math.Ceil(float64(max3(x0, x1, x2)))
	minY := math.Floor(float64(min3(y0, y1, y2)))
	maxY := math.Ceil(float64(max3(y0, y1, y2)))

	scissorMinX := *(*int32)(unsafe.Pointer(drawDataPtr + uintptr(stage.Offsets.ScissorMinX)))
	scissorMinY := *(*int32)(unsafe.Pointer(drawDataPtr + uintptr(stage.Offsets.ScissorMinY)))
	scissorMaxX := *(*int32)(unsafe.Pointer(drawDataPtr + uintptr(stage.Offsets.ScissorMaxX)))
	scissorMaxY := *(*int32)(unsafe.Pointer(drawDataPtr + uintptr(stage.Offsets.ScissorMaxY)))

	bx0 := maxInt32(int32(minX), scissorMinX)
	by0 := maxInt32(int32(minY), scissorMinY)
	bx1 := minInt32(int32(maxX), scissorMaxX)
	by1 := minInt32(int32(maxY), scissorMaxY)
	if bx0 >= bx1 || by0 >= by1 {
		return 0 // fully outside scissor
	}

	invD := 1 / d
	out := (*Primitive)(unsafe.Pointer(outPtr))
	out.MinX, out.MinY, out.MaxX, out.MaxY = bx0, by0, bx1, by1
	out.NumVaryings = varyingCount
	out.FrontFacing = boolToInt32(isFront)

	out.Edge[0] = EdgeEq{A: y1 - y2, B: x2 - x1, C: x1*y2 - x2*y1}
	out.Edge[1] = EdgeEq{A: y2 - y0, B: x0 - x2, C: x2*y0 - x0*y2}
	out.Edge[2] = EdgeEq{A: y0 - y1, B: x1 - x0, C: x0*y1 - x1*y0}
	if d < 0 {
		for i := range out.Edge {
			out.Edge[i].A, out.Edge[i].B, out.Edge[i].C = -out.Edge[i].A, -out.Edge[i].B, -out.Edge[i].C
		}
	}

	out.InvW = plane(x0, y0, invW0, x1, y1, invW1, x2, y2, invW2, invD)

	depthPlane := plane(x0, y0, z0, x1, y1, z1, x2, y2, z2, invD)
	if depthBiasConstant != 0 || depthBiasSlope != 0 {
		maxSlope := math.Max(math.Abs(float64(depthPlane.DVDx)), math.Abs(float64(depthPlane.DVDy)))
		depthPlane.V0 += depthBiasConstant + depthBiasSlope*float32(maxSlope)
	}
	out.Depth = depthPlane

	// Only lane 0 of each varying's Float4 is carried through the
	// Primitive's interpolation plane; a full 4-component varying plane
	// would widen Primitive.Varying to [4]Plane per slot.
	for v := int32(0); v < varyingCount && v < stage.MaxVaryings; v++ {
		a0, a1, a2 := v0(int(v)), v1(int(v)), v2(int(v))
		out.Varying[v] = plane(x0, y0, a0[0]*invW0, x1, y1, a1[0]*invW1, x2, y2, a2[0]*invW2, invD)
	}

	return 1
}

func min3(a, b, c float32) float32 {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

