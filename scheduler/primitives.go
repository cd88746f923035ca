package scheduler

import (
	"unsafe"

	"github.com/gogpu/swr/clip"
	"github.com/gogpu/swr/stage/setup"
	"github.com/gogpu/swr/stage/vertex"
)

// processPrimitives runs stage/setup over a batch's vertex output,
// per spec.md §4.H step 6.f: assemble each primitive into a
// clip.Polygon (frustum-clipping triangles, expanding then skipping
// frustum clipping for points/lines — see scheduler's point/line
// disclosure in DESIGN.md), fan-triangulate the polygon, and invoke
// the setup routine once per resulting triangle, compacting surviving
// primitives to the front of batch.Primitives. Lines pick between the
// multisampled rectangle expansion and the non-multisampled "diamond
// exit" hexagon per spec.md §4.F, based on draw.SampleCount.
func processPrimitives(draw *DrawCall, batch *BatchData) {
	recSize := vertex.RecordSize(draw.VaryingCount)
	vpp := int(VerticesPerPrimitive(draw.Topology))

	triScratch := make([]byte, 3*recSize)
	visible := int32(0)

	for k := int32(0); k < batch.NumPrimitives; k++ {
		base := int(k) * vpp * recSize

		var poly clip.Polygon
		var ok bool
		switch draw.Topology {
		case TopologyPointList:
			v0 := recordToVertex(batch.Triangles[base:base+recSize], draw.VaryingCount)
			poly, _ = clip.ExpandPoint(v0, draw.PointSize, draw.DrawData.HalfPixelX)
			ok = true
		case TopologyLineList:
			v0 := recordToVertex(batch.Triangles[base:base+recSize], draw.VaryingCount)
			v1 := recordToVertex(batch.Triangles[base+recSize:base+2*recSize], draw.VaryingCount)
			if draw.SampleCount > 1 {
				poly = clip.ExpandLineMultisample(v0, v1, draw.LineWidth)
			} else {
				poly = clip.ExpandLineDiamondExit(v0, v1)
			}
			ok = true
		default:
			v0 := recordToVertex(batch.Triangles[base:base+recSize], draw.VaryingCount)
			v1 := recordToVertex(batch.Triangles[base+recSize:base+2*recSize], draw.VaryingCount)
			v2 := recordToVertex(batch.Triangles[base+2*recSize:base+3*recSize], draw.VaryingCount)
			poly, ok = clip.ClipTriangle(v0, v1, v2)
		}
		if !ok || poly.Count < 3 {
			continue
		}

		for i := 1; i < poly.Count-1; i++ {
			vertexToRecord(poly.Vertices[0], triScratch[0:recSize])
			vertexToRecord(poly.Vertices[i], triScratch[recSize:2*recSize])
			vertexToRecord(poly.Vertices[i+1], triScratch[2*recSize:3*recSize])

			if int(visible) >= len(batch.Primitives)/setup.PrimitiveSize {
				break // batch primitive staging buffer is full
			}
			outPrim := batch.Primitives[int(visible)*setup.PrimitiveSize : (int(visible)+1)*setup.PrimitiveSize]
			kept := draw.SetupRoutine.Call([]uint64{
				ptrOf(outPrim),
				ptrOf(triScratch),
				0,
				uint64(uintptr(unsafe.Pointer(draw.DrawData))),
			})
			if kept != 0 {
				visible++
			}
		}
	}
	batch.NumVisible = visible
}
