package scheduler

import (
	"unsafe"

	"github.com/gogpu/swr/stage/vertex"
)

// processVertices runs stage/vertex over a batch's index range, per
// spec.md §4.H step 6.e: slice the draw's resolved index list down to
// this batch's primitives, wrap the batch's private Cacher in a Task,
// and let the vertex routine decode-or-reuse one output record per
// index into batch.Triangles.
func processVertices(draw *DrawCall, batch *BatchData) {
	vpp := int(VerticesPerPrimitive(draw.Topology))
	first := int(batch.FirstPrimitive) * vpp
	count := int(batch.NumPrimitives) * vpp
	idx := draw.Indices[first : first+count]

	batch.Cacher.EnsureDraw(draw.ID)
	task := vertex.NewTask(int32(count), batch.Cacher)

	draw.VertexRoutine.Call([]uint64{
		ptrOf(batch.Triangles),
		uint64(uintptr(unsafe.Pointer(&idx[0]))),
		uint64(uintptr(unsafe.Pointer(&task))),
		uint64(uintptr(unsafe.Pointer(draw.DrawData))),
	})
}
