package scheduler

import (
	"unsafe"

	"github.com/gogpu/swr/clip"
	"github.com/gogpu/swr/stage/setup"
)

// recordToVertex reads one vertex-stage output record (a Float4
// position followed by varyingCount Float4 varyings) into a
// clip.Vertex, carrying only lane 0 of each varying forward — the same
// only-lane-0 simplification stage/setup and stage/pixel already
// disclose for how varyings cross the vertex/setup/pixel boundary.
func recordToVertex(rec []byte, varyingCount int32) clip.Vertex {
	pos := *(*[4]float32)(unsafe.Pointer(&rec[0]))
	attrs := make([]float32, varyingCount)
	for v := int32(0); v < varyingCount; v++ {
		off := int(1+v) * setup.VertexRecordFloat4Bytes
		attrs[v] = *(*float32)(unsafe.Pointer(&rec[off]))
	}
	return clip.Vertex{Position: pos, Attributes: attrs}
}

// vertexToRecord writes v back into a vertex-stage record layout,
// storing each attribute's value in lane 0 and leaving lanes 1-3 zero
// (only lane 0 is ever read back out by stage/setup).
func vertexToRecord(v clip.Vertex, rec []byte) {
	*(*[4]float32)(unsafe.Pointer(&rec[0])) = v.Position
	for i, a := range v.Attributes {
		off := (1 + i) * setup.VertexRecordFloat4Bytes
		*(*float32)(unsafe.Pointer(&rec[off])) = a
	}
}
