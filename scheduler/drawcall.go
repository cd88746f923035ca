package scheduler

import (
	"github.com/gogpu/swr/iface"
	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/vertex"
)

// BatchSize is the build-time primitive-capacity constant spec.md §3
// cites for one BatchData's triangle/primitive staging buffers
// (multiplied by the multisample count for the true vertex-slot
// capacity).
const BatchSize = 128

// MaxBatchInstances caps how many batch workers one draw schedules
// concurrently, per spec.md §4.H's numBatchWorkers formula.
const MaxBatchInstances = 16

// Topology mirrors the small set of input-assembly topologies this
// core rasterizes; compound strip/fan topologies are expected to
// already be expanded to list form by the caller.
type Topology uint8

const (
	TopologyTriangleList Topology = iota
	TopologyPointList
	TopologyLineList
)

// VerticesPerPrimitive returns how many index-list entries make up one
// primitive of t.
func VerticesPerPrimitive(t Topology) int32 {
	switch t {
	case TopologyPointList:
		return 1
	case TopologyLineList:
		return 2
	default:
		return 3
	}
}

// DrawCall is a once-written record describing one submitted draw, per
// spec.md §3: topology, routines, per-draw data, queries, and the
// ticket range reserving its batches' serialization slots. Borrowed
// from Scheduler's drawPool, released back once every batch retires.
type DrawCall struct {
	ID                uint64
	Topology          Topology
	Indices           []int32 // resolved index values, list order
	VaryingCount      int32
	SampleCount       int32
	PointSize         float32
	LineWidth         float32
	RasterizerDiscard bool

	VertexRoutine *reactor.Routine
	SetupRoutine  *reactor.Routine
	PixelRoutine  *reactor.Routine

	DrawData *stage.DrawData
	Queries  []iface.Query
	Events   []iface.TaskEvents

	Tickets []Ticket
}

// reset clears a borrowed DrawCall back to its zero value before
// returning it to the pool, so a future Borrow never observes a stale
// reference keeping a routine or query alive past its draw.
func (d *DrawCall) reset() {
	*d = DrawCall{}
}

// BatchData is a slice of a DrawCall assigned to one worker pass, per
// spec.md §3: a primitive range, a triangle staging buffer the vertex
// routine fills, a primitive staging buffer the setup routine fills,
// how many of those primitives survived clipping/culling, and a
// per-draw vertex cache private to the batch.
type BatchData struct {
	FirstPrimitive int32
	NumPrimitives  int32

	Triangles  []byte // vertex output records: BatchSize*3*RecordSize(varyingCount) capacity
	Primitives []byte // setup.Primitive records: BatchSize*maxFanoutFactor capacity (clip/point/line fan-out headroom)
	NumVisible int32

	Cacher *vertex.Cacher
}

// reset clears a borrowed BatchData's per-draw state before it is
// returned to the pool; the byte buffers are reused as-is (their
// contents are fully overwritten before being read each batch).
func (b *BatchData) reset() {
	b.FirstPrimitive = 0
	b.NumPrimitives = 0
	b.NumVisible = 0
}
