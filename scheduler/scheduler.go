// Package scheduler fans a single draw call out across a pool of
// worker goroutines, per spec.md §4.H: batches of primitives move
// through the vertex, setup, and pixel stage routines in parallel,
// while a per-queue ticket orders their pixel-stage writes so
// draw-submission order is still the order framebuffer writes land in.
package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/swr/iface"
	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/setup"
	"github.com/gogpu/swr/stage/vertex"
)

// maxVertexRecordSize is the largest a vertex output record can be,
// used to size pooled BatchData buffers so one pool serves draws with
// any varying count up to stage.MaxVaryings.
var maxVertexRecordSize = vertex.RecordSize(stage.MaxVaryings)

// maxFanoutFactor bounds how many triangles one input primitive can
// expand into after clipping: a clipped triangle's polygon fans into at
// most clip.MaxClippedVertices-2 triangles, which for
// MaxClippedVertices=9 is 7; point and multisampled-line expansion
// produce a 2-triangle quad and diamond-exit line expansion a 6-vertex
// hexagon (4 triangles). 8 covers all of these with headroom.
const maxFanoutFactor = 8

// Scheduler owns the pools and ticket queue a sequence of draw calls
// share. One Scheduler corresponds to one spec.md queue: draws
// submitted to the same Scheduler retire their pixel-stage writes in
// submission order; draws on different Schedulers have no ordering
// relationship.
type Scheduler struct {
	tickets *Queue

	drawPool  *Pool[DrawCall]
	batchPool *Pool[BatchData]

	workers int

	nextDrawID atomic.Uint64
}

// New creates a Scheduler whose worker goroutine count defaults to
// runtime.GOMAXPROCS(0) when workers <= 0.
func New(workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{
		tickets: NewQueue(),
		workers: workers,
		drawPool: NewPool(func() *DrawCall {
			return &DrawCall{}
		}),
		batchPool: NewPool(func() *BatchData {
			return &BatchData{
				Triangles:  make([]byte, BatchSize*3*maxVertexRecordSize),
				Primitives: make([]byte, BatchSize*maxFanoutFactor*setup.PrimitiveSize),
				Cacher:     vertex.NewCacher(maxVertexRecordSize),
			}
		}),
	}
}

// Request describes one draw call submission: the resolved index
// list, the three stage routines to run (already Retain()'d by the
// caller — Draw Releases them once the draw's last batch completes),
// the per-draw framebuffer/state block, and any queries or events the
// draw should report into.
type Request struct {
	Topology          Topology
	Indices           []int32
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
}

// Synchronize blocks until every batch of every draw submitted to s so
// far has retired its ticket, per spec.md §4.H's synchronize() barrier.
func (s *Scheduler) Synchronize() {
	s.tickets.Synchronize()
}

// Draw runs req's primitives through the vertex, setup, and pixel
// stages, blocking until every batch has retired its ticket. It
// implements spec.md §4.H's seven-step algorithm: allocate and fill a
// DrawCall, reserve one ticket per batch, start queries/events, run
// numBatchWorkers goroutines striding across the batch range, and
// finalize (accumulate occlusion counts, finish queries/events,
// release pooled resources) once every worker returns.
func (s *Scheduler) Draw(req Request) {
	draw := s.drawPool.Borrow()
	*draw = DrawCall{
		ID:                s.nextDrawID.Add(1),
		Topology:          req.Topology,
		Indices:           req.Indices,
		VaryingCount:      req.VaryingCount,
		SampleCount:       req.SampleCount,
		PointSize:         req.PointSize,
		LineWidth:         req.LineWidth,
		RasterizerDiscard: req.RasterizerDiscard,
		VertexRoutine:     req.VertexRoutine,
		SetupRoutine:      req.SetupRoutine,
		PixelRoutine:      req.PixelRoutine,
		DrawData:          req.DrawData,
		Queries:           req.Queries,
		Events:            req.Events,
	}

	vpp := int32(VerticesPerPrimitive(draw.Topology))
	numPrimitives := int32(0)
	if vpp > 0 {
		numPrimitives = int32(len(draw.Indices)) / vpp
	}

	sampleCount := draw.SampleCount
	if sampleCount < 1 {
		sampleCount = 1
	}
	numPrimitivesPerBatch := int32(BatchSize) / sampleCount
	if numPrimitivesPerBatch < 1 {
		numPrimitivesPerBatch = 1
	}
	numBatches := int32(0)
	if numPrimitives > 0 {
		numBatches = (numPrimitives + numPrimitivesPerBatch - 1) / numPrimitivesPerBatch
	}

	numBatchWorkers := int(numBatches)
	if numBatchWorkers > MaxBatchInstances {
		numBatchWorkers = MaxBatchInstances
	}
	if numBatchWorkers > s.workers {
		numBatchWorkers = s.workers
	}
	if numBatchWorkers < 1 {
		numBatchWorkers = 1
	}

	draw.Tickets = s.tickets.Reserve(int(numBatches))

	for _, q := range draw.Queries {
		q.Start()
	}
	for _, e := range draw.Events {
		e.Start()
	}

	if numBatches > 0 {
		var wg sync.WaitGroup
		for w := 0; w < numBatchWorkers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for id := int32(w); id < numBatches; id += int32(numBatchWorkers) {
					s.runBatch(draw, id, numPrimitivesPerBatch, numPrimitives)
				}
			}(w)
		}
		wg.Wait()
	}

	var occlusionTotal uint64
	for _, c := range draw.DrawData.Occlusion {
		occlusionTotal += uint64(c)
	}
	for _, q := range draw.Queries {
		if q.Type() == iface.QueryOcclusion {
			q.Add(occlusionTotal)
		}
		q.Finish()
	}
	for _, e := range draw.Events {
		e.Finish()
	}

	draw.VertexRoutine.Release()
	draw.SetupRoutine.Release()
	draw.PixelRoutine.Release()

	draw.reset()
	s.drawPool.Release(draw)
}

// runBatch processes one batch of id's primitives through the vertex,
// setup, and pixel stages, per spec.md §4.H steps 6.a-6.i: borrow a
// BatchData, decode vertices, assemble and clip primitives, wait for
// this batch's ticket (so earlier-submitted batches' pixel writes land
// first), rasterize, then retire the ticket and release the batch.
func (s *Scheduler) runBatch(draw *DrawCall, id, numPrimitivesPerBatch, numPrimitives int32) {
	batch := s.batchPool.Borrow()
	batch.reset()
	batch.FirstPrimitive = id * numPrimitivesPerBatch
	batch.NumPrimitives = numPrimitivesPerBatch
	if remaining := numPrimitives - batch.FirstPrimitive; batch.NumPrimitives > remaining {
		batch.NumPrimitives = remaining
	}

	ticket := draw.Tickets[id]

	if batch.NumPrimitives <= 0 {
		ticket.Wait()
		ticket.Retire()
		s.batchPool.Release(batch)
		return
	}

	processVertices(draw, batch)
	processPrimitives(draw, batch)

	ticket.Wait()
	if !draw.RasterizerDiscard && batch.NumVisible > 0 {
		processPixels(draw, batch)
	}
	ticket.Retire()

	s.batchPool.Release(batch)
}
