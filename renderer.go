// Package swr is the top-level entry point: a Renderer binds one
// Context's pipeline state to its three cached stage routines and
// drives scheduler.Scheduler to execute draws, implementing spec.md
// §6's small external surface (draw/synchronize/addQuery/removeQuery/
// setViewport/setScissor/advanceInstanceAttributes) on top of the
// packages under stage/, scheduler, and iface.
package swr

import (
	"sync"
	"unsafe"

	"github.com/gogpu/swr/iface"
	"github.com/gogpu/swr/internal/logging"
	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/reactor/backend/asm"
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/scheduler"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/pixel"
	"github.com/gogpu/swr/stage/setup"
	"github.com/gogpu/swr/stage/vertex"
)

// registerRuntimeHelpersOnce wires the sampler and setup packages'
// native.Call bridges into the asm backend's external-function table
// exactly once, regardless of how many Renderers get constructed.
var registerRuntimeHelpersOnce sync.Once

func registerRuntimeHelpers() {
	registerRuntimeHelpersOnce.Do(func() {
		sampler.RegisterRuntimeHelpers()
		setup.RegisterRuntimeHelpers()
	})
}

// RendererConfig selects a Renderer's resources. A zero Config is
// valid and uses the stage packages' default cache capacities and
// runtime.GOMAXPROCS(0) scheduler workers.
type RendererConfig struct {
	VertexCacheCapacity int
	SetupCacheCapacity  int
	PixelCacheCapacity  int
	SchedulerWorkers    int

	// Backend/Resolver select how emitted routines are lowered.
	// Defaulting to the asm interpreter backend mirrors every stage
	// package's own tests.
	Backend  reactor.Backend
	Resolver reactor.Resolver
}

// Renderer owns one queue's routine caches and scheduler. Draws
// submitted to the same Renderer retire their pixel-stage writes in
// submission order (spec.md §5); two Renderers have no ordering
// relationship with each other.
type Renderer struct {
	vertexCache *vertex.Cache
	setupCache  *setup.Cache
	pixelCache  *pixel.Cache
	sched       *scheduler.Scheduler
	backend     reactor.Backend
	resolver    reactor.Resolver

	mu       sync.Mutex
	resolved map[*Context]*boundRoutines
	queries  map[iface.Query]struct{}
}

// boundRoutines is the last set of routines resolved for a Context,
// kept so a draw with needsUpdate=false can skip straight to
// scheduling instead of re-deriving state keys and hitting the caches
// again.
type boundRoutines struct {
	vertexHash, setupHash, pixelHash uint32
	vertexRoutine                    *reactor.Routine
	setupRoutine                     *reactor.Routine
	pixelRoutine                     *reactor.Routine
}

// New creates a Renderer from cfg.
func New(cfg RendererConfig) *Renderer {
	backend := cfg.Backend
	if backend == nil {
		backend = asm.Backend{}
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = func(string) (uintptr, bool) { return 1, true }
	}
	registerRuntimeHelpers()

	return &Renderer{
		vertexCache: vertex.NewCache(cfg.VertexCacheCapacity),
		setupCache:  setup.NewCache(cfg.SetupCacheCapacity),
		pixelCache:  pixel.NewCache(cfg.PixelCacheCapacity),
		sched:       scheduler.New(cfg.SchedulerWorkers),
		backend:     backend,
		resolver:    resolver,
		resolved:    make(map[*Context]*boundRoutines),
		queries:     make(map[iface.Query]struct{}),
	}
}

// MaxPrimitives bounds the primitive count a single draw accepts, per
// spec.md §7: counts past this are ignored (debug builds only treat it
// as an error; this core always enforces it).
const MaxPrimitives = 1 << 21

// Draw submits a draw, per spec.md §6: count index-list entries are
// read starting at baseVertex out of ctx's bound index buffer (decoded
// per indexType), run through ctx's vertex/setup/pixel pipeline, and
// scheduled across r's worker pool. needsUpdate=true forces
// re-resolving all three routines even if ctx was drawn with before;
// events (optional) are started and finished around the draw
// regardless of whether it ends up doing any rasterization work.
func (r *Renderer) Draw(ctx *Context, indexType IndexType, count, baseVertex int32, events []iface.TaskEvents, needsUpdate bool) error {
	if count <= 0 || count > MaxPrimitives {
		for _, e := range events {
			e.Start()
			e.Finish()
		}
		return nil // spec.md §7: zero or over-limit count is a no-op
	}
	indices := resolveIndices(ctx.DrawData.IndexBuffer, indexType, count, baseVertex)

	bound, err := r.resolve(ctx, needsUpdate)
	if err != nil {
		for _, e := range events {
			e.Start()
			e.Finish()
		}
		return err
	}

	bound.vertexRoutine.Retain()
	bound.setupRoutine.Retain()
	bound.pixelRoutine.Retain()

	r.mu.Lock()
	queries := make([]iface.Query, 0, len(r.queries))
	for q := range r.queries {
		queries = append(queries, q)
	}
	r.mu.Unlock()

	for i := range ctx.DrawData.Occlusion {
		ctx.DrawData.Occlusion[i] = 0
	}

	r.sched.Draw(scheduler.Request{
		Topology:          ctx.Topology,
		Indices:           indices,
		VaryingCount:      ctx.VaryingCount,
		SampleCount:       ctx.SampleCount,
		PointSize:         ctx.PointSize,
		LineWidth:         ctx.LineWidth,
		RasterizerDiscard: ctx.RasterizerDiscard,
		VertexRoutine:     bound.vertexRoutine,
		SetupRoutine:      bound.setupRoutine,
		PixelRoutine:      bound.pixelRoutine,
		DrawData:          ctx.DrawData,
		Queries:           queries,
		Events:            events,
	})
	return nil
}

// resolve returns ctx's currently bound routines, rebuilding (or
// looking up) any of the three whose state key would differ from what
// was last resolved, or all three unconditionally if needsUpdate.
func (r *Renderer) resolve(ctx *Context, needsUpdate bool) (*boundRoutines, error) {
	vState := ctx.vertexState()
	sState := ctx.setupState()
	pState := ctx.pixelState()

	r.mu.Lock()
	prev, ok := r.resolved[ctx]
	r.mu.Unlock()

	if ok && !needsUpdate &&
		prev.vertexHash == vState.Hash &&
		prev.setupHash == sState.Hash &&
		prev.pixelHash == pState.Hash {
		return prev, nil
	}

	vRoutine, err := r.vertexCache.GetOrBuild(vState, func() (*reactor.Routine, error) {
		return vertex.BuildRoutine(vState, ctx.Vertex, r.backend, r.resolver)
	})
	if err != nil {
		return nil, err
	}
	sRoutine, err := r.setupCache.GetOrBuild(sState, func() (*reactor.Routine, error) {
		return setup.BuildRoutine(sState, r.backend, r.resolver)
	})
	if err != nil {
		return nil, err
	}
	pRoutine, err := r.pixelCache.GetOrBuild(pState, func() (*reactor.Routine, error) {
		return pixel.BuildRoutine(pState, ctx.Fragment, r.backend, r.resolver)
	})
	if err != nil {
		return nil, err
	}

	bound := &boundRoutines{
		vertexHash: vState.Hash, setupHash: sState.Hash, pixelHash: pState.Hash,
		vertexRoutine: vRoutine, setupRoutine: sRoutine, pixelRoutine: pRoutine,
	}

	r.mu.Lock()
	r.resolved[ctx] = bound
	r.mu.Unlock()

	logging.Debugf("resolved routines for context %p: vertex=%08x setup=%08x pixel=%08x", ctx, vState.Hash, sState.Hash, pState.Hash)
	return bound, nil
}

// Synchronize drains all outstanding work submitted to r so far,
// per spec.md §6: it blocks until every previously reserved ticket has
// retired, guaranteeing earlier draws' pixel writes have landed.
func (r *Renderer) Synchronize() {
	r.sched.Synchronize()
}

// AddQuery attaches q; subsequent draws update it (spec.md §6).
func (r *Renderer) AddQuery(q iface.Query) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries[q] = struct{}{}
}

// RemoveQuery detaches q, returning ErrNoQuery if it was not attached.
func (r *Renderer) RemoveQuery(q iface.Query) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queries[q]; !ok {
		return ErrNoQuery
	}
	delete(r.queries, q)
	return nil
}

// SetViewport fills dd's viewport-derived constants for a viewport at
// (x, y) sized (width, height) with the given depth range, per
// spec.md §6's setViewport(v): the NDC-to-screen scale/bias pair every
// emitted setup routine reads, plus the half-pixel constant points use
// to convert a pixel-space size back to a clip-space offset.
func SetViewport(dd *stage.DrawData, x, y, width, height, minDepth, maxDepth float32) {
	dd.ViewportScale = [4]float32{width / 2, height / 2, maxDepth - minDepth, 0}
	dd.ViewportBias = [4]float32{x + width/2, y + height/2, minDepth, 0}
	dd.DepthRangeMin = minDepth
	dd.DepthRangeMax = maxDepth
	if width != 0 {
		dd.HalfPixelX = 1 / width
	}
	if height != 0 {
		dd.HalfPixelY = 1 / height
	}
}

// SetScissor fills dd's scissor rectangle, per spec.md §6's
// setScissor(r).
func SetScissor(dd *stage.DrawData, minX, minY, maxX, maxY int32) {
	dd.ScissorMinX, dd.ScissorMinY = minX, minY
	dd.ScissorMaxX, dd.ScissorMaxY = maxX, maxY
}

// AdvanceInstanceAttributes advances dd's instance-rate vertex streams
// (named by input slot index) by their per-instance stride and bumps
// InstanceIndex, per spec.md §6's advanceInstanceAttributes(streams):
// called between instances of an instanced draw so the next instance's
// vertex routine reads the following instance's attribute data.
func AdvanceInstanceAttributes(dd *stage.DrawData, instanceRateSlots []int) {
	for _, slot := range instanceRateSlots {
		dd.Input[slot].Buffer += uintptr(dd.Input[slot].Stride)
	}
	dd.InstanceIndex++
}

// resolveIndices decodes count index-buffer entries at buf (16- or
// 32-bit, per indexType) and adds baseVertex to each, producing the
// flat []int32 index list scheduler.Request expects — the one place
// this core still understands a raw Vulkan-style index buffer, so
// nothing downstream of the scheduler needs to.
func resolveIndices(buf uintptr, indexType IndexType, count, baseVertex int32) []int32 {
	out := make([]int32, count)
	switch indexType {
	case IndexTypeUint16:
		src := unsafe.Slice((*uint16)(unsafe.Pointer(buf)), count)
		for i, v := range src {
			out[i] = int32(v) + baseVertex
		}
	default:
		src := unsafe.Slice((*uint32)(unsafe.Pointer(buf)), count)
		for i, v := range src {
			out[i] = int32(v) + baseVertex
		}
	}
	return out
}
