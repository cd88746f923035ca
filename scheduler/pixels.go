package scheduler

import (
	"sync"
	"unsafe"

	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/setup"
)

// processPixels runs stage/pixel over a batch's surviving primitives,
// per spec.md §4.H step 6.h: fan out stage.ClusterCount row-stripe
// passes so independent clusters can run concurrently, except for
// point topologies, which the spec calls out to run their clusters
// sequentially since point draws are typically small and the
// goroutine fan-out cost dominates.
func processPixels(draw *DrawCall, batch *BatchData) {
	if batch.NumVisible == 0 {
		return
	}

	primsPtr := ptrOf(batch.Primitives[:int(batch.NumVisible)*setup.PrimitiveSize])
	ddPtr := uint64(uintptr(unsafe.Pointer(draw.DrawData)))
	numVisible := uint64(uint32(batch.NumVisible))

	run := func(cluster int32) {
		draw.PixelRoutine.Call([]uint64{primsPtr, numVisible, uint64(uint32(cluster)), ddPtr})
	}

	if draw.Topology == TopologyPointList {
		for c := int32(0); c < stage.ClusterCount; c++ {
			run(c)
		}
		return
	}

	var wg sync.WaitGroup
	for c := int32(0); c < stage.ClusterCount; c++ {
		wg.Add(1)
		go func(c int32) {
			defer wg.Done()
			run(c)
		}(c)
	}
	wg.Wait()
}
