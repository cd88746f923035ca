package setup

import (
	"fmt"

	"github.com/gogpu/swr/reactor"
)

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// BuildRoutine emits a setup-stage routine with the fixed ABI
// (Primitive* out, Triangle* in, Polygon* poly, DrawData*) -> bool,
// per spec.md §4.E. poly is accepted for ABI parity with the clipper's
// >3-vertex polygon case but unused here: the scheduler fan-triangulates
// a clipped polygon into individual 3-vertex Triangle blocks before
// calling this routine, so by the time setup runs there is always
// exactly one triangle to set up.
//
// The routine body is a single call into nativeSetup (see native.go),
// which does the screen-space transform, edge/plane construction,
// culling and polygon-offset math natively rather than op-by-op in the
// IR — the same reactor.Call bridge the sampler package uses for its
// sub-word codec helpers.
func BuildRoutine(state State, backend reactor.Backend, resolver reactor.Resolver) (*reactor.Routine, error) {
	b, args := reactor.Begin(reactor.TypePointer, reactor.TypePointer, reactor.TypePointer, reactor.TypePointer)
	outPtr, triPtr, _, drawDataPtr := args[0], args[1], args[2], args[3]

	kept := b.Call(fnNativeSetup, reactor.TypeInt32,
		triPtr, outPtr, drawDataPtr,
		b.ConstInt(state.VaryingCount),
		b.ConstInt(int32(state.Cull)),
		b.ConstInt(int32(state.Front)),
		b.ConstFloat(state.DepthBiasConstant),
		b.ConstFloat(state.DepthBiasSlope),
		b.ConstInt(boolToInt32(state.DepthClipEnable)),
	)
	b.Return(kept)
	return b.Emit(fmt.Sprintf("setup_%08x", state.Hash), backend, resolver)
}
