package pixel

import (
	"fmt"

	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/shader"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/setup"
)

// depthCompareOp picks the single reactor comparison op state.DepthCompare
// selects. The CompareFunc itself is a generation-time State field, so
// this is an ordinary Go switch, not a runtime IR branch: only the one
// chosen comparison is ever emitted into the routine.
func depthCompareOp(b *reactor.Builder, cmp CompareFunc, src, dst reactor.Value) reactor.Value {
	switch cmp {
	case CompareNever:
		return b.ConstBool(false)
	case CompareLess:
		return b.CmpLT(src, dst)
	case CompareEqual:
		return b.CmpEQ(src, dst)
	case CompareLessEqual:
		return b.CmpLE(src, dst)
	case CompareGreater:
		return b.CmpGT(src, dst)
	case CompareNotEqual:
		return b.CmpNE(src, dst)
	case CompareGreaterEqual:
		return b.CmpGE(src, dst)
	default: // CompareAlways and any unrecognized value
		return b.ConstBool(true)
	}
}

// evalPlane reads a setup.Plane's three float32 fields at base+off and
// evaluates it at (xc, yc).
func evalPlane(b *reactor.Builder, base reactor.Value, off int, xc, yc reactor.Value) reactor.Value {
	v0 := b.Load(b.PointerOffset(base, off), reactor.TypeFloat32)
	dvdx := b.Load(b.PointerOffset(base, off+4), reactor.TypeFloat32)
	dvdy := b.Load(b.PointerOffset(base, off+8), reactor.TypeFloat32)
	return b.Add(v0, b.Add(b.Mul(dvdx, xc), b.Mul(dvdy, yc)))
}

// BuildRoutine emits a pixel-stage routine with the fixed ABI
// (Primitive* prims, int32 numVisible, int32 cluster, DrawData*) ->
// int32, per spec.md §4.E/§4.H: for every visible primitive, walk its
// screen-space bounding box restricted to rows belonging to cluster,
// edge-test each candidate pixel, run the bound fragment program on
// the ones that survive, and write color/depth/occlusion results.
//
// Unlike stage/setup, this stage cannot bridge its math through a
// single reactor.Call: prog.Fragment emits real IR into the same
// builder (a user-supplied shader, not a self-contained native
// helper), so the surrounding rasterization logic has to be emitted as
// actual IR too rather than wrapped in one opaque native call.
//
// The row/column walk visits every pixel in the bounding box and
// guards cluster membership with an If rather than striding the loop
// by stage.ClusterCount; reactor/backend/asm is an interpreter, not
// real codegen, so the simpler loop shape costs interpreted cycles
// rather than correctness, consistent with the rest of this module's
// disclosed backend-realism simplifications.
//
// Color writes broadcast the fragment program's single rgba result to
// every active color attachment; per-attachment distinct outputs
// (multiple render targets with different values) are not supported.
func BuildRoutine(state State, prog *shader.Program, backend reactor.Backend, resolver reactor.Resolver) (*reactor.Routine, error) {
	b, args := reactor.Begin(reactor.TypePointer, reactor.TypeInt32, reactor.TypeInt32, reactor.TypePointer)
	primsPtr, numVisible, cluster, drawDataPtr := args[0], args[1], args[2], args[3]

	wantDepthAddr := state.DepthTestEnable || state.DepthWriteEnable
	var depthInfo sampler.Info
	if wantDepthAddr {
		info, ok := sampler.Lookup(state.DepthFormat)
		if !ok {
			return nil, fmt.Errorf("pixel: unsupported depth format %v", state.DepthFormat)
		}
		depthInfo = info
	}

	colorInfo := make([]sampler.Info, state.ColorAttachmentCount)
	for i := int32(0); i < state.ColorAttachmentCount; i++ {
		info, ok := sampler.Lookup(state.ColorFormat[i])
		if !ok {
			return nil, fmt.Errorf("pixel: unsupported color format %v at attachment %d", state.ColorFormat[i], i)
		}
		colorInfo[i] = info
	}

	pi := b.For(numVisible)
	primPtr := b.PointerAdd(primsPtr, b.Mul(pi, b.ConstInt(int32(setup.PrimitiveSize))))

	minX := b.Load(b.PointerOffset(primPtr, setup.Offsets.MinX), reactor.TypeInt32)
	minY := b.Load(b.PointerOffset(primPtr, setup.Offsets.MinY), reactor.TypeInt32)
	maxX := b.Load(b.PointerOffset(primPtr, setup.Offsets.MaxX), reactor.TypeInt32)
	maxY := b.Load(b.PointerOffset(primPtr, setup.Offsets.MaxY), reactor.TypeInt32)

	ry := b.For(b.Sub(maxY, minY))
	y := b.Add(minY, ry)
	rowMatches := b.CmpEQ(b.Rem(y, b.ConstInt(stage.ClusterCount)), cluster)
	b.If(rowMatches)

	rx := b.For(b.Sub(maxX, minX))
	x := b.Add(minX, rx)
	xc := b.Add(b.IntToFloat(x), b.ConstFloat(0.5))
	yc := b.Add(b.IntToFloat(y), b.ConstFloat(0.5))

	edgeOK := [3]reactor.Value{}
	for k := 0; k < 3; k++ {
		off := setup.Offsets.Edge + k*12
		a := b.Load(b.PointerOffset(primPtr, off), reactor.TypeFloat32)
		bb := b.Load(b.PointerOffset(primPtr, off+4), reactor.TypeFloat32)
		c := b.Load(b.PointerOffset(primPtr, off+8), reactor.TypeFloat32)
		e := b.Add(b.Add(b.Mul(a, xc), b.Mul(bb, yc)), c)
		edgeOK[k] = b.CmpGE(e, b.ConstFloat(0))
	}
	inside := b.And(b.And(edgeOK[0], edgeOK[1]), edgeOK[2])
	b.If(inside)

	invW := evalPlane(b, primPtr, setup.Offsets.InvW, xc, yc)
	w := b.Div(b.ConstFloat(1), invW)
	depthVal := evalPlane(b, primPtr, setup.Offsets.Depth, xc, yc)

	var depthAddr reactor.Value
	if wantDepthAddr {
		depthBuf := b.Load(b.PointerOffset(drawDataPtr, stage.Offsets.DepthBuffer), reactor.TypePointer)
		depthPitch := b.Load(b.PointerOffset(drawDataPtr, stage.Offsets.DepthPitchB), reactor.TypeInt32)
		rowOff := b.Mul(y, depthPitch)
		colOff := b.Mul(x, b.ConstInt(int32(depthInfo.BlockSizeBytes)))
		depthAddr = b.PointerAdd(depthBuf, b.Add(rowOff, colOff))
	}

	var depthPass reactor.Value
	if state.DepthTestEnable {
		existing, err := sampler.Unpack(b, state.DepthFormat, depthAddr)
		if err != nil {
			return nil, err
		}
		depthPass = depthCompareOp(b, state.DepthCompare, depthVal, b.ExtractLane(existing, 0))
	} else {
		depthPass = b.ConstBool(true)
	}
	b.If(depthPass)

	varyings := make([]reactor.Value, state.VaryingCount)
	for v := int32(0); v < state.VaryingCount; v++ {
		aOverW := evalPlane(b, primPtr, setup.Offsets.Varying+int(v)*12, xc, yc)
		varyings[v] = b.Splat(b.Mul(aOverW, w))
	}
	fragCoord := b.Splat(xc)
	fragCoord = b.InsertLane(fragCoord, 1, yc)
	fragCoord = b.InsertLane(fragCoord, 2, depthVal)
	fragCoord = b.InsertLane(fragCoord, 3, invW)

	rgba, kill := prog.Fragment(b, shader.FragmentInputs{FragCoord: fragCoord, Varyings: varyings})

	b.If(b.Not(kill))
	for i := int32(0); i < state.ColorAttachmentCount; i++ {
		colorBuf := b.Load(b.PointerOffset(drawDataPtr, stage.ColorBufferOffset(int(i))), reactor.TypePointer)
		colorPitch := b.Load(b.PointerOffset(drawDataPtr, stage.ColorPitchOffset(int(i))), reactor.TypeInt32)
		rowOff := b.Mul(y, colorPitch)
		colOff := b.Mul(x, b.ConstInt(int32(colorInfo[i].BlockSizeBytes)))
		addr := b.PointerAdd(colorBuf, b.Add(rowOff, colOff))
		if err := sampler.Pack(b, state.ColorFormat[i], addr, rgba); err != nil {
			return nil, err
		}
	}
	if state.DepthWriteEnable {
		if err := sampler.Pack(b, state.DepthFormat, depthAddr, b.Splat(depthVal)); err != nil {
			return nil, err
		}
	}
	if state.OcclusionEnable {
		occBase := b.PointerOffset(drawDataPtr, stage.Offsets.Occlusion)
		occAddr := b.PointerAdd(occBase, b.Mul(cluster, b.ConstInt(4)))
		cur := b.Load(occAddr, reactor.TypeInt32)
		b.Store(occAddr, b.Add(cur, b.ConstInt(1)))
	}
	b.EndIf() // kill

	b.EndIf() // depthPass
	b.EndIf() // inside
	b.EndFor() // column
	b.EndIf()  // rowMatches
	b.EndFor() // row
	b.EndFor() // primitive

	b.Return(b.ConstInt(0))
	return b.Emit(fmt.Sprintf("pixel_%08x", state.Hash), backend, resolver)
}
