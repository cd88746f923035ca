package setup_test

import (
	"testing"
	"unsafe"

	"github.com/gogpu/swr/reactor/backend/asm"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/setup"
)

func alwaysResolves(string) (uintptr, bool) { return 1, true }

func ndcTriangleBuf(varyingCount int32) []byte {
	recSize := setup.VertexRecordSize(varyingCount)
	buf := make([]byte, 3*recSize)
	put4 := func(rec int, v [4]float32) {
		off := rec * recSize
		for i, f := range v {
			*(*float32)(unsafe.Pointer(&buf[off+i*4])) = f
		}
	}
	// a CCW-wound triangle covering the half of NDC space below the
	// x+y=0 diagonal.
	put4(0, [4]float32{-1, -1, 0.5, 1})
	put4(1, [4]float32{1, -1, 0.5, 1})
	put4(2, [4]float32{-1, 1, 0.5, 1})
	return buf
}

func viewportDrawData(width, height int32) stage.DrawData {
	var dd stage.DrawData
	dd.ViewportScale = [4]float32{float32(width) / 2, float32(height) / 2, 1, 0}
	dd.ViewportBias = [4]float32{float32(width) / 2, float32(height) / 2, 0, 0}
	dd.ScissorMinX, dd.ScissorMinY = 0, 0
	dd.ScissorMaxX, dd.ScissorMaxY = width, height
	return dd
}

func TestBuildRoutineComputesBoundingBoxAndKeepsFrontFace(t *testing.T) {
	setup.RegisterRuntimeHelpers()

	st := setup.NewState(0, setup.CullBack, setup.FrontFaceCCW, 0, 0, true, false)
	r, err := setup.BuildRoutine(st, asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("BuildRoutine: %v", err)
	}
	defer r.Release()

	tri := ndcTriangleBuf(0)
	dd := viewportDrawData(100, 100)

	var prim setup.Primitive
	ret := r.Call([]uint64{
		uint64(uintptr(unsafe.Pointer(&prim))),
		uint64(uintptr(unsafe.Pointer(&tri[0]))),
		0,
		uint64(uintptr(unsafe.Pointer(&dd))),
	})

	if ret != 1 {
		t.Fatalf("expected the front-facing triangle to survive, got culled (ret=%d)", ret)
	}
	if prim.MinX < 0 || prim.MinY < 0 || prim.MaxX > 100 || prim.MaxY > 100 {
		t.Errorf("bounding box %+v escapes the 100x100 viewport", prim)
	}
	if prim.MaxX <= prim.MinX || prim.MaxY <= prim.MinY {
		t.Errorf("degenerate bounding box %+v", prim)
	}
}

func TestBuildRoutineCullsFrontFacingWhenCullFrontRequested(t *testing.T) {
	setup.RegisterRuntimeHelpers()

	// Same winding as the kept-triangle test, but now cull the face
	// that test kept.
	st := setup.NewState(0, setup.CullFront, setup.FrontFaceCCW, 0, 0, true, false)
	r, err := setup.BuildRoutine(st, asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("BuildRoutine: %v", err)
	}
	defer r.Release()

	tri := ndcTriangleBuf(0)
	dd := viewportDrawData(100, 100)
	var prim setup.Primitive

	ret := r.Call([]uint64{
		uint64(uintptr(unsafe.Pointer(&prim))),
		uint64(uintptr(unsafe.Pointer(&tri[0]))),
		0,
		uint64(uintptr(unsafe.Pointer(&dd))),
	})

	if ret != 0 {
		t.Fatalf("expected the front face to be culled, got kept")
	}
}

func TestBuildRoutineCullsOutsideScissor(t *testing.T) {
	setup.RegisterRuntimeHelpers()

	st := setup.NewState(0, setup.CullNone, setup.FrontFaceCCW, 0, 0, true, false)
	r, err := setup.BuildRoutine(st, asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("BuildRoutine: %v", err)
	}
	defer r.Release()

	tri := ndcTriangleBuf(0)
	dd := viewportDrawData(100, 100)
	dd.ScissorMaxX, dd.ScissorMaxY = 0, 0 // empty scissor rect
	var prim setup.Primitive

	ret := r.Call([]uint64{
		uint64(uintptr(unsafe.Pointer(&prim))),
		uint64(uintptr(unsafe.Pointer(&tri[0]))),
		0,
		uint64(uintptr(unsafe.Pointer(&dd))),
	})

	if ret != 0 {
		t.Fatalf("expected an empty scissor rect to cull the primitive")
	}
}
