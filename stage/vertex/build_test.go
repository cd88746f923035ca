package vertex_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/reactor/backend/asm"
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/shader"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/vertex"
)

func alwaysResolves(string) (uintptr, bool) { return 1, true }

// identityProgram passes its sole attribute straight through as
// clip-space position, with no varyings.
func identityProgram() *shader.Program {
	return &shader.Program{
		ID: 1,
		Vertex: func(b *reactor.Builder, in shader.VertexInputs) shader.VertexOutputs {
			return shader.VertexOutputs{Position: in.Attributes[0]}
		},
	}
}

func TestBuildRoutineDecodesAndCachesVertices(t *testing.T) {
	sampler.RegisterRuntimeHelpers()

	var in [stage.MaxVertexInputs]vertex.InputState
	in[0] = vertex.InputState{Active: true, Format: sampler.FormatR32G32B32A32Sfloat}
	st := vertex.NewState(1, 0, false, false, true, false, 0, in)

	r, err := vertex.BuildRoutine(st, identityProgram(), asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("BuildRoutine: %v", err)
	}
	defer r.Release()

	positions := [2][4]float32{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	}
	vbuf := make([]byte, len(positions)*16)
	for i, p := range positions {
		for c, f := range p {
			*(*uint32)(unsafe.Pointer(&vbuf[i*16+c*4])) = math.Float32bits(f)
		}
	}

	var dd stage.DrawData
	dd.Input[0] = stage.InputStream{Buffer: uintptr(unsafe.Pointer(&vbuf[0])), Stride: 16}

	cacher := vertex.NewCacher(vertex.RecordSize(0))
	cacher.EnsureDraw(1)
	task := vertex.NewTask(3, cacher)

	// index 0 repeats at position 2 to exercise the cache-hit path.
	indices := []int32{0, 1, 0}
	out := make([]byte, 3*vertex.RecordSize(0))

	r.Call([]uint64{
		uint64(uintptr(unsafe.Pointer(&out[0]))),
		uint64(uintptr(unsafe.Pointer(&indices[0]))),
		uint64(uintptr(unsafe.Pointer(&task))),
		uint64(uintptr(unsafe.Pointer(&dd))),
	})

	readPos := func(rec int) [4]float32 {
		var p [4]float32
		for c := range p {
			p[c] = math.Float32frombits(*(*uint32)(unsafe.Pointer(&out[rec*16+c*4])))
		}
		return p
	}

	if got := readPos(0); got != positions[0] {
		t.Errorf("record 0 = %v, want %v", got, positions[0])
	}
	if got := readPos(1); got != positions[1] {
		t.Errorf("record 1 = %v, want %v", got, positions[1])
	}
	if got := readPos(2); got != positions[0] {
		t.Errorf("record 2 (cache hit on index 0) = %v, want %v", got, positions[0])
	}
}

func TestBuildRoutineVaryingCountMismatchErrors(t *testing.T) {
	var in [stage.MaxVertexInputs]vertex.InputState
	in[0] = vertex.InputState{Active: true, Format: sampler.FormatR32G32B32A32Sfloat}
	st := vertex.NewState(1, 0, false, false, true, false, 2, in) // declares 2 varyings

	_, err := vertex.BuildRoutine(st, identityProgram(), asm.Backend{}, alwaysResolves) // produces 0
	if err == nil {
		t.Fatal("expected an error for a varying-count mismatch, got nil")
	}
}
