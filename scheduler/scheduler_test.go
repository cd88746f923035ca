package scheduler

import (
	"math"
	"testing"
	"unsafe"

	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/reactor/backend/asm"
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/shader"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/pixel"
	"github.com/gogpu/swr/stage/setup"
	"github.com/gogpu/swr/stage/vertex"
)

func alwaysResolves(string) (uintptr, bool) { return 1, true }

func identityVertexProgram() *shader.Program {
	return &shader.Program{
		ID: 1,
		Vertex: func(b *reactor.Builder, in shader.VertexInputs) shader.VertexOutputs {
			return shader.VertexOutputs{Position: in.Attributes[0]}
		},
	}
}

func solidColorProgram(rgba [4]float32) *shader.Program {
	return &shader.Program{
		ID: 2,
		Fragment: func(b *reactor.Builder, in shader.FragmentInputs) (reactor.Value, reactor.Value) {
			v := b.Splat(b.ConstFloat(rgba[0]))
			v = b.InsertLane(v, 1, b.ConstFloat(rgba[1]))
			v = b.InsertLane(v, 2, b.ConstFloat(rgba[2]))
			v = b.InsertLane(v, 3, b.ConstFloat(rgba[3]))
			return v, b.ConstBool(false)
		},
	}
}

func readRGBA(buf []byte, pitch, x, y int) [4]float32 {
	var out [4]float32
	off := y*pitch + x*16
	for c := 0; c < 4; c++ {
		out[c] = math.Float32frombits(*(*uint32)(unsafe.Pointer(&buf[off+c*4])))
	}
	return out
}

// TestSchedulerDrawsSingleTriangle runs one triangle through the full
// vertex/setup/pixel pipeline via Scheduler.Draw, mirroring spec.md
// §8's single-triangle/no-shading scenario: a CCW triangle covering
// the half of an 8x8 NDC-mapped framebuffer below the x+y=0 diagonal
// should come out solid
// red on the covered texels and untouched everywhere else.
func TestSchedulerDrawsSingleTriangle(t *testing.T) {
	sampler.RegisterRuntimeHelpers()
	setup.RegisterRuntimeHelpers()

	const w, h = 8, 8

	var vin [stage.MaxVertexInputs]vertex.InputState
	vin[0] = vertex.InputState{Active: true, Format: sampler.FormatR32G32B32A32Sfloat}
	vState := vertex.NewState(1, 0, false, false, true, false, 0, vin)
	vRoutine, err := vertex.BuildRoutine(vState, identityVertexProgram(), asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("vertex.BuildRoutine: %v", err)
	}

	sState := setup.NewState(0, setup.CullNone, setup.FrontFaceCCW, 0, 0, true, false)
	sRoutine, err := setup.BuildRoutine(sState, asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("setup.BuildRoutine: %v", err)
	}

	var colorFormat [stage.MaxColorAttachments]sampler.Format
	colorFormat[0] = sampler.FormatR32G32B32A32Sfloat
	pState := pixel.NewState(0, 1, colorFormat, sampler.FormatD32Sfloat, false, false, pixel.CompareAlways, false)
	pRoutine, err := pixel.BuildRoutine(pState, solidColorProgram([4]float32{1, 0, 0, 1}), asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("pixel.BuildRoutine: %v", err)
	}

	// NDC triangle covering the left half of clip space, CCW wound.
	positions := [3][4]float32{
		{-1, -1, 0.5, 1},
		{1, -1, 0.5, 1},
		{-1, 1, 0.5, 1},
	}
	vbuf := make([]byte, len(positions)*16)
	for i, p := range positions {
		for c, f := range p {
			*(*uint32)(unsafe.Pointer(&vbuf[i*16+c*4])) = math.Float32bits(f)
		}
	}

	colorBuf := make([]byte, w*h*16)

	var dd stage.DrawData
	dd.Input[0] = stage.InputStream{Buffer: uintptr(unsafe.Pointer(&vbuf[0])), Stride: 16}
	dd.ViewportScale = [4]float32{w / 2, h / 2, 1, 0}
	dd.ViewportBias = [4]float32{w / 2, h / 2, 0, 0}
	dd.ScissorMinX, dd.ScissorMinY = 0, 0
	dd.ScissorMaxX, dd.ScissorMaxY = w, h
	dd.ColorBuffer[0] = uintptr(unsafe.Pointer(&colorBuf[0]))
	dd.ColorPitchB[0] = w * 16

	s := New(4)
	s.Draw(Request{
		Topology:      TopologyTriangleList,
		Indices:       []int32{0, 1, 2},
		VaryingCount:  0,
		SampleCount:   1,
		VertexRoutine: vRoutine,
		SetupRoutine:  sRoutine,
		PixelRoutine:  pRoutine,
		DrawData:      &dd,
	})

	// (1,1) sits well inside the triangle's lower-left half (NDC sum
	// x+y well below 0); (w-1,h-1) sits in the opposite, uncovered
	// corner (NDC sum well above 0).
	if got := readRGBA(colorBuf, w*16, 1, 1); got != [4]float32{1, 0, 0, 1} {
		t.Fatalf("pixel inside triangle = %v, want opaque red", got)
	}
	if got := readRGBA(colorBuf, w*16, w-1, h-1); got != [4]float32{0, 0, 0, 0} {
		t.Fatalf("pixel outside triangle = %v, want untouched", got)
	}
}
