// Command swrdemo renders a single triangle with the CPU-only pipeline
// and writes the result to a PPM file, exercising the same path
// spec.md §8's single-triangle scenario describes: one draw through
// vertex/setup/pixel with no shading beyond a constant fragment color.
package main

import (
	"fmt"
	"math"
	"os"
	"unsafe"

	"github.com/gogpu/swr"
	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/scheduler"
	"github.com/gogpu/swr/shader"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/pixel"
	"github.com/gogpu/swr/stage/setup"
	"github.com/gogpu/swr/stage/vertex"
)

const (
	width  = 256
	height = 256
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fmt.Println("=== swrdemo: single triangle ===")

	fmt.Print("1. Creating renderer... ")
	renderer := swr.New(swr.RendererConfig{})
	fmt.Println("OK")

	fmt.Print("2. Building pipeline context... ")
	ctx, colorBuf, vbuf := buildContext()
	fmt.Println("OK")

	fmt.Print("3. Submitting draw... ")
	if err := renderer.Draw(ctx, swr.IndexTypeUint32, 3, 0, nil, true); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	renderer.Synchronize()
	fmt.Println("OK")
	_ = vbuf

	fmt.Print("4. Writing output.ppm... ")
	if err := writePPM("output.ppm", colorBuf, width, height); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	fmt.Println("OK")

	return nil
}

// buildContext assembles a Context drawing one CCW triangle covering
// roughly the left half of the viewport in solid red, with no depth
// or blend state exercised.
func buildContext() (*swr.Context, []byte, []byte) {
	// NDC triangle winding CCW, covering x+y <= 0 within [-1,1]^2.
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

	indices := make([]byte, 3*4)
	for i := 0; i < 3; i++ {
		*(*uint32)(unsafe.Pointer(&indices[i*4])) = uint32(i)
	}

	colorBuf := make([]byte, width*height*16)

	var dd stage.DrawData
	dd.Input[0] = stage.InputStream{Buffer: uintptr(unsafe.Pointer(&vbuf[0])), Stride: 16}
	dd.IndexBuffer = uintptr(unsafe.Pointer(&indices[0]))
	dd.ColorBuffer[0] = uintptr(unsafe.Pointer(&colorBuf[0]))
	dd.ColorPitchB[0] = width * 16

	swr.SetViewport(&dd, 0, 0, width, height, 0, 1)
	swr.SetScissor(&dd, 0, 0, width, height)

	var vertexInput [stage.MaxVertexInputs]vertex.InputState
	vertexInput[0] = vertex.InputState{Active: true, Format: sampler.FormatR32G32B32A32Sfloat}

	var colorFormat [stage.MaxColorAttachments]sampler.Format
	colorFormat[0] = sampler.FormatR32G32B32A32Sfloat

	ctx := &swr.Context{
		ShaderID:             1,
		PipelineLayoutID:     1,
		Vertex:               identityVertexProgram(),
		Fragment:             solidRedProgram(),
		VaryingCount:         0,
		VertexInput:          vertexInput,
		Topology:             scheduler.TopologyTriangleList,
		Cull:                 setup.CullNone,
		Front:                setup.FrontFaceCCW,
		DepthClipEnable:      true,
		SampleCount:          1,
		ColorFormat:          colorFormat,
		ColorAttachmentCount: 1,
		DepthFormat:          sampler.FormatD32Sfloat,
		DepthCompare:         pixel.CompareAlways,
		DrawData:             &dd,
	}
	return ctx, colorBuf, vbuf
}

// identityVertexProgram passes its sole attribute straight through as
// clip-space position.
func identityVertexProgram() *shader.Program {
	return &shader.Program{
		ID: 1,
		Vertex: func(b *reactor.Builder, in shader.VertexInputs) shader.VertexOutputs {
			return shader.VertexOutputs{Position: in.Attributes[0]}
		},
	}
}

// solidRedProgram ignores its inputs and always shades opaque red.
func solidRedProgram() *shader.Program {
	return &shader.Program{
		ID: 2,
		Fragment: func(b *reactor.Builder, in shader.FragmentInputs) (reactor.Value, reactor.Value) {
			v := b.Splat(b.ConstFloat(1))
			v = b.InsertLane(v, 1, b.ConstFloat(0))
			v = b.InsertLane(v, 2, b.ConstFloat(0))
			v = b.InsertLane(v, 3, b.ConstFloat(1))
			return v, b.ConstBool(false)
		},
	}
}

// writePPM dumps an R32G32B32A32_SFLOAT color buffer as an 8-bit PPM,
// clamping each channel to [0,1] and dropping alpha.
func writePPM(path string, colorBuf []byte, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "P6\n%d %d\n255\n", w, h); err != nil {
		return err
	}

	row := make([]byte, w*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*w*16 + x*16
			for c := 0; c < 3; c++ {
				v := math.Float32frombits(*(*uint32)(unsafe.Pointer(&colorBuf[off+c*4])))
				row[x*3+c] = clamp8(v)
			}
		}
		if _, err := f.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func clamp8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v * 255)
}
