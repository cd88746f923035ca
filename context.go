package swr

import (
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/scheduler"
	"github.com/gogpu/swr/shader"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/pixel"
	"github.com/gogpu/swr/stage/setup"
	"github.com/gogpu/swr/stage/vertex"
)

// IndexType names the width of index-buffer entries a caller's
// draw() passes in; the core always resolves them down to a flat
// []int32 before scheduling (spec.md §3's scheduler data model
// operates on resolved index values, not raw buffer bytes).
type IndexType uint8

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

// Context is "the currently bound pipeline state, descriptor sets,
// push constants, and render targets" spec.md §6's draw() references:
// everything needed to derive the vertex/setup/pixel State keys and
// to fill one draw's stage.DrawData. A caller typically keeps one
// Context alive across several draws, mutating it as pipeline state
// changes and passing needsUpdate=true to Renderer.Draw whenever it
// does.
type Context struct {
	// Shader identity and programs.
	ShaderID         uint64
	PipelineLayoutID uint64
	Vertex           *shader.Program
	Fragment         *shader.Program
	VaryingCount     int32

	// Vertex input assembly.
	VertexInput        [stage.MaxVertexInputs]vertex.InputState
	RobustBufferAccess bool

	// Primitive assembly / rasterizer state.
	Topology                  scheduler.Topology
	PointSize                 float32
	LineWidth                 float32
	Cull                      setup.CullMode
	Front                     setup.FrontFace
	DepthBiasConstant         float32
	DepthBiasSlope            float32
	DepthClipEnable           bool
	DepthClipNegativeOneToOne bool
	RasterizerDiscard         bool
	SampleCount               int32

	// Fragment / output-merger state.
	ColorFormat          [stage.MaxColorAttachments]sampler.Format
	ColorAttachmentCount int32
	DepthFormat          sampler.Format
	DepthTestEnable      bool
	DepthWriteEnable     bool
	DepthCompare         pixel.CompareFunc
	OcclusionEnable      bool

	// Render target / resource bindings, copied into DrawData at draw
	// time. DrawData is owned by the caller (it outlives the Context
	// across draws sharing the same bound targets) so Renderer.Draw
	// only ever reads from it plus zeroing Occlusion.
	DrawData *stage.DrawData
}

func (c *Context) isPoint() bool {
	return c.Topology == scheduler.TopologyPointList
}

func (c *Context) vertexState() vertex.State {
	return vertex.NewState(
		c.ShaderID, c.PipelineLayoutID,
		c.RobustBufferAccess, c.isPoint(),
		c.DepthClipEnable, c.DepthClipNegativeOneToOne,
		c.VaryingCount, c.VertexInput,
	)
}

func (c *Context) setupState() setup.State {
	return setup.NewState(
		c.VaryingCount, c.Cull, c.Front,
		c.DepthBiasConstant, c.DepthBiasSlope,
		c.DepthClipEnable, c.DepthClipNegativeOneToOne,
	)
}

func (c *Context) pixelState() pixel.State {
	return pixel.NewState(
		c.VaryingCount, c.ColorAttachmentCount, c.ColorFormat,
		c.DepthFormat, c.DepthTestEnable, c.DepthWriteEnable,
		c.DepthCompare, c.OcclusionEnable,
	)
}
