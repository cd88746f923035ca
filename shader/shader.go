// Package shader is the IR-emission contract a vertex or fragment
// program presents to the stage generators (stage/vertex, stage/setup,
// stage/pixel). The SPIR-V front end that would normally translate a
// shader module into this form is out of scope; callers hand the stage
// generators an already-built Program, the way
// hal/software/shader/callback.go's closure-based ShaderProgram stood
// in for a real shader compiler in the teacher — generalized here from
// a plain Go closure over float32 values to an IR-emitting closure over
// reactor.Value, since the generated vertex/pixel routines run as
// native code, not as interpreted Go callbacks.
package shader

import "github.com/gogpu/swr/reactor"

// VertexInputs is what a vertex program reads: the index currently
// being processed and one already-decoded attribute Value per bound
// vertex stream (decoded by the vertex stage generator via the sampler
// package's format codec before the shader runs, per spec.md §4.E).
type VertexInputs struct {
	Index      reactor.Value
	Attributes []reactor.Value
}

// VertexOutputs is what a vertex program must produce: a clip-space
// position (TypeFloat4) and one interpolated varying per output slot
// (each TypeFloat4, matching the pixel stage's interpolation basis).
type VertexOutputs struct {
	Position reactor.Value
	Varyings []reactor.Value
}

// VertexFunc emits IR into b computing VertexOutputs from in.
type VertexFunc func(b *reactor.Builder, in VertexInputs) VertexOutputs

// FragmentInputs is what a fragment program reads: the fragment's
// window-space coordinates (x, y, depth, 1/w in the four lanes) and the
// setup-interpolated varyings.
type FragmentInputs struct {
	FragCoord reactor.Value
	Varyings  []reactor.Value
}

// FragmentFunc emits IR into b computing an rgba color and a kill mask
// (true lanes are discarded, for shaders using `discard`) from in.
type FragmentFunc func(b *reactor.Builder, in FragmentInputs) (rgba reactor.Value, kill reactor.Value)

// Program pairs a vertex and fragment IR emitter under one cache
// identity, generalizing hal/software/shader/callback.go's
// ShaderProgram into the generator's IR-emission domain. ID is the
// opaque "shader identity" spec.md §4.E folds into VertexState and
// PixelState; two Programs compiled from the same source must share an
// ID so their generated routines hit the same cache entries.
type Program struct {
	ID       uint64
	Varyings int
	Vertex   VertexFunc
	Fragment FragmentFunc
}
