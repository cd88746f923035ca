// Package vertex generalizes hal/software/raster/pipeline.go's fixed
// DrawTriangles/DrawTrianglesInterpolated methods into spec.md §4.E's
// state-keyed, JIT-emitted vertex stage: a State distilled from the
// pipeline description picks (or builds) one IR routine with a fixed
// ABI, cached by stage.RoutineCache.
package vertex

import (
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/stage"
)

// InputState is the per-stream part of a vertex State: whether the
// slot is bound at all, and its format (which selects the sampler
// codec used to decode it). Buffer pointer and stride are runtime
// DrawData fields, not state — two draws with the same format/active
// bits but different buffers must hit the same cached routine.
type InputState struct {
	Active bool
	Format sampler.Format
}

// State distills everything about the pipeline that affects the
// generated vertex routine's code, per spec.md §4.E: shader identity,
// pipeline layout identity, robustness/clip flags, and per-slot input
// formats.
type State struct {
	ShaderID                  uint64
	PipelineLayoutID          uint64
	RobustBufferAccess        bool
	IsPoint                   bool
	DepthClipEnable           bool
	DepthClipNegativeOneToOne bool
	VaryingCount              int32
	Input                     [stage.MaxVertexInputs]InputState
	Hash                      uint32
}

// NewState builds a State and fills in its Hash, per spec.md §4.E's
// "a precomputed hash field is kept in sync with the rest of the
// record."
func NewState(shaderID, pipelineLayoutID uint64, robustBufferAccess, isPoint, depthClipEnable, depthClipNegativeOneToOne bool, varyingCount int32, input [stage.MaxVertexInputs]InputState) State {
	s := State{
		ShaderID:                  shaderID,
		PipelineLayoutID:          pipelineLayoutID,
		RobustBufferAccess:        robustBufferAccess,
		IsPoint:                   isPoint,
		DepthClipEnable:           depthClipEnable,
		DepthClipNegativeOneToOne: depthClipNegativeOneToOne,
		VaryingCount:              varyingCount,
		Input:                     input,
	}
	s.Hash = s.computeHash()
	return s
}

func (s State) computeHash() uint32 {
	words := make([]uint32, 0, 8+2*len(s.Input))
	words = append(words,
		uint32(s.ShaderID), uint32(s.ShaderID>>32),
		uint32(s.PipelineLayoutID), uint32(s.PipelineLayoutID>>32),
		stage.BoolWord(s.RobustBufferAccess),
		stage.BoolWord(s.IsPoint),
		stage.BoolWord(s.DepthClipEnable),
		stage.BoolWord(s.DepthClipNegativeOneToOne),
		uint32(s.VaryingCount),
	)
	for _, in := range s.Input {
		words = append(words, stage.BoolWord(in.Active), uint32(in.Format))
	}
	return stage.HashWords(words...)
}

// Cache is a vertex-stage routine cache.
type Cache = stage.RoutineCache[State]

// NewCache creates a vertex-stage routine cache.
func NewCache(capacity int) *Cache {
	return stage.NewRoutineCache[State](capacity)
}
