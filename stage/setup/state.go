// Package setup generalizes hal/software/raster's triangle setup path
// (cull.go's trivial-reject/back-face/guard-band tests, triangle.go's
// edge-function construction) into spec.md §4.E's state-keyed,
// JIT-emitted setup stage: one routine per State transforms a clipped
// triangle into screen-space edge equations and a perspective-correct
// interpolation basis for every varying.
package setup

import "github.com/gogpu/swr/stage"

// CullMode selects which winding(s) setup discards.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// FrontFace selects which winding order is considered front-facing.
type FrontFace uint8

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// State distills the pipeline's rasterization state into what the
// generated setup routine's code depends on: varying count (shared
// with the vertex stage that produced the triangle), culling, and
// depth-bias/clip parameters, per spec.md §4.E.
type State struct {
	VaryingCount              int32
	Cull                      CullMode
	Front                     FrontFace
	DepthBiasConstant         float32
	DepthBiasSlope            float32
	DepthClipEnable           bool
	DepthClipNegativeOneToOne bool
	Hash                      uint32
}

// NewState builds a State and fills in its Hash.
func NewState(varyingCount int32, cull CullMode, front FrontFace, depthBiasConstant, depthBiasSlope float32, depthClipEnable, depthClipNegativeOneToOne bool) State {
	s := State{
		VaryingCount:              varyingCount,
		Cull:                      cull,
		Front:                     front,
		DepthBiasConstant:         depthBiasConstant,
		DepthBiasSlope:            depthBiasSlope,
		DepthClipEnable:           depthClipEnable,
		DepthClipNegativeOneToOne: depthClipNegativeOneToOne,
	}
	s.Hash = s.computeHash()
	return s
}

func (s State) computeHash() uint32 {
	return stage.HashWords(
		uint32(s.VaryingCount),
		uint32(s.Cull),
		uint32(s.Front),
		stage.CanonFloat32(s.DepthBiasConstant),
		stage.CanonFloat32(s.DepthBiasSlope),
		stage.BoolWord(s.DepthClipEnable),
		stage.BoolWord(s.DepthClipNegativeOneToOne),
	)
}

// Cache is a setup-stage routine cache.
type Cache = stage.RoutineCache[State]

// NewCache creates a setup-stage routine cache.
func NewCache(capacity int) *Cache {
	return stage.NewRoutineCache[State](capacity)
}
