// Package pixel generalizes hal/software/raster's fragment-processing
// path into spec.md §4.E's state-keyed pixel stage: one routine per
// State walks a setup primitive's bounding box, runs the edge/depth
// test per candidate pixel, invokes the bound fragment program, and
// writes color/depth/occlusion results.
package pixel

import (
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/stage"
)

// CompareFunc mirrors hal/software/raster/types.go's CompareFunc,
// redeclared here rather than imported so stage/pixel does not take a
// dependency on code slated for adaptation elsewhere.
type CompareFunc uint8

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// State distills the pipeline's fragment-processing state into what
// the generated pixel routine's code depends on: how many varyings the
// triangle carries, each render target's format, and the depth/
// occlusion behavior to compile in, per spec.md §4.E.
type State struct {
	VaryingCount          int32
	ColorAttachmentCount  int32
	ColorFormat           [stage.MaxColorAttachments]sampler.Format
	DepthFormat           sampler.Format
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompare          CompareFunc
	OcclusionEnable       bool
	Hash                  uint32
}

// NewState builds a State and fills in its Hash.
func NewState(varyingCount, colorAttachmentCount int32, colorFormat [stage.MaxColorAttachments]sampler.Format, depthFormat sampler.Format, depthTestEnable, depthWriteEnable bool, depthCompare CompareFunc, occlusionEnable bool) State {
	s := State{
		VaryingCount:         varyingCount,
		ColorAttachmentCount: colorAttachmentCount,
		ColorFormat:          colorFormat,
		DepthFormat:          depthFormat,
		DepthTestEnable:      depthTestEnable,
		DepthWriteEnable:     depthWriteEnable,
		DepthCompare:         depthCompare,
		OcclusionEnable:      occlusionEnable,
	}
	s.Hash = s.computeHash()
	return s
}

func (s State) computeHash() uint32 {
	words := make([]uint32, 0, 8+int(stage.MaxColorAttachments))
	words = append(words,
		uint32(s.VaryingCount),
		uint32(s.ColorAttachmentCount),
		uint32(s.DepthFormat),
		stage.BoolWord(s.DepthTestEnable),
		stage.BoolWord(s.DepthWriteEnable),
		uint32(s.DepthCompare),
		stage.BoolWord(s.OcclusionEnable),
	)
	for _, f := range s.ColorFormat {
		words = append(words, uint32(f))
	}
	return stage.HashWords(words...)
}

// Cache is a pixel-stage routine cache.
type Cache = stage.RoutineCache[State]

// NewCache creates a pixel-stage routine cache.
func NewCache(capacity int) *Cache {
	return stage.NewRoutineCache[State](capacity)
}
