package sampler

// Method is the sampling operation a sampler routine implements, one
// per spec.md §4.D's "plain sample, explicit LOD, fetch, gather,
// write".
type Method uint8

const (
	MethodSample Method = iota
	MethodSampleExplicitLOD
	MethodFetch
	MethodGather
	MethodWrite
)

// FilterMode is the per-axis (min/mag) texel filter.
type FilterMode uint8

const (
	FilterPoint FilterMode = iota
	FilterLinear
	FilterAnisotropic
)

// MipFilterMode selects how two adjacent mip levels combine.
type MipFilterMode uint8

const (
	MipFilterNone MipFilterMode = iota
	MipFilterNearest
	MipFilterLinear
)

// ViewKind distinguishes the view shapes filter selection cares about.
type ViewKind uint8

const (
	View2D ViewKind = iota
	View2DArray
	View3D
	ViewCube
	ViewCubeArray
	ViewYCbCr // multi-planar, non-RGB-identity conversion
)

// SamplerDesc is the subset of sampler + image-view state filter
// selection depends on.
type SamplerDesc struct {
	Method              Method
	View                ViewKind
	AnisotropyRequested bool
	MinFilter, MagFilter FilterMode
	MipmapMode          MipFilterMode
	SingleMipLevel      bool
}

// SelectFilter implements spec.md §4.D's filter-selection rules.
func SelectFilter(d SamplerDesc) (min, mag FilterMode) {
	switch {
	case d.Method == MethodGather:
		return FilterPoint, FilterPoint
	case d.Method == MethodFetch:
		return FilterPoint, FilterPoint
	case d.AnisotropyRequested && (d.View == View2D || d.View == View2DArray) && d.Method != MethodSampleExplicitLOD:
		return FilterAnisotropic, FilterAnisotropic
	default:
		return d.MinFilter, d.MagFilter
	}
}

// SelectMipFilter implements spec.md §4.D's mip-filter derivation:
// multi-planar (non-RGB-identity) views elide mip selection entirely,
// and a single-mip-level view with a LOD-independent filter and a
// non-LOD-query method forces LOD to 0 rather than computing it.
func SelectMipFilter(d SamplerDesc) (mode MipFilterMode, forceLOD0 bool) {
	if d.View == ViewYCbCr {
		return MipFilterNone, false
	}
	min, mag := SelectFilter(d)
	lodIndependent := min != FilterAnisotropic && mag != FilterAnisotropic && d.MipmapMode == MipFilterNone
	if d.SingleMipLevel && lodIndependent && d.Method != MethodSampleExplicitLOD {
		return d.MipmapMode, true
	}
	return d.MipmapMode, false
}

// GatherFootprint is the fixed 2×2 point-sampled footprint a Gather
// method always uses, returning the four texel offsets (x, y) it covers.
func GatherFootprint() [4][2]int32 {
	return [4][2]int32{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
}
