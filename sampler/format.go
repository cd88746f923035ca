// Package sampler builds the per-format texel codec, addressing-mode
// and filter-selection logic the pixel stage and standalone image
// operations use, emitting reactor IR rather than interpreting formats
// at call time. Grounded on the format-table style of
// hal/dx12/convert.go (a big switch over a format enum) and
// hal/gles/convert_test.go's per-format expectation tables, generalized
// from a one-to-one GPU-format mapping to a full encode/decode
// generator since there is no real backing GPU format to map onto.
package sampler

// Format is the subset of VkFormat this sampler supports, per the
// matrix in spec.md §6.
type Format uint32

const (
	FormatUndefined Format = iota

	// 8-bit normalized / integer, single and multi-channel.
	FormatR8Unorm
	FormatR8Snorm
	FormatR8Uint
	FormatR8Sint
	FormatR8G8Unorm
	FormatR8G8Snorm
	FormatR8G8Uint
	FormatR8G8Sint
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Snorm
	FormatR8G8B8A8Uint
	FormatR8G8B8A8Sint

	// Packed formats.
	FormatA2B10G10R10Unorm // 10/10/10/2 packed
	FormatA2B10G10R10Uint
	FormatB10G11R11Ufloat // 11/11/10 float

	// 16-bit.
	FormatR16Unorm
	FormatR16Snorm
	FormatR16Uint
	FormatR16Sint
	FormatR16Sfloat // half float
	FormatR16G16B16A16Unorm
	FormatR16G16B16A16Snorm
	FormatR16G16B16A16Uint
	FormatR16G16B16A16Sint
	FormatR16G16B16A16Sfloat

	// 32-bit.
	FormatR32Sfloat
	FormatR32Uint
	FormatR32Sint
	FormatR32G32B32A32Sfloat
	FormatR32G32B32A32Uint
	FormatR32G32B32A32Sint

	// Depth / stencil.
	FormatD16Unorm
	FormatD24UnormS8Uint
	FormatD32Sfloat
	FormatD32SfloatS8Uint
	FormatS8Uint
)

// Kind classifies how a format's stored bits map to the value domain
// the codec produces.
type Kind uint8

const (
	KindUnorm Kind = iota
	KindSnorm
	KindUint
	KindSint
	KindSfloat
	KindPackedUnorm1010102
	KindPackedUfloat11_11_10
	KindDepth
	KindDepthStencil
	KindStencil
)

// Info describes one format's storage layout: channel count (before
// any packing), bytes per channel (0 for packed/depth-stencil formats,
// which interpret BlockSize directly), and total texel size in bytes.
type Info struct {
	Kind           Kind
	Channels       int // number of channels; packed formats count their packed fields
	BytesPerChan   int
	BlockSizeBytes int
}

var formatTable = map[Format]Info{
	FormatR8Unorm:       {Kind: KindUnorm, Channels: 1, BytesPerChan: 1, BlockSizeBytes: 1},
	FormatR8Snorm:       {Kind: KindSnorm, Channels: 1, BytesPerChan: 1, BlockSizeBytes: 1},
	FormatR8Uint:        {Kind: KindUint, Channels: 1, BytesPerChan: 1, BlockSizeBytes: 1},
	FormatR8Sint:        {Kind: KindSint, Channels: 1, BytesPerChan: 1, BlockSizeBytes: 1},
	FormatR8G8Unorm:     {Kind: KindUnorm, Channels: 2, BytesPerChan: 1, BlockSizeBytes: 2},
	FormatR8G8Snorm:     {Kind: KindSnorm, Channels: 2, BytesPerChan: 1, BlockSizeBytes: 2},
	FormatR8G8Uint:      {Kind: KindUint, Channels: 2, BytesPerChan: 1, BlockSizeBytes: 2},
	FormatR8G8Sint:      {Kind: KindSint, Channels: 2, BytesPerChan: 1, BlockSizeBytes: 2},
	FormatR8G8B8A8Unorm: {Kind: KindUnorm, Channels: 4, BytesPerChan: 1, BlockSizeBytes: 4},
	FormatR8G8B8A8Snorm: {Kind: KindSnorm, Channels: 4, BytesPerChan: 1, BlockSizeBytes: 4},
	FormatR8G8B8A8Uint:  {Kind: KindUint, Channels: 4, BytesPerChan: 1, BlockSizeBytes: 4},
	FormatR8G8B8A8Sint:  {Kind: KindSint, Channels: 4, BytesPerChan: 1, BlockSizeBytes: 4},

	FormatA2B10G10R10Unorm: {Kind: KindPackedUnorm1010102, Channels: 4, BlockSizeBytes: 4},
	FormatA2B10G10R10Uint:  {Kind: KindPackedUnorm1010102, Channels: 4, BlockSizeBytes: 4},
	FormatB10G11R11Ufloat:  {Kind: KindPackedUfloat11_11_10, Channels: 3, BlockSizeBytes: 4},

	FormatR16Unorm:          {Kind: KindUnorm, Channels: 1, BytesPerChan: 2, BlockSizeBytes: 2},
	FormatR16Snorm:          {Kind: KindSnorm, Channels: 1, BytesPerChan: 2, BlockSizeBytes: 2},
	FormatR16Uint:           {Kind: KindUint, Channels: 1, BytesPerChan: 2, BlockSizeBytes: 2},
	FormatR16Sint:           {Kind: KindSint, Channels: 1, BytesPerChan: 2, BlockSizeBytes: 2},
	FormatR16Sfloat:         {Kind: KindSfloat, Channels: 1, BytesPerChan: 2, BlockSizeBytes: 2},
	FormatR16G16B16A16Unorm: {Kind: KindUnorm, Channels: 4, BytesPerChan: 2, BlockSizeBytes: 8},
	FormatR16G16B16A16Snorm: {Kind: KindSnorm, Channels: 4, BytesPerChan: 2, BlockSizeBytes: 8},
	FormatR16G16B16A16Uint:  {Kind: KindUint, Channels: 4, BytesPerChan: 2, BlockSizeBytes: 8},
	FormatR16G16B16A16Sint:  {Kind: KindSint, Channels: 4, BytesPerChan: 2, BlockSizeBytes: 8},
	FormatR16G16B16A16Sfloat: {Kind: KindSfloat, Channels: 4, BytesPerChan: 2, BlockSizeBytes: 8},

	FormatR32Sfloat:          {Kind: KindSfloat, Channels: 1, BytesPerChan: 4, BlockSizeBytes: 4},
	FormatR32Uint:            {Kind: KindUint, Channels: 1, BytesPerChan: 4, BlockSizeBytes: 4},
	FormatR32Sint:            {Kind: KindSint, Channels: 1, BytesPerChan: 4, BlockSizeBytes: 4},
	FormatR32G32B32A32Sfloat: {Kind: KindSfloat, Channels: 4, BytesPerChan: 4, BlockSizeBytes: 16},
	FormatR32G32B32A32Uint:   {Kind: KindUint, Channels: 4, BytesPerChan: 4, BlockSizeBytes: 16},
	FormatR32G32B32A32Sint:   {Kind: KindSint, Channels: 4, BytesPerChan: 4, BlockSizeBytes: 16},

	FormatD16Unorm:        {Kind: KindDepth, Channels: 1, BytesPerChan: 2, BlockSizeBytes: 2},
	FormatD24UnormS8Uint:  {Kind: KindDepthStencil, Channels: 2, BlockSizeBytes: 4},
	FormatD32Sfloat:       {Kind: KindDepth, Channels: 1, BytesPerChan: 4, BlockSizeBytes: 4},
	FormatD32SfloatS8Uint: {Kind: KindDepthStencil, Channels: 2, BlockSizeBytes: 8},
	FormatS8Uint:          {Kind: KindStencil, Channels: 1, BytesPerChan: 1, BlockSizeBytes: 1},
}

// Lookup returns the storage layout for format, or ok=false if swr does
// not support it.
func Lookup(f Format) (Info, bool) {
	info, ok := formatTable[f]
	return info, ok
}

// IsDepthOrStencil reports whether k is a depth, stencil or combined
// depth-stencil kind rather than a color kind.
func (k Kind) IsDepthOrStencil() bool {
	return k == KindDepth || k == KindDepthStencil || k == KindStencil
}
