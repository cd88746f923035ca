package sampler

import (
	"fmt"

	"github.com/gogpu/swr/reactor"
)

// Unpack emits IR reading one texel at ptr (a TypePointer value) and
// returns a Float4 (normalized/float/packed-float formats, or a
// depth/stencil pair in lanes 0/1) or an Int4 (integer formats)
// holding rgba in lanes 0..3. Missing color channels are filled per
// spec.md §4.D: alpha defaults to 1, unused RGB lanes to 0.
func Unpack(b *reactor.Builder, format Format, ptr reactor.Value) (reactor.Value, error) {
	info, ok := Lookup(format)
	if !ok {
		return reactor.Value{}, fmt.Errorf("sampler: unsupported format %v", format)
	}
	switch info.Kind {
	case KindUnorm, KindSnorm, KindUint, KindSint:
		return unpackPlain(b, info, ptr), nil
	case KindSfloat:
		return unpackSfloat(b, info, ptr), nil
	case KindPackedUnorm1010102:
		return unpackPacked1010102(b, ptr, format == FormatA2B10G10R10Uint), nil
	case KindPackedUfloat11_11_10:
		return unpackPackedUfloat11_11_10(b, ptr), nil
	case KindDepth:
		return unpackDepth(b, info, ptr), nil
	case KindDepthStencil:
		return unpackDepthStencil(b, format, ptr), nil
	case KindStencil:
		return unpackStencil(b, ptr), nil
	default:
		return reactor.Value{}, fmt.Errorf("sampler: unhandled format kind %v", info.Kind)
	}
}

// Pack is Unpack's inverse: it emits IR storing value (as produced by
// Unpack for the same format) back into the texel at ptr.
func Pack(b *reactor.Builder, format Format, ptr reactor.Value, value reactor.Value) error {
	info, ok := Lookup(format)
	if !ok {
		return fmt.Errorf("sampler: unsupported format %v", format)
	}
	switch info.Kind {
	case KindUnorm, KindSnorm, KindUint, KindSint:
		packPlain(b, info, ptr, value)
	case KindSfloat:
		packSfloat(b, info, ptr, value)
	case KindPackedUnorm1010102:
		packPacked1010102(b, ptr, value, format == FormatA2B10G10R10Uint)
	case KindPackedUfloat11_11_10:
		packPackedUfloat11_11_10(b, ptr, value)
	case KindDepth:
		packDepth(b, info, ptr, value)
	case KindDepthStencil:
		packDepthStencil(b, format, ptr, value)
	case KindStencil:
		packStencil(b, ptr, value)
	default:
		return fmt.Errorf("sampler: unhandled format kind %v", info.Kind)
	}
	return nil
}

// channelPtr computes the address of channel c assuming byteWidth
// bytes per channel, tightly packed.
func channelPtr(b *reactor.Builder, ptr reactor.Value, c, byteWidth int) reactor.Value {
	return b.PointerOffset(ptr, c*byteWidth)
}

// loadChannelWord reads the native 4-byte word starting at channel c's
// own byte offset. For byteWidth < 4 this deliberately over-reads into
// the following channels (or up to 3 bytes past a single-channel
// texel's end); unpackChannel masks to the low byteWidth bytes. The
// over-read lands in whatever memory follows the texel in the caller's
// buffer; nothing here pads or bounds it.
func loadChannelWord(b *reactor.Builder, ptr reactor.Value, c, byteWidth int) reactor.Value {
	return b.Load(channelPtr(b, ptr, c, byteWidth), reactor.TypeInt32)
}

func boolToInt32(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// unpackPlain handles Unorm/Snorm/Uint/Sint for byte widths 1, 2 and 4.
// 4-byte channels map straight onto a native Load; narrower ones go
// through the sampler.unpackChannel native helper (see runtime.go).
func unpackPlain(b *reactor.Builder, info Info, ptr reactor.Value) reactor.Value {
	signed := info.Kind == KindSnorm || info.Kind == KindSint
	normalized := info.Kind == KindUnorm || info.Kind == KindSnorm
	isInt := info.Kind == KindUint || info.Kind == KindSint

	lanes := make([]reactor.Value, 4)
	for c := 0; c < 4; c++ {
		if c >= info.Channels {
			if c == 3 && !isInt {
				lanes[c] = b.ConstFloat(1)
			} else if c == 3 && isInt {
				lanes[c] = b.ConstInt(1)
			} else if isInt {
				lanes[c] = b.ConstInt(0)
			} else {
				lanes[c] = b.ConstFloat(0)
			}
			continue
		}
		if info.BytesPerChan == 4 {
			lanes[c] = b.Load(channelPtr(b, ptr, c, 4), reactor.TypeInt32)
			continue
		}
		word := loadChannelWord(b, ptr, c, info.BytesPerChan)
		if isInt {
			lanes[c] = b.Call(fnUnpackChannel, reactor.TypeInt32, word,
				b.ConstInt(int32(info.BytesPerChan)), b.ConstInt(boolToInt32(signed)), b.ConstInt(0))
		} else {
			lanes[c] = b.Call(fnUnpackChannel, reactor.TypeFloat32, word,
				b.ConstInt(int32(info.BytesPerChan)), b.ConstInt(boolToInt32(signed)), b.ConstInt(boolToInt32(normalized)))
		}
	}
	return splatLanes(b, lanes)
}

func packPlain(b *reactor.Builder, info Info, ptr, value reactor.Value) {
	signed := info.Kind == KindSnorm || info.Kind == KindSint
	normalized := info.Kind == KindUnorm || info.Kind == KindSnorm

	for c := 0; c < info.Channels; c++ {
		lane := b.ExtractLane(value, c)
		dst := channelPtr(b, ptr, c, info.BytesPerChan)
		if info.BytesPerChan == 4 {
			b.Store(dst, lane)
			continue
		}
		// fnPackChannel stores its own byteWidth bytes at dst rather
		// than returning a value for a native Store, which would write
		// a full 4-byte granule over a 1- or 2-byte channel.
		b.Call(fnPackChannel, reactor.TypeInvalid, dst, lane,
			b.ConstInt(int32(info.BytesPerChan)), b.ConstInt(boolToInt32(signed)), b.ConstInt(boolToInt32(normalized)))
	}
}

func unpackSfloat(b *reactor.Builder, info Info, ptr reactor.Value) reactor.Value {
	lanes := make([]reactor.Value, 4)
	for c := 0; c < 4; c++ {
		if c >= info.Channels {
			v := float32(0)
			if c == 3 {
				v = 1
			}
			lanes[c] = b.ConstFloat(v)
			continue
		}
		if info.BytesPerChan == 4 {
			lanes[c] = b.Load(channelPtr(b, ptr, c, 4), reactor.TypeFloat32)
			continue
		}
		word := loadChannelWord(b, ptr, c, 2)
		lanes[c] = b.Call(fnUnpackHalf, reactor.TypeFloat32, word)
	}
	return splatLanes(b, lanes)
}

func packSfloat(b *reactor.Builder, info Info, ptr, value reactor.Value) {
	for c := 0; c < info.Channels; c++ {
		lane := b.ExtractLane(value, c)
		if info.BytesPerChan == 4 {
			b.Store(channelPtr(b, ptr, c, 4), lane)
			continue
		}
		b.Call(fnPackHalf, reactor.TypeInvalid, channelPtr(b, ptr, c, 2), lane)
	}
}

func unpackPacked1010102(b *reactor.Builder, ptr reactor.Value, isUint bool) reactor.Value {
	word := b.Load(ptr, reactor.TypeInt32)
	isUintArg := b.ConstInt(boolToInt32(isUint))
	retType := reactor.TypeFloat32
	if isUint {
		retType = reactor.TypeInt32
	}
	lanes := make([]reactor.Value, 4)
	for c := 0; c < 4; c++ {
		lanes[c] = b.Call(fnUnpackUnorm1010102, retType, word, b.ConstInt(int32(c)), isUintArg)
	}
	return splatLanes(b, lanes)
}

func packPacked1010102(b *reactor.Builder, ptr, value reactor.Value, isUint bool) {
	r, g, bl, a := b.ExtractLane(value, 0), b.ExtractLane(value, 1), b.ExtractLane(value, 2), b.ExtractLane(value, 3)
	packed := b.Call(fnPackUnorm1010102, reactor.TypeInt32, r, g, bl, a, b.ConstInt(boolToInt32(isUint)))
	b.Store(ptr, packed)
}

func unpackPackedUfloat11_11_10(b *reactor.Builder, ptr reactor.Value) reactor.Value {
	word := b.Load(ptr, reactor.TypeInt32)
	lanes := []reactor.Value{
		b.Call(fnUnpackUfloat11_11_10, reactor.TypeFloat32, word, b.ConstInt(0)),
		b.Call(fnUnpackUfloat11_11_10, reactor.TypeFloat32, word, b.ConstInt(1)),
		b.Call(fnUnpackUfloat11_11_10, reactor.TypeFloat32, word, b.ConstInt(2)),
		b.ConstFloat(1),
	}
	return splatLanes(b, lanes)
}

func packPackedUfloat11_11_10(b *reactor.Builder, ptr, value reactor.Value) {
	r, g, bl := b.ExtractLane(value, 0), b.ExtractLane(value, 1), b.ExtractLane(value, 2)
	packed := b.Call(fnPackUfloat11_11_10, reactor.TypeInt32, r, g, bl)
	b.Store(ptr, packed)
}

// unpackDepth handles standalone depth formats (D16_UNORM, D32_SFLOAT):
// the depth value lands in lane 0, the rest zeroed.
func unpackDepth(b *reactor.Builder, info Info, ptr reactor.Value) reactor.Value {
	var depth reactor.Value
	if info.BytesPerChan == 4 {
		depth = b.Load(ptr, reactor.TypeFloat32)
	} else {
		word := loadChannelWord(b, ptr, 0, info.BytesPerChan)
		depth = b.Call(fnUnpackChannel, reactor.TypeFloat32, word,
			b.ConstInt(int32(info.BytesPerChan)), b.ConstInt(0), b.ConstInt(1))
	}
	return splatLanes(b, []reactor.Value{depth, b.ConstFloat(0), b.ConstFloat(0), b.ConstFloat(0)})
}

func packDepth(b *reactor.Builder, info Info, ptr, value reactor.Value) {
	depth := b.ExtractLane(value, 0)
	if info.BytesPerChan == 4 {
		b.Store(ptr, depth)
		return
	}
	b.Call(fnPackChannel, reactor.TypeInvalid, ptr, depth, b.ConstInt(int32(info.BytesPerChan)), b.ConstInt(0), b.ConstInt(1))
}

// unpackDepthStencil handles D24_UNORM_S8_UINT (one packed 4-byte
// word) and D32_SFLOAT_S8_UINT (a native float word plus a trailing
// stencil byte): depth in lane 0, stencil in lane 1.
func unpackDepthStencil(b *reactor.Builder, format Format, ptr reactor.Value) reactor.Value {
	var depth, stencil reactor.Value
	if format == FormatD24UnormS8Uint {
		word := b.Load(ptr, reactor.TypeInt32)
		depth = b.Call(fnUnpackDepth24Stencil8, reactor.TypeFloat32, word, b.ConstInt(0))
		stencil = b.Call(fnUnpackDepth24Stencil8, reactor.TypeInt32, word, b.ConstInt(1))
	} else {
		depth = b.Load(channelPtr(b, ptr, 0, 4), reactor.TypeFloat32)
		sword := loadChannelWord(b, ptr, 4, 1)
		stencil = b.Call(fnUnpackChannel, reactor.TypeInt32, sword, b.ConstInt(1), b.ConstInt(0), b.ConstInt(0))
	}
	return splatLanes(b, []reactor.Value{depth, b.IntToFloat(stencil), b.ConstFloat(0), b.ConstFloat(0)})
}

func packDepthStencil(b *reactor.Builder, format Format, ptr, value reactor.Value) {
	depth := b.ExtractLane(value, 0)
	stencil := b.FloatToInt(b.ExtractLane(value, 1))
	if format == FormatD24UnormS8Uint {
		packed := b.Call(fnPackDepth24Stencil8, reactor.TypeInt32, depth, stencil)
		b.Store(ptr, packed)
		return
	}
	b.Store(channelPtr(b, ptr, 0, 4), depth)
	b.Call(fnPackChannel, reactor.TypeInvalid, channelPtr(b, ptr, 4, 1), stencil, b.ConstInt(1), b.ConstInt(0), b.ConstInt(0))
}

func unpackStencil(b *reactor.Builder, ptr reactor.Value) reactor.Value {
	word := loadChannelWord(b, ptr, 0, 1)
	stencil := b.Call(fnUnpackChannel, reactor.TypeInt32, word, b.ConstInt(1), b.ConstInt(0), b.ConstInt(0))
	return splatLanes(b, []reactor.Value{stencil, b.ConstInt(0), b.ConstInt(0), b.ConstInt(0)})
}

func packStencil(b *reactor.Builder, ptr, value reactor.Value) {
	lane := b.ExtractLane(value, 0)
	b.Call(fnPackChannel, reactor.TypeInvalid, channelPtr(b, ptr, 0, 1), lane, b.ConstInt(1), b.ConstInt(0), b.ConstInt(0))
}

// splatLanes assembles four scalar lanes into one SIMD value via
// repeated InsertLane, starting from a Splat of the first lane.
func splatLanes(b *reactor.Builder, lanes []reactor.Value) reactor.Value {
	v := b.Splat(lanes[0])
	for i := 1; i < 4; i++ {
		v = b.InsertLane(v, i, lanes[i])
	}
	return v
}
