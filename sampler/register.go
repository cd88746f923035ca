package sampler

import (
	"math"
	"unsafe"

	"github.com/gogpu/swr/reactor/backend/asm"
)

// Names of the native helpers codec.go's Call ops reach into, kept as
// package constants so codec.go and the registrations below agree.
const (
	fnUnpackChannel           = "sampler.unpackChannel"
	fnPackChannel             = "sampler.packChannel"
	fnUnpackHalf              = "sampler.unpackHalf"
	fnPackHalf                = "sampler.packHalf"
	fnUnpackUnorm1010102      = "sampler.unpackUnorm1010102"
	fnPackUnorm1010102        = "sampler.packUnorm1010102"
	fnUnpackUfloat11_11_10    = "sampler.unpackUfloat11_11_10"
	fnPackUfloat11_11_10      = "sampler.packUfloat11_11_10"
	fnUnpackDepth24Stencil8   = "sampler.unpackDepth24Stencil8"
	fnPackDepth24Stencil8     = "sampler.packDepth24Stencil8"
)

// RegisterRuntimeHelpers wires every native helper codec.go's Call ops
// depend on into the asm interpreter backend. Must run once before any
// sampler-built routine is emitted through asm.Backend (or
// reactor/backend/opt.Backend, which delegates to it).
func RegisterRuntimeHelpers() {
	asm.Register(fnUnpackChannel, func(args []uint64) uint64 {
		raw, byteWidth, signed, normalized := uint32(args[0]), int(args[1]), int32(args[2]), int32(args[3])
		v := unpackChannelFloat(raw, byteWidth, signed, normalized)
		if normalized == 0 {
			// Call site typed this TypeInt32 (codec.go's isInt path):
			// v already holds the sign-extended integer as a float32,
			// so hand back the integer itself, not its bit pattern.
			return uint64(uint32(int32(v)))
		}
		return uint64(math.Float32bits(v))
	})
	// fnPackChannel writes its own destination bytes via ptr rather than
	// returning a value for an ordinary Store: reactor.Store always
	// writes a native 4-byte granule (reactor/backend/asm/interp.go's
	// sizeOf), which would clobber the neighboring 1- or 2-byte
	// channels (and overrun the last channel's buffer) if used for a
	// narrower logical width.
	asm.Register(fnPackChannel, func(args []uint64) uint64 {
		ptr := uintptr(args[0])
		byteWidth, signed, normalized := int(args[2]), int32(args[3]), int32(args[4])
		var f float32
		if normalized == 0 {
			f = float32(int32(args[1]))
		} else {
			f = math.Float32frombits(uint32(args[1]))
		}
		storeLE(ptr, packChannelFloat(f, byteWidth, signed, normalized), byteWidth)
		return 0
	})
	asm.Register(fnUnpackHalf, func(args []uint64) uint64 {
		return uint64(math.Float32bits(halfToFloat(uint16(args[0]))))
	})
	asm.Register(fnPackHalf, func(args []uint64) uint64 {
		ptr := uintptr(args[0])
		h := floatToHalf(math.Float32frombits(uint32(args[1])))
		storeLE(ptr, uint32(h), 2)
		return 0
	})
	asm.Register(fnUnpackUnorm1010102, func(args []uint64) uint64 {
		word, channel, isUint := uint32(args[0]), int(args[1]), args[2] != 0
		r, g, b, a := unpackUnorm1010102(word, isUint)
		v := pick4(r, g, b, a, channel)
		if isUint {
			// unpackUnorm1010102's isUint path returns the raw channel
			// value as a float32, not a bit pattern — the Call site
			// types this result TypeInt32, so hand back the integer
			// value itself rather than math.Float32bits of it.
			return uint64(uint32(v))
		}
		return uint64(math.Float32bits(v))
	})
	asm.Register(fnPackUnorm1010102, func(args []uint64) uint64 {
		isUint := args[4] != 0
		var r, g, b, a float32
		if isUint {
			r = float32(uint32(args[0]))
			g = float32(uint32(args[1]))
			b = float32(uint32(args[2]))
			a = float32(uint32(args[3]))
		} else {
			r = math.Float32frombits(uint32(args[0]))
			g = math.Float32frombits(uint32(args[1]))
			b = math.Float32frombits(uint32(args[2]))
			a = math.Float32frombits(uint32(args[3]))
		}
		return uint64(packUnorm1010102(r, g, b, a, isUint))
	})
	asm.Register(fnUnpackUfloat11_11_10, func(args []uint64) uint64 {
		word, channel := uint32(args[0]), int(args[1])
		r, g, b := unpackUfloat11_11_10(word)
		return uint64(math.Float32bits(pick4(r, g, b, 0, channel)))
	})
	asm.Register(fnPackUfloat11_11_10, func(args []uint64) uint64 {
		r := math.Float32frombits(uint32(args[0]))
		g := math.Float32frombits(uint32(args[1]))
		b := math.Float32frombits(uint32(args[2]))
		return uint64(packUfloat11_11_10(r, g, b))
	})
	asm.Register(fnUnpackDepth24Stencil8, func(args []uint64) uint64 {
		word, wantStencil := uint32(args[0]), args[1] != 0
		depth, stencil := unpackDepth24Stencil8(word)
		if wantStencil {
			return uint64(stencil)
		}
		return uint64(math.Float32bits(depth))
	})
	asm.Register(fnPackDepth24Stencil8, func(args []uint64) uint64 {
		depth := math.Float32frombits(uint32(args[0]))
		stencil := uint32(args[1])
		return uint64(packDepth24Stencil8(depth, stencil))
	})
}

// storeLE writes the low byteWidth bytes of v to ptr in little-endian
// order, the same layout reactor/backend/asm/interp.go's native Store
// uses, but narrower than that op's fixed 4-byte granule supports.
func storeLE(ptr uintptr, v uint32, byteWidth int) {
	b := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), byteWidth)
	for i := 0; i < byteWidth; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func pick4(r, g, b, a float32, channel int) float32 {
	switch channel {
	case 0:
		return r
	case 1:
		return g
	case 2:
		return b
	default:
		return a
	}
}
