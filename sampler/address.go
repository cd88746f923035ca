package sampler

import "github.com/gogpu/swr/reactor"

// AddressMode selects how an out-of-[0,size) integer texel coordinate
// is mapped back into range, per spec.md §4.D.
type AddressMode uint8

const (
	AddressRepeat AddressMode = iota
	AddressMirroredRepeat
	AddressClampToEdge
	AddressClampToBorder
	AddressMirrorClampToEdge
	AddressCubeSeamless
)

// BorderColorMode names the resolved border color a ClampToBorder
// lookup substitutes for an out-of-range sample.
type BorderColorMode uint8

const (
	BorderTransparentBlack BorderColorMode = iota
	BorderOpaqueBlack
	BorderOpaqueWhite
)

// BorderColor returns the constant rgba Float4 Value for mode. Integer
// formats reuse the same 0/1 constants reinterpreted by the caller's
// Int4 path; spec.md §4.D only distinguishes "integer or float" by
// which zero/one representation the consuming format expects.
func BorderColor(b *reactor.Builder, mode BorderColorMode, isInt bool) reactor.Value {
	zero, one := b.ConstFloat(0), b.ConstFloat(1)
	if isInt {
		zero, one = b.ConstInt(0), b.ConstInt(1)
	}
	switch mode {
	case BorderOpaqueBlack:
		return splatLanes(b, []reactor.Value{zero, zero, zero, one})
	case BorderOpaqueWhite:
		return splatLanes(b, []reactor.Value{one, one, one, one})
	default: // BorderTransparentBlack
		return splatLanes(b, []reactor.Value{zero, zero, zero, zero})
	}
}

// ApplyAddressMode emits IR mapping coord (a TypeInt32 texel index,
// which may be negative or ≥ size) into range for mode, and reports
// whether the original coordinate was in bounds (always true except
// for ClampToBorder, where an out-of-range coordinate should be
// discarded by the caller in favor of BorderColor).
//
// CubeSeamless is implemented as plain edge clamping within the face —
// true seamless sampling needs a 6-face adjacency remap this generator
// does not build; cube-seamless callers get continuous-looking but not
// cross-face-correct edges.
func ApplyAddressMode(b *reactor.Builder, mode AddressMode, coord, size reactor.Value) (adjusted reactor.Value, inBounds reactor.Value) {
	switch mode {
	case AddressRepeat:
		return wrapRepeat(b, coord, size), b.ConstBool(true)
	case AddressMirroredRepeat:
		return wrapMirror(b, coord, size), b.ConstBool(true)
	case AddressClampToEdge, AddressCubeSeamless:
		return clampEdge(b, coord, size), b.ConstBool(true)
	case AddressMirrorClampToEdge:
		return mirrorClampEdge(b, coord, size), b.ConstBool(true)
	case AddressClampToBorder:
		lo := b.CmpGE(coord, b.ConstInt(0))
		hi := b.CmpLT(coord, size)
		return clampEdge(b, coord, size), b.And(lo, hi)
	default:
		return coord, b.ConstBool(true)
	}
}

func positiveMod(b *reactor.Builder, coord, size reactor.Value) reactor.Value {
	m := b.Rem(coord, size)
	negative := b.CmpLT(m, b.ConstInt(0))
	return selectInt(b, negative, b.Add(m, size), m)
}

func wrapRepeat(b *reactor.Builder, coord, size reactor.Value) reactor.Value {
	return positiveMod(b, coord, size)
}

func wrapMirror(b *reactor.Builder, coord, size reactor.Value) reactor.Value {
	two := b.ConstInt(2)
	period := b.Mul(size, two)
	m := positiveMod(b, coord, period)
	overHalf := b.CmpGE(m, size)
	mirrored := b.Sub(b.Sub(period, b.ConstInt(1)), m)
	return b.Max(b.Min(selectInt(b, overHalf, mirrored, m), b.Sub(size, b.ConstInt(1))), b.ConstInt(0))
}

func clampEdge(b *reactor.Builder, coord, size reactor.Value) reactor.Value {
	return b.Max(b.ConstInt(0), b.Min(coord, b.Sub(size, b.ConstInt(1))))
}

func mirrorClampEdge(b *reactor.Builder, coord, size reactor.Value) reactor.Value {
	neg := b.CmpLT(coord, b.ConstInt(0))
	// Mirror a negative coordinate around the -1/0 edge: -1 -> 0,
	// -2 -> 1, i.e. -(coord+1), not the reflection-around-zero formula
	// wrapMirror uses for the repeating case.
	absCoord := selectInt(b, neg, b.Neg(b.Add(coord, b.ConstInt(1))), coord)
	return clampEdge(b, absCoord, size)
}

// selectInt picks x when cond is true, else y, via a stack slot — the
// Builder has no ternary/select op, so a conditional store through
// AllocaStack stands in for one, the same pattern the setup stage uses
// for any value chosen between two structured-control-flow branches.
func selectInt(b *reactor.Builder, cond, x, y reactor.Value) reactor.Value {
	slot := b.AllocaStack(reactor.TypeInt32)
	b.If(cond)
	{
		b.Store(slot, x)
	}
	b.Else()
	{
		b.Store(slot, y)
	}
	b.EndIf()
	return b.Load(slot, reactor.TypeInt32)
}
