package asm

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/swr/reactor"
)

// sizeOf reports the byte footprint of a stack allocation for t.
func sizeOf(t reactor.Type) int {
	switch t {
	case reactor.TypeInt4, reactor.TypeFloat4:
		return 16
	case reactor.TypePointer:
		return 8
	default:
		return 4
	}
}

const stackAlign = 16

func (s *state) allocaStack(t reactor.Type) uintptr {
	n := sizeOf(t)
	s.stackAt = (s.stackAt + stackAlign - 1) &^ (stackAlign - 1)
	if s.stackAt+n > len(s.stack) {
		grown := make([]byte, len(s.stack)*2+n)
		copy(grown, s.stack)
		s.stack = grown
	}
	addr := uintptr(unsafe.Pointer(&s.stack[s.stackAt]))
	s.stackAt += n
	return addr
}

func loadBytes(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

// eval computes a single op's result from already-available operand
// values. Operands are resolved through s.value (memoized) except
// where the op's own semantics require forcing a fresh read (Load).
func (s *state) eval(id int, op reactor.Op, typ reactor.Type, operands []int, imm any) word {
	switch op {
	case reactor.OpArg:
		idx := imm.(int)
		raw := s.args[idx]
		switch typ {
		case reactor.TypeFloat32:
			return wordFromFloat(float32frombits(uint32(raw)))
		case reactor.TypePointer:
			return wordFromPtr(uintptr(raw))
		default:
			return word{lanes: [4]uint32{uint32(raw), uint32(raw >> 32)}}
		}

	case reactor.OpConstInt:
		return wordFromInt(imm.(int32))
	case reactor.OpConstFloat:
		return wordFromFloat(imm.(float32))
	case reactor.OpConstBool:
		return wordFromBool(imm.(bool))

	case reactor.OpAdd, reactor.OpSub, reactor.OpMul, reactor.OpDiv, reactor.OpRem, reactor.OpMin, reactor.OpMax:
		return s.arith(op, typ, s.value(operands[0]), s.value(operands[1]))
	case reactor.OpNeg:
		return s.arith(reactor.OpSub, typ, word{}, s.value(operands[0]))

	case reactor.OpCmpEQ, reactor.OpCmpNE, reactor.OpCmpLT, reactor.OpCmpLE, reactor.OpCmpGT, reactor.OpCmpGE:
		return s.compare(op, s.operandType(operands[0]), s.value(operands[0]), s.value(operands[1]))
	case reactor.OpReduceAny:
		m := s.value(operands[0])
		return wordFromBool(m.lanes[0] != 0 || m.lanes[1] != 0 || m.lanes[2] != 0 || m.lanes[3] != 0)
	case reactor.OpReduceAll:
		m := s.value(operands[0])
		return wordFromBool(m.lanes[0] != 0 && m.lanes[1] != 0 && m.lanes[2] != 0 && m.lanes[3] != 0)

	case reactor.OpAnd:
		return lanewise(s.value(operands[0]), s.value(operands[1]), func(a, b uint32) uint32 { return a & b })
	case reactor.OpOr:
		return lanewise(s.value(operands[0]), s.value(operands[1]), func(a, b uint32) uint32 { return a | b })
	case reactor.OpXor:
		return lanewise(s.value(operands[0]), s.value(operands[1]), func(a, b uint32) uint32 { return a ^ b })
	case reactor.OpNot:
		v := s.value(operands[0])
		return lanewise(v, v, func(a, _ uint32) uint32 { return ^a })
	case reactor.OpShl:
		v, sh := s.value(operands[0]), s.value(operands[1]).asInt()
		return lanewise(v, v, func(a, _ uint32) uint32 { return a << uint(sh) })
	case reactor.OpShr:
		v, sh := s.value(operands[0]), s.value(operands[1]).asInt()
		return lanewise(v, v, func(a, _ uint32) uint32 { return a >> uint(sh) })

	case reactor.OpAllocaStack:
		return wordFromPtr(s.allocaStack(imm.(reactor.Type)))

	case reactor.OpLoad:
		ptr := s.value(operands[0]).ptr
		n := sizeOf(typ)
		b := loadBytes(ptr, n)
		var w word
		for i := 0; i*4 < n; i++ {
			w.lanes[i] = le32(b[i*4:])
		}
		if typ == reactor.TypePointer {
			w.ptr = uintptr(w.asUint64())
		}
		return w

	case reactor.OpStore:
		ptr := s.value(operands[0]).ptr
		val := s.value(operands[1])
		valType := s.operandType(operands[1])
		n := sizeOf(valType)
		b := loadBytes(ptr, n)
		if valType == reactor.TypePointer {
			putle64(b, uint64(val.ptr))
		} else {
			for i := 0; i*4 < n; i++ {
				putle32(b[i*4:], val.lanes[i])
			}
		}
		return word{}

	case reactor.OpPointerOffset:
		ptr := s.value(operands[0]).ptr
		return wordFromPtr(ptr + uintptr(imm.(int)))

	case reactor.OpPointerAdd:
		ptr := s.value(operands[0]).ptr
		off := s.value(operands[1]).asInt()
		return wordFromPtr(ptr + uintptr(off))

	case reactor.OpInsertLane:
		v := s.value(operands[0])
		scalar := s.value(operands[1])
		lane := imm.(int)
		v.lanes[lane] = scalar.lanes[0]
		return v
	case reactor.OpExtractLane:
		v := s.value(operands[0])
		lane := imm.(int)
		return word{lanes: [4]uint32{v.lanes[lane]}}
	case reactor.OpSwizzle:
		v := s.value(operands[0])
		mask := imm.([4]int)
		var out word
		for i, src := range mask {
			out.lanes[i] = v.lanes[src]
		}
		return out
	case reactor.OpSplat:
		scalar := s.value(operands[0])
		return word{lanes: [4]uint32{scalar.lanes[0], scalar.lanes[0], scalar.lanes[0], scalar.lanes[0]}}

	case reactor.OpSExt, reactor.OpZExt, reactor.OpTrunc:
		return s.value(operands[0])

	case reactor.OpIntToFloat:
		v := s.value(operands[0])
		srcType := s.operandType(operands[0])
		return lanewiseConvert(v, srcType, func(i int32) uint32 { return floatbits(float32(i)) })
	case reactor.OpFloatToInt:
		v := s.value(operands[0])
		srcType := s.operandType(operands[0])
		return lanewiseConvert(v, srcType, func(bits int32) uint32 { return uint32(int32(float32frombits(uint32(bits)))) })

	case reactor.OpCall:
		name := imm.(string)
		fn, ok := externals[name]
		if !ok {
			panic(fmt.Sprintf("asm: call to unregistered external %q", name))
		}
		args := make([]uint64, len(operands))
		for i, o := range operands {
			args[i] = s.value(o).asUint64()
			if s.operandType(o) == reactor.TypePointer {
				args[i] = uint64(s.value(o).ptr)
			}
		}
		ret := fn(args)
		if typ == reactor.TypePointer {
			return wordFromPtr(uintptr(ret))
		}
		return word{lanes: [4]uint32{uint32(ret), uint32(ret >> 32)}}

	default:
		panic(fmt.Sprintf("asm: unhandled op %v", op))
	}
}

func (s *state) operandType(id int) reactor.Type {
	_, typ, _, _ := s.prog.b.DefByID(id)
	return typ
}

func (s *state) arith(op reactor.Op, typ reactor.Type, a, b word) word {
	if typ == reactor.TypeFloat32 || typ == reactor.TypeFloat4 {
		return lanewiseF(a, b, typ, func(x, y float32) float32 {
			switch op {
			case reactor.OpAdd:
				return x + y
			case reactor.OpSub:
				return x - y
			case reactor.OpMul:
				return x * y
			case reactor.OpDiv:
				return x / y
			case reactor.OpMin:
				if x < y {
					return x
				}
				return y
			case reactor.OpMax:
				if x > y {
					return x
				}
				return y
			default:
				panic("asm: unsupported float op")
			}
		})
	}
	return lanewise(a, b, func(x, y uint32) uint32 {
		xi, yi := int32(x), int32(y)
		switch op {
		case reactor.OpAdd:
			return uint32(xi + yi)
		case reactor.OpSub:
			return uint32(xi - yi)
		case reactor.OpMul:
			return uint32(xi * yi)
		case reactor.OpDiv:
			return uint32(xi / yi)
		case reactor.OpRem:
			return uint32(xi % yi)
		case reactor.OpMin:
			if xi < yi {
				return x
			}
			return y
		case reactor.OpMax:
			if xi > yi {
				return x
			}
			return y
		default:
			panic("asm: unsupported int op")
		}
	})
}

func (s *state) compare(op reactor.Op, typ reactor.Type, a, b word) word {
	isFloat := typ == reactor.TypeFloat32 || typ == reactor.TypeFloat4
	lanes := 1
	if typ.IsSIMD() {
		lanes = 4
	}
	var out word
	for i := 0; i < lanes; i++ {
		var cmp bool
		if isFloat {
			x, y := float32frombits(a.lanes[i]), float32frombits(b.lanes[i])
			cmp = compareOrdered(op, x < y, x == y, x > y)
		} else {
			x, y := int32(a.lanes[i]), int32(b.lanes[i])
			cmp = compareOrdered(op, x < y, x == y, x > y)
		}
		if cmp {
			out.lanes[i] = 0xFFFFFFFF
		}
	}
	if !typ.IsSIMD() {
		if out.lanes[0] != 0 {
			return wordFromBool(true)
		}
		return wordFromBool(false)
	}
	return out
}

func compareOrdered(op reactor.Op, lt, eq, gt bool) bool {
	switch op {
	case reactor.OpCmpEQ:
		return eq
	case reactor.OpCmpNE:
		return !eq
	case reactor.OpCmpLT:
		return lt
	case reactor.OpCmpLE:
		return lt || eq
	case reactor.OpCmpGT:
		return gt
	case reactor.OpCmpGE:
		return gt || eq
	default:
		panic("asm: unsupported comparison")
	}
}

func lanewise(a, b word, f func(x, y uint32) uint32) word {
	var out word
	for i := range a.lanes {
		out.lanes[i] = f(a.lanes[i], b.lanes[i])
	}
	return out
}

func lanewiseF(a, b word, typ reactor.Type, f func(x, y float32) float32) word {
	lanes := 1
	if typ.IsSIMD() {
		lanes = 4
	}
	var out word
	for i := 0; i < lanes; i++ {
		out.lanes[i] = floatbits(f(float32frombits(a.lanes[i]), float32frombits(b.lanes[i])))
	}
	return out
}

func lanewiseConvert(v word, srcType reactor.Type, f func(int32) uint32) word {
	lanes := 1
	if srcType.IsSIMD() {
		lanes = 4
	}
	var out word
	for i := 0; i < lanes; i++ {
		out.lanes[i] = f(int32(v.lanes[i]))
	}
	return out
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putle32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putle64(b []byte, v uint64) {
	putle32(b, uint32(v))
	putle32(b[4:], uint32(v>>32))
}

func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
func floatbits(f float32) uint32       { return math.Float32bits(f) }
