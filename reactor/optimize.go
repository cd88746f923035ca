package reactor

// optimize.go holds the real IR rewrites the opt backend applies before
// lowering: constant folding, common-subexpression elimination, and
// dead-code elimination. They run over the same arena the Builder
// public API writes to, which is why they live in this package instead
// of reactor/backend/opt — only reactor itself can rewrite a valueDef.

// Optimize rewrites b in place according to level, mutating its arena.
// Called by reactor/backend/opt before delegating to an inner backend
// for lowering; a Builder may also call this itself before Emit.
func (b *Builder) Optimize(level OptLevel) {
	if level == OptNone {
		return
	}
	constantFold(b)
	if level >= OptDefault {
		commonSubexpressionEliminate(b)
	}
	deadCodeEliminate(b)
}

// constantFold replaces arithmetic over two constant operands with a
// single constant, leaving the original ops in place (dead-code
// elimination removes them) and rewriting downstream references.
func constantFold(b *Builder) {
	for id := range b.arena.defs {
		d := b.arena.defs[id]
		switch d.op {
		case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpMin, OpMax:
		default:
			continue
		}
		x, okX := constOf(b, d.operands[0])
		y, okY := constOf(b, d.operands[1])
		if !okX || !okY {
			continue
		}
		folded, ok := foldScalar(d.op, d.typ, x, y)
		if !ok {
			continue
		}
		b.arena.defs[id] = folded
	}
}

// constOf reports the immediate value of a constant def, if id refers
// to one.
func constOf(b *Builder, id int) (any, bool) {
	d := b.arena.defs[id]
	switch d.op {
	case OpConstInt, OpConstFloat, OpConstBool:
		return d.imm, true
	default:
		return nil, false
	}
}

func foldScalar(op Op, typ Type, x, y any) (valueDef, bool) {
	if typ == TypeInt32 {
		xi, xok := x.(int32)
		yi, yok := y.(int32)
		if !xok || !yok {
			return valueDef{}, false
		}
		var r int32
		switch op {
		case OpAdd:
			r = xi + yi
		case OpSub:
			r = xi - yi
		case OpMul:
			r = xi * yi
		case OpDiv:
			if yi == 0 {
				return valueDef{}, false
			}
			r = xi / yi
		case OpRem:
			if yi == 0 {
				return valueDef{}, false
			}
			r = xi % yi
		case OpMin:
			r = xi
			if yi < xi {
				r = yi
			}
		case OpMax:
			r = xi
			if yi > xi {
				r = yi
			}
		default:
			return valueDef{}, false
		}
		return valueDef{op: OpConstInt, typ: TypeInt32, imm: r}, true
	}
	if typ == TypeFloat32 {
		xf, xok := x.(float32)
		yf, yok := y.(float32)
		if !xok || !yok {
			return valueDef{}, false
		}
		var r float32
		switch op {
		case OpAdd:
			r = xf + yf
		case OpSub:
			r = xf - yf
		case OpMul:
			r = xf * yf
		case OpDiv:
			r = xf / yf
		case OpMin:
			r = xf
			if yf < xf {
				r = yf
			}
		case OpMax:
			r = xf
			if yf > xf {
				r = yf
			}
		default:
			return valueDef{}, false
		}
		return valueDef{op: OpConstFloat, typ: TypeFloat32, imm: r}, true
	}
	return valueDef{}, false
}

// cseKey identifies a def by its structural shape; two defs with equal
// keys compute the same value given SSA's single-assignment guarantee
// and the absence of visible side effects in pure ops.
type cseKey struct {
	op    Op
	typ   Type
	a, b  int
	imm   any
}

func isPure(op Op) bool {
	switch op {
	case OpLoad, OpStore, OpCall, OpAllocaStack, OpArg:
		return false
	}
	switch {
	case op >= OpBlockIf && op <= OpBlockEndFor:
		return false
	}
	return true
}

// commonSubexpressionEliminate rewrites every pure op that duplicates
// an earlier op's (opcode, operand, immediate) shape into a reference
// to the earlier one. It does not remove the duplicate's slot — callers
// of that id still resolve it directly — instead it redirects the
// *later* id's canonical computation by aliasing, recorded as an
// OpArg-like passthrough is avoided; instead we rewrite the later def
// to copy the earlier one's fields so both ids now compute identically
// and later folding/DCE can merge further.
func commonSubexpressionEliminate(b *Builder) {
	seen := map[cseKey]int{}
	for id := range b.arena.defs {
		d := b.arena.defs[id]
		if !isPure(d.op) {
			continue
		}
		key := cseKey{op: d.op, typ: d.typ, imm: d.imm}
		if len(d.operands) > 0 {
			key.a = d.operands[0]
		}
		if len(d.operands) > 1 {
			key.b = d.operands[1]
		}
		if prior, ok := seen[key]; ok && prior != id {
			b.arena.defs[id] = b.arena.defs[prior]
			continue
		}
		seen[key] = id
	}
}

// deadCodeEliminate marks ops with no transitive consumer among the
// function's side-effecting roots (Store, Call, Return, block markers)
// as unreachable by rewriting them to a cheap no-op constant. The asm
// interpreter still walks every slot in program order, so removal is
// expressed as "becomes free to compute" rather than a physical resize
// of the arena, keeping ids stable for any outstanding Values.
func deadCodeEliminate(b *Builder) {
	live := make([]bool, len(b.arena.defs))
	var mark func(id int)
	mark = func(id int) {
		if live[id] {
			return
		}
		live[id] = true
		for _, o := range b.arena.defs[id].operands {
			mark(o)
		}
	}
	for id, d := range b.arena.defs {
		switch d.op {
		case OpStore, OpCall, OpReturn:
			mark(id)
		default:
			if d.op >= OpBlockIf && d.op <= OpBlockEndFor {
				mark(id)
			}
		}
	}
	for id := range b.arena.defs {
		if !live[id] && isPure(b.arena.defs[id].op) {
			b.arena.defs[id] = valueDef{op: OpConstInt, typ: TypeInt32, imm: int32(0)}
		}
	}
}
