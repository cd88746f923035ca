package reactor_test

import (
	"math"
	"testing"

	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/reactor/backend/asm"
	"github.com/gogpu/swr/reactor/backend/opt"
)

func floatWord(f float32) uint64 { return uint64(math.Float32bits(f)) }

func TestAddRoutine(t *testing.T) {
	b, args := reactor.Begin(reactor.TypeInt32, reactor.TypeInt32)
	sum := b.Add(args[0], args[1])
	b.Return(sum)

	r, err := b.Emit("add", asm.Backend{}, func(string) (uintptr, bool) { return 0, false })
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	defer r.Release()

	got := r.Call([]uint64{3, 4})
	if got != 7 {
		t.Fatalf("Call(3,4) = %d, want 7", got)
	}
}

func TestIfElseMax(t *testing.T) {
	b, args := reactor.Begin(reactor.TypeInt32, reactor.TypeInt32)
	slot := b.AllocaStack(reactor.TypeInt32)
	cond := b.CmpGT(args[0], args[1])
	b.If(cond)
	b.Store(slot, args[0])
	b.Else()
	b.Store(slot, args[1])
	b.EndIf()
	b.Return(b.Load(slot, reactor.TypeInt32))

	r, err := b.Emit("max", asm.Backend{}, func(string) (uintptr, bool) { return 0, false })
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	defer r.Release()

	if got := r.Call([]uint64{5, 9}); got != 9 {
		t.Fatalf("Call(5,9) = %d, want 9", got)
	}
	if got := r.Call([]uint64{12, 2}); got != 12 {
		t.Fatalf("Call(12,2) = %d, want 12", got)
	}
}

func TestForLoopSum(t *testing.T) {
	b, args := reactor.Begin(reactor.TypeInt32)
	acc := b.AllocaStack(reactor.TypeInt32)
	b.Store(acc, b.ConstInt(0))
	iv := b.For(args[0])
	cur := b.Load(acc, reactor.TypeInt32)
	b.Store(acc, b.Add(cur, iv))
	b.EndFor()
	b.Return(b.Load(acc, reactor.TypeInt32))

	r, err := b.Emit("sum", asm.Backend{}, func(string) (uintptr, bool) { return 0, false })
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	defer r.Release()

	// sum(0..4) = 0+1+2+3 = 6
	if got := r.Call([]uint64{4}); got != 6 {
		t.Fatalf("Call(4) = %d, want 6", got)
	}
}

func TestFloatArithmetic(t *testing.T) {
	b, args := reactor.Begin(reactor.TypeFloat32, reactor.TypeFloat32)
	prod := b.Mul(args[0], args[1])
	b.Return(prod)

	r, err := b.Emit("mul", asm.Backend{}, func(string) (uintptr, bool) { return 0, false })
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	defer r.Release()

	got := math.Float32frombits(uint32(r.Call([]uint64{floatWord(2.5), floatWord(4.0)})))
	if got != 10 {
		t.Fatalf("Call(2.5,4.0) = %v, want 10", got)
	}
}

func TestOptBackendMatchesAsm(t *testing.T) {
	build := func() (*reactor.Builder, []reactor.Value) {
		b, args := reactor.Begin(reactor.TypeInt32, reactor.TypeInt32)
		x := b.Add(b.ConstInt(2), b.ConstInt(3))
		sum := b.Add(args[0], args[1])
		b.Return(b.Add(sum, x))
		return b, args
	}

	resolver := func(string) (uintptr, bool) { return 0, false }

	b1, _ := build()
	rAsm, err := b1.Emit("sum_plain", asm.Backend{}, resolver)
	if err != nil {
		t.Fatalf("asm Emit: %v", err)
	}
	defer rAsm.Release()

	b2, _ := build()
	b2.SetOptLevel(reactor.OptDefault)
	rOpt, err := b2.Emit("sum_opt", opt.Backend{}, resolver)
	if err != nil {
		t.Fatalf("opt Emit: %v", err)
	}
	defer rOpt.Release()

	want := rAsm.Call([]uint64{10, 20})
	got := rOpt.Call([]uint64{10, 20})
	if got != want {
		t.Fatalf("opt backend result = %d, want %d (matching asm backend)", got, want)
	}
}
