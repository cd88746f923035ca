package coroutine_test

import (
	"testing"

	"github.com/gogpu/swr/coroutine"
	"github.com/gogpu/swr/coroutine/fiber"
	"github.com/gogpu/swr/coroutine/task"
)

func countdown(n int) coroutine.Body {
	return func(yield coroutine.Yield) {
		for i := n; i > 0; i-- {
			yield(i)
		}
	}
}

func runAndCollect(t *testing.T, h coroutine.Handle) []any {
	t.Helper()
	var got []any
	for {
		v, ok := h.Resume()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if !h.IsDone() {
		t.Fatal("handle not marked done after exhausting values")
	}
	return got
}

func TestFiberRuntimeYieldsInOrder(t *testing.T) {
	rt := fiber.New()
	h := rt.New(countdown(3))
	got := runAndCollect(t, h)
	want := []any{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTaskRuntimeYieldsInOrder(t *testing.T) {
	rt := task.New(2)
	h := rt.New(countdown(3))
	got := runAndCollect(t, h)
	if len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("got %v, want [3 2 1]", got)
	}
}

func TestSelectedRuntime(t *testing.T) {
	coroutine.SetRuntime(fiber.New())
	h := coroutine.New(countdown(1))
	v, ok := h.Resume()
	if !ok || v != 1 {
		t.Fatalf("Resume() = (%v, %v), want (1, true)", v, ok)
	}
	if _, ok := h.Resume(); ok {
		t.Fatal("expected completion on second Resume")
	}
}
