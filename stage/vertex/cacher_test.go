package vertex_test

import (
	"testing"
	"unsafe"

	"github.com/gogpu/swr/stage/vertex"
)

func TestNewCacherStartsEmpty(t *testing.T) {
	c := vertex.NewCacher(32)
	tag := (*[vertex.CacheSize]uint32)(unsafe.Pointer(c.TagPtr()))
	for i, v := range tag {
		if v != ^uint32(0) {
			t.Fatalf("tag[%d] = %#x, want all-ones sentinel", i, v)
		}
	}
}

func TestCacherEnsureDrawClearsOnChange(t *testing.T) {
	c := vertex.NewCacher(32)
	c.EnsureDraw(1)
	tag := (*[vertex.CacheSize]uint32)(unsafe.Pointer(c.TagPtr()))
	tag[3] = 42

	c.EnsureDraw(1) // same draw: must not clear
	if tag[3] != 42 {
		t.Fatalf("EnsureDraw with unchanged drawID cleared the cache")
	}

	c.EnsureDraw(2) // new draw: must clear
	if tag[3] != ^uint32(0) {
		t.Fatalf("EnsureDraw with a new drawID left a stale tag")
	}
}

func TestCacherDataPtrAddressable(t *testing.T) {
	c := vertex.NewCacher(16)
	data := unsafe.Slice((*byte)(unsafe.Pointer(c.DataPtr())), vertex.CacheSize*16)
	data[vertex.CacheSize*16-1] = 0xAB
	if data[len(data)-1] != 0xAB {
		t.Fatalf("write through DataPtr did not stick")
	}
}
