package vertex

import "unsafe"

// CacheSize is the vertex cache's direct-mapped slot count, matching
// original_source/src/Device/VertexProcessor.cpp's VertexCache. It must
// stay a power of two: the generated routine computes a slot with a
// bitwise AND mask rather than a modulo.
const CacheSize = 16

const cacheSizeMask = int32(CacheSize - 1)

// invalidTag is the sentinel a cleared slot holds, matching the
// original's VertexCache::clear() filling every tag with 0xFFFFFFFF —
// no real vertex index can collide with it in practice.
const invalidTag = ^uint32(0)

// Cacher is the per-worker vertex cache a vertex routine reads and
// writes through raw pointers: a tag array recording which index last
// wrote each slot, and a separate record buffer, distinct from the
// positional output_vertices buffer so a cache hit's copy can never
// collide with another index's positional slot (spec.md §4.E).
type Cacher struct {
	tag        [CacheSize]uint32
	data       []byte
	recordSize int
	drawID     uint64
	primed     bool
}

// NewCacher allocates a Cacher sized for a routine whose output record
// (position + varyings) is recordSize bytes.
func NewCacher(recordSize int) *Cacher {
	c := &Cacher{recordSize: recordSize, data: make([]byte, CacheSize*recordSize)}
	c.clear()
	return c
}

func (c *Cacher) clear() {
	for i := range c.tag {
		c.tag[i] = invalidTag
	}
}

// EnsureDraw invalidates the cache when drawID changes, so a vertex
// index cached by one draw never reads back as a hit in the next one.
func (c *Cacher) EnsureDraw(drawID uint64) {
	if c.primed && c.drawID == drawID {
		return
	}
	c.primed = true
	c.drawID = drawID
	c.clear()
}

// TagPtr returns the address of the tag array a generated routine
// loads/compares/stores through.
func (c *Cacher) TagPtr() uintptr {
	return uintptr(unsafe.Pointer(&c.tag[0]))
}

// DataPtr returns the address of the record storage a generated
// routine indexes by cache slot.
func (c *Cacher) DataPtr() uintptr {
	if len(c.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&c.data[0]))
}
