// Package testfixtures provides small in-memory implementations of the
// iface contracts, adapted from hal/software/resource.go's
// Buffer/Texture/Fence (real data storage instead of a GPU-backed
// resource, since there is no device here to back them) for use in
// scheduler and renderer tests that need a Buffer/ImageView/Query/
// TaskEvents without pulling in a real Vulkan object implementation.
package testfixtures

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/swr/iface"
)

// Buffer is an in-memory iface.Buffer.
type Buffer struct {
	mu   sync.RWMutex
	data []byte
}

// NewBuffer allocates a zero-filled buffer of size bytes.
func NewBuffer(size uint64) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

func (b *Buffer) Pointer(offset uint64) uintptr {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uintptr(unsafe.Pointer(&b.data[offset]))
}

func (b *Buffer) Size() uint64 { return uint64(len(b.data)) }

// Write copies data into the buffer starting at offset.
func (b *Buffer) Write(offset uint64, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.data[offset:], data)
}

// Image is an in-memory iface.ImageView over a single-level,
// single-layer 2D image.
type Image struct {
	mu       sync.RWMutex
	data     []byte
	width    int32
	rowPitch int64
	id       iface.ViewIdentifier
}

// NewImage allocates a zero-filled image of width x height pixels,
// bytesPerPixel bytes each, tightly packed.
func NewImage(width, height int32, bytesPerPixel int32, id iface.ViewIdentifier) *Image {
	pitch := int64(width) * int64(bytesPerPixel)
	return &Image{
		data:     make([]byte, pitch*int64(height)),
		width:    width,
		rowPitch: pitch,
		id:       id,
	}
}

func (img *Image) OffsetPointer(origin [3]int32, aspect iface.ImageAspect, layer, level uint32) uintptr {
	img.mu.RLock()
	defer img.mu.RUnlock()
	bpp := img.rowPitch / int64(img.width)
	off := int64(origin[1])*img.rowPitch + int64(origin[0])*bpp
	return uintptr(unsafe.Pointer(&img.data[off]))
}

func (img *Image) RowPitchBytes() int64        { return img.rowPitch }
func (img *Image) SlicePitchBytes() int64      { return img.rowPitch * int64(len(img.data)) / img.rowPitch }
func (img *Image) Identifier() iface.ViewIdentifier { return img.id }

// Data returns the backing slice directly, for test assertions.
func (img *Image) Data() []byte { return img.data }

// Query is an in-memory iface.Query counting a single uint64 total.
type Query struct {
	started atomic.Bool
	finished atomic.Bool
	total   atomic.Uint64
	kind    iface.QueryType
}

// NewQuery creates a Query of the given type.
func NewQuery(kind iface.QueryType) *Query {
	return &Query{kind: kind}
}

func (q *Query) Start()            { q.started.Store(true) }
func (q *Query) Finish()           { q.finished.Store(true) }
func (q *Query) Add(v uint64)      { q.total.Add(v) }
func (q *Query) Type() iface.QueryType { return q.kind }
func (q *Query) Total() uint64     { return q.total.Load() }
func (q *Query) Started() bool     { return q.started.Load() }
func (q *Query) Finished() bool    { return q.finished.Load() }

// TaskEvents is an in-memory iface.TaskEvents a test can poll, the
// fixture equivalent of hal/software/resource.go's Fence.
type TaskEvents struct {
	started  atomic.Bool
	finished atomic.Bool
}

func (e *TaskEvents) Start()  { e.started.Store(true) }
func (e *TaskEvents) Finish() { e.finished.Store(true) }
func (e *TaskEvents) Done() bool { return e.finished.Load() }

// DescriptorSet is a simple map-backed iface.DescriptorSet.
type DescriptorSet struct {
	entries map[uint64]iface.Descriptor
}

// NewDescriptorSet creates an empty descriptor set.
func NewDescriptorSet() *DescriptorSet {
	return &DescriptorSet{entries: make(map[uint64]iface.Descriptor)}
}

// Bind installs a descriptor at (binding, arrayIndex).
func (d *DescriptorSet) Bind(binding, arrayIndex uint32, desc iface.Descriptor) {
	d.entries[key(binding, arrayIndex)] = desc
}

func (d *DescriptorSet) At(binding, arrayIndex uint32) (iface.Descriptor, bool) {
	desc, ok := d.entries[key(binding, arrayIndex)]
	return desc, ok
}

func key(binding, arrayIndex uint32) uint64 {
	return uint64(binding)<<32 | uint64(arrayIndex)
}
