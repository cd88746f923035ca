package vertex

import "unsafe"

// Task is the per-invocation block a vertex routine's third argument
// points to: how many indices to process, and where the Cacher backing
// that draw lives. A scheduler worker builds one per dispatch from its
// Cacher and the batch's index count.
type Task struct {
	Count   int32
	_       int32
	TagPtr  uintptr
	DataPtr uintptr
}

// NewTask builds a Task reading count indices against cache.
func NewTask(count int32, cache *Cacher) Task {
	return Task{Count: count, TagPtr: cache.TagPtr(), DataPtr: cache.DataPtr()}
}

type taskOffsetTable struct {
	Count   int
	TagPtr  int
	DataPtr int
}

var taskOffsets = computeTaskOffsets()

func computeTaskOffsets() taskOffsetTable {
	var t Task
	return taskOffsetTable{
		Count:   int(unsafe.Offsetof(t.Count)),
		TagPtr:  int(unsafe.Offsetof(t.TagPtr)),
		DataPtr: int(unsafe.Offsetof(t.DataPtr)),
	}
}
