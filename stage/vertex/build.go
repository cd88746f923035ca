package vertex

import (
	"fmt"

	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/shader"
	"github.com/gogpu/swr/stage"
)

// recordFloat4Bytes is the byte size of one TypeFloat4 lane group: a
// vertex routine's output record is a position plus VaryingCount
// varyings, each one Float4.
const recordFloat4Bytes = 16

// RecordSize returns the byte size of one output vertex record
// (position + varyings) for a State with the given varying count, the
// stride both the output buffer and the Cacher's storage are indexed
// by.
func RecordSize(varyingCount int32) int {
	return int(1+varyingCount) * recordFloat4Bytes
}

// BuildRoutine emits a vertex-stage routine with the fixed ABI
// (output_vertices*, input_indices*, task*, drawData*), per spec.md
// §4.E: for every index task.Count names, check the draw's vertex
// cache (task.TagPtr/task.DataPtr) and either copy a previous record
// or decode that index's attributes, run prog.Vertex, and insert a
// fresh one.
func BuildRoutine(state State, prog *shader.Program, backend reactor.Backend, resolver reactor.Resolver) (*reactor.Routine, error) {
	rsz := int32(RecordSize(state.VaryingCount))

	b, args := reactor.Begin(reactor.TypePointer, reactor.TypePointer, reactor.TypePointer, reactor.TypePointer)
	outPtr, indicesPtr, taskPtr, drawDataPtr := args[0], args[1], args[2], args[3]

	count := b.Load(b.PointerOffset(taskPtr, taskOffsets.Count), reactor.TypeInt32)
	tagBase := b.Load(b.PointerOffset(taskPtr, taskOffsets.TagPtr), reactor.TypePointer)
	dataBase := b.Load(b.PointerOffset(taskPtr, taskOffsets.DataPtr), reactor.TypePointer)

	i := b.For(count)

	idxPtr := b.PointerAdd(indicesPtr, b.Mul(i, b.ConstInt(4)))
	idx := b.Load(idxPtr, reactor.TypeInt32)

	slot := b.And(idx, b.ConstInt(cacheSizeMask))
	tagPtr := b.PointerAdd(tagBase, b.Mul(slot, b.ConstInt(4)))
	tag := b.Load(tagPtr, reactor.TypeInt32)
	hit := b.CmpEQ(tag, idx)

	recPtr := b.PointerAdd(dataBase, b.Mul(slot, b.ConstInt(rsz)))
	outRecPtr := b.PointerAdd(outPtr, b.Mul(i, b.ConstInt(rsz)))

	b.If(hit)

	copyRecord(b, outRecPtr, recPtr, state.VaryingCount)

	b.Else()

	attrs := make([]reactor.Value, 0, stage.MaxVertexInputs)
	for slotIdx := 0; slotIdx < stage.MaxVertexInputs; slotIdx++ {
		in := state.Input[slotIdx]
		if !in.Active {
			continue
		}
		streamOff := stage.InputStreamOffset(slotIdx)
		bufPtr := b.Load(b.PointerOffset(drawDataPtr, streamOff), reactor.TypePointer)
		stride := b.Load(b.PointerOffset(drawDataPtr, streamOff+8), reactor.TypeInt32)
		attrPtr := b.PointerAdd(bufPtr, b.Mul(idx, stride))
		attr, err := sampler.Unpack(b, in.Format, attrPtr)
		if err != nil {
			return nil, fmt.Errorf("vertex: input slot %d: %w", slotIdx, err)
		}
		attrs = append(attrs, attr)
	}

	out := prog.Vertex(b, shader.VertexInputs{Index: idx, Attributes: attrs})
	if int32(len(out.Varyings)) != state.VaryingCount {
		return nil, fmt.Errorf("vertex: program produced %d varyings, state declares %d", len(out.Varyings), state.VaryingCount)
	}

	b.Store(outRecPtr, out.Position)
	b.Store(recPtr, out.Position)
	for v := int32(0); v < state.VaryingCount; v++ {
		off := int((v + 1) * recordFloat4Bytes)
		b.Store(b.PointerOffset(outRecPtr, off), out.Varyings[v])
		b.Store(b.PointerOffset(recPtr, off), out.Varyings[v])
	}
	b.Store(tagPtr, idx)

	b.EndIf()
	b.EndFor()

	b.Return(b.ConstInt(0))
	return b.Emit(fmt.Sprintf("vertex_%08x", state.Hash), backend, resolver)
}

// copyRecord copies one cached output record (position + varyingCount
// varyings, each a Float4) from src to dst.
func copyRecord(b *reactor.Builder, dst, src reactor.Value, varyingCount int32) {
	for v := int32(0); v < 1+varyingCount; v++ {
		off := int(v * recordFloat4Bytes)
		lane := b.Load(b.PointerOffset(src, off), reactor.TypeFloat4)
		b.Store(b.PointerOffset(dst, off), lane)
	}
}
