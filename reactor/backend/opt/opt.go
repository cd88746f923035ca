// Package opt is the optimizing reactor backend: it runs the real IR
// rewrites reactor.Builder.Optimize provides (constant folding,
// common-subexpression elimination, dead-code elimination) according
// to the Builder's OptLevel, then lowers the rewritten IR through
// reactor/backend/asm. Both backends must be ABI-compatible and
// observably identical (spec.md §4.B); this one only spends more build
// time to produce a leaner op stream before handing off.
package opt

import (
	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/reactor/backend/asm"
)

// Backend is the reactor.Backend implementation this package provides.
type Backend struct {
	// Inner lowers the optimized IR. Defaults to asm.Backend{} when
	// left zero.
	Inner reactor.Backend
}

func (o Backend) Lower(b *reactor.Builder, name string, resolver reactor.Resolver) (*reactor.Routine, error) {
	b.Optimize(b.OptLevel())
	inner := o.Inner
	if inner == nil {
		inner = asm.Backend{}
	}
	return inner.Lower(b, name, resolver)
}
