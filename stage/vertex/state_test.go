package vertex_test

import (
	"testing"

	"github.com/gogpu/swr/sampler"
	"github.com/gogpu/swr/stage"
	"github.com/gogpu/swr/stage/vertex"
)

func TestNewStateHashStableForEqualFields(t *testing.T) {
	var in [stage.MaxVertexInputs]vertex.InputState
	in[0] = vertex.InputState{Active: true, Format: sampler.FormatR32G32B32A32Sfloat}

	a := vertex.NewState(1, 2, false, false, true, false, 1, in)
	b := vertex.NewState(1, 2, false, false, true, false, 1, in)

	if a != b {
		t.Fatalf("two States built from identical fields are not equal:\n%+v\n%+v", a, b)
	}
	if a.Hash != b.Hash {
		t.Errorf("Hash = %#x, want %#x", a.Hash, b.Hash)
	}
}

func TestNewStateHashDiffersOnInputFormat(t *testing.T) {
	var inA, inB [stage.MaxVertexInputs]vertex.InputState
	inA[0] = vertex.InputState{Active: true, Format: sampler.FormatR32G32B32A32Sfloat}
	inB[0] = vertex.InputState{Active: true, Format: sampler.FormatR8G8B8A8Unorm}

	a := vertex.NewState(1, 2, false, false, true, false, 1, inA)
	b := vertex.NewState(1, 2, false, false, true, false, 1, inB)

	if a.Hash == b.Hash {
		t.Errorf("States with different input formats hashed equal: %#x", a.Hash)
	}
	if a == b {
		t.Errorf("States with different input formats compared equal")
	}
}

func TestNewStateHashDiffersOnShaderID(t *testing.T) {
	var in [stage.MaxVertexInputs]vertex.InputState
	a := vertex.NewState(1, 2, false, false, true, false, 0, in)
	b := vertex.NewState(2, 2, false, false, true, false, 0, in)

	if a.Hash == b.Hash {
		t.Errorf("States with different shader IDs hashed equal: %#x", a.Hash)
	}
}
