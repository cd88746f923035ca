package clip

import "testing"

func TestExpandLineMultisampleProducesWidthAlignedQuad(t *testing.T) {
	v0 := Vertex{Position: [4]float32{0, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{10, 0, 0.5, 1}}

	poly := ExpandLineMultisample(v0, v1, 2)
	if poly.Count != 4 {
		t.Fatalf("Count = %d, want 4", poly.Count)
	}
	// A horizontal line offsets perpendicular to its direction, i.e.
	// along y, by half the line width.
	for _, i := range []int{0, 3} {
		if got := poly.Vertices[i].Position[1]; got != -1 && got != 1 {
			t.Fatalf("vertex %d.y = %v, want +-1 (half of lineWidth=2)", i, got)
		}
	}
}

func TestExpandLineDiamondExitProducesHexagon(t *testing.T) {
	v0 := Vertex{Position: [4]float32{0, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{10, 0, 0.5, 1}}

	poly := ExpandLineDiamondExit(v0, v1)
	if poly.Count != 6 {
		t.Fatalf("Count = %d, want 6", poly.Count)
	}
	// The endpoints themselves must appear unmodified among the six.
	if poly.Vertices[1].Position != v0.Position {
		t.Fatalf("Vertices[1] = %v, want v0 unmodified", poly.Vertices[1])
	}
	if poly.Vertices[4].Position != v1.Position {
		t.Fatalf("Vertices[4] = %v, want v1 unmodified", poly.Vertices[4])
	}
}

func TestExpandLineDiamondExitPicksPerpendicularOffsetForHorizontalLine(t *testing.T) {
	// A rightward-travelling line (dx >= 0, |dx| >= |dy|) offsets its
	// diamond corners along y, never x, per dirRight's offset table.
	v0 := Vertex{Position: [4]float32{0, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{10, 1, 0.5, 1}}

	poly := ExpandLineDiamondExit(v0, v1)
	for _, i := range []int{0, 2, 3, 5} {
		if got := poly.Vertices[i].Position[0]; got != v0.Position[0] && got != v1.Position[0] {
			t.Fatalf("vertex %d.x = %v, want unchanged from its endpoint (offset is y-only)", i, got)
		}
	}
}
