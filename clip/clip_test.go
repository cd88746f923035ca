package clip

import "testing"

func TestClipTriangleFullyInsideIsUnchanged(t *testing.T) {
	v0 := Vertex{Position: [4]float32{0, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{0.5, 0, 0.5, 1}}
	v2 := Vertex{Position: [4]float32{0, 0.5, 0.5, 1}}

	poly, ok := ClipTriangle(v0, v1, v2)
	if !ok {
		t.Fatal("expected the triangle to survive clipping")
	}
	if poly.Count != 3 {
		t.Fatalf("Count = %d, want 3 for a fully-inside triangle", poly.Count)
	}
}

func TestClipTriangleFullyOutsideOnePlaneIsRejected(t *testing.T) {
	// All three vertices beyond the right plane (x > w).
	v0 := Vertex{Position: [4]float32{2, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{3, 0, 0.5, 1}}
	v2 := Vertex{Position: [4]float32{2, 1, 0.5, 1}}

	if _, ok := ClipTriangle(v0, v1, v2); ok {
		t.Fatal("expected rejection: all vertices share the same outside plane")
	}
}

func TestClipTriangleCrossingPlaneYieldsValidPolygon(t *testing.T) {
	// v1 is beyond the right plane; v0, v2 are inside.
	v0 := Vertex{Position: [4]float32{0, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{2, 0, 0.5, 1}}
	v2 := Vertex{Position: [4]float32{0, 0.5, 0.5, 1}}

	poly, ok := ClipTriangle(v0, v1, v2)
	if !ok {
		t.Fatal("expected a partially-visible triangle to clip to a polygon")
	}
	if poly.Count < 3 || poly.Count > MaxClippedVertices {
		t.Fatalf("Count = %d, want in [3, %d]", poly.Count, MaxClippedVertices)
	}
	for i := 0; i < poly.Count; i++ {
		p := poly.Vertices[i].Position
		const eps = 1e-4
		if p[0] > p[3]+eps || p[0] < -p[3]-eps {
			t.Fatalf("vertex %d.x=%v outside frustum for w=%v", i, p[0], p[3])
		}
	}
}

func TestClipTriangleStraddlingTheEyeClipsAgainstNegW(t *testing.T) {
	// v0 is in front of the eye; v1 and v2 are behind it (w <= 0).
	v0 := Vertex{Position: [4]float32{0, 0, 0.5, 1}}
	v1 := Vertex{Position: [4]float32{0, 0, 0.5, -1}}
	v2 := Vertex{Position: [4]float32{0, 0, 0.5, -1}}

	poly, ok := ClipTriangle(v0, v1, v2)
	if !ok {
		t.Fatal("expected a triangle straddling the eye to clip to a valid polygon")
	}
	if poly.Count < 3 {
		t.Fatalf("Count = %d, want >= 3", poly.Count)
	}
	const eps = 1e-4
	for i := 0; i < poly.Count; i++ {
		if w := poly.Vertices[i].Position[3]; w < -eps {
			t.Fatalf("vertex %d.w=%v survived -w clipping with negative w", i, w)
		}
	}
}

func TestExpandPointClampsHalfExtent(t *testing.T) {
	v := Vertex{Position: [4]float32{5, 5, 0, 1}}
	poly, _ := ExpandPoint(v, 0.01, 0.5)
	if poly.Count != 4 {
		t.Fatalf("Count = %d, want 4", poly.Count)
	}
	half := poly.Vertices[1].Position[0] - poly.Vertices[0].Position[0]
	if half < 2 { // half-extent clamped to >= 1 on each side, so width >= 2
		t.Fatalf("clamped half-extent produced width %v, want >= 2", half)
	}
}
