package clip

// MaxPointSize bounds the clamped point half-extent computation
// (spec.md §4.F, "clamped to [1, MAX_POINT_SIZE]").
const MaxPointSize = 256

// iround rounds to the nearest integer, halves away from zero;
// ExpandPoint uses it for the subpixel shift it returns.
func iround(v float32) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}

// ExpandPoint turns a point primitive's single vertex into a 4-vertex
// square of half-extent pSize·w·halfPixel, clamped to
// [1, MaxPointSize], with corners in the order (-,-), (+,-), (+,+),
// (-,+). The second result is iround(16 · 0.5 · pSize), a shift in
// 4-bit subpixel fixed point; ExpandPoint applies it to no vertex, so
// all four corners sit at exactly ±half from v's position.
func ExpandPoint(v Vertex, pSize float32, halfPixel float32) (Polygon, int32) {
	half := pSize * v.Position[3] * halfPixel
	if half < 1 {
		half = 1
	}
	if half > MaxPointSize {
		half = MaxPointSize
	}

	var poly Polygon
	poly.Count = 4
	x, y, z, w := v.Position[0], v.Position[1], v.Position[2], v.Position[3]
	poly.Vertices[0] = Vertex{Position: [4]float32{x - half, y - half, z, w}, Attributes: cloneAttrs(v.Attributes)}
	poly.Vertices[1] = Vertex{Position: [4]float32{x + half, y - half, z, w}, Attributes: cloneAttrs(v.Attributes)}
	poly.Vertices[2] = Vertex{Position: [4]float32{x + half, y + half, z, w}, Attributes: cloneAttrs(v.Attributes)}
	poly.Vertices[3] = Vertex{Position: [4]float32{x - half, y + half, z, w}, Attributes: cloneAttrs(v.Attributes)}

	shift := iround(16 * 0.5 * pSize)
	return poly, shift
}

func cloneAttrs(a []float32) []float32 {
	if len(a) == 0 {
		return nil
	}
	out := make([]float32, len(a))
	copy(out, a)
	return out
}
