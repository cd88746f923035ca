package clip

import "math"

// ExpandLineMultisample widens a line to a screen-aligned rectangle of
// the given width, perpendicular to the line's screen-space direction,
// producing the 4 vertices of a quad to clip as an ordinary polygon
// (spec.md §4.F: "expand the line to a rectangle ... clip as a
// polygon").
func ExpandLineMultisample(v0, v1 Vertex, lineWidth float32) Polygon {
	dx := v1.Position[0]/v1.Position[3] - v0.Position[0]/v0.Position[3]
	dy := v1.Position[1]/v1.Position[3] - v0.Position[1]/v0.Position[3]
	length := sqrt32(dx*dx + dy*dy)
	if length == 0 {
		length = 1
	}
	// Perpendicular unit vector scaled to half the line width, in clip
	// space (approximated by scaling with each endpoint's own w so the
	// offset survives the perspective divide at roughly constant
	// screen width).
	nx, ny := -dy/length, dx/length
	half := lineWidth / 2

	var poly Polygon
	poly.Count = 4
	poly.Vertices[0] = offsetVertex(v0, nx*half*v0.Position[3], ny*half*v0.Position[3])
	poly.Vertices[1] = offsetVertex(v1, nx*half*v1.Position[3], ny*half*v1.Position[3])
	poly.Vertices[2] = offsetVertex(v1, -nx*half*v1.Position[3], -ny*half*v1.Position[3])
	poly.Vertices[3] = offsetVertex(v0, -nx*half*v0.Position[3], -ny*half*v0.Position[3])
	return poly
}

func offsetVertex(v Vertex, dx, dy float32) Vertex {
	out := v
	out.Position[0] += dx
	out.Position[1] += dy
	out.Attributes = cloneAttrs(v.Attributes)
	return out
}

// lineDirection identifies which of the four diamond-exit cases a
// segment falls into, following the sign of dx vs dy.
type lineDirection int

const (
	dirRight lineDirection = iota
	dirDown
	dirUp
	dirLeft
)

func classifyDirection(dx, dy float32) lineDirection {
	switch {
	case dx >= 0 && abs32(dx) >= abs32(dy):
		return dirRight
	case dx < 0 && abs32(dx) >= abs32(dy):
		return dirLeft
	case dy >= 0:
		return dirDown
	default:
		return dirUp
	}
}

// diamondOffsets gives the four offsets (of a half-pixel diamond
// around one endpoint) to keep for each of the four sign cases; the
// remaining four of eight candidate points (cross product of the two
// endpoints' diamonds) are dropped, following the non-multisampled
// "diamond exit" rule.
var diamondOffsets = map[lineDirection][2][2]float32{
	dirRight: {{0, -0.5}, {0, 0.5}},
	dirLeft:  {{0, 0.5}, {0, -0.5}},
	dirDown:  {{-0.5, 0}, {0.5, 0}},
	dirUp:    {{0.5, 0}, {-0.5, 0}},
}

// ExpandLineDiamondExit expands a non-multisampled line into the
// hexagon the "diamond exit" rule selects: each endpoint contributes a
// diamond of four offset vertices, six of the combined eight are kept
// based on the sign of dx vs dy, and the resulting hexagon is ready for
// Sutherland-Hodgman clipping like a triangle fan.
func ExpandLineDiamondExit(v0, v1 Vertex) Polygon {
	dx := v1.Position[0]/v1.Position[3] - v0.Position[0]/v0.Position[3]
	dy := v1.Position[1]/v1.Position[3] - v0.Position[1]/v0.Position[3]
	dir := classifyDirection(dx, dy)
	off := diamondOffsets[dir]

	var poly Polygon
	poly.Count = 6
	// Endpoint v0 contributes its two diamond corners plus the tip
	// pointing away from v1; v1 is the mirror image.
	poly.Vertices[0] = offsetVertex(v0, off[0][0]*v0.Position[3], off[0][1]*v0.Position[3])
	poly.Vertices[1] = v0
	poly.Vertices[2] = offsetVertex(v0, off[1][0]*v0.Position[3], off[1][1]*v0.Position[3])
	poly.Vertices[3] = offsetVertex(v1, off[0][0]*v1.Position[3], off[0][1]*v1.Position[3])
	poly.Vertices[4] = v1
	poly.Vertices[5] = offsetVertex(v1, off[1][0]*v1.Position[3], off[1][1]*v1.Position[3])
	return poly
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
