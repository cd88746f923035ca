// Package clip expands points, lines, and triangles to the clipped
// homogeneous polygons the setup stage consumes, and runs the
// Sutherland-Hodgman clip itself. Grounded on the clip-flag /
// plane-distance machinery in hal/software/raster/{clip,cull}.go,
// adapted from that file's "clip a triangle into a list of triangles"
// shape to spec.md §4.F's "grow one Polygon in place" shape and its
// fixed plane order.
package clip

// MaxClippedVertices bounds a Polygon: the six x/y/z planes can each
// add at most one vertex to a starting triangle. The -w plane adds none
// to the final polygon, because the ±x pair already implies w >= 0.
const MaxClippedVertices = 3 + 6

// Vertex is a homogeneous clip-space vertex with interpolated
// varyings, attribute count uniform across a Polygon.
type Vertex struct {
	Position   [4]float32 // x, y, z, w
	Attributes []float32  // varyings, linearly interpolated alongside position
}

// Polygon is a small in-place buffer of clipped vertices.
type Polygon struct {
	Vertices [MaxClippedVertices]Vertex
	Count    int
}

// Flags is the 7-bit per-vertex summary of which frustum half-spaces a
// vertex violates; FlagsNone means fully inside.
type Flags uint8

const (
	FlagNegW Flags = 1 << iota // behind the eye (w <= 0), treated as -w plane violation
	FlagPosW                   // z > w, far plane
	FlagNegX
	FlagPosX
	FlagNegY
	FlagPosY
	FlagNegZ // z < 0, near plane

	FlagsNone Flags = 0
)

// ComputeFlags reports which frustum half-spaces v violates.
func ComputeFlags(v Vertex) Flags {
	x, y, z, w := v.Position[0], v.Position[1], v.Position[2], v.Position[3]
	var f Flags
	if w <= 0 {
		f |= FlagNegW
	}
	if z > w {
		f |= FlagPosW
	}
	if x < -w {
		f |= FlagNegX
	}
	if x > w {
		f |= FlagPosX
	}
	if y < -w {
		f |= FlagNegY
	}
	if y > w {
		f |= FlagPosY
	}
	if z < 0 {
		f |= FlagNegZ
	}
	return f
}

// plane is a homogeneous half-space test Ax+By+Cz+Dw >= 0, evaluated in
// the fixed order spec.md §4.F requires: -w (behind the eye), then
// ±x, ±y, ±z (far uses the w-relative test so it folds into the "±z"
// position as the z<=w half of the z-axis pair).
type plane struct {
	flag             Flags
	a, b, c, d       float32
}

var orderedPlanes = []plane{
	{flag: FlagNegW, a: 0, b: 0, c: 0, d: 1},  // behind the eye: w >= 0
	{flag: FlagNegX, a: 1, b: 0, c: 0, d: 1},  // left: x + w >= 0
	{flag: FlagPosX, a: -1, b: 0, c: 0, d: 1}, // right: w - x >= 0
	{flag: FlagNegY, a: 0, b: 1, c: 0, d: 1},  // bottom: y + w >= 0
	{flag: FlagPosY, a: 0, b: -1, c: 0, d: 1}, // top: w - y >= 0
	{flag: FlagNegZ, a: 0, b: 0, c: 1, d: 0},  // near: z >= 0
	{flag: FlagPosW, a: 0, b: 0, c: -1, d: 1}, // far: w - z >= 0
}

func (p plane) distance(v Vertex) float32 {
	return p.a*v.Position[0] + p.b*v.Position[1] + p.c*v.Position[2] + p.d*v.Position[3]
}

func lerp(v0, v1 Vertex, t float32) Vertex {
	var out Vertex
	for i := 0; i < 4; i++ {
		out.Position[i] = v0.Position[i] + t*(v1.Position[i]-v0.Position[i])
	}
	if len(v0.Attributes) > 0 {
		out.Attributes = make([]float32, len(v0.Attributes))
		for i := range out.Attributes {
			out.Attributes[i] = v0.Attributes[i] + t*(v1.Attributes[i]-v0.Attributes[i])
		}
	}
	return out
}

// clipAgainst runs one Sutherland-Hodgman pass of in against a single
// plane, appending to out (which must start empty) and returning the
// new vertex count. Stops accepting vertices once MaxClippedVertices is
// reached, which cannot happen for a single convex polygon clipped
// against a single plane starting from at most MaxClippedVertices
// vertices.
func clipAgainst(in []Vertex, p plane, out []Vertex) int {
	n := len(in)
	if n == 0 {
		return 0
	}
	count := 0
	prev := in[n-1]
	prevDist := p.distance(prev)
	prevInside := prevDist >= 0
	for i := 0; i < n; i++ {
		cur := in[i]
		curDist := p.distance(cur)
		curInside := curDist >= 0
		if curInside != prevInside {
			denom := prevDist - curDist
			t := float32(0)
			if denom != 0 {
				t = prevDist / denom
			}
			if count < len(out) {
				out[count] = lerp(prev, cur, t)
				count++
			}
		}
		if curInside && count < len(out) {
			out[count] = cur
			count++
		}
		prev, prevDist, prevInside = cur, curDist, curInside
	}
	return count
}

// ClipTriangle computes per-vertex flags, trivially rejects a triangle
// outside a single shared plane, and otherwise runs Sutherland-Hodgman
// against every plane the triangle crosses, in the fixed order above.
// Returns false if fewer than 3 vertices survive.
func ClipTriangle(v0, v1, v2 Vertex) (Polygon, bool) {
	f0, f1, f2 := ComputeFlags(v0), ComputeFlags(v1), ComputeFlags(v2)
	if f0&f1&f2 != FlagsNone {
		return Polygon{}, false
	}

	var poly Polygon
	poly.Vertices[0], poly.Vertices[1], poly.Vertices[2] = v0, v1, v2
	poly.Count = 3

	crossed := f0 | f1 | f2
	if crossed == FlagsNone {
		return poly, true
	}

	var scratch [MaxClippedVertices]Vertex
	for _, p := range orderedPlanes {
		if crossed&p.flag == 0 {
			continue
		}
		n := clipAgainst(poly.Vertices[:poly.Count], p, scratch[:])
		copy(poly.Vertices[:n], scratch[:n])
		poly.Count = n
		if poly.Count == 0 {
			return Polygon{}, false
		}
	}
	if poly.Count < 3 {
		return Polygon{}, false
	}
	return poly, true
}
