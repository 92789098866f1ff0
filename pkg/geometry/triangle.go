package geometry

import "math"

// Triangle represents a triangular facet in 3D space.
//
// The vertex order is the winding read from the file. The normal is kept as
// stored in the file until a rotation recomputes it. The cached bounding box
// is updated by every mutator, so it always matches the vertices.
type Triangle struct {
	vertices  [3]Point
	normal    Point
	attribute [2]byte
	bounds    Bounds
}

// NewTriangle creates a new triangle
func NewTriangle(a, b, c, normal Point, attribute [2]byte) Triangle {
	t := Triangle{
		vertices:  [3]Point{a, b, c},
		normal:    normal,
		attribute: attribute,
	}
	t.updateBounds()
	return t
}

func (t *Triangle) updateBounds() {
	t.bounds = BoundsOf(t.vertices[0], t.vertices[1], t.vertices[2])
}

// Vertices returns the three corners in winding order
func (t Triangle) Vertices() [3]Point {
	return t.vertices
}

// Vertex returns corner i (0, 1 or 2). It panics for any other index, like
// an array access would.
func (t Triangle) Vertex(i int) Point {
	return t.vertices[i]
}

// Normal returns the stored normal. It is not guaranteed to be unit length.
func (t Triangle) Normal() Point {
	return t.normal
}

// Attribute returns the two opaque attribute bytes
func (t Triangle) Attribute() [2]byte {
	return t.attribute
}

// Bounds returns the bounding box of the three vertices
func (t Triangle) Bounds() Bounds {
	return t.bounds
}

// Min returns the smallest coordinate on the given axis (0=X, 1=Y, 2=Z)
func (t Triangle) Min(axis int) float32 {
	return t.bounds.Min[axis]
}

// Max returns the largest coordinate on the given axis (0=X, 1=Y, 2=Z)
func (t Triangle) Max(axis int) float32 {
	return t.bounds.Max[axis]
}

// Translate moves every vertex by the offset
func (t *Triangle) Translate(dx, dy, dz float32) {
	offset := Point{dx, dy, dz}
	for i := range t.vertices {
		t.vertices[i] = t.vertices[i].Add(offset)
	}
	t.updateBounds()
}

// Scale multiplies every vertex by the per-axis factors. The normal is left
// as is, so it may no longer be perpendicular after a non-uniform scale.
func (t *Triangle) Scale(sx, sy, sz float32) {
	factors := Point{sx, sy, sz}
	for i := range t.vertices {
		t.vertices[i] = t.vertices[i].Mul(factors)
	}
	t.updateBounds()
}

// RotateComposite rotates the vertices by angles given in degrees: first rz
// in the XY plane, then ry in the ZX plane, then rx again in the XY plane.
// The last step is not an X axis rotation: it turns the XY plane a second
// time. The normal is recomputed afterwards from the
// winding and is not normalized.
func (t *Triangle) RotateComposite(rx, ry, rz float32) {
	for i := range t.vertices {
		v := &t.vertices[i]
		RotatePair(&v[0], &v[1], rz)
		RotatePair(&v[2], &v[0], ry)
		RotatePair(&v[0], &v[1], rx)
	}
	t.normal = t.windingNormal()
	t.updateBounds()
}

// windingNormal returns (B-A) x (C-A) computed in double precision
func (t Triangle) windingNormal() Point {
	a := t.vertices[0]
	b := t.vertices[1]
	c := t.vertices[2]

	// Edges are formed in single precision, the products in double.
	e1 := b.Sub(a).Vector3()
	e2 := c.Sub(a).Vector3()
	n := e1.Cross(e2)
	return Point{float32(n.X), float32(n.Y), float32(n.Z)}
}

// RotatePair rotates the coordinate pair (u, v) by degrees around the
// origin. The rotation goes through polar form in double precision; a pair
// at the origin stays at the origin.
func RotatePair(u, v *float32, degrees float32) {
	du := float64(*u)
	dv := float64(*v)
	angle := float64(degrees) / 180.0 * math.Pi
	radius := math.Sqrt(du*du + dv*dv)
	theta := math.Atan2(dv, du) + angle
	*u = float32(radius * math.Cos(theta))
	*v = float32(radius * math.Sin(theta))
}

// CalculateNormal computes the unit normal from the winding order
func (t Triangle) CalculateNormal() Vector3 {
	return t.windingNormal().Vector3().Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.vertices[1].Vector3().Sub(t.vertices[0].Vector3())
	edge2 := t.vertices[2].Vector3().Sub(t.vertices[0].Vector3())
	return edge1.Cross(edge2).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	v1 := t.vertices[0].Vector3()
	v2 := t.vertices[1].Vector3()
	v3 := t.vertices[2].Vector3()
	return [3]float64{
		v1.Distance(v2),
		v2.Distance(v3),
		v3.Distance(v1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	v1 := t.vertices[0].Vector3()
	v2 := t.vertices[1].Vector3()
	v3 := t.vertices[2].Vector3()
	return Vector3{
		X: (v1.X + v2.X + v3.X) / 3.0,
		Y: (v1.Y + v2.Y + v3.Y) / 3.0,
		Z: (v1.Z + v2.Z + v3.Z) / 3.0,
	}
}
