package geometry

import "github.com/chewxy/math32"

// Bounds represents an axis-aligned bounding box
type Bounds struct {
	Min Point
	Max Point
}

// NewBounds creates an empty bounding box. Min starts at +Inf and Max at
// -Inf on every axis so that the first Extend sets both.
func NewBounds() Bounds {
	inf := math32.Inf(1)
	return Bounds{
		Min: Point{inf, inf, inf},
		Max: Point{-inf, -inf, -inf},
	}
}

// BoundsOf returns the smallest box containing all points
func BoundsOf(points ...Point) Bounds {
	b := NewBounds()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Empty reports whether no point has been added to the box
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend expands the bounding box to include a point
func (b *Bounds) Extend(point Point) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Union expands the bounding box to include another box
func (b *Bounds) Union(other Bounds) {
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// Translate shifts both corners by the same offset
func (b *Bounds) Translate(offset Point) {
	b.Min = b.Min.Add(offset)
	b.Max = b.Max.Add(offset)
}

// Scale multiplies both corners by the factors. A negative factor swaps the
// corners on that axis so Min stays below Max.
func (b *Bounds) Scale(factors Point) {
	lo := b.Min.Mul(factors)
	hi := b.Max.Mul(factors)
	b.Min = lo.Min(hi)
	b.Max = lo.Max(hi)
}

// Size returns the dimensions of the bounding box, or the zero point for an
// empty box
func (b Bounds) Size() Point {
	if b.Empty() {
		return Point{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b Bounds) Center() Point {
	return Point{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b Bounds) Diagonal() float64 {
	return b.Size().Vector3().Length()
}

// Volume returns the volume of the bounding box
func (b Bounds) Volume() float64 {
	size := b.Size().Vector3()
	return size.X * size.Y * size.Z
}
