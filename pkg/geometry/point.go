package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Point is a 3D point or direction stored in single precision, the native
// precision of STL files.
type Point [3]float32

// NewPoint creates a new point
func NewPoint(x, y, z float32) Point {
	return Point{x, y, z}
}

// X returns the x coordinate
func (p Point) X() float32 { return p[0] }

// Y returns the y coordinate
func (p Point) Y() float32 { return p[1] }

// Z returns the z coordinate
func (p Point) Z() float32 { return p[2] }

// Add returns the componentwise sum of two points
func (p Point) Add(other Point) Point {
	return Point{p[0] + other[0], p[1] + other[1], p[2] + other[2]}
}

// Sub returns the componentwise difference of two points
func (p Point) Sub(other Point) Point {
	return Point{p[0] - other[0], p[1] - other[1], p[2] - other[2]}
}

// Mul multiplies each component by the matching factor
func (p Point) Mul(factors Point) Point {
	return Point{p[0] * factors[0], p[1] * factors[1], p[2] * factors[2]}
}

// Min returns a point with the minimum components of two points
func (p Point) Min(other Point) Point {
	return Point{
		math32.Min(p[0], other[0]),
		math32.Min(p[1], other[1]),
		math32.Min(p[2], other[2]),
	}
}

// Max returns a point with the maximum components of two points
func (p Point) Max(other Point) Point {
	return Point{
		math32.Max(p[0], other[0]),
		math32.Max(p[1], other[1]),
		math32.Max(p[2], other[2]),
	}
}

// Length returns the magnitude of the point seen as a vector
func (p Point) Length() float32 {
	return math32.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
}

// Vector3 widens the point to double precision
func (p Point) Vector3() Vector3 {
	return Vector3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p[0], p[1], p[2])
}
