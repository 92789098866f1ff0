package stl

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/philipparndt/kstl/pkg/geometry"
)

// Mesh is a triangle list loaded from an STL file, together with a
// snapshot of the list taken at load time so transforms can be undone.
//
// A Mesh is not safe for concurrent use. Distinct meshes share nothing.
type Mesh struct {
	source    string
	format    Format
	header    string
	triangles []geometry.Triangle
	backup    []geometry.Triangle
	bounds    geometry.Bounds
	size      geometry.Point
}

// Load reads an ASCII or binary STL file. The format is detected from the
// content, not the file name. No mesh is returned when any part of the
// file is malformed.
func Load(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer file.Close()

	size := int64(-1)
	if info, err := file.Stat(); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}

	return Read(file, path, size)
}

// Read parses an STL stream. name identifies the source in errors and size
// is the stream length in bytes, or -1 when unknown.
func Read(r io.Reader, name string, size int64) (*Mesh, error) {
	br := bufio.NewReader(r)

	format, err := DetectFormat(br)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrSourceUnavailable, name, err)
	}

	var (
		triangles []geometry.Triangle
		header    string
	)
	switch format {
	case FormatBinary:
		triangles, header, err = parseBinary(br, name, size)
	default:
		triangles, header, err = parseASCII(br, name)
	}
	if err != nil {
		return nil, err
	}

	m := &Mesh{
		source:    name,
		format:    format,
		header:    header,
		triangles: triangles,
		backup:    slices.Clone(triangles),
	}
	m.computeStats()
	return m, nil
}

// Clone returns a deep copy of the mesh, including its reset snapshot
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.triangles = slices.Clone(m.triangles)
	c.backup = slices.Clone(m.backup)
	return &c
}

// computeStats refolds the mesh bounds from the triangle bounds
func (m *Mesh) computeStats() {
	m.bounds = geometry.NewBounds()
	for i := range m.triangles {
		m.bounds.Union(m.triangles[i].Bounds())
	}
	m.size = m.bounds.Size()
}

// Translate moves every triangle by the offset
func (m *Mesh) Translate(dx, dy, dz float32) {
	for i := range m.triangles {
		m.triangles[i].Translate(dx, dy, dz)
	}
	if len(m.triangles) == 0 {
		return
	}
	m.bounds.Translate(geometry.NewPoint(dx, dy, dz))
	m.size = m.bounds.Size()
}

// Scale multiplies every vertex by the per-axis factors. Normals are not
// updated.
func (m *Mesh) Scale(sx, sy, sz float32) {
	for i := range m.triangles {
		m.triangles[i].Scale(sx, sy, sz)
	}
	if len(m.triangles) == 0 {
		return
	}
	m.bounds.Scale(geometry.NewPoint(sx, sy, sz))
	m.size = m.bounds.Size()
}

// Rotate applies geometry.Triangle.RotateComposite to every triangle.
// Angles are in degrees.
func (m *Mesh) Rotate(rx, ry, rz float32) {
	for i := range m.triangles {
		m.triangles[i].RotateComposite(rx, ry, rz)
	}
	m.computeStats()
}

// Merge appends copies of other's triangles. The header and the reset
// snapshot of m are kept; other is not modified.
func (m *Mesh) Merge(other *Mesh) {
	m.triangles = append(m.triangles, other.triangles...)
	m.computeStats()
}

// Reset restores the triangles as they were right after loading
func (m *Mesh) Reset() {
	m.triangles = slices.Clone(m.backup)
	m.computeStats()
}

// Source returns the name the mesh was loaded from
func (m *Mesh) Source() string {
	return m.source
}

// Format returns the detected encoding of the source
func (m *Mesh) Format() Format {
	return m.format
}

// Header returns the binary header or the ASCII endsolid name
func (m *Mesh) Header() string {
	return m.header
}

// NumTriangles returns the number of triangles in the mesh
func (m *Mesh) NumTriangles() int {
	return len(m.triangles)
}

// Min returns the smallest coordinate on each axis. All components are
// +Inf for an empty mesh.
func (m *Mesh) Min() geometry.Point {
	return m.bounds.Min
}

// Max returns the largest coordinate on each axis. All components are
// -Inf for an empty mesh.
func (m *Mesh) Max() geometry.Point {
	return m.bounds.Max
}

// Size returns Max - Min, or the zero point for an empty mesh
func (m *Mesh) Size() geometry.Point {
	return m.size
}

// Bounds returns the mesh bounding box
func (m *Mesh) Bounds() geometry.Bounds {
	return m.bounds
}

// Triangle returns a copy of triangle ti
func (m *Mesh) Triangle(ti int) (geometry.Triangle, error) {
	if ti < 0 || ti >= len(m.triangles) {
		return geometry.Triangle{}, &IndexError{Kind: "triangle", Index: ti, Len: len(m.triangles)}
	}
	return m.triangles[ti], nil
}

// Vertex returns corner ci (0..2) of triangle ti
func (m *Mesh) Vertex(ti, ci int) (geometry.Point, error) {
	t, err := m.Triangle(ti)
	if err != nil {
		return geometry.Point{}, err
	}
	if ci < 0 || ci >= 3 {
		return geometry.Point{}, &IndexError{Kind: "corner", Index: ci, Len: 3}
	}
	return t.Vertex(ci), nil
}

// Normal returns the normal of triangle ti
func (m *Mesh) Normal(ti int) (geometry.Point, error) {
	t, err := m.Triangle(ti)
	if err != nil {
		return geometry.Point{}, err
	}
	return t.Normal(), nil
}

// All iterates over the triangles in order. The yielded values are copies.
func (m *Mesh) All() iter.Seq2[int, geometry.Triangle] {
	return func(yield func(int, geometry.Triangle) bool) {
		for i, t := range m.triangles {
			if !yield(i, t) {
				return
			}
		}
	}
}
