package stl

import (
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/kstl/pkg/geometry"
)

func triangles(m *Mesh) []geometry.Triangle {
	var out []geometry.Triangle
	for _, t := range m.All() {
		out = append(out, t)
	}
	return out
}

// requireConsistent checks the mesh aggregates against a fresh fold over
// the triangles
func requireConsistent(t *testing.T, m *Mesh) {
	t.Helper()

	want := geometry.NewBounds()
	for _, tri := range m.All() {
		v := tri.Vertices()
		require.Equal(t, geometry.BoundsOf(v[:]...), tri.Bounds())
		want.Union(tri.Bounds())
	}
	require.Equal(t, want.Min, m.Min())
	require.Equal(t, want.Max, m.Max())
	for axis := 0; axis < 3; axis++ {
		require.LessOrEqual(t, m.Min()[axis], m.Max()[axis])
		require.Equal(t, m.Max()[axis]-m.Min()[axis], m.Size()[axis])
	}
}

func TestLoadFormatParity(t *testing.T) {
	asciiPath := writeFile(t, "unit_ascii.stl", []byte(singleFacetASCII))
	binaryPath := writeFile(t, "unit_binary.stl", encodeBinary(t, "any 80 byte header", -1, unitRecord()))

	ascii, err := Load(asciiPath)
	require.NoError(t, err)
	binary, err := Load(binaryPath)
	require.NoError(t, err)

	assert.Equal(t, FormatASCII, ascii.Format())
	assert.Equal(t, FormatBinary, binary.Format())
	assert.Equal(t, asciiPath, ascii.Source())
	require.Equal(t, 1, ascii.NumTriangles())
	require.Equal(t, 1, binary.NumTriangles())

	for ci := 0; ci < 3; ci++ {
		a, err := ascii.Vertex(0, ci)
		require.NoError(t, err)
		b, err := binary.Vertex(0, ci)
		require.NoError(t, err)
		assert.Equal(t, a, b, "corner %d", ci)
	}

	na, err := ascii.Normal(0)
	require.NoError(t, err)
	nb, err := binary.Normal(0)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint(0, 0, 1), na)
	assert.Equal(t, na, nb)

	assert.Equal(t, ascii.Bounds(), binary.Bounds())
	assert.Equal(t, geometry.NewPoint(1, 1, 0), ascii.Size())
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.stl"))

	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "broken.stl", []byte("solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nendloop\nendfacet\n"))

	m, err := Load(path)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMalformedASCII)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "line 6")
}

func TestLoadTruncatedFile(t *testing.T) {
	data := encodeBinary(t, "", 3, unitRecord())
	path := writeFile(t, "short.stl", data)

	m, err := Load(path)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrTruncatedBinary)
}

func TestMeshAggregates(t *testing.T) {
	m := readString(t, twoFacetASCII)

	assert.Equal(t, geometry.NewPoint(-1, -1, -2), m.Min())
	assert.Equal(t, geometry.NewPoint(4, 3, 5), m.Max())
	assert.Equal(t, geometry.NewPoint(5, 4, 7), m.Size())
	requireConsistent(t, m)
}

func TestMeshTransformsKeepAggregatesConsistent(t *testing.T) {
	m := readString(t, twoFacetASCII)

	m.Translate(0.1, -3.7, 12.25)
	requireConsistent(t, m)

	m.Rotate(15, 30, 45)
	requireConsistent(t, m)

	m.Scale(2, 0.5, 3)
	requireConsistent(t, m)

	m.Scale(-1, 1, -0.25)
	requireConsistent(t, m)

	m.Merge(readString(t, singleFacetASCII))
	requireConsistent(t, m)

	m.Reset()
	requireConsistent(t, m)
}

func TestMeshTranslateInverse(t *testing.T) {
	m := readString(t, twoFacetASCII)
	before := triangles(m)

	m.Translate(0.3, -1.7, 1000.1)
	m.Translate(-0.3, 1.7, -1000.1)

	after := triangles(m)
	for i := range before {
		for ci := 0; ci < 3; ci++ {
			for axis := 0; axis < 3; axis++ {
				assert.InDelta(t, before[i].Vertex(ci)[axis], after[i].Vertex(ci)[axis], 1e-3)
			}
		}
	}
}

func TestMeshTranslateShiftsBounds(t *testing.T) {
	m := readString(t, twoFacetASCII)
	m.Translate(1, 2, 3)

	assert.Equal(t, geometry.NewPoint(0, 1, 1), m.Min())
	assert.Equal(t, geometry.NewPoint(5, 5, 8), m.Max())
	assert.Equal(t, geometry.NewPoint(5, 4, 7), m.Size())
}

func TestMeshScaleNegativeFactor(t *testing.T) {
	m := readString(t, twoFacetASCII)
	m.Scale(-1, 2, 1)

	assert.Equal(t, geometry.NewPoint(-4, -2, -2), m.Min())
	assert.Equal(t, geometry.NewPoint(1, 6, 5), m.Max())

	// Normals are left alone by scaling.
	n, err := m.Normal(1)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint(0, 0, -1), n)
}

func TestMeshRotate(t *testing.T) {
	m := readString(t, singleFacetASCII)
	m.Rotate(0, 0, 90)

	v, err := m.Vertex(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, v.X(), 1e-6)
	assert.InDelta(t, 1, v.Y(), 1e-6)

	assert.InDelta(t, -1, m.Min().X(), 1e-6)
	assert.InDelta(t, 0, m.Max().X(), 1e-6)

	n, err := m.Normal(0)
	require.NoError(t, err)
	assert.InDelta(t, 1, n.Z(), 1e-6)
}

func TestMeshReset(t *testing.T) {
	m := readString(t, twoFacetASCII)
	loaded := triangles(m)
	bounds, size := m.Bounds(), m.Size()

	m.Translate(5, 5, 5)
	m.Rotate(10, 20, 30)
	m.Scale(3, -2, 0.5)
	m.Rotate(90, 0, 0)
	m.Reset()

	assert.Equal(t, loaded, triangles(m))
	assert.Equal(t, bounds, m.Bounds())
	assert.Equal(t, size, m.Size())

	// A second round trip starts from the same snapshot.
	m.Translate(1, 0, 0)
	m.Reset()
	assert.Equal(t, loaded, triangles(m))
}

func TestMeshMerge(t *testing.T) {
	a := readString(t, twoFacetASCII)
	b := readString(t, singleFacetASCII)
	aTriangles := triangles(a)
	bTriangles := triangles(b)

	a.Merge(b)

	require.Equal(t, 3, a.NumTriangles())
	merged := triangles(a)
	assert.Equal(t, aTriangles, merged[:2])
	assert.Equal(t, bTriangles, merged[2:])
	assert.Equal(t, "pair", a.Header())

	// The merged-in triangles are copies.
	b.Translate(100, 0, 0)
	assert.Equal(t, bTriangles, triangles(a)[2:])

	// Reset drops the merged triangles again.
	a.Reset()
	assert.Equal(t, aTriangles, triangles(a))
}

func TestMeshMergeSelf(t *testing.T) {
	m := readString(t, twoFacetASCII)
	before := triangles(m)

	m.Merge(m)

	assert.Equal(t, slices.Concat(before, before), triangles(m))
}

func TestMeshMergeIntoEmpty(t *testing.T) {
	m := readString(t, "solid\nendsolid\n")
	m.Merge(readString(t, twoFacetASCII))

	assert.Equal(t, 2, m.NumTriangles())
	assert.Equal(t, geometry.NewPoint(-1, -1, -2), m.Min())
}

func TestMeshClone(t *testing.T) {
	m := readString(t, twoFacetASCII)
	c := m.Clone()
	original := triangles(m)

	c.Translate(1, 1, 1)
	c.Merge(c)
	assert.Equal(t, original, triangles(m))
	assert.Equal(t, geometry.NewPoint(-1, -1, -2), m.Min())

	// The snapshot is copied too.
	c.Reset()
	assert.Equal(t, original, triangles(c))
	assert.Equal(t, m.Header(), c.Header())
}

func TestMeshEmptyTransforms(t *testing.T) {
	m := readString(t, "solid\nendsolid\n")
	m.Translate(1, 2, 3)
	m.Scale(0, 0, 0)
	m.Rotate(1, 2, 3)

	assert.Equal(t, geometry.NewBounds(), m.Bounds())
	assert.Equal(t, geometry.Point{}, m.Size())
}

func TestMeshIndexErrors(t *testing.T) {
	m := readString(t, singleFacetASCII)

	_, err := m.Triangle(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = m.Vertex(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = m.Vertex(0, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.EqualError(t, err, "stl: corner index 3 out of range [0, 3)")

	_, err = m.Normal(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMeshAllStopsEarly(t *testing.T) {
	m := readString(t, twoFacetASCII)

	seen := 0
	for range m.All() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}
