package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/kstl/pkg/geometry"
	"github.com/philipparndt/kstl/pkg/stl"
)

const unitFacet = `solid unit
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
endsolid unit
`

func unitMesh(t *testing.T) *stl.Mesh {
	t.Helper()
	m, err := stl.Read(strings.NewReader(unitFacet), "unit.stl", -1)
	require.NoError(t, err)
	return m
}

func TestParse(t *testing.T) {
	p, err := Parse(strings.NewReader(`
steps:
  - translate: [1, 2, 3]
  - rotate: [0, 0, 90]
  - scale: [2, 2, 2]
  - merge: other.stl
  - reset: true
`))
	require.NoError(t, err)
	require.Len(t, p.Steps, 5)

	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"translate", "rotate", "scale", "merge", "reset"}, names)
	assert.Equal(t, []float32{1, 2, 3}, p.Steps[0].Translate)
}

func TestParseEmpty(t *testing.T) {
	p, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, p.Steps)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"short vector", "steps:\n  - scale: [1, 2]\n", "step 1: scale needs 3 values, got 2"},
		{"two operations", "steps:\n  - reset: true\n  - translate: [1, 2, 3]\n    rotate: [1, 2, 3]\n", "step 2: more than one operation"},
		{"no operation", "steps:\n  - reset: false\n", "step 1: no operation"},
		{"unknown field", "steps:\n  - spin: [1, 2, 3]\n", "failed to decode pipeline"},
		{"not a number", "steps:\n  - translate: [a, b, c]\n", "failed to decode pipeline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestApply(t *testing.T) {
	p := &Pipeline{Steps: []Step{
		{Translate: []float32{1, 2, 3}},
		{Scale: []float32{2, 2, 2}},
		{Merge: "extra.stl"},
	}}

	var loaded []string
	load := func(path string) (*stl.Mesh, error) {
		loaded = append(loaded, path)
		return unitMesh(t), nil
	}

	m := unitMesh(t)
	require.NoError(t, p.Apply(m, load))

	assert.Equal(t, []string{"extra.stl"}, loaded)
	assert.Equal(t, 2, m.NumTriangles())
	assert.Equal(t, geometry.NewPoint(0, 0, 0), m.Min())
	assert.Equal(t, geometry.NewPoint(4, 6, 6), m.Max())
	assert.Equal(t, "unit", m.Header())
}

func TestApplyReset(t *testing.T) {
	p := &Pipeline{Steps: []Step{
		{Rotate: []float32{10, 20, 30}},
		{Reset: true},
	}}

	m := unitMesh(t)
	require.NoError(t, p.Apply(m, nil))

	v, err := m.Vertex(0, 1)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint(1, 0, 0), v)
}

func TestApplyMergeError(t *testing.T) {
	boom := errors.New("no such mesh")
	p := &Pipeline{Steps: []Step{
		{Translate: []float32{1, 0, 0}},
		{Merge: "missing.stl"},
	}}

	err := p.Apply(unitMesh(t), func(string) (*stl.Mesh, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step 2 (merge)")
}

func TestLoadFileResolvesMergePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.stl"), []byte(unitFacet), 0o644))

	path := filepath.Join(dir, "ops.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - merge: extra.stl\n"), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Dir)

	m := unitMesh(t)
	require.NoError(t, p.Apply(m, stl.Load))
	assert.Equal(t, 2, m.NumTriangles())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
