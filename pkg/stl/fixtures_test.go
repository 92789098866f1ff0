package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const singleFacetASCII = `solid unit
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid unit
`

const twoFacetASCII = `solid pair
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 2 0 0
vertex 0 3 0
endloop
endfacet

facet normal 0 0 -1
outer loop
vertex -1 -1 5
vertex 4 0 5
vertex 0 2 -2
endloop
endfacet
endsolid pair
`

// record is one binary triangle: normal, three vertices, attribute
type record struct {
	normal   [3]float32
	vertices [3][3]float32
	attr     [2]byte
}

// encodeBinary builds a binary STL image. count overrides the declared
// triangle count when not negative. The sniffer needs a byte >= 0x80 in
// the first 128 bytes; a 1.0 float in the first record provides one,
// otherwise the header must.
func encodeBinary(t *testing.T, header string, count int, records ...record) []byte {
	t.Helper()

	var buf bytes.Buffer
	var head [80]byte
	copy(head[:], header)
	buf.Write(head[:])

	n := uint32(len(records))
	if count >= 0 {
		n = uint32(count)
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, n))

	for _, r := range records {
		floats := []float32{r.normal[0], r.normal[1], r.normal[2]}
		for _, v := range r.vertices {
			floats = append(floats, v[0], v[1], v[2])
		}
		for _, f := range floats {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(f)))
		}
		buf.Write(r.attr[:])
	}
	return buf.Bytes()
}

func unitRecord() record {
	return record{
		normal:   [3]float32{0, 0, 1},
		vertices: [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readString(t *testing.T, s string) *Mesh {
	t.Helper()
	m, err := Read(bytes.NewReader([]byte(s)), "test.stl", int64(len(s)))
	require.NoError(t, err)
	return m
}
