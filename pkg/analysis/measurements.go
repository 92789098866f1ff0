package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/kstl/pkg/geometry"
	"github.com/philipparndt/kstl/pkg/stl"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start      geometry.Point
	End        geometry.Point
	Length     float64
	TriangleID int
}

// Result contains various measurements of a mesh
type Result struct {
	Bounds        geometry.Bounds
	Dimensions    geometry.Point
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
}

// Analyze measures surface area and edge lengths of a mesh. Shared edges
// are counted once per triangle.
func Analyze(m *stl.Mesh) *Result {
	result := &Result{
		Bounds:        m.Bounds(),
		Dimensions:    m.Size(),
		TriangleCount: m.NumTriangles(),
		AllEdges:      make([]EdgeInfo, 0, 3*m.NumTriangles()),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for i, triangle := range m.All() {
		result.SurfaceArea += triangle.Area()

		v := triangle.Vertices()
		lengths := triangle.EdgeLengths()
		for e := 0; e < 3; e++ {
			length := lengths[e]
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      v[e],
				End:        v[(e+1)%3],
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *Result, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(result *Result, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(result *Result, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *Result, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	count = max(0, min(count, len(edges)))
	return edges[:count]
}

// FormatPoint formats a single precision point
func FormatPoint(p geometry.Point) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", p.X(), p.Y(), p.Z())
}
