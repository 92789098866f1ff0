package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/philipparndt/kstl/pkg/analysis"
	"github.com/philipparndt/kstl/pkg/geometry"
	"github.com/philipparndt/kstl/pkg/stl"
)

type trianglesOptions struct {
	*rootOptions
	count    int
	largest  bool
	smallest bool
}

type triangleInfo struct {
	Index     int
	Area      float64
	Perimeter float64
	Triangle  geometry.Triangle
}

func newTrianglesCmd(root *rootOptions) *cobra.Command {
	opts := &trianglesOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "triangles [file]",
		Short: "Analyze triangles in an STL file",
		Long:  "Display information about triangles including area, perimeter, vertex positions and stored normal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMesh(cmd.Context(), args[0], opts.log)
			if err != nil {
				return fmt.Errorf("error parsing STL file: %w", err)
			}
			printTriangles(cmd.OutOrStdout(), m, opts)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 10, "Number of triangles to display")
	cmd.Flags().BoolVarP(&opts.largest, "largest", "l", false, "Show largest triangles by area")
	cmd.Flags().BoolVarP(&opts.smallest, "smallest", "s", false, "Show smallest triangles by area")
	cmd.MarkFlagsMutuallyExclusive("largest", "smallest")
	return cmd
}

func printTriangles(out io.Writer, m *stl.Mesh, opts *trianglesOptions) {
	triangles := make([]triangleInfo, 0, m.NumTriangles())
	totalArea := 0.0
	minArea := math.MaxFloat64
	maxArea := 0.0

	for i, tri := range m.All() {
		area := tri.Area()
		triangles = append(triangles, triangleInfo{
			Index:     i,
			Area:      area,
			Perimeter: tri.Perimeter(),
			Triangle:  tri,
		})

		totalArea += area
		minArea = math.Min(minArea, area)
		maxArea = math.Max(maxArea, area)
	}

	var title string
	switch {
	case opts.largest:
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area > triangles[j].Area
		})
		title = fmt.Sprintf("Top %d Largest Triangles", opts.count)
	case opts.smallest:
		sort.SliceStable(triangles, func(i, j int) bool {
			return triangles[i].Area < triangles[j].Area
		})
		title = fmt.Sprintf("Top %d Smallest Triangles", opts.count)
	default:
		title = fmt.Sprintf("First %d Triangles", opts.count)
	}

	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total triangles: %d\n", len(triangles))
	if len(triangles) == 0 {
		return
	}
	fmt.Fprintf(out, "Total surface area: %.6f square units\n", totalArea)
	fmt.Fprintf(out, "Min triangle area: %.6f square units\n", minArea)
	fmt.Fprintf(out, "Max triangle area: %.6f square units\n", maxArea)
	fmt.Fprintf(out, "Avg triangle area: %.6f square units\n\n", totalArea/float64(len(triangles)))

	count := min(opts.count, len(triangles))
	for _, info := range triangles[:max(count, 0)] {
		printTriangle(out, info.Index, info.Triangle)
		fmt.Fprintf(out, "  Area: %.6f square units\n", info.Area)
		fmt.Fprintf(out, "  Perimeter: %.6f units\n\n", info.Perimeter)
	}
}

func printTriangle(out io.Writer, index int, tri geometry.Triangle) {
	v := tri.Vertices()
	fmt.Fprintf(out, "Triangle #%d:\n", index)
	fmt.Fprintf(out, "  Vertices: %s, %s, %s\n",
		analysis.FormatPoint(v[0]), analysis.FormatPoint(v[1]), analysis.FormatPoint(v[2]))
	fmt.Fprintf(out, "  Normal: %s\n", analysis.FormatPoint(tri.Normal()))
}
