package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/kstl/pkg/analysis"
)

type edgesOptions struct {
	*rootOptions
	count     int
	longest   bool
	shortest  bool
	minLength float64
	maxLength float64
}

func newEdgesCmd(root *rootOptions) *cobra.Command {
	opts := &edgesOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "edges [file]",
		Short: "Analyze and measure edges in an STL file",
		Long:  "Find and measure edges, including longest, shortest, or edges within a specific length range.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMesh(cmd.Context(), args[0], opts.log)
			if err != nil {
				return fmt.Errorf("error parsing STL file: %w", err)
			}
			printEdges(cmd.OutOrStdout(), analysis.Analyze(m), opts)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 10, "Number of edges to display")
	cmd.Flags().BoolVarP(&opts.longest, "longest", "l", false, "Show longest edges")
	cmd.Flags().BoolVarP(&opts.shortest, "shortest", "s", false, "Show shortest edges")
	cmd.Flags().Float64Var(&opts.minLength, "min", 0.0, "Minimum edge length filter")
	cmd.Flags().Float64Var(&opts.maxLength, "max", 0.0, "Maximum edge length filter")
	cmd.MarkFlagsMutuallyExclusive("longest", "shortest")
	return cmd
}

func printEdges(out io.Writer, result *analysis.Result, opts *edgesOptions) {
	var edges []analysis.EdgeInfo
	var title string

	switch {
	case opts.longest:
		edges = analysis.FindLongestEdges(result, opts.count)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case opts.shortest:
		edges = analysis.FindShortestEdges(result, opts.count)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case opts.maxLength > 0:
		edges = analysis.FindEdgesByLength(result, opts.minLength, opts.maxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", opts.minLength, opts.maxLength, len(edges))
	default:
		edges = result.AllEdges
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(opts.count, len(edges)), len(edges))
	}
	if len(edges) > opts.count {
		edges = edges[:max(opts.count, 0)]
	}

	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total edges in mesh: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) == 0 {
		fmt.Fprintln(out, "No edges found matching the criteria.")
		return
	}

	fmt.Fprintf(out, "%-6s %-38s %-38s %-15s %s\n", "Index", "Start", "End", "Length", "Triangle")
	fmt.Fprintln(out, "----------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Fprintf(out, "%-6d %-38s %-38s %-15.6f %d\n",
			i+1,
			analysis.FormatPoint(edge.Start),
			analysis.FormatPoint(edge.End),
			edge.Length,
			edge.TriangleID)
	}
}
