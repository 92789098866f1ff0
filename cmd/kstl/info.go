package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/kstl/pkg/analysis"
	"github.com/philipparndt/kstl/pkg/stl"
	"github.com/philipparndt/kstl/pkg/watcher"
)

type infoOptions struct {
	*rootOptions
	watch    bool
	debounce time.Duration
}

func newInfoCmd(root *rootOptions) *cobra.Command {
	opts := &infoOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Display general information about an STL file",
		Long:  "Show the header, detected format, triangle count, bounding box, dimensions, surface area and edge statistics.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Print again whenever the file changes")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Quiet period before a change is reported")
	return cmd
}

func runInfo(cmd *cobra.Command, opts *infoOptions, filename string) error {
	out := cmd.OutOrStdout()

	m, err := loadMesh(cmd.Context(), filename, opts.log)
	if err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}
	printInfo(out, filename, m)

	if !opts.watch {
		return nil
	}
	return watchInfo(cmd, opts, filename)
}

// watchInfo reloads and prints the mesh on every change until interrupted
func watchInfo(cmd *cobra.Command, opts *infoOptions, filename string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	files, err := watchedFiles(filename, opts.log)
	if err != nil {
		return err
	}

	fw, err := watcher.New(opts.debounce, opts.log)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(files...); err != nil {
		return err
	}
	opts.log.Info("watching for changes", "files", len(files))

	var mu sync.Mutex
	err = fw.Run(ctx, func(changed string) {
		mu.Lock()
		defer mu.Unlock()

		m, err := loadMesh(ctx, filename, opts.log)
		if err != nil {
			opts.log.Error("reload failed", "path", changed, "err", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout())
		printInfo(cmd.OutOrStdout(), filename, m)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printInfo(out io.Writer, filename string, m *stl.Mesh) {
	result := analysis.Analyze(m)

	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "File: %s\n", filename)
	fmt.Fprintf(out, "Format: %s\n", m.Format())
	if m.Header() != "" {
		fmt.Fprintf(out, "Header: %q\n", m.Header())
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Mesh Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n", result.SurfaceArea)

	if result.TriangleCount == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatPoint(m.Min()))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatPoint(m.Max()))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatPoint(result.Bounds.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X())
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y())
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z())
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", result.Bounds.Diagonal())
	fmt.Fprintf(out, "  Volume: %.6f cubic units\n\n", result.Bounds.Volume())

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
}
