package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/kstl/pkg/analysis"
	"github.com/philipparndt/kstl/pkg/pipeline"
	"github.com/philipparndt/kstl/pkg/stl"
)

type transformOptions struct {
	*rootOptions
	translate []float32
	rotate    []float32
	scale     []float32
	merge     []string
	reset     bool
	pipeline  string
	count     int
}

func newTransformCmd(root *rootOptions) *cobra.Command {
	opts := &transformOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Translate, rotate, scale or merge a mesh and report the result",
		Long: `Apply transforms to a mesh in memory and print the resulting bounds.

Flags are applied in a fixed order: translate, rotate, scale, merge, reset.
Rotation angles are degrees; the mesh is turned by z, then y, then x, where
the x step turns the XY plane again. Use --pipeline to run steps from a
YAML file in any order instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.Float32SliceVar(&opts.translate, "translate", nil, "Offset as x,y,z")
	flags.Float32SliceVar(&opts.rotate, "rotate", nil, "Angles in degrees as x,y,z")
	flags.Float32SliceVar(&opts.scale, "scale", nil, "Factors as x,y,z")
	flags.StringArrayVar(&opts.merge, "merge", nil, "Append the triangles of another file (repeatable)")
	flags.BoolVar(&opts.reset, "reset", false, "Restore the mesh as loaded after the other steps")
	flags.StringVarP(&opts.pipeline, "pipeline", "p", "", "YAML file with transform steps")
	flags.IntVarP(&opts.count, "count", "n", 3, "Number of triangles to print")

	for _, name := range []string{"translate", "rotate", "scale", "merge", "reset"} {
		cmd.MarkFlagsMutuallyExclusive("pipeline", name)
	}
	return cmd
}

// flagPipeline turns the step flags into a pipeline
func (opts *transformOptions) flagPipeline() (*pipeline.Pipeline, error) {
	p := &pipeline.Pipeline{}
	if opts.translate != nil {
		p.Steps = append(p.Steps, pipeline.Step{Translate: opts.translate})
	}
	if opts.rotate != nil {
		p.Steps = append(p.Steps, pipeline.Step{Rotate: opts.rotate})
	}
	if opts.scale != nil {
		p.Steps = append(p.Steps, pipeline.Step{Scale: opts.scale})
	}
	for _, path := range opts.merge {
		p.Steps = append(p.Steps, pipeline.Step{Merge: path})
	}
	if opts.reset {
		p.Steps = append(p.Steps, pipeline.Step{Reset: true})
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return p, nil
}

func runTransform(cmd *cobra.Command, opts *transformOptions, filename string) error {
	ctx := cmd.Context()

	var p *pipeline.Pipeline
	var err error
	if opts.pipeline != "" {
		p, err = pipeline.LoadFile(opts.pipeline)
	} else {
		p, err = opts.flagPipeline()
	}
	if err != nil {
		return err
	}

	m, err := loadMesh(ctx, filename, opts.log)
	if err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}

	load := func(path string) (*stl.Mesh, error) {
		return loadMesh(ctx, path, opts.log)
	}
	if err := p.Apply(m, load); err != nil {
		return err
	}
	opts.log.Debug("applied transforms", "steps", len(p.Steps), "triangles", m.NumTriangles())

	printTransform(cmd.OutOrStdout(), m, p, opts.count)
	return nil
}

func printTransform(out io.Writer, m *stl.Mesh, p *pipeline.Pipeline, count int) {
	fmt.Fprintln(out, "Transform Result")
	fmt.Fprintln(out, "====================")
	for i, s := range p.Steps {
		fmt.Fprintf(out, "Step %d: %s\n", i+1, describeStep(s))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Triangles: %d\n", m.NumTriangles())
	if m.NumTriangles() > 0 {
		fmt.Fprintf(out, "Min: %s\n", analysis.FormatPoint(m.Min()))
		fmt.Fprintf(out, "Max: %s\n", analysis.FormatPoint(m.Max()))
		fmt.Fprintf(out, "Size: %s\n", analysis.FormatPoint(m.Size()))
	}
	fmt.Fprintln(out)

	for i, tri := range m.All() {
		if i >= count {
			break
		}
		printTriangle(out, i, tri)
	}
}

func describeStep(s pipeline.Step) string {
	switch {
	case s.Translate != nil:
		return fmt.Sprintf("translate %v", s.Translate)
	case s.Rotate != nil:
		return fmt.Sprintf("rotate %v", s.Rotate)
	case s.Scale != nil:
		return fmt.Sprintf("scale %v", s.Scale)
	case s.Merge != "":
		return "merge " + s.Merge
	default:
		return s.Name()
	}
}
