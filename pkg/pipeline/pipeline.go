// Package pipeline applies a sequence of mesh transforms read from a YAML
// file.
//
//	steps:
//	  - translate: [1, 2, 3]
//	  - rotate: [0, 0, 90]
//	  - scale: [2, 2, 2]
//	  - merge: other.stl
//	  - reset: true
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/kstl/pkg/stl"
)

// Loader opens the mesh named by a merge step
type Loader func(path string) (*stl.Mesh, error)

// Step is one transform. Exactly one field is set.
type Step struct {
	Translate []float32 `yaml:"translate,omitempty"`
	Rotate    []float32 `yaml:"rotate,omitempty"`
	Scale     []float32 `yaml:"scale,omitempty"`
	Merge     string    `yaml:"merge,omitempty"`
	Reset     bool      `yaml:"reset,omitempty"`
}

// Pipeline is an ordered list of steps
type Pipeline struct {
	Steps []Step `yaml:"steps"`

	// Dir is where relative merge paths are resolved. LoadFile sets it to
	// the directory of the pipeline file.
	Dir string `yaml:"-"`
}

// Parse decodes and validates a pipeline
func Parse(r io.Reader) (*Pipeline, error) {
	var p Pipeline
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode pipeline: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a pipeline from disk
func LoadFile(path string) (*Pipeline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pipeline: %w", err)
	}
	defer file.Close()

	p, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Dir = filepath.Dir(path)
	return p, nil
}

// Validate checks that every step names exactly one operation with the
// right number of components
func (p *Pipeline) Validate() error {
	for i, s := range p.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	ops := 0
	for _, v := range []struct {
		name string
		vec  []float32
	}{{"translate", s.Translate}, {"rotate", s.Rotate}, {"scale", s.Scale}} {
		if v.vec == nil {
			continue
		}
		ops++
		if len(v.vec) != 3 {
			return fmt.Errorf("%s needs 3 values, got %d", v.name, len(v.vec))
		}
	}
	if s.Merge != "" {
		ops++
	}
	if s.Reset {
		ops++
	}

	switch ops {
	case 0:
		return errors.New("no operation")
	case 1:
		return nil
	default:
		return errors.New("more than one operation")
	}
}

// Name returns the operation of the step
func (s Step) Name() string {
	switch {
	case s.Translate != nil:
		return "translate"
	case s.Rotate != nil:
		return "rotate"
	case s.Scale != nil:
		return "scale"
	case s.Merge != "":
		return "merge"
	case s.Reset:
		return "reset"
	default:
		return ""
	}
}

// Apply runs the steps on m in order. Meshes for merge steps come from
// load. On error m keeps the steps applied so far.
func (p *Pipeline) Apply(m *stl.Mesh, load Loader) error {
	for i, s := range p.Steps {
		if err := p.apply(m, s, load); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Name(), err)
		}
	}
	return nil
}

func (p *Pipeline) apply(m *stl.Mesh, s Step, load Loader) error {
	switch {
	case s.Translate != nil:
		m.Translate(s.Translate[0], s.Translate[1], s.Translate[2])
	case s.Rotate != nil:
		m.Rotate(s.Rotate[0], s.Rotate[1], s.Rotate[2])
	case s.Scale != nil:
		m.Scale(s.Scale[0], s.Scale[1], s.Scale[2])
	case s.Merge != "":
		path := s.Merge
		if !filepath.IsAbs(path) && p.Dir != "" {
			path = filepath.Join(p.Dir, path)
		}
		other, err := load(path)
		if err != nil {
			return err
		}
		m.Merge(other)
	case s.Reset:
		m.Reset()
	default:
		return errors.New("no operation")
	}
	return nil
}
