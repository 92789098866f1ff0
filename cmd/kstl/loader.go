package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/kstl/pkg/openscad"
	"github.com/philipparndt/kstl/pkg/stl"
)

// loadMesh loads an STL file, rendering OpenSCAD sources to a temporary
// STL first
func loadMesh(ctx context.Context, path string, log *slog.Logger) (*stl.Mesh, error) {
	start := time.Now()

	if !openscad.IsSource(path) {
		m, err := stl.Load(path)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded mesh", "path", path, "format", m.Format(),
			"triangles", m.NumTriangles(), "elapsed", time.Since(start))
		return m, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	renderer := openscad.NewRenderer(filepath.Dir(abs), log)
	tempFile, err := renderer.RenderTemp(ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}
	defer os.Remove(tempFile)

	m, err := stl.Load(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	log.Debug("rendered mesh", "path", path, "triangles", m.NumTriangles(), "elapsed", time.Since(start))
	return m, nil
}

// watchedFiles lists the files whose change should trigger a reload
func watchedFiles(path string, log *slog.Logger) ([]string, error) {
	if !openscad.IsSource(path) {
		return []string{path}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	renderer := openscad.NewRenderer(filepath.Dir(abs), log)
	deps, err := renderer.ResolveDependencies(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	return deps, nil
}
