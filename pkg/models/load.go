package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a model, picking the loader from the file extension:
// .obj, .gltf or .glb.
func Load(path string) (*Geometry, error) {
	var (
		g   *Geometry
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		g, err = LoadOBJ(path)
	case ".gltf", ".glb":
		g, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
