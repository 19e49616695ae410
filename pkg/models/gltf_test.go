package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/softrast/pkg/math3d"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

// writeTriangleGLB writes a single right-handed, counter-clockwise triangle
// with 16-bit indices and no normals.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 2} {
		if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
			t.Fatal(err)
		}
	}
	for _, i := range []uint16{0, 1, 2, 0} { // last index is padding
		if err := binary.Write(&buf, binary.LittleEndian, i); err != nil {
			t.Fatal(err)
		}
	}

	doc := &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{ByteLength: buf.Len(), Data: buf.Bytes()}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36},
			{Buffer: 0, ByteOffset: 36, ByteLength: 6},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    gltf.Index(1),
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	g, err := LoadGLTF(writeTriangleGLB(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	if g.Name != "tri.glb" {
		t.Errorf("Name = %q", g.Name)
	}
	if got := g.VertexCount(); got != 3 {
		t.Fatalf("VertexCount() = %d, want 3", got)
	}
	// Winding reversed and z negated for the left-handed pipeline.
	if want := []uint32{0, 2, 1}; !slices.Equal(g.Indices, want) {
		t.Errorf("Indices = %v, want %v", g.Indices, want)
	}
	if got := g.Vertices[2].Position; !got.ApproxEqual(math3d.V3(0, 1, -2), 1e-6) {
		t.Errorf("position = %v, want (0, 1, -2)", got)
	}
	if g.Material != nil {
		t.Errorf("Material = %+v, want nil without textures", g.Material)
	}

	// The file normal (0, -2, 1) is generated, then mirrored with the geometry.
	want := math3d.V3(0, -2, -1).Normalize()
	for i, v := range g.Vertices {
		if !v.Normal.ApproxEqual(want, 1e-6) {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want)
		}
	}
}

func TestLoadDispatchesGLB(t *testing.T) {
	g, err := Load(writeTriangleGLB(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := g.TriangleCount(); got != 1 {
		t.Errorf("TriangleCount() = %d, want 1", got)
	}
}

func TestReadIndicesRejectsFloat(t *testing.T) {
	doc := &gltf.Document{
		Accessors: []*gltf.Accessor{{ComponentType: gltf.ComponentFloat, Type: gltf.AccessorScalar, Count: 1}},
	}
	if _, err := readIndices(doc, 0); err == nil {
		t.Error("expected error for float indices")
	}
	if _, err := readIndices(doc, 3); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}
