package models

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

const quadOBJ = `# unit quad facing +z
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJ(t *testing.T) {
	g, err := ParseOBJ(strings.NewReader(quadOBJ), false)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if g.Name != "Quad" {
		t.Errorf("Name = %q, want Quad", g.Name)
	}
	if got := g.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}
	if want := []uint32{0, 1, 2, 0, 2, 3}; !slices.Equal(g.Indices, want) {
		t.Errorf("Indices = %v, want %v", g.Indices, want)
	}

	// v is flipped so the first texcoord lands on the bottom row.
	if got := g.Vertices[0].UV; got != math3d.V2(0, 1) {
		t.Errorf("UV = %v, want (0, 1)", got)
	}
	for i, v := range g.Vertices {
		if !v.Normal.ApproxEqual(math3d.UnitZ(), 1e-12) {
			t.Errorf("vertex %d normal = %v, want +z", i, v.Normal)
		}
		if !v.Tangent.ApproxEqual(math3d.UnitX(), 1e-12) {
			t.Errorf("vertex %d tangent = %v, want +x", i, v.Tangent)
		}
		if v.Color.R != 1 || v.Color.G != 1 || v.Color.B != 1 {
			t.Errorf("vertex %d color = %v, want white", i, v.Color)
		}
	}
	if !g.BoundsMax.ApproxEqual(math3d.V3(1, 1, 0), 1e-12) {
		t.Errorf("BoundsMax = %v", g.BoundsMax)
	}
}

func TestParseOBJFlipHandedness(t *testing.T) {
	g, err := ParseOBJ(strings.NewReader(quadOBJ+"v 0 0 2\nf 1 2 5\n"), true)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if want := []uint32{0, 2, 1, 0, 3, 2, 4, 6, 5}; !slices.Equal(g.Indices, want) {
		t.Errorf("Indices = %v, want %v", g.Indices, want)
	}
	if got := g.Vertices[0].Normal; !got.ApproxEqual(math3d.V3(0, 0, -1), 1e-12) {
		t.Errorf("normal = %v, want -z", got)
	}
	if got := g.BoundsMin.Z; got != -2 {
		t.Errorf("BoundsMin.Z = %v, want -2", got)
	}
}

func TestParseOBJFaces(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantVertices int
		wantIndices  []uint32
	}{
		{
			name:         "fan",
			src:          "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n",
			wantVertices: 5,
			wantIndices:  []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4},
		},
		{
			name:         "negative indices",
			src:          "v 0 0 0\nv 9 9 9\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n",
			wantVertices: 3,
			wantIndices:  []uint32{0, 1, 2},
		},
		{
			name:         "shared corners",
			src:          "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n",
			wantVertices: 4,
			wantIndices:  []uint32{0, 1, 2, 0, 2, 3},
		},
		{
			name:         "same position different uv",
			src:          "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 1\nf 1/1 2/1 3/1\nf 1/2 3/2 2/2\n",
			wantVertices: 6,
			wantIndices:  []uint32{0, 1, 2, 3, 4, 5},
		},
		{
			name:         "position and normal only",
			src:          "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n",
			wantVertices: 3,
			wantIndices:  []uint32{0, 1, 2},
		},
		{
			name:         "ignored statements",
			src:          "mtllib a.mtl\ng body\ns 1\nusemtl red\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			wantVertices: 3,
			wantIndices:  []uint32{0, 1, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseOBJ(strings.NewReader(tc.src), false)
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if got := g.VertexCount(); got != tc.wantVertices {
				t.Errorf("VertexCount() = %d, want %d", got, tc.wantVertices)
			}
			if !slices.Equal(g.Indices, tc.wantIndices) {
				t.Errorf("Indices = %v, want %v", g.Indices, tc.wantIndices)
			}
		})
	}
}

func TestParseOBJGeneratesNormals(t *testing.T) {
	g, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), false)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	for i, v := range g.Vertices {
		if !v.Normal.ApproxEqual(math3d.UnitZ(), 1e-12) {
			t.Errorf("vertex %d normal = %v, want +z", i, v.Normal)
		}
		// No UVs: the fallback tangent is still a unit vector perpendicular
		// to the normal.
		if math.Abs(v.Tangent.Len()-1) > 1e-12 || math.Abs(v.Tangent.Dot(v.Normal)) > 1e-12 {
			t.Errorf("vertex %d tangent = %v", i, v.Tangent)
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"bad number", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"missing texcoord", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n"},
		{"too many slashes", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src), false)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	g, err := Load(writeFile(t, "quad.OBJ", quadOBJ))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := g.TriangleCount(); got != 2 {
		t.Errorf("TriangleCount() = %d, want 2", got)
	}

	if _, err := Load(writeFile(t, "model.fbx", "")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestLoadOBJNamesFromFile(t *testing.T) {
	g, err := LoadOBJ(writeFile(t, "tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if g.Name != "tri.obj" {
		t.Errorf("Name = %q, want tri.obj", g.Name)
	}
}
