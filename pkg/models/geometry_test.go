package models

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

func triangleStrip() *Geometry {
	g := NewGeometry("strip")
	for i := range 4 {
		g.Vertices = append(g.Vertices, render.Vertex{
			Position: math3d.V3(float64(i/2), float64(i%2), 1),
			Normal:   math3d.V3(0, 0, -1),
		})
	}
	g.Indices = []uint32{0, 1, 2, 3}
	g.Topology = render.TriangleStrip
	g.CalculateBounds()
	return g
}

func TestGeometryBounds(t *testing.T) {
	g := triangleStrip()
	if !g.Center().ApproxEqual(math3d.V3(0.5, 0.5, 1), 1e-12) {
		t.Errorf("Center() = %v", g.Center())
	}
	if !g.Size().ApproxEqual(math3d.V3(1, 1, 0), 1e-12) {
		t.Errorf("Size() = %v", g.Size())
	}
	if got := g.TriangleCount(); got != 2 {
		t.Errorf("TriangleCount() = %d, want 2", got)
	}
}

func TestToList(t *testing.T) {
	g := triangleStrip()
	g.ToList()
	if g.Topology != render.TriangleList {
		t.Fatalf("Topology = %v, want list", g.Topology)
	}
	if want := []uint32{0, 1, 2, 1, 3, 2}; !slices.Equal(g.Indices, want) {
		t.Errorf("Indices = %v, want %v", g.Indices, want)
	}
}

func TestFlipHandednessKeepsFrontFaces(t *testing.T) {
	g := triangleStrip()
	g.ToList()
	before := faceNormals(g)

	g.FlipHandedness()
	after := faceNormals(g)

	for i := range before {
		want := math3d.V3(before[i].X, before[i].Y, -before[i].Z)
		if !after[i].ApproxEqual(want, 1e-12) {
			t.Errorf("face %d normal = %v, want mirrored %v", i, after[i], want)
		}
	}
	if g.BoundsMin.Z != -1 {
		t.Errorf("BoundsMin.Z = %v, want -1", g.BoundsMin.Z)
	}
}

func faceNormals(g *Geometry) []math3d.Vec3 {
	var out []math3d.Vec3
	for i := 0; i+2 < len(g.Indices); i += 3 {
		p0 := g.Vertices[g.Indices[i]].Position
		p1 := g.Vertices[g.Indices[i+1]].Position
		p2 := g.Vertices[g.Indices[i+2]].Position
		out = append(out, p1.Sub(p0).Cross(p2.Sub(p0)).Normalize())
	}
	return out
}

func TestCalculateTangentsPerpendicular(t *testing.T) {
	g := NewGeometry("tilted")
	g.Vertices = []render.Vertex{
		{Position: math3d.V3(0, 0, 0), UV: math3d.V2(0, 1)},
		{Position: math3d.V3(1, 0, 0.5), UV: math3d.V2(1, 1)},
		{Position: math3d.V3(0, 1, 0.25), UV: math3d.V2(0, 0)},
	}
	g.Indices = []uint32{0, 1, 2}
	g.CalculateSmoothNormals()
	g.CalculateTangents()

	for i, v := range g.Vertices {
		if math.Abs(v.Tangent.Len()-1) > 1e-12 {
			t.Errorf("vertex %d tangent length = %v", i, v.Tangent.Len())
		}
		if d := v.Tangent.Dot(v.Normal); math.Abs(d) > 1e-12 {
			t.Errorf("vertex %d tangent·normal = %v", i, d)
		}
		// u grows along +x, so the tangent leans that way.
		if v.Tangent.X <= 0 {
			t.Errorf("vertex %d tangent = %v, want +x component", i, v.Tangent)
		}
	}
}

func TestGeometryTransform(t *testing.T) {
	g := triangleStrip()
	g.Transform(math3d.Translate(math3d.V3(0, 0, 4)).Mul(math3d.RotateY(math.Pi)))

	if !g.Vertices[0].Position.ApproxEqual(math3d.V3(0, 0, 3), 1e-12) {
		t.Errorf("position = %v, want (0, 0, 3)", g.Vertices[0].Position)
	}
	if !g.Vertices[0].Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
		t.Errorf("normal = %v, want +z", g.Vertices[0].Normal)
	}
	if !g.BoundsMax.ApproxEqual(math3d.V3(0, 1, 3), 1e-12) {
		t.Errorf("BoundsMax = %v", g.BoundsMax)
	}
}

func TestGeometryClone(t *testing.T) {
	g := triangleStrip()
	clone := g.Clone()

	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	clone.Indices[0] = 3
	if g.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("Clone shares vertices")
	}
	if g.Indices[0] == 3 {
		t.Error("Clone shares indices")
	}
}

func TestGeometryMesh(t *testing.T) {
	g := triangleStrip()
	g.Material = &render.Material{Diffuse: render.NewSolidTexture(render.White)}
	m := g.Mesh()

	if m.Name != "strip" || m.Topology != render.TriangleStrip || m.Material != g.Material {
		t.Errorf("mesh = %+v", m)
	}
	if b := m.Bounds(); b.Min != g.BoundsMin || b.Max != g.BoundsMax {
		t.Errorf("mesh bounds = %v, want %v..%v", b, g.BoundsMin, g.BoundsMax)
	}
}

func TestGeometryValidate(t *testing.T) {
	g := triangleStrip()
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	g.Indices = append(g.Indices, 17)
	if err := g.Validate(); !errors.Is(err, render.ErrIndexOutOfRange) {
		t.Errorf("Validate() = %v, want ErrIndexOutOfRange", err)
	}
}
