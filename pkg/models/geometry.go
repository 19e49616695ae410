// Package models loads geometry from OBJ and glTF files into the vertex
// layout used by the softrast pipeline.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Geometry is loaded mesh data before it is handed to the renderer.
type Geometry struct {
	Name     string
	Vertices []render.Vertex
	Indices  []uint32
	Topology render.Topology

	// Material holds any textures found alongside the geometry. May be nil.
	Material *render.Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewGeometry creates an empty triangle list.
func NewGeometry(name string) *Geometry {
	return &Geometry{
		Name:     name,
		Topology: render.TriangleList,
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (g *Geometry) CalculateBounds() {
	if len(g.Vertices) == 0 {
		return
	}

	g.BoundsMin = g.Vertices[0].Position
	g.BoundsMax = g.Vertices[0].Position

	for _, v := range g.Vertices[1:] {
		g.BoundsMin = g.BoundsMin.Min(v.Position)
		g.BoundsMax = g.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (g *Geometry) Center() math3d.Vec3 {
	return g.BoundsMin.Add(g.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (g *Geometry) Size() math3d.Vec3 {
	return g.BoundsMax.Sub(g.BoundsMin)
}

// TriangleCount returns the number of triangles the index buffer describes.
func (g *Geometry) TriangleCount() int {
	if g.Topology == render.TriangleStrip {
		return max(len(g.Indices)-2, 0)
	}
	return len(g.Indices) / 3
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices)
}

// triangles calls fn with the vertex indices of every list triangle.
func (g *Geometry) triangles(fn func(i0, i1, i2 uint32)) {
	for _, tri := range render.Triangles(g.Indices, g.Topology) {
		if int(max(tri[0], tri[1], tri[2])) >= len(g.Vertices) {
			continue
		}
		fn(tri[0], tri[1], tri[2])
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (g *Geometry) CalculateSmoothNormals() {
	for i := range g.Vertices {
		g.Vertices[i].Normal = math3d.Vec3{}
	}

	g.triangles(func(i0, i1, i2 uint32) {
		p0 := g.Vertices[i0].Position
		// Don't normalize yet
		n := g.Vertices[i1].Position.Sub(p0).Cross(g.Vertices[i2].Position.Sub(p0))

		g.Vertices[i0].Normal = g.Vertices[i0].Normal.Add(n)
		g.Vertices[i1].Normal = g.Vertices[i1].Normal.Add(n)
		g.Vertices[i2].Normal = g.Vertices[i2].Normal.Add(n)
	})

	for i := range g.Vertices {
		g.Vertices[i].Normal = g.Vertices[i].Normal.Normalize()
	}
}

// CalculateTangents accumulates a tangent per triangle from its UV deltas,
// then makes each vertex tangent perpendicular to the vertex normal.
// Triangles whose UVs have zero area contribute nothing; a vertex left
// without a usable tangent gets an arbitrary one perpendicular to its normal.
func (g *Geometry) CalculateTangents() {
	for i := range g.Vertices {
		g.Vertices[i].Tangent = math3d.Vec3{}
	}

	g.triangles(func(i0, i1, i2 uint32) {
		v0, v1, v2 := &g.Vertices[i0], &g.Vertices[i1], &g.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		d1 := v1.UV.Sub(v0.UV)
		d2 := v2.UV.Sub(v0.UV)

		det := d1.Cross(d2)
		if math.Abs(det) < 1e-12 {
			return
		}
		t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(1 / det)

		v0.Tangent = v0.Tangent.Add(t)
		v1.Tangent = v1.Tangent.Add(t)
		v2.Tangent = v2.Tangent.Add(t)
	})

	for i := range g.Vertices {
		v := &g.Vertices[i]
		t := v.Tangent.Reject(v.Normal)
		if t.LenSq() < 1e-12 {
			t = perpendicular(v.Normal)
		}
		v.Tangent = t.Normalize()
	}
}

// perpendicular returns some vector perpendicular to n.
func perpendicular(n math3d.Vec3) math3d.Vec3 {
	if n.LenSq() == 0 {
		return math3d.UnitX()
	}
	if math.Abs(n.X) < 0.9 {
		return math3d.UnitX().Reject(n)
	}
	return math3d.UnitY().Reject(n)
}

// FlipHandedness converts between right- and left-handed coordinates by
// negating z on positions, normals and tangents and reversing the winding
// of every triangle, so front faces stay front faces.
func (g *Geometry) FlipHandedness() {
	for i := range g.Vertices {
		v := &g.Vertices[i]
		v.Position.Z = -v.Position.Z
		v.Normal.Z = -v.Normal.Z
		v.Tangent.Z = -v.Tangent.Z
	}

	g.ToList()
	for i := 0; i+2 < len(g.Indices); i += 3 {
		g.Indices[i+1], g.Indices[i+2] = g.Indices[i+2], g.Indices[i+1]
	}
	g.CalculateBounds()
}

// ToList rewrites a strip as a triangle list with the same winding.
// Degenerate strip triangles are dropped.
func (g *Geometry) ToList() {
	if g.Topology == render.TriangleList {
		return
	}
	list := make([]uint32, 0, g.TriangleCount()*3)
	for _, tri := range render.Triangles(g.Indices, g.Topology) {
		list = append(list, tri[:]...)
	}
	g.Indices = list
	g.Topology = render.TriangleList
}

// Transform applies a transformation matrix to all vertices.
func (g *Geometry) Transform(mat math3d.Mat4) {
	for i := range g.Vertices {
		v := &g.Vertices[i]
		v.Position = mat.MulPoint(v.Position)
		// Rotation part only; non-uniform scale would need the inverse transpose.
		v.Normal = mat.MulDir(v.Normal).Normalize()
		v.Tangent = mat.MulDir(v.Tangent).Normalize()
	}
	g.CalculateBounds()
}

// Clone creates a deep copy of the geometry. The material is shared.
func (g *Geometry) Clone() *Geometry {
	clone := *g
	clone.Vertices = append([]render.Vertex(nil), g.Vertices...)
	clone.Indices = append([]uint32(nil), g.Indices...)
	return &clone
}

// Validate reports index buffers that reference missing vertices or cannot
// form a triangle.
func (g *Geometry) Validate() error {
	if err := g.Mesh().Validate(); err != nil {
		return fmt.Errorf("%s: %w", g.Name, err)
	}
	return nil
}

// Mesh returns a renderable mesh sharing the geometry's buffers.
func (g *Geometry) Mesh() *render.Mesh {
	m := render.NewMesh(g.Vertices, g.Indices, g.Topology)
	m.Name = g.Name
	m.Material = g.Material
	return m
}
