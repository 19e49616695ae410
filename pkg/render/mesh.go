package render

import (
	"fmt"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Vertex is a model-space vertex as produced by a geometry loader.
type Vertex struct {
	Position math3d.Vec3
	Color    RGB
	UV       math3d.Vec2
	Normal   math3d.Vec3
	Tangent  math3d.Vec3
}

// TransformedVertex is a vertex after the vertex transform stage.
// Position holds NDC x, y, z with the clip-space w kept in W. When W <= 0
// the divide was skipped and the position is still in clip space.
type TransformedVertex struct {
	Position      math3d.Vec4
	Color         RGB
	UV            math3d.Vec2
	Normal        math3d.Vec3
	Tangent       math3d.Vec3
	ViewDirection math3d.Vec3
}

// Topology describes how an index buffer forms triangles.
type Topology int

const (
	TriangleList Topology = iota
	TriangleStrip
)

func (t Topology) String() string {
	switch t {
	case TriangleList:
		return "list"
	case TriangleStrip:
		return "strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology parses "list" or "strip".
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "list", "":
		return TriangleList, nil
	case "strip":
		return TriangleStrip, nil
	default:
		return 0, fmt.Errorf("unknown topology %q", s)
	}
}

// Mesh is renderable geometry. The mesh owns its vertex and index data and
// a post-transform buffer of the same length that the pipeline rewrites
// every frame.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Topology Topology
	World    math3d.Mat4
	Material *Material

	bounds      AABB
	transformed []TransformedVertex
}

// NewMesh creates a mesh with an identity world transform.
func NewMesh(vertices []Vertex, indices []uint32, topology Topology) *Mesh {
	m := &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Topology: topology,
		World:    math3d.Identity(),
	}
	m.UpdateBounds()
	return m
}

// UpdateBounds recomputes the model-space bounding box. Call it after
// editing Vertices.
func (m *Mesh) UpdateBounds() {
	if len(m.Vertices) == 0 {
		m.bounds = AABB{}
		return
	}
	b := AABB{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		b.Min = b.Min.Min(v.Position)
		b.Max = b.Max.Max(v.Position)
	}
	m.bounds = b
}

// Bounds returns the model-space bounding box.
func (m *Mesh) Bounds() AABB {
	return m.bounds
}

// Transformed returns the post-transform vertex buffer from the last
// TransformVertices call.
func (m *Mesh) Transformed() []TransformedVertex {
	return m.transformed
}

// TriangleCount returns the number of triangles the index buffer describes,
// including degenerate ones.
func (m *Mesh) TriangleCount() int {
	switch m.Topology {
	case TriangleStrip:
		return max(len(m.Indices)-2, 0)
	default:
		return len(m.Indices) / 3
	}
}

// Validate checks that every index references an existing vertex and that
// at least one triangle can be formed.
func (m *Mesh) Validate() error {
	if m.TriangleCount() == 0 {
		return ErrNoTriangles
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, i, idx, len(m.Vertices))
		}
	}
	return nil
}
