package render

import "github.com/taigrr/softrast/pkg/math3d"

// attribute is any per-vertex value that can be blended linearly.
type attribute[T any] interface {
	Add(T) T
	Scale(float64) T
}

// perspective holds what interpolation needs for one pixel: the positive
// barycentric weights already divided by each vertex's clip w, and the
// interpolated w that undoes that division.
type perspective struct {
	u, v, w float64 // weight_i / w_i
	wInterp float64
}

// minVertexDepth is the smallest NDC depth used as a divisor.
const minVertexDepth = 1e-12

// interpolateDepth returns the perspective-correct depth and clip w at a
// pixel. Depth is reconstructed from the per-vertex NDC depths and w from the
// per-vertex clip w, each as the reciprocal of the weighted reciprocals.
//
// A vertex on the near plane has NDC depth 0; its depth is raised to
// minVertexDepth so pixels on the opposite edge (weight 0) stay finite.
func interpolateDepth(b Weights, v0, v1, v2 *TransformedVertex) (depth float64, p perspective) {
	z0 := max(v0.Position.Z, minVertexDepth)
	z1 := max(v1.Position.Z, minVertexDepth)
	z2 := max(v2.Position.Z, minVertexDepth)
	depth = 1 / (b.U/z0 + b.V/z1 + b.W/z2)

	p.u = b.U / v0.Position.W
	p.v = b.V / v1.Position.W
	p.w = b.W / v2.Position.W
	p.wInterp = 1 / (p.u + p.v + p.w)
	return depth, p
}

// interpolate blends three vertex values: wInterp·(u·a0/w0 + v·a1/w1 + w·a2/w2).
func interpolate[T attribute[T]](p perspective, a0, a1, a2 T) T {
	return a0.Scale(p.u).Add(a1.Scale(p.v)).Add(a2.Scale(p.w)).Scale(p.wInterp)
}

// Fragment holds the interpolated attributes at one pixel.
type Fragment struct {
	Position      math3d.Vec4
	Color         RGB
	UV            math3d.Vec2
	Normal        math3d.Vec3
	Tangent       math3d.Vec3
	ViewDirection math3d.Vec3
}

// interpolateFragment builds the fragment for a pixel. Direction vectors are
// renormalized because blending unit vectors does not preserve length.
func interpolateFragment(p perspective, v0, v1, v2 *TransformedVertex) Fragment {
	return Fragment{
		Position:      interpolate(p, v0.Position, v1.Position, v2.Position),
		Color:         interpolate(p, v0.Color, v1.Color, v2.Color),
		UV:            interpolate(p, v0.UV, v1.UV, v2.UV),
		Normal:        interpolate(p, v0.Normal, v1.Normal, v2.Normal).Normalize(),
		Tangent:       interpolate(p, v0.Tangent, v1.Tangent, v2.Tangent).Normalize(),
		ViewDirection: interpolate(p, v0.ViewDirection, v1.ViewDirection, v2.ViewDirection).Normalize(),
	}
}
