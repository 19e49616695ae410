package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0. Points on the side the
// normal faces have positive distance.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

func (p *Plane) normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to point.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// FrustumFromMatrix extracts the planes of a left-handed view-projection
// matrix with depth in [0, 1] (Gribb/Hartmann). Because depth starts at 0
// rather than -1, the near plane is row 2 alone instead of row 3 + row 2.
func FrustumFromMatrix(m math3d.Mat4) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r0, d0 := row(0)
	r1, d1 := row(1)
	r2, d2 := row(2)
	r3, d3 := row(3)

	f := Frustum{Planes: [6]Plane{
		FrustumLeft:   {r3.Add(r0), d3 + d0},
		FrustumRight:  {r3.Sub(r0), d3 - d0},
		FrustumBottom: {r3.Add(r1), d3 + d1},
		FrustumTop:    {r3.Sub(r1), d3 - d1},
		FrustumNear:   {r2, d2},
		FrustumFar:    {r3.Sub(r2), d3 - d2},
	}}
	for i := range f.Planes {
		f.Planes[i].normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents along each axis.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the box enclosing all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulPoint(c)
		if i == 0 {
			out = AABB{p, p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectsAABB reports whether any part of box may lie inside the frustum.
// For each plane only the corner furthest along the normal is tested; if
// that corner is outside, the whole box is.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for _, p := range f.Planes {
		far := box.Min
		if p.Normal.X >= 0 {
			far.X = box.Max.X
		}
		if p.Normal.Y >= 0 {
			far.Y = box.Max.Y
		}
		if p.Normal.Z >= 0 {
			far.Z = box.Max.Z
		}
		if p.Distance(far) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}
