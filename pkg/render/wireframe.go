package render

import (
	"image/color"

	"github.com/taigrr/softrast/pkg/math3d"
)

// drawWireframe outlines a raster triangle. Lines brighten toward the far
// plane over the same range depth visualization uses, so nearer edges are
// darker. Wireframe lines do not read or write the depth buffer.
func (r *Rasterizer) drawWireframe(p0, p1, p2 math3d.Vec2, minDepth float64) {
	c := Gray(math3d.Remap01(minDepth, r.Options.DepthRange, FarDepth)).RGBA()
	r.line(p0, p1, c)
	r.line(p1, p2, c)
	r.line(p2, p0, c)
}

func (r *Rasterizer) line(a, b math3d.Vec2, c color.RGBA) {
	r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
}

// boxEdges lists corner index pairs of a box whose corner i has bit 0 set
// for max X, bit 1 for max Y and bit 2 for max Z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
}

// DrawBounds outlines the world-space bounding box of m. Edges with an
// endpoint behind the camera or far outside the viewport are skipped.
func (r *Rasterizer) DrawBounds(m *Mesh, cam *Camera, c color.RGBA) {
	box := m.Bounds()
	vp := cam.ViewProjection().Mul(m.World)

	var corners [8]math3d.Vec4
	for i := range corners {
		p := box.Min
		if i&1 != 0 {
			p.X = box.Max.X
		}
		if i&2 != 0 {
			p.Y = box.Max.Y
		}
		if i&4 != 0 {
			p.Z = box.Max.Z
		}
		corners[i] = vp.MulVec4(math3d.Point(p)).Divide()
	}

	for _, e := range boxEdges {
		a, b := corners[e[0]], corners[e[1]]
		if !drawable(a) || !drawable(b) {
			continue
		}
		r.line(toRaster(a, r.fb.Width, r.fb.Height), toRaster(b, r.fb.Width, r.fb.Height), c)
	}
}

// drawable bounds the line length handed to Bresenham.
func drawable(p math3d.Vec4) bool {
	const limit = 8
	return p.W > 0 && p.X >= -limit && p.X <= limit && p.Y >= -limit && p.Y <= limit
}
