package render

import (
	"image/color"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// FarDepth is the value the depth buffer is cleared to.
const FarDepth = 1.0

// DepthBuffer stores one NDC depth per pixel, row-major.
type DepthBuffer []float64

// Clear resets every entry to FarDepth.
func (d DepthBuffer) Clear() {
	if len(d) == 0 {
		return
	}
	d[0] = FarDepth
	for i := 1; i < len(d); i *= 2 {
		copy(d[i:], d[:i])
	}
}

// Options control how meshes are drawn. They are read at every DrawMesh
// call and may be changed between frames.
type Options struct {
	Shading       ShadingMode
	NormalMapping bool
	Wireframe     bool
	// DepthVisualization replaces shading with the pixel's depth as gray.
	DepthVisualization bool
	// DepthRange is the depth mapped to black in depth visualization;
	// FarDepth maps to white.
	DepthRange float64
	Cull       CullMode
	Light      Light
	// Workers bounds the vertex transform parallelism; <= 0 uses GOMAXPROCS.
	Workers int
}

// DefaultOptions returns combined shading with normal mapping and back-face
// culling under the default light.
func DefaultOptions() Options {
	return Options{
		Shading:       ShadeCombined,
		NormalMapping: true,
		DepthRange:    0.998,
		Cull:          CullBack,
		Light:         DefaultLight(),
	}
}

// Stats counts pipeline events. They accumulate until ResetStats.
type Stats struct {
	MeshesTested int // meshes tested against the view frustum
	MeshesCulled int // meshes skipped entirely

	Triangles           int // non-degenerate triangles assembled
	TrianglesClipped    int // rejected because a vertex left the view volume
	TrianglesDegenerate int // zero area after projection

	EarlyDepthRejects int // pixels skipped by the triangle's minimum depth
	PixelsShaded      int
}

// Rasterizer draws meshes into a framebuffer with a depth test.
type Rasterizer struct {
	Options Options
	Stats   Stats

	fb    *Framebuffer
	depth DepthBuffer
}

// NewRasterizer returns a rasterizer drawing into fb. The depth buffer is
// allocated to match and starts cleared.
func NewRasterizer(fb *Framebuffer, opts Options) *Rasterizer {
	r := &Rasterizer{
		Options: opts,
		fb:      fb,
		depth:   make(DepthBuffer, fb.Width*fb.Height),
	}
	r.depth.Clear()
	return r
}

// Framebuffer returns the colour target.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// Depth returns the depth buffer.
func (r *Rasterizer) Depth() DepthBuffer { return r.depth }

// ResetStats zeroes the counters.
func (r *Rasterizer) ResetStats() { r.Stats = Stats{} }

// BeginFrame clears the colour buffer to background and the depth buffer to
// FarDepth.
func (r *Rasterizer) BeginFrame(background color.RGBA) {
	r.fb.Clear(background)
	r.depth.Clear()
}

// DrawMesh runs the full pipeline for one mesh: frustum test, vertex
// transform, primitive assembly, culling and rasterization.
func (r *Rasterizer) DrawMesh(m *Mesh, cam *Camera) {
	r.Stats.MeshesTested++
	if !cam.Frustum().IntersectsAABB(m.Bounds().Transform(m.World)) {
		r.Stats.MeshesCulled++
		Logger().Debug("mesh outside frustum", "mesh", m.Name)
		return
	}

	vs := TransformVertices(m, cam, r.Options.Workers)
	shader := r.Options.Shading.Shader()

	for _, tri := range Triangles(m.Indices, m.Topology) {
		if int(max(tri[0], tri[1], tri[2])) >= len(vs) {
			continue
		}
		r.Stats.Triangles++
		v0, v1, v2 := &vs[tri[0]], &vs[tri[1]], &vs[tri[2]]
		if !triangleVisible(v0, v1, v2) {
			r.Stats.TrianglesClipped++
			continue
		}
		r.drawTriangle(v0, v1, v2, m.Material, shader)
	}
}

// toRaster converts NDC x, y to pixel coordinates with row 0 at the top.
func toRaster(p math3d.Vec4, width, height int) math3d.Vec2 {
	return math3d.V2(
		(p.X+1)*0.5*float64(width),
		(1-p.Y)*0.5*float64(height),
	)
}

func (r *Rasterizer) drawTriangle(v0, v1, v2 *TransformedVertex, mat *Material, shader Shader) {
	width, height := r.fb.Width, r.fb.Height
	p0 := toRaster(v0.Position, width, height)
	p1 := toRaster(v1.Position, width, height)
	p2 := toRaster(v2.Position, width, height)
	minDepth := min(v0.Position.Z, v1.Position.Z, v2.Position.Z)

	if r.Options.Wireframe {
		r.drawWireframe(p0, p1, p2, minDepth)
		return
	}

	s, ok := newSetup(p0, p1, p2)
	if !ok {
		r.Stats.TrianglesDegenerate++
		return
	}

	minX := clampInt(int(math.Floor(min(p0.X, p1.X, p2.X))), 0, width-1)
	minY := clampInt(int(math.Floor(min(p0.Y, p1.Y, p2.Y))), 0, height-1)
	maxX := clampInt(int(math.Ceil(max(p0.X, p1.X, p2.X))), 0, width-1)
	maxY := clampInt(int(math.Ceil(max(p0.Y, p1.Y, p2.Y))), 0, height-1)

	opts := &r.Options
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			i := py*width + px
			if minDepth > r.depth[i] {
				r.Stats.EarlyDepthRejects++
				continue
			}

			signed, ok := s.weights(math3d.V2(float64(px)+0.5, float64(py)+0.5))
			if !ok {
				continue
			}
			b, ok := opts.Cull.inside(signed)
			if !ok {
				continue
			}

			z, persp := interpolateDepth(b, v0, v1, v2)
			if z < 0 || z > 1 || persp.wInterp < 0 || !(z < r.depth[i]) {
				continue
			}
			r.depth[i] = z

			var c RGB
			if opts.DepthVisualization {
				c = Gray(math3d.Remap01(z, opts.DepthRange, FarDepth))
			} else {
				f := interpolateFragment(persp, v0, v1, v2)
				c = shader.Shade(f, mat.Sample(f, opts.NormalMapping), opts.Light)
			}
			r.fb.Pixels[i] = c.MaxToOne().RGBA()
			r.Stats.PixelsShaded++
		}
	}
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
