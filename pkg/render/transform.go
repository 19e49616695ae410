package render

import (
	"runtime"

	"github.com/taigrr/softrast/pkg/math3d"
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of vertices handed to one worker.
const minChunk = 256

// TransformVertices fills the mesh's post-transform buffer from its
// model-space vertices and the camera's current matrices.
//
// The vertex range is split into contiguous chunks that are transformed
// concurrently; each worker writes only its own slots, and the call returns
// after all workers have finished. workers <= 0 uses GOMAXPROCS.
func TransformVertices(m *Mesh, cam *Camera, workers int) []TransformedVertex {
	n := len(m.Vertices)
	if cap(m.transformed) < n {
		m.transformed = make([]TransformedVertex, n)
	}
	m.transformed = m.transformed[:n]

	x := vertexTransform{
		wvp:    cam.Projection().Mul(cam.View()).Mul(m.World),
		world:  m.World,
		origin: cam.Origin,
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := max((n+workers-1)/workers, minChunk)
	if chunk >= n {
		x.run(m.Vertices, m.transformed)
		return m.transformed
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			x.run(m.Vertices[start:end], m.transformed[start:end])
			return nil
		})
	}
	_ = g.Wait()
	return m.transformed
}

type vertexTransform struct {
	wvp    math3d.Mat4
	world  math3d.Mat4
	origin math3d.Vec3
}

func (x vertexTransform) run(in []Vertex, out []TransformedVertex) {
	for i := range in {
		out[i] = x.vertex(&in[i])
	}
}

func (x vertexTransform) vertex(v *Vertex) TransformedVertex {
	clip := x.wvp.MulVec4(math3d.Point(v.Position))
	worldPos := x.world.MulPoint(v.Position)
	return TransformedVertex{
		Position:      clip.Divide(),
		Color:         v.Color,
		UV:            v.UV,
		Normal:        x.world.MulDir(v.Normal).Normalize(),
		Tangent:       x.world.MulDir(v.Tangent).Normalize(),
		ViewDirection: worldPos.Sub(x.origin).Normalize(),
	}
}
