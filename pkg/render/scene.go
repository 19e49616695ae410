package render

import (
	"image/color"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Scene is one mesh viewed through one camera: the unit every front end
// drives once per tick.
type Scene struct {
	Mesh       *Mesh
	Camera     *Camera
	Rasterizer *Rasterizer
	Background color.RGBA

	// Placement is applied after the spin, so the mesh turns about its own
	// origin.
	Placement     math3d.Mat4
	AutoRotate    bool
	RotationSpeed float64 // radians per second
	ShowBounds    bool

	angle float64
}

// NewScene wires a mesh, camera and rasterizer together with an identity
// placement and a 1 rad/s spin.
func NewScene(m *Mesh, cam *Camera, r *Rasterizer) *Scene {
	return &Scene{
		Mesh:          m,
		Camera:        cam,
		Rasterizer:    r,
		Background:    color.RGBA{100, 100, 100, 255},
		Placement:     m.World,
		AutoRotate:    true,
		RotationSpeed: 1,
	}
}

// Angle returns the current spin angle in radians.
func (s *Scene) Angle() float64 { return s.angle }

// Frame advances the camera and spin by elapsed seconds and renders.
// The camera is updated before the vertex transform reads it.
func (s *Scene) Frame(elapsed float64, in Input) *Framebuffer {
	s.Camera.Update(elapsed, in)
	if s.AutoRotate {
		s.angle += s.RotationSpeed * elapsed
	}
	s.Mesh.World = s.Placement.Mul(math3d.RotateY(s.angle))

	r := s.Rasterizer
	r.BeginFrame(s.Background)
	r.DrawMesh(s.Mesh, s.Camera)
	if s.ShowBounds {
		r.DrawBounds(s.Mesh, s.Camera, color.RGBA{255, 200, 0, 255})
	}
	return r.Framebuffer()
}
