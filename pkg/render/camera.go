package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// MaxPitch is the largest pitch magnitude in degrees. Keeping pitch strictly
// inside ±90° means forward never becomes parallel to world up.
const MaxPitch = 80.0

// Camera is a left-handed perspective camera: +x right, +y up, +z forward.
// Forward, Up and Right are re-derived from the inverse view matrix on every
// UpdateMatrices, so they stay orthonormal no matter how often the camera
// is rotated.
type Camera struct {
	Origin  math3d.Vec3
	Forward math3d.Vec3
	Up      math3d.Vec3
	Right   math3d.Vec3

	FOV    float64 // vertical field of view, degrees
	Aspect float64
	Near   float64
	Far    float64

	// Controller moves the camera in Update. May be nil.
	Controller Controller

	pitch float64 // degrees
	yaw   float64 // degrees

	view    math3d.Mat4
	invView math3d.Mat4
	proj    math3d.Mat4
}

// NewCamera returns an initialized camera.
func NewCamera(fovDegrees float64, origin math3d.Vec3, aspect, near, far float64) *Camera {
	c := &Camera{}
	c.Initialize(fovDegrees, origin, aspect, near, far)
	return c
}

// Initialize resets the camera to look along +z from origin and computes
// the projection matrix.
func (c *Camera) Initialize(fovDegrees float64, origin math3d.Vec3, aspect, near, far float64) {
	c.FOV = fovDegrees
	c.Origin = origin
	c.Aspect = aspect
	c.Near = near
	c.Far = far
	c.pitch, c.yaw = 0, 0
	c.Forward = math3d.UnitZ()
	c.updateProjection()
	c.UpdateMatrices()
}

// SetAspect changes the aspect ratio and recomputes the projection.
func (c *Camera) SetAspect(aspect float64) {
	c.Aspect = aspect
	c.updateProjection()
}

// SetFOV changes the vertical field of view and recomputes the projection.
func (c *Camera) SetFOV(degrees float64) {
	c.FOV = degrees
	c.updateProjection()
}

func (c *Camera) updateProjection() {
	c.proj = math3d.PerspectiveFovLH(math3d.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Pitch returns the accumulated pitch in degrees. Positive looks up.
func (c *Camera) Pitch() float64 { return c.pitch }

// Yaw returns the accumulated yaw in degrees. Positive turns right.
func (c *Camera) Yaw() float64 { return c.yaw }

// Rotate adds to pitch and yaw (degrees). Pitch is clamped to ±MaxPitch
// before it is applied.
func (c *Camera) Rotate(dPitch, dYaw float64) {
	c.SetOrientation(c.pitch+dPitch, c.yaw+dYaw)
}

// SetOrientation sets absolute pitch and yaw in degrees and updates Forward.
func (c *Camera) SetOrientation(pitch, yaw float64) {
	c.pitch = math3d.Clamp(pitch, -MaxPitch, MaxPitch)
	c.yaw = math.Mod(yaw, 360)

	sp, cp := math.Sincos(math3d.DegToRad(c.pitch))
	sy, cy := math.Sincos(math3d.DegToRad(c.yaw))
	c.Forward = math3d.V3(cp*sy, sp, cp*cy)
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	d := target.Sub(c.Origin).Normalize()
	if d.LenSq() == 0 {
		return
	}
	pitch := math.Asin(math3d.Clamp(d.Y, -1, 1)) * 180 / math.Pi
	yaw := math.Atan2(d.X, d.Z) * 180 / math.Pi
	c.SetOrientation(pitch, yaw)
	c.UpdateMatrices()
}

// Update lets the controller advance the camera by elapsed seconds and then
// recomputes the view matrices.
func (c *Camera) Update(elapsed float64, in Input) {
	if c.Controller != nil {
		c.Controller.Apply(c, elapsed, in)
	}
	c.UpdateMatrices()
}

// UpdateMatrices rebuilds the view matrix from Origin and Forward, its
// inverse, and the basis vectors from the inverse's columns.
func (c *Camera) UpdateMatrices() {
	c.view = math3d.LookAtLH(c.Origin, c.Origin.Add(c.Forward), math3d.UnitY())
	c.invView = c.view.Inverse()
	c.Right = c.invView.Column(0)
	c.Up = c.invView.Column(1)
	c.Forward = c.invView.Column(2)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() math3d.Mat4 { return c.view }

// InverseView returns the camera-to-world matrix.
func (c *Camera) InverseView() math3d.Mat4 { return c.invView }

// Projection returns the projection matrix.
func (c *Camera) Projection() math3d.Mat4 { return c.proj }

// ViewProjection returns Projection·View.
func (c *Camera) ViewProjection() math3d.Mat4 {
	return c.proj.Mul(c.view)
}

// Frustum returns the world-space view frustum.
func (c *Camera) Frustum() Frustum {
	return FrustumFromMatrix(c.ViewProjection())
}
