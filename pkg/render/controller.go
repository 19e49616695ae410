package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/softrast/pkg/math3d"
)

// Input is a snapshot of the controls for one frame.
type Input struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
	Boost         bool

	TurnLeft, TurnRight bool
	LookUp, LookDown    bool

	// LookX and LookY are pointer deltas since the previous snapshot. They
	// only rotate the camera while Looking is set.
	LookX, LookY float64
	Looking      bool
}

// Controller moves a camera in response to input.
type Controller interface {
	Apply(cam *Camera, elapsed float64, in Input)
}

// Defaults for FreeLook.
const (
	DefaultMoveSpeed   = 15.0 // units per second
	DefaultRotateSpeed = 30.0 // degrees per second
	DefaultSensitivity = 0.25 // degrees per pointer unit
	DefaultBoost       = 4.0
)

// FreeLook is a fly-through controller. Translation velocity eases toward
// the requested speed through a critically damped spring so starts and stops
// are smooth; rotation is applied directly.
type FreeLook struct {
	MoveSpeed   float64
	RotateSpeed float64
	Sensitivity float64
	BoostFactor float64

	spring harmonica.Spring
	step   float64    // seconds the spring was built for
	vel    [3]float64 // right, up, forward
	accel  [3]float64
}

// NewFreeLook returns a controller whose spring is initially stepped at fps.
// Frames of a different length rebuild the spring, so easing follows
// elapsed time rather than frame count.
func NewFreeLook(fps int) *FreeLook {
	return &FreeLook{
		MoveSpeed:   DefaultMoveSpeed,
		RotateSpeed: DefaultRotateSpeed,
		Sensitivity: DefaultSensitivity,
		BoostFactor: DefaultBoost,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
		step:        harmonica.FPS(fps),
	}
}

// Frequency 6, damping 1: critically damped, settles in about a quarter
// second.
const (
	springFrequency = 6.0
	springDamping   = 1.0
)

// stepFor returns the spring for a frame of elapsed seconds. The spring's
// coefficients are baked for one time step, so it is rebuilt whenever the
// frame time drifts more than 5% from the step it was built for.
func (f *FreeLook) stepFor(elapsed float64) harmonica.Spring {
	if elapsed > 0 && math.Abs(elapsed-f.step) > 0.05*f.step {
		f.step = elapsed
		f.spring = harmonica.NewSpring(elapsed, springFrequency, springDamping)
	}
	return f.spring
}

// Velocity returns the current smoothed velocity in camera space
// (right, up, forward) in units per second.
func (f *FreeLook) Velocity() math3d.Vec3 {
	return math3d.V3(f.vel[0], f.vel[1], f.vel[2])
}

// Apply implements Controller.
func (f *FreeLook) Apply(cam *Camera, elapsed float64, in Input) {
	var dPitch, dYaw float64
	if in.TurnLeft {
		dYaw -= f.RotateSpeed * elapsed
	}
	if in.TurnRight {
		dYaw += f.RotateSpeed * elapsed
	}
	if in.LookUp {
		dPitch += f.RotateSpeed * elapsed
	}
	if in.LookDown {
		dPitch -= f.RotateSpeed * elapsed
	}
	if in.Looking {
		dYaw += in.LookX * f.Sensitivity
		dPitch -= in.LookY * f.Sensitivity
	}
	if dPitch != 0 || dYaw != 0 {
		cam.Rotate(dPitch, dYaw)
	}

	speed := f.MoveSpeed
	if in.Boost {
		speed *= f.BoostFactor
	}
	target := [3]float64{
		axis(in.Right, in.Left) * speed,
		axis(in.Up, in.Down) * speed,
		axis(in.Forward, in.Back) * speed,
	}
	spring := f.stepFor(elapsed)
	for i := range f.vel {
		f.vel[i], f.accel[i] = spring.Update(f.vel[i], f.accel[i], target[i])
	}

	// Move along the current basis; Rotate only touched Forward, so derive
	// right from it rather than from the stale Right vector.
	forward := cam.Forward
	right := math3d.UnitY().Cross(forward).Normalize()
	step := right.Scale(f.vel[0]).
		Add(math3d.UnitY().Scale(f.vel[1])).
		Add(forward.Scale(f.vel[2])).
		Scale(elapsed)
	cam.Origin = cam.Origin.Add(step)
}

func axis(pos, neg bool) float64 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	default:
		return 0
	}
}
