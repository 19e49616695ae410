package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestMat4InverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"rotate and scale", RotateY(0.7).Mul(RotateX(-0.3)).Mul(Scale(V3(2, 3, 0.5)))},
		{"look at", LookAtLH(V3(0, 5, -64), V3(1, 2, 3), UnitY())},
		{"projection", PerspectiveFovLH(DegToRad(45), 4.0/3.0, 0.1, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Mul(tt.m.Inverse())
			if !got.ApproxEqual(Identity(), 1e-9) {
				t.Errorf("m * inverse(m) = %v, want identity", got)
			}
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	var zero Mat4
	if got := zero.Inverse(); got != Identity() {
		t.Errorf("inverse of singular matrix = %v, want identity", got)
	}
}

func TestRotateY(t *testing.T) {
	got := RotateY(math.Pi / 2).MulDir(UnitZ())
	if !got.ApproxEqual(UnitX(), eps) {
		t.Errorf("RotateY(pi/2) * +z = %v, want +x", got)
	}
}

func TestRotateMatchesAxisRotations(t *testing.T) {
	const angle = 0.9
	tests := []struct {
		name string
		axis Vec3
		want Mat4
	}{
		{"x", UnitX(), RotateX(angle)},
		{"y", V3(0, 2, 0), RotateY(angle)},
		{"z", UnitZ(), RotateZ(angle)},
		{"zero axis", Vec3{}, Identity()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rotate(tt.axis, angle); !got.ApproxEqual(tt.want, eps) {
				t.Errorf("Rotate(%v) = %v, want %v", tt.axis, got, tt.want)
			}
		})
	}
}

func TestTranspose(t *testing.T) {
	m := RotateY(0.4).Mul(RotateX(1.1))
	// A rotation's transpose is its inverse.
	if got := m.Transpose(); !got.ApproxEqual(m.Inverse(), eps) {
		t.Errorf("transpose = %v, want inverse %v", got, m.Inverse())
	}
	if got := m.Transpose().Transpose(); got != m {
		t.Errorf("double transpose = %v, want %v", got, m)
	}
}

func TestCameraToWorldInvertsLookAt(t *testing.T) {
	eye := V3(0, 5, -64)
	view := LookAtLH(eye, V3(1, 2, 3), UnitY())
	inv := view.Inverse()
	world := CameraToWorld(inv.Column(0), inv.Column(1), inv.Column(2), eye)
	if got := world.Mul(view); !got.ApproxEqual(Identity(), 1e-9) {
		t.Errorf("CameraToWorld * view = %v, want identity", got)
	}
}

func TestLookAtLHAlongZIsIdentity(t *testing.T) {
	m := LookAtLH(Vec3{}, UnitZ(), UnitY())
	if !m.ApproxEqual(Identity(), eps) {
		t.Errorf("LookAtLH along +z = %v, want identity", m)
	}
}

func TestLookAtLHMovesTargetOntoZAxis(t *testing.T) {
	eye := V3(3, 4, -10)
	target := V3(-2, 1, 5)
	view := LookAtLH(eye, target, UnitY())

	got := view.MulPoint(target)
	want := V3(0, 0, target.Sub(eye).Len())
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("view * target = %v, want %v", got, want)
	}
}

func TestLookAtLHParallelUp(t *testing.T) {
	view := LookAtLH(Vec3{}, V3(0, 10, 0), UnitY())
	for i := range 3 {
		c := view.Inverse().Column(i)
		if math.Abs(c.Len()-1) > eps {
			t.Errorf("basis column %d has length %v, want 1", i, c.Len())
		}
	}
}

func TestPerspectiveFovLHDepthRange(t *testing.T) {
	const near, far = 0.1, 100.0
	proj := PerspectiveFovLH(DegToRad(45), 1, near, far)

	tests := []struct {
		name  string
		z     float64
		depth float64
	}{
		{"near plane", near, 0},
		{"far plane", far, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := proj.MulVec4(V4(0, 0, tt.z, 1))
			if math.Abs(clip.W-tt.z) > eps {
				t.Errorf("clip w = %v, want view z %v", clip.W, tt.z)
			}
			ndc := clip.Divide()
			if math.Abs(ndc.Z-tt.depth) > 1e-9 {
				t.Errorf("depth = %v, want %v", ndc.Z, tt.depth)
			}
		})
	}
}

func TestPerspectiveFovLHEdges(t *testing.T) {
	fov := DegToRad(60)
	aspect := 2.0
	proj := PerspectiveFovLH(fov, aspect, 0.1, 100)

	z := 10.0
	top := z * math.Tan(fov/2)
	ndc := proj.MulVec4(V4(top*aspect, top, z, 1)).Divide()
	if math.Abs(ndc.X-1) > eps || math.Abs(ndc.Y-1) > eps {
		t.Errorf("frustum corner maps to (%v, %v), want (1, 1)", ndc.X, ndc.Y)
	}
}

func TestVec4DivideBehindEye(t *testing.T) {
	v := V4(2, 4, 6, -2)
	if got := v.Divide(); got != v {
		t.Errorf("Divide() with w<0 = %v, want %v unchanged", got, v)
	}

	got := V4(2, 4, 6, 2).Divide()
	want := V4(1, 2, 3, 2)
	if got != want {
		t.Errorf("Divide() = %v, want %v", got, want)
	}
}

func TestVec3Reject(t *testing.T) {
	n := V3(0, 2, 0)
	got := V3(3, 5, -1).Reject(n)
	want := V3(3, 0, -1)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("Reject = %v, want %v", got, want)
	}
	if d := got.Dot(n); math.Abs(d) > eps {
		t.Errorf("rejection not perpendicular: dot = %v", d)
	}
}

func TestRemap01(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.999, 0.998, 1, 0.5},
		{0.5, 0.998, 1, 0},
		{1.5, 0.998, 1, 1},
		{3, 2, 2, 0},
	}
	for _, tt := range tests {
		if got := Remap01(tt.v, tt.lo, tt.hi); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Remap01(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestVec2Fract(t *testing.T) {
	got := V2(1.25, -0.25).Fract()
	want := V2(0.25, 0.75)
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
		t.Errorf("Fract = %v, want %v", got, want)
	}
}
