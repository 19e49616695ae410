package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order and applied to column
// vectors (M·v). Element (row, col) lives at index row + col*4:
//
//	| 0  4  8  12 |
//	| 1  5  9  13 |
//	| 2  6  10 14 |
//	| 3  7  11 15 |
//
// The first three columns of an affine transform are its basis vectors and
// the fourth holds the translation.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromColumns builds an affine matrix from three basis columns and a translation.
func FromColumns(x, y, z, t Vec3) Mat4 {
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		t.X, t.Y, t.Z, 1,
	}
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	return FromColumns(UnitX(), UnitY(), UnitZ(), v)
}

// Scale returns a non-uniform scale matrix.
func Scale(v Vec3) Mat4 {
	return FromColumns(V3(v.X, 0, 0), V3(0, v.Y, 0), V3(0, 0, v.Z), Vec3{})
}

// RotateX returns a rotation of angle radians about the x axis.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return FromColumns(UnitX(), V3(0, c, s), V3(0, -s, c), Vec3{})
}

// RotateY returns a rotation of angle radians about the y axis.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return FromColumns(V3(c, 0, -s), UnitY(), V3(s, 0, c), Vec3{})
}

// RotateZ returns a rotation of angle radians about the z axis.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return FromColumns(V3(c, s, 0), V3(-s, c, 0), UnitZ(), Vec3{})
}

// Rotate returns a rotation of angle radians about axis, in the same sense
// as RotateX, RotateY and RotateZ. A zero axis gives the identity.
func Rotate(axis Vec3, angle float64) Mat4 {
	a := axis.Normalize()
	if a.LenSq() == 0 {
		return Identity()
	}
	s, c := math.Sincos(angle)
	t := 1 - c
	return FromColumns(
		V3(t*a.X*a.X+c, t*a.X*a.Y+s*a.Z, t*a.X*a.Z-s*a.Y),
		V3(t*a.X*a.Y-s*a.Z, t*a.Y*a.Y+c, t*a.Y*a.Z+s*a.X),
		V3(t*a.X*a.Z+s*a.Y, t*a.Y*a.Z-s*a.X, t*a.Z*a.Z+c),
		Vec3{},
	)
}

// CameraToWorld returns the camera's world transform: its basis vectors as
// columns and origin as translation. It is the inverse of the matching
// LookAtLH when the basis is orthonormal.
func CameraToWorld(right, up, forward, origin Vec3) Mat4 {
	return FromColumns(right, up, forward, origin)
}

// LookAtLH returns a left-handed view matrix for an eye at eye looking at
// target. If the view direction is parallel to up, +z (or +x when looking
// along z) is used as the up reference instead so the basis never collapses.
func LookAtLH(eye, target, up Vec3) Mat4 {
	forward := target.Sub(eye).Normalize()
	right := up.Cross(forward)
	if right.LenSq() < 1e-12 {
		alt := UnitZ()
		if math.Abs(forward.Z) > 0.9 {
			alt = UnitX()
		}
		right = alt.Cross(forward)
	}
	right = right.Normalize()
	trueUp := forward.Cross(right)

	return Mat4{
		right.X, trueUp.X, forward.X, 0,
		right.Y, trueUp.Y, forward.Y, 0,
		right.Z, trueUp.Z, forward.Z, 0,
		-right.Dot(eye), -trueUp.Dot(eye), -forward.Dot(eye), 1,
	}
}

// PerspectiveFovLH returns a left-handed perspective projection.
// fovY is the vertical field of view in radians. View-space z in
// [near, far] maps to depth [0, 1] after the divide, and clip w equals
// view-space z.
func PerspectiveFovLH(fovY, aspect, near, far float64) Mat4 {
	yScale := 1 / math.Tan(fovY/2)
	xScale := yScale / aspect
	zRange := far / (far - near)

	var m Mat4
	m[0] = xScale
	m[5] = yScale
	m[10] = zRange
	m[11] = 1
	m[14] = -near * zRange
	return m
}

// Mul returns a·b, so (a·b)·v applies b first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[row+col*4] = a[row]*b[col*4] +
				a[row+4]*b[1+col*4] +
				a[row+8]*b[2+col*4] +
				a[row+12]*b[3+col*4]
		}
	}
	return m
}

// MulVec4 returns m·v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms p as an affine point (w = 1) and drops w.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return m.MulVec4(Point(p)).Vec3()
}

// MulDir transforms d as a direction, ignoring translation.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Transpose returns m with rows and columns swapped.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// Column returns the first three components of column i.
func (m Mat4) Column(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Inverse returns the inverse of m, or the identity if m is singular.
func (m Mat4) Inverse() Mat4 {
	// 2x2 sub-determinants of the first two and last two columns.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	return Mat4{
		(m[5]*c5 - m[6]*c4 + m[7]*c3) * inv,
		(-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv,
		(m[13]*s5 - m[14]*s4 + m[15]*s3) * inv,
		(-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv,

		(-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv,
		(m[0]*c5 - m[2]*c2 + m[3]*c1) * inv,
		(-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv,
		(m[8]*s5 - m[10]*s2 + m[11]*s1) * inv,

		(m[4]*c4 - m[5]*c2 + m[7]*c0) * inv,
		(-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv,
		(m[12]*s4 - m[13]*s2 + m[15]*s0) * inv,
		(-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv,

		(-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv,
		(m[0]*c3 - m[1]*c1 + m[2]*c0) * inv,
		(-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv,
		(m[8]*s3 - m[9]*s1 + m[10]*s0) * inv,
	}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
