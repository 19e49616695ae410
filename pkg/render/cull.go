package render

import "github.com/taigrr/softrast/pkg/math3d"

// InsideNDC reports whether a transformed position lies in the canonical
// view volume: x and y in [-1, 1] and depth in [0, 1]. Positions whose
// divide was skipped (w <= 0) are behind the eye and always fail.
func InsideNDC(p math3d.Vec4) bool {
	return p.W > 0 &&
		p.X >= -1 && p.X <= 1 &&
		p.Y >= -1 && p.Y <= 1 &&
		p.Z >= 0 && p.Z <= 1
}

// triangleVisible reports whether all three vertices pass InsideNDC.
// Triangles are never split against the near or far plane; a triangle with
// any vertex outside the volume is dropped whole.
func triangleVisible(v0, v1, v2 *TransformedVertex) bool {
	return InsideNDC(v0.Position) && InsideNDC(v1.Position) && InsideNDC(v2.Position)
}
