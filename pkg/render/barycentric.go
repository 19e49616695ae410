package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// weightTolerance is how far the absolute weights may sum away from 1.
const weightTolerance = 1e-4

// Weights are signed barycentric coordinates of a point relative to a
// raster-space triangle, normalized by the triangle's absolute area. Their
// common sign encodes the triangle's winding as seen on screen.
type Weights struct {
	U, V, W float64
}

// Abs returns the weights with their signs removed. This is the triple used
// for interpolation.
func (w Weights) Abs() Weights {
	return Weights{math.Abs(w.U), math.Abs(w.V), math.Abs(w.W)}
}

// Sum returns U + V + W.
func (w Weights) Sum() float64 {
	return w.U + w.V + w.W
}

// setup holds the per-triangle values reused for every pixel.
type setup struct {
	p       [3]math3d.Vec2
	invArea float64
}

// newSetup returns the raster triangle setup, or false if the projected
// triangle has (nearly) zero area.
func newSetup(p0, p1, p2 math3d.Vec2) (setup, bool) {
	area := p1.Sub(p0).Cross(p2.Sub(p0))
	if math.Abs(area) < 1e-12 {
		return setup{}, false
	}
	return setup{p: [3]math3d.Vec2{p0, p1, p2}, invArea: 1 / math.Abs(area)}, true
}

// weights evaluates the three edge functions at px. Each weight is checked
// against [-1, 1] as soon as it is computed, so points far outside the
// triangle exit early.
func (s *setup) weights(px math3d.Vec2) (Weights, bool) {
	var w Weights

	w.U = s.p[1].Sub(px).Cross(s.p[2].Sub(s.p[1])) * s.invArea
	if math.Abs(w.U) > 1 {
		return w, false
	}
	w.V = s.p[2].Sub(px).Cross(s.p[0].Sub(s.p[2])) * s.invArea
	if math.Abs(w.V) > 1 {
		return w, false
	}
	w.W = s.p[0].Sub(px).Cross(s.p[1].Sub(s.p[0])) * s.invArea
	if math.Abs(w.W) > 1 {
		return w, false
	}
	return w, true
}

// CullMode selects which screen-space winding is discarded.
type CullMode int

const (
	// CullBack discards triangles whose weights are all negative.
	CullBack CullMode = iota
	// CullFront discards triangles whose weights are all positive.
	CullFront
	// CullNone keeps both windings.
	CullNone
)

func (c CullMode) String() string {
	switch c {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	case CullNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseCullMode parses "back", "front" or "none".
func ParseCullMode(s string) (CullMode, bool) {
	switch s {
	case "back", "":
		return CullBack, true
	case "front":
		return CullFront, true
	case "none":
		return CullNone, true
	}
	return CullBack, false
}

// inside applies the validity test to signed weights. It returns the
// normalized positive triple for interpolation when the point is inside the
// triangle and the triangle's winding is not culled.
func (c CullMode) inside(w Weights) (Weights, bool) {
	allPos := w.U >= 0 && w.V >= 0 && w.W >= 0
	allNeg := w.U <= 0 && w.V <= 0 && w.W <= 0
	switch {
	case !allPos && !allNeg:
		return Weights{}, false
	case c == CullBack && !allPos:
		return Weights{}, false
	case c == CullFront && !allNeg:
		return Weights{}, false
	}

	abs := w.Abs()
	if math.Abs(abs.Sum()-1) > weightTolerance {
		return Weights{}, false
	}
	return abs, true
}
