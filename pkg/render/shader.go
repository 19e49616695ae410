package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/softrast/pkg/math3d"
)

// ShadingMode selects the lighting model used by the pixel shader.
type ShadingMode int

const (
	ShadeObservedArea ShadingMode = iota
	ShadeDiffuse
	ShadeSpecular
	ShadeCombined

	shadingModeCount
)

var shadingModeNames = [...]string{
	ShadeObservedArea: "observed-area",
	ShadeDiffuse:      "diffuse",
	ShadeSpecular:     "specular",
	ShadeCombined:     "combined",
}

func (m ShadingMode) String() string {
	if m < 0 || m >= shadingModeCount {
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
	return shadingModeNames[m]
}

// ParseShadingMode parses a mode name as printed by String. Matching is
// case-insensitive and ignores '-' and '_'.
func ParseShadingMode(s string) (ShadingMode, error) {
	norm := func(s string) string {
		return strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(s))
	}
	for i, name := range shadingModeNames {
		if norm(name) == norm(s) {
			return ShadingMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shading mode %q", s)
}

// Next returns the following mode, wrapping after Combined.
func (m ShadingMode) Next() ShadingMode {
	return (m + 1) % shadingModeCount
}

// Shader returns the strategy implementing m. Unknown modes shade combined.
func (m ShadingMode) Shader() Shader {
	switch m {
	case ShadeObservedArea:
		return ObservedAreaShader{}
	case ShadeDiffuse:
		return DiffuseShader{}
	case ShadeSpecular:
		return SpecularShader{}
	default:
		return CombinedShader{}
	}
}

// Light is a directional light with the material constants of the lighting
// model.
type Light struct {
	// Direction the light travels, from the light toward the scene.
	Direction math3d.Vec3
	Ambient   RGB
	// Kd scales the Lambertian diffuse term.
	Kd float64
	// Shininess is the Phong exponent for a gloss sample of 1.
	Shininess float64
}

// DefaultLight returns the reference light: a diagonal key light from the
// upper left, a 0.03 ambient floor, kd 7 and shininess 25.
func DefaultLight() Light {
	return Light{
		Direction: math3d.V3(0.577, -0.577, 0.577),
		Ambient:   Gray(0.03),
		Kd:        7,
		Shininess: 25,
	}
}

// toLight returns the unit vector from the surface toward the light.
func (l Light) toLight() math3d.Vec3 {
	return l.Direction.Normalize().Negate()
}

// Samples are the material values looked up for one fragment.
type Samples struct {
	Diffuse  RGB
	Normal   math3d.Vec3 // shading normal, world space, unit length
	Gloss    float64
	Specular float64
}

// Shader computes a colour from a fragment, its material samples and a
// light. Implementations hold no state.
type Shader interface {
	Shade(f Fragment, s Samples, l Light) RGB
}

// ObservedAreaShader returns the Lambert cosine as gray.
type ObservedAreaShader struct{}

// DiffuseShader returns the Lambertian diffuse term.
type DiffuseShader struct{}

// SpecularShader returns the Phong specular term as gray.
type SpecularShader struct{}

// CombinedShader returns (diffuse + specular + ambient) · cosine.
type CombinedShader struct{}

func (ObservedAreaShader) Shade(_ Fragment, s Samples, l Light) RGB {
	cos := observedArea(s, l)
	if cos <= 0 {
		return Black
	}
	return Gray(cos)
}

func (DiffuseShader) Shade(_ Fragment, s Samples, l Light) RGB {
	return lambert(s, l)
}

func (SpecularShader) Shade(f Fragment, s Samples, l Light) RGB {
	return Gray(phong(f, s, l))
}

func (CombinedShader) Shade(f Fragment, s Samples, l Light) RGB {
	cos := observedArea(s, l)
	if cos <= 0 {
		return Black
	}
	return lambert(s, l).Add(Gray(phong(f, s, l))).Add(l.Ambient).Scale(cos)
}

func observedArea(s Samples, l Light) float64 {
	return s.Normal.Dot(l.toLight())
}

func lambert(s Samples, l Light) RGB {
	return s.Diffuse.Scale(l.Kd / math.Pi)
}

// phong reflects the vector toward the light about the normal and compares
// it with the eye ray, so a highlight appears where the eye ray runs
// opposite to the reflected light.
func phong(f Fragment, s Samples, l Light) float64 {
	r := l.toLight().Reflect(s.Normal)
	cos := max(r.Dot(f.ViewDirection), 0)
	return s.Specular * math.Pow(cos, s.Gloss*l.Shininess)
}
