package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func TestObservedAreaOrthogonalLightIsBlack(t *testing.T) {
	l := DefaultLight()
	l.Direction = math3d.V3(1, 0, 0)
	s := Samples{Diffuse: White, Normal: math3d.V3(0, 1, 0), Gloss: 1}

	if got := (ObservedAreaShader{}).Shade(Fragment{}, s, l); got != Black {
		t.Errorf("got %v, want exactly black", got)
	}
	if got := (CombinedShader{}).Shade(Fragment{}, s, l); got != Black {
		t.Errorf("combined got %v, want exactly black", got)
	}
}

func TestShaders(t *testing.T) {
	l := Light{Direction: math3d.V3(0, 0, 1), Kd: math.Pi, Shininess: 10}
	// Surface faces the light head on and the eye looks straight at it.
	f := Fragment{ViewDirection: math3d.V3(0, 0, 1)}
	s := Samples{
		Diffuse:  RGB{0.5, 0.25, 1},
		Normal:   math3d.V3(0, 0, -1),
		Gloss:    1,
		Specular: 0.5,
	}

	tests := []struct {
		name   string
		shader Shader
		want   RGB
	}{
		{"observed area", ObservedAreaShader{}, Gray(1)},
		{"diffuse", DiffuseShader{}, RGB{0.5, 0.25, 1}},
		{"specular", SpecularShader{}, Gray(0.5)},
		{"combined", CombinedShader{}, RGB{1, 0.75, 1.5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.shader.Shade(f, s, l)
			if math.Abs(got.R-tc.want.R) > 1e-9 || math.Abs(got.G-tc.want.G) > 1e-9 || math.Abs(got.B-tc.want.B) > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBackLitSurfaceIsBlack(t *testing.T) {
	l := DefaultLight()
	s := Samples{Diffuse: White, Normal: l.Direction.Normalize(), Gloss: 1, Specular: 1}
	if got := (CombinedShader{}).Shade(Fragment{}, s, l); got != Black {
		t.Errorf("got %v, want black", got)
	}
}

func TestIdentityNormalMap(t *testing.T) {
	f := Fragment{
		Color:         RGB{0.8, 0.6, 0.4},
		Normal:        math3d.V3(0.3, -0.5, -0.8).Normalize(),
		Tangent:       math3d.V3(1, 0, 0.375).Normalize(),
		ViewDirection: math3d.V3(0, 0.2, 1).Normalize(),
	}
	// Make the tangent exactly perpendicular to the normal.
	f.Tangent = f.Tangent.Reject(f.Normal).Normalize()

	mat := &Material{Normal: NewSolidTexture(RGB{0.5, 0.5, 1}), Specular: NewSolidTexture(Gray(0.7))}
	l := DefaultLight()

	with := CombinedShader{}.Shade(f, mat.Sample(f, true), l)
	without := CombinedShader{}.Shade(f, mat.Sample(f, false), l)

	if math.Abs(with.R-without.R) > 1e-9 || math.Abs(with.G-without.G) > 1e-9 || math.Abs(with.B-without.B) > 1e-9 {
		t.Errorf("normal mapped %v, want %v", with, without)
	}
}

func TestMaterialDefaults(t *testing.T) {
	f := Fragment{Color: RGB{0.1, 0.2, 0.3}, Normal: math3d.V3(0, 1, 0)}

	var mat *Material
	s := mat.Sample(f, true)
	if s.Diffuse != f.Color || s.Normal != f.Normal || s.Gloss != 1 || s.Specular != 0 {
		t.Errorf("nil material samples = %+v", s)
	}

	mat = &Material{Diffuse: NewSolidTexture(RGB{1, 0, 0}), Gloss: NewSolidTexture(Gray(0.25))}
	s = mat.Sample(f, true)
	if s.Diffuse != (RGB{1, 0, 0}) || s.Gloss != 0.25 {
		t.Errorf("textured samples = %+v", s)
	}
}

func TestTangentToWorldWithoutTangent(t *testing.T) {
	n := math3d.V3(0, 1, 0)
	if got := tangentToWorld(RGB{1, 0, 0}, n, math3d.Vec3{}); got != n {
		t.Errorf("got %v, want geometric normal", got)
	}
}

func TestMaxToOne(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want RGB
	}{
		{"in range", RGB{0.2, 0.5, 1}, RGB{0.2, 0.5, 1}},
		{"scaled", RGB{2, 1, 0.5}, RGB{1, 0.5, 0.25}},
		{"black", Black, Black},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.MaxToOne(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestShadingModeNames(t *testing.T) {
	m := ShadeObservedArea
	for range shadingModeCount {
		got, err := ParseShadingMode(m.String())
		if err != nil {
			t.Fatalf("ParseShadingMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Errorf("got %v, want %v", got, m)
		}
		m = m.Next()
	}
	if m != ShadeObservedArea {
		t.Errorf("Next did not wrap, got %v", m)
	}

	if got, err := ParseShadingMode("Observed_Area"); err != nil || got != ShadeObservedArea {
		t.Errorf("ParseShadingMode(Observed_Area) = %v, %v", got, err)
	}
	if _, err := ParseShadingMode("toon"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
