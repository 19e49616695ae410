package render

import "github.com/taigrr/softrast/pkg/math3d"

// Material groups the texture maps of a mesh. Any map may be nil:
// a missing diffuse map uses the vertex colour, a missing normal map the
// geometric normal, a missing gloss map 1 and a missing specular map 0.
type Material struct {
	Diffuse  *Texture
	Normal   *Texture // tangent space, [0, 1] per channel
	Gloss    *Texture // red channel
	Specular *Texture // red channel
}

// Sample looks up every map at the fragment's UV. When normalMapping is set
// and a normal map is present, the shading normal is taken from the map.
func (m *Material) Sample(f Fragment, normalMapping bool) Samples {
	s := Samples{
		Diffuse: f.Color,
		Normal:  f.Normal,
		Gloss:   1,
	}
	if m == nil {
		return s
	}
	if m.Diffuse != nil {
		s.Diffuse = m.Diffuse.Sample(f.UV)
	}
	if normalMapping && m.Normal != nil {
		s.Normal = tangentToWorld(m.Normal.Sample(f.UV), f.Normal, f.Tangent)
	}
	if m.Gloss != nil {
		s.Gloss = m.Gloss.Sample(f.UV).R
	}
	if m.Specular != nil {
		s.Specular = m.Specular.Sample(f.UV).R
	}
	return s
}

// tangentToWorld remaps a normal map sample from [0, 1] to [-1, 1] and
// rotates it by the tangent/bitangent/normal frame. If the tangent is
// missing or parallel to the normal the frame is undefined and the
// geometric normal is returned.
func tangentToWorld(sample RGB, normal, tangent math3d.Vec3) math3d.Vec3 {
	bitangent := normal.Cross(tangent)
	if bitangent.LenSq() < 1e-12 {
		return normal
	}
	local := math3d.V3(2*sample.R-1, 2*sample.G-1, 2*sample.B-1)
	n := tangent.Scale(local.X).
		Add(bitangent.Scale(local.Y)).
		Add(normal.Scale(local.Z)).
		Normalize()
	if n.LenSq() == 0 {
		return normal
	}
	return n
}
