package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// LoadGLTF loads every triangle primitive of a glTF or GLB file into one
// geometry. glTF is right-handed with counter-clockwise front faces, so z
// and winding are flipped. Missing normals and tangents are generated.
// The first material with textures supplies the base colour and normal maps.
func LoadGLTF(path string) (*Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	g := NewGeometry(filepath.Base(path))
	hasNormals, hasTangents := true, true
	material := -1

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Skip non-triangle primitives (lines, points, etc)
				continue
			}
			n, t, err := appendPrimitive(doc, prim, g)
			if err != nil {
				return nil, fmt.Errorf("%s: mesh %q: %w", path, m.Name, err)
			}
			hasNormals = hasNormals && n
			hasTangents = hasTangents && t
			if material < 0 && prim.Material != nil {
				material = *prim.Material
			}
		}
	}

	if !hasNormals {
		g.CalculateSmoothNormals()
	}
	if !hasTangents {
		g.CalculateTangents()
	}
	g.FlipHandedness()

	if material >= 0 {
		g.Material, err = loadMaterial(doc, material, filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	logger().Debug("gltf loaded", "path", path, "meshes", len(doc.Meshes),
		"vertices", len(g.Vertices), "triangles", g.TriangleCount(), "textured", g.Material != nil)
	return g, nil
}

// appendPrimitive adds one primitive's vertices and indices to g and reports
// whether it carried normals and tangents.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, g *Geometry) (hasNormals, hasTangents bool, err error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, true, nil
	}
	positions, err := readFloats(doc, posIdx, gltf.AccessorVec3)
	if err != nil {
		return false, false, fmt.Errorf("read positions: %w", err)
	}
	count := len(positions) / 3

	optional := func(name string, typ gltf.AccessorType) ([]float32, error) {
		idx, ok := prim.Attributes[name]
		if !ok {
			return nil, nil
		}
		data, err := readFloats(doc, idx, typ)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if len(data) < count*accessorWidth(typ) {
			return nil, fmt.Errorf("%w: %s has fewer entries than POSITION", ErrMalformed, name)
		}
		return data, nil
	}

	normals, err := optional(gltf.NORMAL, gltf.AccessorVec3)
	if err != nil {
		return false, false, err
	}
	tangents, err := optional(gltf.TANGENT, gltf.AccessorVec4)
	if err != nil {
		return false, false, err
	}
	uvs, err := optional(gltf.TEXCOORD_0, gltf.AccessorVec2)
	if err != nil {
		return false, false, err
	}
	colors, colorWidth, err := readColors(doc, prim)
	if err != nil {
		return false, false, err
	}

	base := uint32(len(g.Vertices))
	for i := range count {
		v := render.Vertex{
			Position: vec3At(positions, i),
			Color:    render.White,
		}
		if normals != nil {
			v.Normal = vec3At(normals, i)
		}
		if tangents != nil {
			v.Tangent = math3d.V3(float64(tangents[i*4]), float64(tangents[i*4+1]), float64(tangents[i*4+2]))
		}
		if uvs != nil {
			// glTF UVs already have v = 0 on the top row.
			v.UV = math3d.V2(float64(uvs[i*2]), float64(uvs[i*2+1]))
		}
		if colors != nil {
			c := colors[i*colorWidth:]
			v.Color = render.RGB{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
		}
		g.Vertices = append(g.Vertices, v)
	}

	if prim.Indices == nil {
		// No indices, assume sequential triangles
		for i := 0; i+2 < count; i += 3 {
			g.Indices = append(g.Indices, base+uint32(i), base+uint32(i+1), base+uint32(i+2))
		}
	} else {
		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return false, false, fmt.Errorf("read indices: %w", err)
		}
		for _, idx := range indices[:len(indices)/3*3] {
			if int(idx) >= count {
				return false, false, fmt.Errorf("%w: index %d with %d vertices", ErrMalformed, idx, count)
			}
			g.Indices = append(g.Indices, base+idx)
		}
	}

	return normals != nil, tangents != nil, nil
}

func vec3At(data []float32, i int) math3d.Vec3 {
	return math3d.V3(float64(data[i*3]), float64(data[i*3+1]), float64(data[i*3+2]))
}

// readColors reads COLOR_0 when it is stored as floats. Normalized integer
// colours are ignored and the vertices stay white.
func readColors(doc *gltf.Document, prim *gltf.Primitive) ([]float32, int, error) {
	idx, ok := prim.Attributes[gltf.COLOR_0]
	if !ok || idx < 0 || idx >= len(doc.Accessors) {
		return nil, 0, nil
	}
	acc := doc.Accessors[idx]
	if acc.ComponentType != gltf.ComponentFloat {
		logger().Debug("ignoring non-float vertex colours", "component", acc.ComponentType)
		return nil, 0, nil
	}
	data, err := readFloats(doc, idx, acc.Type)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", gltf.COLOR_0, err)
	}
	width := accessorWidth(acc.Type)
	if width < 3 {
		return nil, 0, nil
	}
	return data, width, nil
}

func accessorWidth(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	default:
		return 0
	}
}

// accessorBytes returns the bytes backing an accessor and the stride
// between elements, checking that count elements of elemSize fit.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *acc.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("%w: buffer view %d", ErrMalformed, *acc.BufferView)
	}
	view := doc.BufferViews[*acc.BufferView]
	if view.Buffer >= len(doc.Buffers) || doc.Buffers[view.Buffer].Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if end > len(data) {
			return nil, 0, fmt.Errorf("%w: accessor reads past end of buffer", ErrMalformed)
		}
	}
	return data[start:], stride, nil
}

// readFloats reads a float accessor of the given type as a flat slice.
func readFloats(doc *gltf.Document, idx int, typ gltf.AccessorType) ([]float32, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d", ErrMalformed, idx)
	}
	acc := doc.Accessors[idx]
	if acc.Type != typ {
		return nil, fmt.Errorf("expected %v, got %v", typ, acc.Type)
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", acc.ComponentType)
	}

	width := accessorWidth(typ)
	data, stride, err := accessorBytes(doc, acc, width*4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, acc.Count*width)
	for i := range acc.Count {
		elem := data[i*stride:]
		for j := range width {
			out[i*width+j] = math.Float32frombits(binary.LittleEndian.Uint32(elem[j*4:]))
		}
	}
	return out, nil
}

// readIndices reads a scalar index accessor of any unsigned component type.
func readIndices(doc *gltf.Document, idx int) ([]uint32, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d", ErrMalformed, idx)
	}
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", acc.ComponentType)
	}

	data, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, acc.Count)
	for i := range out {
		elem := data[i*stride:]
		switch size {
		case 1:
			out[i] = uint32(elem[0])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(elem))
		case 4:
			out[i] = binary.LittleEndian.Uint32(elem)
		}
	}
	return out, nil
}

// loadMaterial decodes the base colour and normal textures of a material.
// A material without either texture yields nil.
func loadMaterial(doc *gltf.Document, idx int, dir string) (*render.Material, error) {
	if idx >= len(doc.Materials) {
		return nil, fmt.Errorf("%w: material %d", ErrMalformed, idx)
	}
	m := doc.Materials[idx]

	var mat render.Material
	if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
		img, err := textureImage(doc, pbr.BaseColorTexture.Index, dir)
		if err != nil {
			return nil, fmt.Errorf("base color texture: %w", err)
		}
		mat.Diffuse = render.TextureFromImage(img)
	}
	if nt := m.NormalTexture; nt != nil && nt.Index != nil {
		img, err := textureImage(doc, *nt.Index, dir)
		if err != nil {
			return nil, fmt.Errorf("normal texture: %w", err)
		}
		mat.Normal = render.TextureFromImage(img)
	}

	if mat.Diffuse == nil && mat.Normal == nil {
		return nil, nil
	}
	return &mat, nil
}

// textureImage decodes the image a texture points at, whether embedded in a
// buffer view, inlined as a data URI or stored next to the document.
func textureImage(doc *gltf.Document, texIdx int, dir string) (image.Image, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, fmt.Errorf("%w: texture %d", ErrMalformed, texIdx)
	}
	src := *doc.Textures[texIdx].Source
	if src >= len(doc.Images) {
		return nil, fmt.Errorf("%w: image %d", ErrMalformed, src)
	}
	img := doc.Images[src]

	var data []byte
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("%w: buffer view %d", ErrMalformed, *img.BufferView)
		}
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer].Data
		if bv.ByteOffset+bv.ByteLength > len(buf) {
			return nil, fmt.Errorf("%w: image view past end of buffer", ErrMalformed)
		}
		data = buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case strings.HasPrefix(img.URI, "data:"):
		_, payload, ok := strings.Cut(img.URI, ",")
		if !ok {
			return nil, fmt.Errorf("%w: bad data URI", ErrMalformed)
		}
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URI: %w", err)
		}
	case img.URI != "":
		var err error
		data, err = os.ReadFile(filepath.Join(dir, filepath.FromSlash(img.URI)))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: image %d has no data", ErrMalformed, src)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrTextureDecode, err)
	}
	return decoded, nil
}
