package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// LoadOBJ reads a Wavefront OBJ file. OBJ files are right-handed, so the
// result is flipped into the left-handed pipeline.
func LoadOBJ(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	g, err := ParseOBJ(f, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.Name == "" {
		g.Name = filepath.Base(path)
	}
	return g, nil
}

// objIndex identifies one corner of a face: position, texcoord and normal
// indices, -1 when absent.
type objIndex [3]int

// ParseOBJ reads OBJ text from r. Supported statements are v, vt, vn, f and
// o; anything else is ignored. Faces with more than three corners are split
// into fans. Corners sharing the same v/vt/vn triple share one vertex.
//
// Texture v is flipped so 0 is the top row, matching image layout. When the
// file has no normals, smooth normals are generated. Tangents are always
// generated. With flipHandedness set, z is negated and winding reversed.
func ParseOBJ(r io.Reader, flipHandedness bool) (*Geometry, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
	)
	g := NewGeometry("")
	lookup := make(map[objIndex]uint32)

	corner := func(tok string, line int) (uint32, error) {
		var key objIndex
		parts := strings.Split(tok, "/")
		if len(parts) > 3 {
			return 0, fmt.Errorf("%w: line %d: bad face corner %q", ErrMalformed, line, tok)
		}
		counts := [3]int{len(positions), len(uvs), len(normals)}
		for i := range key {
			key[i] = -1
			if i >= len(parts) || parts[i] == "" {
				continue
			}
			idx, err := resolveIndex(parts[i], counts[i])
			if err != nil {
				return 0, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
			}
			key[i] = idx
		}
		if key[0] < 0 {
			return 0, fmt.Errorf("%w: line %d: face corner %q has no position", ErrMalformed, line, tok)
		}

		if vi, ok := lookup[key]; ok {
			return vi, nil
		}
		v := render.Vertex{Position: positions[key[0]], Color: render.White}
		if key[1] >= 0 {
			v.UV = uvs[key[1]]
		}
		if key[2] >= 0 {
			v.Normal = normals[key[2]]
		}
		vi := uint32(len(g.Vertices))
		g.Vertices = append(g.Vertices, v)
		lookup[key] = vi
		return vi, nil
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))
		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
			}
			uvs = append(uvs, math3d.V2(t[0], 1-t[1]))
		case "vn":
			n, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
			}
			normals = append(normals, math3d.V3(n[0], n[1], n[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs at least 3 corners", ErrMalformed, line)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				vi, err := corner(tok, line)
				if err != nil {
					return nil, err
				}
				idx = append(idx, vi)
			}
			for i := 1; i+1 < len(idx); i++ {
				g.Indices = append(g.Indices, idx[0], idx[i], idx[i+1])
			}
		case "o":
			if g.Name == "" && len(fields) > 1 {
				g.Name = strings.Join(fields[1:], " ")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if len(normals) == 0 {
		g.CalculateSmoothNormals()
	}
	g.CalculateTangents()
	if flipHandedness {
		g.FlipHandedness()
	}
	g.CalculateBounds()

	logger().Debug("obj parsed", "name", g.Name,
		"positions", len(positions), "vertices", len(g.Vertices), "triangles", g.TriangleCount())
	return g, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based one.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}
