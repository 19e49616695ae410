package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
	"golang.org/x/image/bmp"
)

func twoByTwo() *Texture {
	t := NewTexture(2, 2)
	t.Set(0, 0, RGB{1, 0, 0})
	t.Set(1, 0, RGB{0, 1, 0})
	t.Set(0, 1, RGB{0, 0, 1})
	t.Set(1, 1, White)
	return t
}

func TestTextureSample(t *testing.T) {
	tex := twoByTwo()

	tests := []struct {
		name string
		uv   math3d.Vec2
		want RGB
	}{
		{"top left", math3d.V2(0.1, 0.1), RGB{1, 0, 0}},
		{"top right", math3d.V2(0.9, 0.1), RGB{0, 1, 0}},
		{"bottom left", math3d.V2(0.1, 0.9), RGB{0, 0, 1}},
		{"wraps positive", math3d.V2(1.75, 2.25), RGB{0, 1, 0}},
		{"wraps negative", math3d.V2(-0.75, -0.25), RGB{0, 0, 1}},
		{"exactly one", math3d.V2(1, 1), RGB{1, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Sample(tc.uv); got != tc.want {
				t.Errorf("Sample(%v) = %v, want %v", tc.uv, got, tc.want)
			}
		})
	}
}

func TestNilTextureSample(t *testing.T) {
	var tex *Texture
	if got := tex.Sample(math3d.V2(0.5, 0.5)); got != Black {
		t.Errorf("got %v, want black", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	a, b := Gray(0.2), Gray(0.8)
	tex := NewCheckerTexture(4, 4, 2, a, b)
	if tex.Pixels[0] != a || tex.Pixels[2] != b || tex.Pixels[2*4] != b || tex.Pixels[2*4+2] != a {
		t.Errorf("unexpected checker layout %v", tex.Pixels)
	}
}

func writeImage(t *testing.T, name string, encode func(f *os.File, img image.Image) error) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 255, 255})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTexture(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		encode func(f *os.File, img image.Image) error
	}{
		{"png", "tex.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) }},
		{"bmp", "tex.bmp", func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tex, err := LoadTexture(writeImage(t, tc.file, tc.encode))
			if err != nil {
				t.Fatalf("LoadTexture: %v", err)
			}
			if tex.Width != 2 || tex.Height != 1 {
				t.Fatalf("size = %dx%d, want 2x1", tex.Width, tex.Height)
			}
			if tex.Pixels[0] != (RGB{1, 0, 0}) || tex.Pixels[1] != (RGB{0, 0, 1}) {
				t.Errorf("pixels = %v", tex.Pixels)
			}
		})
	}
}

func TestLoadTextureErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTexture(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(bad); !errors.Is(err, ErrTextureDecode) {
		t.Errorf("decode error = %v, want ErrTextureDecode", err)
	}
}
