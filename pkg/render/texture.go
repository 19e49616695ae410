package render

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/taigrr/softrast/pkg/math3d"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Texture is a grid of RGB samples addressed top-down: uv (0, 0) is the
// top-left texel.
type Texture struct {
	Width  int
	Height int
	Pixels []RGB
}

// NewTexture creates a black texture of the given size.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]RGB, width*height),
	}
}

// NewSolidTexture returns a 1×1 texture holding c.
func NewSolidTexture(c RGB) *Texture {
	t := NewTexture(1, 1)
	t.Pixels[0] = c
	return t
}

// NewCheckerTexture creates a procedural checkerboard.
func NewCheckerTexture(width, height, cell int, a, b RGB) *Texture {
	t := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			t.Pixels[y*width+x] = c
		}
	}
	return t
}

// LoadTexture decodes an image file into a texture. PNG, JPEG, GIF, BMP,
// TIFF and WebP are supported.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureDecode, path, err)
	}
	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return TextureFromImage(img), nil
}

// TextureFromImage converts any image.Image into a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	t := NewTexture(b.Dx(), b.Dy())
	for y := range t.Height {
		for x := range t.Width {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			t.Pixels[y*t.Width+x] = RGB{
				R: float64(r) / 0xffff,
				G: float64(g) / 0xffff,
				B: float64(bl) / 0xffff,
			}
		}
	}
	return t
}

// Set writes a texel.
func (t *Texture) Set(x, y int, c RGB) {
	t.Pixels[y*t.Width+x] = c
}

// Sample returns the nearest texel to uv. Coordinates outside [0, 1] wrap
// around using their fractional part.
func (t *Texture) Sample(uv math3d.Vec2) RGB {
	if t == nil || len(t.Pixels) == 0 {
		return Black
	}
	f := uv.Fract()
	x := min(int(f.X*float64(t.Width)), t.Width-1)
	y := min(int(f.Y*float64(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+x]
}
