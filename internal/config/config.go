// Package config loads viewer settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete set of viewer settings.
type Config struct {
	Model       string   `toml:"model" yaml:"model"`
	Textures    Textures `toml:"textures" yaml:"textures"`
	Camera      Camera   `toml:"camera" yaml:"camera"`
	Render      Render   `toml:"render" yaml:"render"`
	Light       Light    `toml:"light" yaml:"light"`
	Controls    Controls `toml:"controls" yaml:"controls"`
	LogLevel    string   `toml:"log_level" yaml:"log_level"`
	Screenshots string   `toml:"screenshots" yaml:"screenshots"`
}

// Textures are image paths for the mesh material. Empty paths are skipped.
type Textures struct {
	Diffuse  string `toml:"diffuse" yaml:"diffuse"`
	Normal   string `toml:"normal" yaml:"normal"`
	Gloss    string `toml:"gloss" yaml:"gloss"`
	Specular string `toml:"specular" yaml:"specular"`
}

// Camera is the initial camera placement.
type Camera struct {
	FOV    float64    `toml:"fov" yaml:"fov"`
	Origin [3]float64 `toml:"origin" yaml:"origin"`
	Near   float64    `toml:"near" yaml:"near"`
	Far    float64    `toml:"far" yaml:"far"`
	Pitch  float64    `toml:"pitch" yaml:"pitch"`
	Yaw    float64    `toml:"yaw" yaml:"yaw"`
}

// Render selects the pipeline options.
type Render struct {
	Width              int     `toml:"width" yaml:"width"`
	Height             int     `toml:"height" yaml:"height"`
	Background         string  `toml:"background" yaml:"background"`
	Shading            string  `toml:"shading" yaml:"shading"`
	NormalMapping      bool    `toml:"normal_mapping" yaml:"normal_mapping"`
	Wireframe          bool    `toml:"wireframe" yaml:"wireframe"`
	DepthVisualization bool    `toml:"depth_visualization" yaml:"depth_visualization"`
	Cull               string  `toml:"cull" yaml:"cull"`
	AutoRotate         bool    `toml:"auto_rotate" yaml:"auto_rotate"`
	RotationSpeed      float64 `toml:"rotation_speed" yaml:"rotation_speed"`
	ShowBounds         bool    `toml:"show_bounds" yaml:"show_bounds"`
	Workers            int     `toml:"workers" yaml:"workers"`
	FPS                int     `toml:"fps" yaml:"fps"`
}

// Light is the directional light and lighting constants.
type Light struct {
	Direction [3]float64 `toml:"direction" yaml:"direction"`
	Ambient   float64    `toml:"ambient" yaml:"ambient"`
	Kd        float64    `toml:"kd" yaml:"kd"`
	Shininess float64    `toml:"shininess" yaml:"shininess"`
}

// Controls tune the free-look camera controller.
type Controls struct {
	MoveSpeed   float64 `toml:"move_speed" yaml:"move_speed"`
	RotateSpeed float64 `toml:"rotate_speed" yaml:"rotate_speed"`
	Sensitivity float64 `toml:"sensitivity" yaml:"sensitivity"`
	Boost       float64 `toml:"boost" yaml:"boost"`
}

// Default returns the reference scene: a 640×480 view from (0, 5, -64)
// with a 45° field of view over a gray background.
func Default() Config {
	light := render.DefaultLight()
	return Config{
		Camera: Camera{
			FOV:    45,
			Origin: [3]float64{0, 5, -64},
			Near:   0.1,
			Far:    100,
		},
		Render: Render{
			Width:         640,
			Height:        480,
			Background:    "#646464",
			Shading:       render.ShadeCombined.String(),
			NormalMapping: true,
			Cull:          render.CullBack.String(),
			AutoRotate:    true,
			RotationSpeed: 1,
			FPS:           30,
		},
		Light: Light{
			Direction: [3]float64{light.Direction.X, light.Direction.Y, light.Direction.Z},
			Ambient:   light.Ambient.R,
			Kd:        light.Kd,
			Shininess: light.Shininess,
		},
		Controls: Controls{
			MoveSpeed:   render.DefaultMoveSpeed,
			RotateSpeed: render.DefaultRotateSpeed,
			Sensitivity: render.DefaultSensitivity,
			Boost:       render.DefaultBoost,
		},
		LogLevel:    "info",
		Screenshots: ".",
	}
}

// Load reads path over the defaults, so a file only needs the fields it
// changes. The format follows the extension: .toml, .yaml or .yml.
// Relative model and texture paths are resolved against the file's
// directory.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: unknown config format %q", ErrInvalid, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Model, &cfg.Textures.Diffuse, &cfg.Textures.Normal, &cfg.Textures.Gloss, &cfg.Textures.Specular} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and names. Every error wraps ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera fov %v must be in (0, 180)", c.Camera.FOV)
	check(c.Camera.Near > 0, "camera near %v must be positive", c.Camera.Near)
	check(c.Camera.Far > c.Camera.Near, "camera far %v must exceed near %v", c.Camera.Far, c.Camera.Near)
	check(c.Render.Width > 0 && c.Render.Height > 0, "render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	check(c.Render.FPS > 0, "fps %d must be positive", c.Render.FPS)

	if _, err := c.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseShadingMode(c.Render.Shading); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	_, ok := render.ParseCullMode(c.Render.Cull)
	check(ok, "unknown cull mode %q", c.Render.Cull)

	d := c.Light.Direction
	check(d != [3]float64{}, "light direction must be non-zero")
	return errors.Join(errs...)
}

// BackgroundColor parses the background hex colour.
func (c Config) BackgroundColor() (color.RGBA, error) {
	col, err := colorful.Hex(c.Render.Background)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: background %q: %w", ErrInvalid, c.Render.Background, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// Options converts the render and light sections into pipeline options.
// It assumes Validate has passed; unknown names fall back to defaults.
func (c Config) Options() render.Options {
	opts := render.DefaultOptions()
	if m, err := render.ParseShadingMode(c.Render.Shading); err == nil {
		opts.Shading = m
	}
	if m, ok := render.ParseCullMode(c.Render.Cull); ok {
		opts.Cull = m
	}
	opts.NormalMapping = c.Render.NormalMapping
	opts.Wireframe = c.Render.Wireframe
	opts.DepthVisualization = c.Render.DepthVisualization
	opts.Workers = c.Render.Workers
	opts.Light = render.Light{
		Direction: vec3(c.Light.Direction),
		Ambient:   render.Gray(c.Light.Ambient),
		Kd:        c.Light.Kd,
		Shininess: c.Light.Shininess,
	}
	return opts
}

// NewCamera builds the configured camera with a free-look controller.
func (c Config) NewCamera(aspect float64) *render.Camera {
	cam := render.NewCamera(c.Camera.FOV, vec3(c.Camera.Origin), aspect, c.Camera.Near, c.Camera.Far)
	cam.SetOrientation(c.Camera.Pitch, c.Camera.Yaw)
	cam.UpdateMatrices()

	fl := render.NewFreeLook(c.Render.FPS)
	fl.MoveSpeed = c.Controls.MoveSpeed
	fl.RotateSpeed = c.Controls.RotateSpeed
	fl.Sensitivity = c.Controls.Sensitivity
	fl.BoostFactor = c.Controls.Boost
	cam.Controller = fl
	return cam
}

// LoadMaterial loads the configured textures. It returns nil when no
// texture is configured.
func (c Config) LoadMaterial() (*render.Material, error) {
	var mat render.Material
	slots := []struct {
		path string
		dst  **render.Texture
	}{
		{c.Textures.Diffuse, &mat.Diffuse},
		{c.Textures.Normal, &mat.Normal},
		{c.Textures.Gloss, &mat.Gloss},
		{c.Textures.Specular, &mat.Specular},
	}

	loaded := false
	for _, s := range slots {
		if s.path == "" {
			continue
		}
		tex, err := render.LoadTexture(s.path)
		if err != nil {
			return nil, err
		}
		*s.dst = tex
		loaded = true
	}
	if !loaded {
		return nil, nil
	}
	return &mat, nil
}

func vec3(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}
