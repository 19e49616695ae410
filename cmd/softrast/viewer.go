package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/taigrr/softrast/internal/assets"
	"github.com/taigrr/softrast/internal/config"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

// action is a discrete toggle requested by a key press.
type action int

const (
	actionNone action = iota
	actionHUD
	actionDepth
	actionRotate
	actionNormalMap
	actionShading
	actionWireframe
	actionBounds
	actionScreenshot
	actionQuit
)

// viewer owns the scene shared by the interactive front ends. It is only
// touched from the frame loop.
type viewer struct {
	cfg      config.Config
	geometry *models.Geometry
	scene    *render.Scene
	log      *log.Logger

	watcher  *assets.Watcher
	bindings assets.Bindings

	showHUD bool
	message string
	fps     fpsCounter
}

// loadScene reads the model and textures and sets up a scene rendering into
// a width×height framebuffer. Textures from the config replace the
// material carried by the model file.
func loadScene(cfg config.Config, width, height int) (*models.Geometry, *render.Scene, error) {
	geom, err := models.Load(cfg.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	mat, err := cfg.LoadMaterial()
	if err != nil {
		return nil, nil, fmt.Errorf("load textures: %w", err)
	}
	if mat != nil {
		geom.Material = mat
	}

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, nil, err
	}

	fb := render.NewFramebuffer(width, height)
	cam := cfg.NewCamera(float64(width) / float64(height))
	scene := render.NewScene(geom.Mesh(), cam, render.NewRasterizer(fb, cfg.Options()))
	scene.Background = bg
	scene.AutoRotate = cfg.Render.AutoRotate
	scene.RotationSpeed = cfg.Render.RotationSpeed
	scene.ShowBounds = cfg.Render.ShowBounds
	return geom, scene, nil
}

func newViewer(cfg config.Config, logger *log.Logger, width, height int) (*viewer, error) {
	geom, scene, err := loadScene(cfg, width, height)
	if err != nil {
		return nil, err
	}
	if scene.Mesh.Material == nil {
		scene.Mesh.Material = &render.Material{}
	}

	v := &viewer{
		cfg:      cfg,
		geometry: geom,
		scene:    scene,
		log:      logger,
		showHUD:  true,
		fps:      newFPSCounter(),
	}

	t := cfg.Textures
	if t.Diffuse != "" || t.Normal != "" || t.Gloss != "" || t.Specular != "" {
		w, err := assets.NewWatcher(logger, t.Diffuse, t.Normal, t.Gloss, t.Specular)
		if err != nil {
			logger.Warn("texture hot reload disabled", "err", err)
		} else {
			v.watcher = w
			v.bindings = assets.Bind(scene.Mesh.Material, t.Diffuse, t.Normal, t.Gloss, t.Specular)
		}
	}

	logger.Info("model loaded",
		"model", filepath.Base(cfg.Model),
		"vertices", geom.VertexCount(),
		"triangles", geom.TriangleCount(),
	)
	return v, nil
}

// resize replaces the framebuffer and depth buffer and updates the camera
// aspect ratio. Options and stats carry over.
func (v *viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	old := v.scene.Rasterizer
	r := render.NewRasterizer(render.NewFramebuffer(width, height), old.Options)
	r.Stats = old.Stats
	v.scene.Rasterizer = r
	v.scene.Camera.SetAspect(float64(width) / float64(height))
	v.log.Debug("resized", "width", width, "height", height)
}

// frame applies pending texture reloads and renders one frame.
func (v *viewer) frame(elapsed float64, in render.Input) *render.Framebuffer {
	if v.watcher != nil && v.bindings.Apply(v.watcher.Reloads()) {
		v.notify("textures reloaded")
	}
	fb := v.scene.Frame(elapsed, in)
	v.fps.tick()
	return fb
}

// apply performs a toggle. It reports false for actionQuit.
func (v *viewer) apply(a action) bool {
	opts := &v.scene.Rasterizer.Options
	switch a {
	case actionHUD:
		v.showHUD = !v.showHUD
	case actionDepth:
		opts.DepthVisualization = !opts.DepthVisualization
		v.notify(onOff("depth view", opts.DepthVisualization))
	case actionRotate:
		v.scene.AutoRotate = !v.scene.AutoRotate
		v.notify(onOff("rotation", v.scene.AutoRotate))
	case actionNormalMap:
		opts.NormalMapping = !opts.NormalMapping
		v.notify(onOff("normal map", opts.NormalMapping))
	case actionShading:
		opts.Shading = opts.Shading.Next()
		v.notify("shading: " + opts.Shading.String())
	case actionWireframe:
		opts.Wireframe = !opts.Wireframe
		v.notify(onOff("wireframe", opts.Wireframe))
	case actionBounds:
		v.scene.ShowBounds = !v.scene.ShowBounds
		v.notify(onOff("bounds", v.scene.ShowBounds))
	case actionScreenshot:
		path, err := v.screenshot()
		if err != nil {
			v.log.Error("screenshot failed", "err", err)
			v.notify("screenshot failed")
		} else {
			v.log.Info("screenshot saved", "path", path)
			v.notify("saved " + filepath.Base(path))
		}
	case actionQuit:
		return false
	}
	return true
}

// screenshot writes the last rendered frame as a BMP in the screenshot
// directory.
func (v *viewer) screenshot() (string, error) {
	name := fmt.Sprintf("softrast-%s-%s.bmp", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(v.cfg.Screenshots, name)
	if err := v.scene.Rasterizer.Framebuffer().SaveBMP(path); err != nil {
		return "", err
	}
	return path, nil
}

func (v *viewer) notify(msg string) {
	v.message = msg
	v.log.Debug(msg)
}

// status is the one-line HUD text.
func (v *viewer) status() string {
	opts := v.scene.Rasterizer.Options
	s := fmt.Sprintf("%.0f fps  %s  %d tris  %s",
		v.fps.rate, filepath.Base(v.cfg.Model), v.geometry.TriangleCount(), opts.Shading)
	if opts.DepthVisualization {
		s += "  [depth]"
	}
	if opts.Wireframe {
		s += "  [wire]"
	}
	if !opts.NormalMapping {
		s += "  [no normal map]"
	}
	if v.message != "" {
		s += "  " + v.message
	}
	return s
}

func (v *viewer) close() {
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("close watcher", "err", err)
		}
	}
}

func onOff(name string, on bool) string {
	if on {
		return name + " on"
	}
	return name + " off"
}

// fpsCounter averages the frame rate over one second windows.
type fpsCounter struct {
	rate   float64
	frames int
	since  time.Time
}

func newFPSCounter() fpsCounter {
	return fpsCounter{since: time.Now()}
}

func (c *fpsCounter) tick() {
	c.frames++
	if elapsed := time.Since(c.since); elapsed >= time.Second {
		c.rate = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = time.Now()
	}
}
