//go:build window

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"
	"github.com/taigrr/softrast/pkg/render"
)

func windowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "window [model]",
		Short: "View a model in a desktop window",
		Long:  "Render a model into a desktop window at the configured resolution.\n\n" + controlsHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(args)
			if err != nil {
				return err
			}
			logger, closeLog, err := g.logger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			v, err := newViewer(cfg, logger, cfg.Render.Width, cfg.Render.Height)
			if err != nil {
				return err
			}
			defer v.close()

			ebiten.SetWindowTitle("softrast - " + filepath.Base(cfg.Model))
			ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
			ebiten.SetTPS(cfg.Render.FPS)
			return ebiten.RunGame(&windowGame{ctx: cmd.Context(), v: v, sink: &windowSink{}})
		},
	}
}

// windowSink keeps the last presented frame as an ebiten image.
type windowSink struct {
	img *ebiten.Image
}

// Present implements render.FrameSink. It must be called from the game
// loop.
func (s *windowSink) Present(fb *render.Framebuffer) error {
	if s.img == nil || s.img.Bounds().Dx() != fb.Width || s.img.Bounds().Dy() != fb.Height {
		if s.img != nil {
			s.img.Deallocate()
		}
		s.img = ebiten.NewImage(fb.Width, fb.Height)
	}
	s.img.WritePixels(fb.ToImage().Pix)
	return nil
}

var windowKeys = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyEscape, actionQuit},
	{ebiten.KeyF1, actionHUD},
	{ebiten.KeyF4, actionDepth},
	{ebiten.KeyF5, actionRotate},
	{ebiten.KeyF6, actionNormalMap},
	{ebiten.KeyF7, actionShading},
	{ebiten.KeyF8, actionWireframe},
	{ebiten.KeyF9, actionBounds},
	{ebiten.KeyF12, actionScreenshot},
	{ebiten.KeyP, actionScreenshot},
}

// windowGame renders one frame per tick and presents it through the sink.
type windowGame struct {
	ctx  context.Context
	v    *viewer
	sink *windowSink

	dragging     bool
	lastX, lastY int
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	for _, k := range windowKeys {
		if inpututil.IsKeyJustPressed(k.key) && !g.v.apply(k.act) {
			return ebiten.Termination
		}
	}

	fb := g.v.frame(1/float64(ebiten.TPS()), g.input())
	return g.sink.Present(fb)
}

func (g *windowGame) input() render.Input {
	pressed := ebiten.IsKeyPressed
	in := render.Input{
		Forward:   pressed(ebiten.KeyW),
		Back:      pressed(ebiten.KeyS),
		Left:      pressed(ebiten.KeyA),
		Right:     pressed(ebiten.KeyD),
		Up:        pressed(ebiten.KeySpace),
		Down:      pressed(ebiten.KeyControl) || pressed(ebiten.KeyC),
		Boost:     pressed(ebiten.KeyShift),
		TurnLeft:  pressed(ebiten.KeyArrowLeft),
		TurnRight: pressed(ebiten.KeyArrowRight),
		LookUp:    pressed(ebiten.KeyArrowUp),
		LookDown:  pressed(ebiten.KeyArrowDown),
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			in.LookX = float64(x - g.lastX)
			in.LookY = float64(y - g.lastY)
			in.Looking = true
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y
	return in
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.sink.img == nil {
		return
	}
	screen.DrawImage(g.sink.img, nil)
	if g.v.showHUD {
		ebitenutil.DebugPrint(screen, g.v.status())
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.v.scene.Rasterizer.Framebuffer()
	return fb.Width, fb.Height
}
