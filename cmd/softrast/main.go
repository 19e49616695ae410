// softrast - CPU triangle rasterizer
// Render OBJ and glTF models in the terminal, a desktop window or to image
// files, entirely on the CPU.
//
// Controls (view and window):
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Space/C     - Move up/down
//	Shift       - Move faster (window) or hold capitals (terminal)
//	Arrows      - Turn
//	Mouse drag  - Look around
//	F1          - Toggle HUD
//	F4          - Depth buffer visualization
//	F5          - Toggle mesh rotation
//	F6          - Toggle normal mapping
//	F7          - Cycle shading mode
//	F8          - Toggle wireframe
//	F9          - Toggle bounding box
//	F12 or P    - Screenshot (BMP)
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/softrast/internal/config"
	"github.com/taigrr/softrast/internal/logging"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

var version = "dev"

const controlsHelp = `Controls:
  W/S          Move forward/back
  A/D          Strafe left/right
  Space/C      Move up/down
  Arrows       Turn
  Mouse drag   Look around
  F1           Toggle HUD
  F4           Depth buffer visualization
  F5           Toggle mesh rotation
  F6           Toggle normal mapping
  F7           Cycle shading mode
  F8           Toggle wireframe
  F9           Toggle bounding box
  F12, P       Screenshot (BMP)
  Esc          Quit`

func main() {
	err := fang.Execute(context.Background(), rootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

// globals are the flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	logFile    string
	shading    string
	width      int
	height     int
}

func rootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "softrast",
		Short: "CPU triangle rasterizer for OBJ and glTF models",
		Long: "softrast renders OBJ and glTF models on the CPU with perspective-correct\n" +
			"interpolation, normal mapping and Phong shading.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "TOML or YAML config file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&g.logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&g.shading, "shading", "", "shading mode (observed-area, diffuse, specular, combined)")
	pf.IntVar(&g.width, "width", 0, "framebuffer width in pixels")
	pf.IntVar(&g.height, "height", 0, "framebuffer height in pixels")

	root.AddCommand(viewCmd(g), windowCmd(g), renderCmd(g), infoCmd(g))
	return root
}

// load reads the config file, if any, and applies flag overrides. A model
// argument replaces the configured model.
func (g *globals) load(args []string) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return cfg, err
		}
	}

	if len(args) > 0 {
		cfg.Model = args[0]
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.shading != "" {
		cfg.Render.Shading = g.shading
	}
	if g.width > 0 {
		cfg.Render.Width = g.width
	}
	if g.height > 0 {
		cfg.Render.Height = g.height
	}

	if cfg.Model == "" {
		return cfg, fmt.Errorf("%w: no model given", config.ErrInvalid)
	}
	return cfg, cfg.Validate()
}

// logger builds the process logger and installs it in the library packages.
// Logs go to --log-file when set and to fallback otherwise. The returned
// function closes the log file.
func (g *globals) logger(cfg config.Config, fallback io.Writer) (*log.Logger, func(), error) {
	w, done := fallback, func() {}
	if g.logFile != "" {
		f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, done = f, func() { f.Close() }
	}

	logger, err := logging.New(w, cfg.LogLevel, "softrast")
	if err != nil {
		done()
		return nil, nil, err
	}
	render.SetLogger(logger)
	models.SetLogger(logger)
	return logger, done, nil
}
