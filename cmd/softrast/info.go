package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8E8E8"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585858")).
			Padding(0, 1)
)

func infoCmd(g *globals) *cobra.Command {
	var probe bool
	cmd := &cobra.Command{
		Use:   "info [model]",
		Short: "Print model statistics",
		Long: "Load a model and print its vertex and triangle counts, bounds and material.\n" +
			"With --probe one frame is rendered from the configured camera and the\n" +
			"pipeline counters are printed as well.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(args)
			if err != nil {
				return err
			}
			_, closeLog, err := g.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			geom, scene, err := loadScene(cfg, cfg.Render.Width, cfg.Render.Height)
			if err != nil {
				return err
			}

			sections := []string{modelSection(cfg.Model, geom)}
			if probe {
				start := time.Now()
				scene.Frame(0, render.Input{})
				sections = append(sections, statsSection(scene.Rasterizer.Stats, time.Since(start)))
			}
			_, err = lipgloss.Fprintln(cmd.OutOrStdout(), boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...)))
			return err
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "render one frame and print pipeline counters")
	return cmd
}

func row(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

func modelSection(path string, geom *models.Geometry) string {
	maps := "none"
	if m := geom.Material; m != nil {
		var names []string
		for _, s := range []struct {
			name string
			tex  *render.Texture
		}{
			{"diffuse", m.Diffuse},
			{"normal", m.Normal},
			{"gloss", m.Gloss},
			{"specular", m.Specular},
		} {
			if s.tex != nil {
				names = append(names, fmt.Sprintf("%s %dx%d", s.name, s.tex.Width, s.tex.Height))
			}
		}
		if len(names) > 0 {
			maps = strings.Join(names, ", ")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(filepath.Base(path)),
		row("name", geom.Name),
		row("vertices", geom.VertexCount()),
		row("triangles", geom.TriangleCount()),
		row("topology", geom.Topology),
		row("bounds min", vecString(geom.BoundsMin)),
		row("bounds max", vecString(geom.BoundsMax)),
		row("size", vecString(geom.Size())),
		row("textures", maps),
	)
}

func statsSection(st render.Stats, took time.Duration) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		titleStyle.Render("probe frame"),
		row("time", took.Round(time.Microsecond)),
		row("culled", st.MeshesCulled > 0),
		row("triangles", st.Triangles),
		row("clipped", st.TrianglesClipped),
		row("degenerate", st.TrianglesDegenerate),
		row("early z", st.EarlyDepthRejects),
		row("pixels", st.PixelsShaded),
	)
}

func vecString(v math3d.Vec3) string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g)", v.X, v.Y, v.Z)
}
