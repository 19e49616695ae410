package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalSink presents frames on a terminal screen. Each cell shows two
// vertically stacked pixels using an upper half block: the foreground is the
// top pixel and the background the bottom one.
type TerminalSink struct {
	// Overlay, if set, draws over the frame before it is displayed.
	Overlay func(scr uv.Screen)

	screen  uv.Screen
	display func() error
}

// NewTerminalSink returns a sink that draws into screen and then calls
// display (typically (*uv.Terminal).Display) to push the cells out.
// display may be nil for off-screen buffers.
func NewTerminalSink(screen uv.Screen, display func() error) *TerminalSink {
	return &TerminalSink{screen: screen, display: display}
}

// TerminalFramebufferSize returns the framebuffer size that exactly covers
// a terminal of cols×rows cells.
func TerminalFramebufferSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Present draws fb onto the screen.
func (s *TerminalSink) Present(fb *Framebuffer) error {
	fb.Draw(s.screen, s.screen.Bounds())
	if s.Overlay != nil {
		s.Overlay(s.screen)
	}
	if s.display == nil {
		return nil
	}
	return s.display()
}

// Draw writes fb into the cells of area on scr.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := row * 2
		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, top)),
					Bg: cellColor(fb.GetPixel(col, top+1)),
				},
			})
		}
	}
}

// cellColor maps the zero colour (off-framebuffer) to the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
