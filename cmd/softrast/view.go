package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/softrast/internal/config"
	"github.com/taigrr/softrast/pkg/render"
)

func viewCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "view [model]",
		Short: "View a model in the terminal",
		Long:  "Render a model into the terminal using half-block cells, two pixels per cell.\n\n" + controlsHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(args)
			if err != nil {
				return err
			}
			// The terminal owns stdout; logs only go to --log-file.
			logger, closeLog, err := g.logger(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()
			return runTerminal(cmd.Context(), cfg, logger)
		},
	}
}

// holdTime is how long a movement key counts as held after its last press.
// Terminals that do not report key releases only send auto-repeats, and
// the first repeat arrives after the keyboard's initial delay.
const holdTime = 550 * time.Millisecond

// terminalInput collects key and mouse events from the event goroutine and
// hands the frame loop one snapshot per frame.
type terminalInput struct {
	mu       sync.Mutex
	held     map[rune]time.Time
	boost    time.Time
	dragging bool
	lastX    int
	lastY    int
	lookX    float64
	lookY    float64
}

func newTerminalInput() *terminalInput {
	return &terminalInput{held: make(map[rune]time.Time)}
}

var movementKeys = map[rune]bool{
	'w': true, 's': true, 'a': true, 'd': true, 'c': true,
	uv.KeySpace: true,
	uv.KeyLeft:  true, uv.KeyRight: true, uv.KeyUp: true, uv.KeyDown: true,
}

func (in *terminalInput) press(k uv.Key, now time.Time) bool {
	code := unicode.ToLower(k.Code)
	if !movementKeys[code] {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.held[code] = now
	if k.Mod.Contains(uv.ModShift) || unicode.IsUpper(k.Code) {
		in.boost = now
	}
	return true
}

func (in *terminalInput) release(k uv.Key) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.held, unicode.ToLower(k.Code))
}

func (in *terminalInput) mouse(ev uv.Event) {
	in.mu.Lock()
	defer in.mu.Unlock()
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft {
			in.dragging = true
			in.lastX, in.lastY = ev.X, ev.Y
		}
	case uv.MouseReleaseEvent:
		in.dragging = false
	case uv.MouseMotionEvent:
		if in.dragging {
			// Cells are twice as tall as they are wide.
			in.lookX += float64(ev.X - in.lastX)
			in.lookY += float64(ev.Y-in.lastY) * 2
			in.lastX, in.lastY = ev.X, ev.Y
		}
	}
}

// snapshot returns the controls for one frame and resets the look deltas.
func (in *terminalInput) snapshot(now time.Time) render.Input {
	in.mu.Lock()
	defer in.mu.Unlock()
	held := func(code rune) bool {
		t, ok := in.held[code]
		return ok && now.Sub(t) < holdTime
	}
	s := render.Input{
		Forward:   held('w'),
		Back:      held('s'),
		Left:      held('a'),
		Right:     held('d'),
		Up:        held(uv.KeySpace),
		Down:      held('c'),
		Boost:     now.Sub(in.boost) < holdTime,
		TurnLeft:  held(uv.KeyLeft),
		TurnRight: held(uv.KeyRight),
		LookUp:    held(uv.KeyUp),
		LookDown:  held(uv.KeyDown),
		LookX:     in.lookX,
		LookY:     in.lookY,
		Looking:   in.lookX != 0 || in.lookY != 0,
	}
	in.lookX, in.lookY = 0, 0
	return s
}

// keyAction maps a key press to a toggle.
func keyAction(k uv.KeyPressEvent) action {
	switch {
	case k.MatchString("esc", "ctrl+c", "q"):
		return actionQuit
	case k.MatchString("f1"):
		return actionHUD
	case k.MatchString("f4"):
		return actionDepth
	case k.MatchString("f5"):
		return actionRotate
	case k.MatchString("f6"):
		return actionNormalMap
	case k.MatchString("f7"):
		return actionShading
	case k.MatchString("f8"):
		return actionWireframe
	case k.MatchString("f9"):
		return actionBounds
	case k.MatchString("f12", "p"):
		return actionScreenshot
	default:
		return actionNone
	}
}

var hudStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#E8E8E8")).
	Background(lipgloss.Color("#202028")).
	Padding(0, 1)

func runTerminal(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	width, height := render.TerminalFramebufferSize(cols, rows)
	v, err := newViewer(cfg, logger, width, height)
	if err != nil {
		return err
	}
	defer v.close()

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Button-event mouse tracking with SGR coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1002h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	sink := render.NewTerminalSink(term, term.Display)
	sink.Overlay = func(scr uv.Screen) {
		if !v.showHUD {
			return
		}
		area := scr.Bounds()
		area.Min.Y = area.Max.Y - 1
		uv.NewStyledString(hudStyle.Render(v.status())).Draw(scr, area)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := newTerminalInput()
	actions := make(chan action, 16)
	resizes := make(chan uv.WindowSizeEvent, 1)

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case <-resizes:
				default:
				}
				resizes <- ev
			case uv.KeyPressEvent:
				if input.press(uv.Key(ev), time.Now()) {
					continue
				}
				if a := keyAction(ev); a != actionNone {
					select {
					case actions <- a:
					default:
					}
				}
			case uv.KeyReleaseEvent:
				input.release(uv.Key(ev))
			case uv.MouseClickEvent, uv.MouseReleaseEvent, uv.MouseMotionEvent:
				input.mouse(ev)
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Render.FPS))
	defer ticker.Stop()
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-resizes:
			term.Erase()
			term.Resize(ev.Width, ev.Height)
			v.resize(render.TerminalFramebufferSize(ev.Width, ev.Height))

		case a := <-actions:
			if !v.apply(a) {
				cancel()
			}

		case now := <-ticker.C:
			dt := min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			fb := v.frame(dt, input.snapshot(now))
			if err := sink.Present(fb); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
