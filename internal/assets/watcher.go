// Package assets watches texture files and reloads them when they change on
// disk, so a running viewer can pick up edits between frames.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/taigrr/softrast/pkg/render"
)

// Reload is one reload attempt. Err is set when the file could not be
// decoded, typically because it was caught half-written; a later write
// produces another Reload.
type Reload struct {
	Path    string
	Texture *render.Texture
	Err     error
}

// Watcher reloads textures when their files are written.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]struct{}
	reloads chan Reload
	done    chan struct{}
	wg      sync.WaitGroup
	log     *log.Logger

	closeOnce sync.Once
}

// NewWatcher watches the given texture files. Directories are watched
// rather than files so editors that replace a file on save are still seen.
// Empty paths are skipped.
func NewWatcher(logger *log.Logger, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		fs:      fsw,
		files:   make(map[string]struct{}),
		reloads: make(chan Reload, 4),
		done:    make(chan struct{}),
		log:     logger,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Reloads delivers reloaded textures. The channel is closed by Close.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.reloads)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if _, watched := w.files[path]; !watched {
				continue
			}
			r := Reload{Path: path}
			r.Texture, r.Err = render.LoadTexture(path)
			if r.Err != nil {
				w.log.Debug("texture reload failed", "path", path, "err", r.Err)
			} else {
				w.log.Info("texture reloaded", "path", path)
			}
			select {
			case w.reloads <- r:
			case <-w.done:
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("watcher error", "err", err)
			}

		case <-w.done:
			return
		}
	}
}

// Bindings maps watched paths to the texture slots they fill.
type Bindings map[string]**render.Texture

// Bind returns bindings for every texture path of a material, resolving the
// paths the same way NewWatcher does.
func Bind(mat *render.Material, diffuse, normal, gloss, specular string) Bindings {
	b := make(Bindings)
	for _, s := range []struct {
		path string
		slot **render.Texture
	}{
		{diffuse, &mat.Diffuse},
		{normal, &mat.Normal},
		{gloss, &mat.Gloss},
		{specular, &mat.Specular},
	} {
		if s.path == "" {
			continue
		}
		if abs, err := filepath.Abs(s.path); err == nil {
			b[abs] = s.slot
		}
	}
	return b
}

// Apply drains pending reloads without blocking and swaps successfully
// decoded textures into their slots. It reports whether anything changed.
func (b Bindings) Apply(reloads <-chan Reload) bool {
	changed := false
	for {
		select {
		case r, ok := <-reloads:
			if !ok {
				return changed
			}
			if r.Err != nil {
				continue
			}
			if slot, found := b[r.Path]; found {
				*slot = r.Texture
				changed = true
			}
		default:
			return changed
		}
	}
}
