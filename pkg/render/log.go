package render

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var loggerPtr atomic.Pointer[log.Logger]

func init() {
	loggerPtr.Store(log.New(io.Discard))
}

// SetLogger installs the logger used by the render package.
// By default nothing is logged. Pass nil to restore the silent logger.
//
// Only per-frame and per-mesh events are logged; the pixel loop never logs.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *log.Logger {
	return loggerPtr.Load()
}
