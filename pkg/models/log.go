package models

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ErrUnsupportedFormat is returned by Load for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// ErrMalformed is returned when a model file parses but its contents are
// inconsistent, such as a face referencing a missing vertex.
var ErrMalformed = errors.New("malformed model")

var loggerPtr atomic.Pointer[log.Logger]

func init() {
	loggerPtr.Store(log.New(io.Discard))
}

// SetLogger installs the logger used by the loaders. Pass nil to silence it.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	loggerPtr.Store(l)
}

func logger() *log.Logger {
	return loggerPtr.Load()
}
