// Package logging builds the charmbracelet loggers shared by the softrast
// commands.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error" or "fatal"). Debug loggers also report the caller.
func New(w io.Writer, level, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		ReportCaller:    lvl <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
	}), nil
}
