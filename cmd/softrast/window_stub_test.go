//go:build !window

package main

import (
	"errors"
	"io"
	"testing"
)

func TestWindowCommandWithoutSupport(t *testing.T) {
	model := writeModel(t)
	root := rootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"window", model})
	if err := root.Execute(); !errors.Is(err, errNoWindow) {
		t.Fatalf("window: err = %v, want %v", err, errNoWindow)
	}
}
