//go:build !window

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNoWindow = errors.New("built without window support; rebuild with -tags window")

func windowCmd(*globals) *cobra.Command {
	return &cobra.Command{
		Use:   "window [model]",
		Short: "View a model in a desktop window",
		Long:  "Render a model into a desktop window. This binary was built without\nwindow support; rebuild with -tags window.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(*cobra.Command, []string) error {
			return errNoWindow
		},
	}
}
