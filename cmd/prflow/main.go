// Package main provides the entry point for the prflow CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/prflow/internal/cli"
	"github.com/mrz1836/prflow/internal/signal"
)

// Build information set via ldflags.
//
//nolint:gochecknoglobals // Set at build time
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()

	err := cli.Execute(handler.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if handler.WasInterrupted() {
		fmt.Fprintln(os.Stderr, "interrupted; any stashed changes were preserved")
	}
	handler.Stop()
	os.Exit(cli.ExitCodeForError(err))
}
