// Package main provides the entry point for the ingest CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/ingest/cmd/ingest/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.Exit(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	err = application.Execute(ctx, os.Args[1:])
	cancel()
	app.Exit(err)
}
