package main

import (
	"context"
	"os"

	"funlang/internal/buildpipeline"
	"funlang/internal/driver"
	"funlang/internal/source"
	"funlang/internal/ui"
)

type parseDirOutcome struct {
	fs      *source.FileSet
	results []driver.ParseDirResult
	err     error
}

// parseDirWithUI runs driver.ParseDir in the background while the progress
// view consumes its events.
func parseDirWithUI(ctx context.Context, dir string, files []string, opts driver.Options) (*source.FileSet, []driver.ParseDirResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan parseDirOutcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		fs, results, err := driver.ParseDir(ctx, dir, opts)
		outcomeCh <- parseDirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	uiErr := ui.Run("parse "+dir, files, events, os.Stderr)
	// вид мог выйти раньше (Ctrl-C): не даём воркерам зависнуть на полном канале
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
