// Package driver runs the front end over files on disk: load, lex, parse,
// with optional disk caching, timings and progress events.
package driver

import (
	"math"

	"go.uber.org/zap"

	"funlang/internal/buildpipeline"
	"funlang/internal/diag"
	"funlang/internal/parser"
	"funlang/internal/source"
)

// Options control one driver call. The zero value lexes and parses a file
// entry with unlimited diagnostics and no cache.
type Options struct {
	MaxDiagnostics int // 0: без ограничения
	Jobs           int // 0: GOMAXPROCS
	Entry          parser.Entry
	Cache          *DiskCache
	Logger         *zap.Logger
	Progress       buildpipeline.ProgressSink
	// BaseDir shortens file names in progress events.
	BaseDir string
	// Timings appends an ObsTimings diagnostic with the phase report.
	Timings bool
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) newBag() *diag.Bag {
	if o.MaxDiagnostics <= 0 || o.MaxDiagnostics > math.MaxUint16 {
		return diag.NewBag(math.MaxUint16)
	}
	return diag.NewBag(o.MaxDiagnostics)
}

// reporter feeds bag and, with debug logging on, the log as well.
func (o Options) reporter(bag *diag.Bag, path string) diag.Reporter {
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if log := o.logger(); log.Core().Enabled(zap.DebugLevel) {
		rep = diag.MultiReporter{rep, logReporter{log: log, path: path}}
	}
	return rep
}

type logReporter struct {
	log  *zap.Logger
	path string
}

func (r logReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.log.Debug("diagnostic",
		zap.String("path", r.path),
		zap.String("code", code.ID()),
		zap.String("severity", sev.Label()),
		zap.Uint32("start", primary.Start),
		zap.Uint32("end", primary.End),
		zap.String("msg", msg),
		zap.Int("notes", len(notes)),
	)
}

func (o Options) emit(file string, stage buildpipeline.Stage, status buildpipeline.Status, err error) {
	buildpipeline.Emit(o.Progress, buildpipeline.Event{
		File:   buildpipeline.DisplayPath(file, o.BaseDir),
		Stage:  stage,
		Status: status,
		Err:    err,
	})
}
