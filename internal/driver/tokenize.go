package driver

import (
	"fmt"

	"go.uber.org/zap"

	"funlang/internal/buildpipeline"
	"funlang/internal/diag"
	"funlang/internal/lexer"
	"funlang/internal/observ"
	"funlang/internal/source"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lex     *lexer.Result
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Tokenize loads path and lexes it. Only I/O failures are returned as
// errors; malformed input ends up in the bag.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	timer := observ.NewTimer()
	opts.emit(path, buildpipeline.StageLoad, buildpipeline.StatusWorking, nil)
	id, err := load(fs, path, timer)
	if err != nil {
		opts.emit(path, buildpipeline.StageLoad, buildpipeline.StatusError, err)
		return nil, err
	}
	file := fs.Get(id)
	bag := opts.newBag()
	lx := lexFile(file, bag, timer, opts)
	opts.emit(path, buildpipeline.StageLex, buildpipeline.StatusDone, nil)
	if opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{
			Kind:   "tokenize",
			Path:   file.Path,
			Bytes:  len(file.Content),
			Tokens: len(lx.Tokens),
			Report: timer.Report(),
		})
	}
	return &TokenizeResult{FileSet: fs, File: file, Lex: lx, Bag: bag, Timer: timer}, nil
}

func load(fs *source.FileSet, path string, timer *observ.Timer) (source.FileID, error) {
	idx := timer.Begin("load")
	id, err := fs.Load(path)
	if err != nil {
		timer.End(idx, "failed")
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	timer.End(idx, fmt.Sprintf("%d bytes", len(fs.Get(id).Content)))
	return id, nil
}

func lexFile(file *source.File, bag *diag.Bag, timer *observ.Timer, opts Options) *lexer.Result {
	opts.emit(file.Path, buildpipeline.StageLex, buildpipeline.StatusWorking, nil)
	idx := timer.Begin("lex")
	lx := lexer.Lex(file, lexer.Options{Reporter: opts.reporter(bag, file.Path)})
	timer.End(idx, fmt.Sprintf("%d tokens", len(lx.Tokens)))
	opts.logger().Debug("lexed",
		zap.String("path", file.Path),
		zap.Int("tokens", len(lx.Tokens)),
		zap.Int("literals", len(lx.Lits)),
		zap.Duration("elapsed", timer.Duration("lex")),
	)
	return lx
}
