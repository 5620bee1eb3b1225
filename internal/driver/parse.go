package driver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"funlang/internal/ast"
	"funlang/internal/buildpipeline"
	"funlang/internal/diag"
	"funlang/internal/lexer"
	"funlang/internal/observ"
	"funlang/internal/parser"
	"funlang/internal/source"
	"funlang/internal/token"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lex     *lexer.Result // nil, если узлы взяты из кэша
	Nodes   []ast.Node
	Names   *source.StringSet
	Bag     *diag.Bag
	Timer   *observ.Timer
	Cached  bool
	// Err is the *parser.Error that stopped the parse; it is also in Bag.
	Err error
}

// OK reports whether the file produced a tree and no error diagnostics.
func (r *ParseResult) OK() bool {
	return r.Err == nil && !r.Bag.HasErrors()
}

// Parse loads, lexes and parses path. A syntax error is not returned: it is
// stored in Err and reported into Bag, and Nodes stays nil.
func Parse(path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	timer := observ.NewTimer()
	opts.emit(path, buildpipeline.StageLoad, buildpipeline.StatusWorking, nil)
	id, err := load(fs, path, timer)
	if err != nil {
		opts.emit(path, buildpipeline.StageLoad, buildpipeline.StatusError, err)
		return nil, err
	}
	return parseLoaded(fs, fs.Get(id), timer, opts), nil
}

// ParseSource runs the pipeline over in-memory content.
func ParseSource(name string, content []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return parseLoaded(fs, fs.Get(id), observ.NewTimer(), opts)
}

func parseLoaded(fs *source.FileSet, file *source.File, timer *observ.Timer, opts Options) *ParseResult {
	log := opts.logger().With(zap.String("path", file.Path))
	res := &ParseResult{FileSet: fs, File: file, Bag: opts.newBag(), Timer: timer}
	defer func() {
		if opts.Timings {
			payload := timingPayload{
				Kind:   "parse",
				Path:   file.Path,
				Bytes:  len(file.Content),
				Nodes:  len(res.Nodes),
				Cached: res.Cached,
				Report: timer.Report(),
			}
			if res.Lex != nil {
				payload.Tokens = len(res.Lex.Tokens)
			}
			appendTimingDiagnostic(res.Bag, payload)
		}
	}()

	key := opts.Cache.Key(file, opts.Entry)
	if opts.Cache != nil {
		opts.emit(file.Path, buildpipeline.StageCache, buildpipeline.StatusWorking, nil)
		idx := timer.Begin("cache")
		nodes, names, ok := lookupCache(opts.Cache, key, file, log)
		if ok {
			timer.End(idx, "hit")
			res.Nodes, res.Names, res.Cached = nodes, names, true
			opts.emit(file.Path, buildpipeline.StageCache, buildpipeline.StatusCached, nil)
			return res
		}
		timer.End(idx, "miss")
	}

	lx := lexFile(file, res.Bag, timer, opts)
	res.Lex = lx
	lexClean := res.Bag.Len() == 0 && res.Bag.Dropped() == 0

	opts.emit(file.Path, buildpipeline.StageParse, buildpipeline.StatusWorking, nil)
	idx := timer.Begin("parse")
	pr, err := parser.Parse(lx, parser.Options{Entry: opts.Entry})
	if err != nil {
		timer.End(idx, "failed")
		res.Err = err
		reportParseError(res.Bag, file, lx, err)
		log.Debug("parse failed", zap.Error(err))
		opts.emit(file.Path, buildpipeline.StageParse, buildpipeline.StatusError, err)
		return res
	}
	timer.End(idx, fmt.Sprintf("%d nodes", len(pr.Nodes)))
	res.Nodes, res.Names = pr.Nodes, pr.Names
	log.Debug("parsed",
		zap.Int("nodes", len(pr.Nodes)),
		zap.Uint32("names", pr.Names.Len()),
		zap.Duration("elapsed", timer.Duration("parse")),
	)

	// с диагностиками лексера не кэшируем: при попадании их нечем было бы показать
	if opts.Cache != nil && lexClean {
		storeCache(opts.Cache, key, file, res, opts.Entry, log)
	}
	opts.emit(file.Path, buildpipeline.StageParse, buildpipeline.StatusDone, nil)
	return res
}

func reportParseError(bag *diag.Bag, file *source.File, lx *lexer.Result, err error) {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		bag.Push(diag.NewError(diag.SynUnexpectedToken, source.At(file.ID, 0, 0), err.Error()))
		return
	}
	width := uint32(0)
	if int(perr.Index) < len(lx.Tokens) {
		width = tokenWidth(lx.Tokens[perr.Index])
	}
	bag.Push(diag.NewError(perr.Code, source.At(file.ID, perr.Pos, width), perr.Message()))
}

// tokenWidth is the source length of tok where it can be derived from the token alone.
func tokenWidth(tok token.Token) uint32 {
	switch k := tok.Kind(); {
	case k == token.ValID || k == token.TypeID:
		return uint32(tok.Intern().Len)
	case k.IsKeyword():
		return uint32(len(k.String())) // #nosec G115 -- keyword text is short
	default:
		return 1
	}
}
