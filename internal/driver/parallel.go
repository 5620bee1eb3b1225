package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"funlang/internal/ast"
	"funlang/internal/buildpipeline"
	"funlang/internal/diag"
	"funlang/internal/observ"
	"funlang/internal/source"
)

// SourceExt is the extension ParseDir picks up.
const SourceExt = ".fl"

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path   string // путь в том виде, в каком его вернул обход каталога
	FileID source.FileID
	Nodes  []ast.Node
	Names  *source.StringSet
	Bag    *diag.Bag
	Timer  *observ.Timer
	Cached bool
	Err    error // ошибка загрузки или *parser.Error
}

// ListSourceFiles возвращает отсортированный список всех *.fl файлов в директории
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir парсит все *.fl файлы в директории параллельно. Results follow
// the sorted file order; every file gets its own bag and name set.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}
	if opts.BaseDir == "" {
		opts.BaseDir = dir
	}
	log := opts.logger()
	buildpipeline.EmitQueued(opts.Progress, buildpipeline.NormalizeProgressFiles(files, opts.BaseDir))

	// Предзагрузка последовательно: FileSet не потокобезопасен
	timers := make([]*observ.Timer, len(files))
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		timers[i] = observ.NewTimer()
		fileID, loadErr := load(fileSet, path, timers[i])
		if loadErr != nil {
			loadErrors[i] = loadErr
			continue
		}
		fileIDs[i] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log.Debug("parse dir", zap.String("dir", dir), zap.Int("files", len(files)), zap.Int("jobs", jobs))

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]ParseDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			timer := timers[i]
			if loadErr, hadError := loadErrors[i]; hadError {
				bag := opts.newBag()
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, loadErr.Error()))
				results[i] = ParseDirResult{Path: path, Bag: bag, Timer: timer, Err: loadErr}
				opts.emit(path, buildpipeline.StageLoad, buildpipeline.StatusError, loadErr)
				return nil
			}

			res := parseLoaded(fileSet, fileSet.Get(fileIDs[i]), timer, opts)
			results[i] = ParseDirResult{
				Path:   path,
				FileID: res.File.ID,
				Nodes:  res.Nodes,
				Names:  res.Names,
				Bag:    res.Bag,
				Timer:  timer,
				Cached: res.Cached,
				Err:    res.Err,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// SumTimings adds up the phase durations of every result by stage.
func SumTimings(results []ParseDirResult) buildpipeline.Timings {
	var t buildpipeline.Timings
	for _, r := range results {
		if r.Timer == nil {
			continue
		}
		for _, p := range r.Timer.Phases() {
			t.Add(buildpipeline.Stage(p.Name), p.Dur)
		}
	}
	return t
}
