package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"coolc/internal/astio"
	"coolc/internal/diag"
	"coolc/internal/observ"
	"coolc/internal/pipeline"
	"coolc/internal/source"
)

// ListInputs returns every text (.ast) and binary dump under dir, sorted.
func ListInputs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".ast") || strings.HasSuffix(path, astio.BinaryExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every input under dir in parallel. Each file is an
// independent program. Results are in ListInputs order and never nil: a
// file that could not be read, or was skipped because ctx was cancelled,
// yields a result holding one I/O diagnostic. On cancellation the error is
// ctx's.
func AnalyzeDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	files, err := ListInputs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	for _, path := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageRead, Status: pipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log.Infof("analyzing %d files in %s with %d jobs", len(files), dir, min(jobs, len(files)))

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = loadFailure(path, fmt.Errorf("not analyzed: %w", err), opts.MaxDiagnostics)
				pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageRead, Status: pipeline.StatusError, Err: err})
				return err
			}
			res, err := AnalyzeFile(gctx, path, opts)
			if err != nil {
				res = loadFailure(path, err, opts.MaxDiagnostics)
				pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageRead, Status: pipeline.StatusError, Err: err})
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func loadFailure(path string, err error, limit int) *Result {
	res := &Result{
		Path:  path,
		Files: source.NewFileSet(),
		Bag:   diag.NewBag(limit),
		Err:   err,
		Timer: observ.NewTimer(),
	}
	file := res.Files.Location(path)
	res.Bag.Add(diag.LoadFailed(file, err))
	return res
}

// MergeTimers folds the per-file timers of results into one.
func MergeTimers(results []*Result) *observ.Timer {
	total := observ.NewTimer()
	for _, r := range results {
		if r != nil {
			total.Merge(r.Timer)
		}
	}
	return total
}
