// Package driver runs the semantic analyzer over AST dump files: it reads
// the input, builds the class hierarchy, type checks it and optionally
// renders the annotated tree. Results may be served from a disk Cache.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"coolc/internal/ast"
	"coolc/internal/astio"
	"coolc/internal/diag"
	"coolc/internal/observ"
	"coolc/internal/pipeline"
	"coolc/internal/sema"
	"coolc/internal/source"
	"coolc/internal/trace"
)

type Options struct {
	MaxDiagnostics int
	Jobs           int
	Tracer         trace.Tracer
	Progress       pipeline.ProgressSink
	Cache          *Cache
	// EmitAST renders the type-annotated tree into Result.Annotated when
	// analysis succeeds.
	EmitAST bool
}

// Result is the outcome of analyzing one input.
type Result struct {
	Path      string
	Builder   *ast.Builder
	Program   *ast.Program
	Sema      sema.Result
	Bag       *diag.Bag
	Files     *source.FileSet
	Err       error
	Annotated []byte
	Timer     *observ.Timer
	// Cached results carry diagnostics and output only; Builder and
	// Program are nil.
	Cached bool
}

// Halted reports whether analysis stopped at a checkpoint.
func (r *Result) Halted() bool {
	var halt *sema.HaltError
	return errors.As(r.Err, &halt)
}

// Stage returns the checkpoint analysis halted at, or 0.
func (r *Result) Stage() sema.Stage {
	var halt *sema.HaltError
	if errors.As(r.Err, &halt) {
		return halt.Stage
	}
	return 0
}

// AnalyzeFile reads path and analyzes it.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return AnalyzeSource(ctx, path, data, opts), nil
}

// AnalyzeSource analyzes an in-memory dump. name selects the decoder
// (text or binary) and is the location of syntax diagnostics.
func AnalyzeSource(ctx context.Context, name string, content []byte, opts Options) *Result {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	span := trace.Begin(tracer, trace.ScopeFile, name, 0).WithExtra("bytes", strconv.Itoa(len(content)))
	res := &Result{Path: name, Timer: observ.NewTimer()}
	defer func() {
		detail := "ok"
		if res.Err != nil {
			detail = res.Err.Error()
		}
		span.End(detail)
	}()

	var key Digest
	if opts.Cache != nil {
		key = opts.Cache.Key(name, content)
		entry, ok, err := opts.Cache.get(key)
		switch {
		case err != nil:
			log.Warningf("cache: %v", err)
		case ok && (entry.Emitted || entry.Stage != 0 || !opts.EmitAST):
			entry.restore(res, opts.MaxDiagnostics)
			if !opts.EmitAST {
				res.Annotated = nil
			}
			log.Debugf("cache hit for %s (%s)", name, key)
			trace.Point(tracer, trace.ScopeFile, "cache-hit", key.String()[:12], span.ID())
			pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: pipeline.StageEmit, Status: pipeline.StatusCached})
			return res
		}
	}

	res.Files = source.NewFileSet()
	res.Bag = diag.NewBag(opts.MaxDiagnostics)
	res.Builder = ast.NewBuilder(res.Files, ast.Hints{})
	rep := diag.BagReporter{Bag: res.Bag}

	run := func(stage pipeline.Stage, fn func() error) error {
		pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: stage, Status: pipeline.StatusWorking})
		start := time.Now()
		err := res.Timer.Track(string(stage), fn)
		if err != nil {
			pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: stage, Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start)})
		}
		return err
	}

	res.Err = run(pipeline.StageRead, func() error {
		data := content
		if !astio.IsBinary(name) {
			data, _ = source.Normalize(content)
		}
		prog, err := astio.Read(res.Builder, name, data, rep)
		if err != nil {
			return &sema.HaltError{Stage: sema.StageSyntax, Errors: res.Bag.ErrorCount()}
		}
		res.Program = prog
		return nil
	})

	var h *sema.Hierarchy
	if res.Err == nil {
		res.Err = run(pipeline.StageHierarchy, func() error {
			var err error
			h, err = sema.BuildHierarchy(res.Builder, res.Program, rep)
			return err
		})
	}
	if res.Err == nil {
		res.Err = run(pipeline.StageTypeCheck, func() error {
			var err error
			res.Sema, err = sema.TypeCheck(res.Builder, h, sema.Options{
				Reporter:   rep,
				Tracer:     tracer,
				ParentSpan: span.ID(),
			})
			return err
		})
	}
	if res.Err == nil && opts.EmitAST {
		res.Err = run(pipeline.StageEmit, func() error {
			var buf bytes.Buffer
			if err := astio.WriteText(&buf, res.Builder, res.Program, res.Sema.TypeOf); err != nil {
				return err
			}
			res.Annotated = buf.Bytes()
			return nil
		})
	}
	if res.Err == nil {
		pipeline.Emit(opts.Progress, pipeline.Event{File: name, Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
	}

	if opts.Cache != nil && (res.Err == nil || res.Halted()) {
		if err := opts.Cache.put(key, entryFromResult(res)); err != nil {
			log.Warningf("cache: store %s: %v", name, err)
		}
	}
	return res
}
