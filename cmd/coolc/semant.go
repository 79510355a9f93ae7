package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coolc/internal/diagfmt"
	"coolc/internal/driver"
	"coolc/internal/trace"
	"coolc/internal/version"
)

var semantCmd = &cobra.Command{
	Use:   "semant [flags] [file.ast|file.astb|directory]...",
	Short: "Check an AST dump and print the type-annotated tree",
	Long: `semant runs semantic analysis on one or more AST dumps. With a single
file, the annotated tree goes to stdout and errors to stderr. Directories
are analyzed in parallel, one program per file. Without arguments the
inputs listed in coolc.toml are used.`,
	RunE: runSemant,
}

func init() {
	semantCmd.Flags().String("format", "short", "diagnostic format (short|pretty|json|sarif)")
	semantCmd.Flags().String("emit", "ast", "output on success (ast|none)")
	semantCmd.Flags().String("out-dir", "", "write annotated trees into this directory")
	semantCmd.Flags().Bool("with-notes", true, "include diagnostic notes")
	semantCmd.Flags().Bool("codes", false, "show diagnostic codes in pretty output")
	semantCmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	semantCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
}

type semantSettings struct {
	format    string
	emit      bool
	outDir    string
	withNotes bool
	codes     bool
	jobs      int
	maxDiags  int
	ui        uiMode
	quiet     bool
	timings   bool
	cacheDir  string
	useCache  bool
}

func readSemantSettings(cmd *cobra.Command) (semantSettings, error) {
	var s semantSettings
	f := cmd.Flags()
	pf := cmd.Root().PersistentFlags()

	s.format, _ = f.GetString("format")
	emit, _ := f.GetString("emit")
	s.outDir, _ = f.GetString("out-dir")
	s.withNotes, _ = f.GetBool("with-notes")
	s.codes, _ = f.GetBool("codes")
	s.jobs, _ = f.GetInt("jobs")
	uiValue, _ := f.GetString("ui")
	s.maxDiags, _ = pf.GetInt("max-diagnostics")
	s.quiet, _ = pf.GetBool("quiet")
	s.timings, _ = pf.GetBool("timings")
	s.cacheDir, _ = pf.GetString("cache-dir")
	noCache, _ := pf.GetBool("no-cache")

	if manifest != nil {
		a := manifest.Config.Analysis
		if !f.Changed("format") && a.Format != "" {
			s.format = a.Format
		}
		if !f.Changed("jobs") && a.Jobs > 0 {
			s.jobs = a.Jobs
		}
		if !pf.Changed("max-diagnostics") && a.MaxDiagnostics > 0 {
			s.maxDiags = a.MaxDiagnostics
		}
		if !f.Changed("emit") && a.Emit != "" {
			emit = a.Emit
		}
		if !pf.Changed("cache-dir") && manifest.Config.Cache.Enabled {
			s.cacheDir = manifest.CacheDir()
			s.useCache = true
		}
	}
	if s.cacheDir != "" {
		s.useCache = true
	}
	if noCache {
		s.useCache = false
	}

	switch s.format {
	case "short", "pretty", "json", "sarif":
	default:
		return s, fmt.Errorf("unknown format %q (expected short|pretty|json|sarif)", s.format)
	}
	switch emit {
	case "ast":
		s.emit = true
	case "none":
	default:
		return s, fmt.Errorf("unknown --emit value %q (expected ast|none)", emit)
	}
	var err error
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	return s, nil
}

func runSemant(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	s, err := readSemantSettings(cmd)
	if err != nil {
		return err
	}
	inputs := args
	if len(inputs) == 0 && manifest != nil {
		inputs = manifest.InputPaths()
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs: pass a file or directory, or list [project].inputs in coolc.toml")
	}

	ctx := cmd.Context()
	opts := driver.Options{
		MaxDiagnostics: s.maxDiags,
		Jobs:           s.jobs,
		Tracer:         trace.FromContext(ctx),
		EmitAST:        s.emit,
	}
	if s.useCache {
		if opts.Cache, err = driver.OpenCache(s.cacheDir); err != nil {
			return err
		}
	}

	var results []*driver.Result
	for _, in := range inputs {
		st, err := os.Stat(in)
		if err != nil {
			return err
		}
		if !st.IsDir() {
			res, err := driver.AnalyzeFile(ctx, in, opts)
			if err != nil {
				return err
			}
			results = append(results, res)
			continue
		}
		files, err := driver.ListInputs(in)
		if err != nil {
			return err
		}
		var dirResults []*driver.Result
		if shouldUseTUI(s, len(files)) {
			dirResults, err = analyzeDirWithUI(ctx, in, files, opts)
		} else {
			dirResults, err = driver.AnalyzeDir(ctx, in, opts)
		}
		if err != nil {
			return err
		}
		results = append(results, dirResults...)
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if err := reportResults(out, errOut, results, s); err != nil {
		return err
	}
	if err := emitAnnotated(out, results, s); err != nil {
		return err
	}
	if s.timings {
		if err := printTimings(errOut, results, s.format == "json"); err != nil {
			return err
		}
	}

	for _, r := range results {
		if r.Err != nil {
			return &exitError{code: 1}
		}
	}
	return nil
}

func reportResults(out, errOut io.Writer, results []*driver.Result, s semantSettings) error {
	switch s.format {
	case "json":
		files := make([]diagfmt.FileJSON, 0, len(results))
		for _, r := range results {
			halted := ""
			if r.Err != nil {
				halted = r.Err.Error()
			}
			files = append(files, diagfmt.BuildFileJSON(r.Path, halted, r.Bag, r.Files, diagfmt.JSONOpts{IncludeNotes: s.withNotes}))
		}
		return diagfmt.JSON(out, files)
	case "sarif":
		inputs := make([]diagfmt.SarifInput, 0, len(results))
		for _, r := range results {
			inputs = append(inputs, diagfmt.SarifInput{Bag: r.Bag, Files: r.Files})
		}
		return diagfmt.Sarif(out, inputs, diagfmt.SarifRunMeta{
			ToolName:       "coolc",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	}

	for _, r := range results {
		var err error
		if s.format == "pretty" {
			err = diagfmt.Pretty(errOut, r.Bag, r.Files, diagfmt.PrettyOpts{Color: useColor(), ShowNotes: s.withNotes, ShowCodes: s.codes})
		} else {
			err = diagfmt.Short(errOut, r.Bag, r.Files)
		}
		if err != nil {
			return err
		}
		if r.Halted() {
			msg := r.Err.Error()
			if len(results) > 1 {
				msg = r.Path + ": " + msg
			}
			if _, err := fmt.Fprintln(errOut, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitAnnotated writes annotated trees: into --out-dir when given, else to
// stdout for a single textual run.
func emitAnnotated(out io.Writer, results []*driver.Result, s semantSettings) error {
	if !s.emit {
		return nil
	}
	if s.outDir == "" {
		if len(results) != 1 || s.format == "json" || s.format == "sarif" {
			return nil
		}
		_, err := out.Write(results[0].Annotated)
		return err
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return err
	}
	for _, r := range results {
		if r.Annotated == nil {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path)) + ".typed.ast"
		if err := os.WriteFile(filepath.Join(s.outDir, name), r.Annotated, 0o644); err != nil {
			return err
		}
	}
	return nil
}
