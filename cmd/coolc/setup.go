package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"coolc/internal/prof"
	"coolc/internal/project"
	"coolc/internal/trace"
)

var (
	manifest     *project.Manifest
	traceCleanup = func() {}
	profiling    *prof.Session
)

// setupRun runs before every command: it loads coolc.toml, configures
// logging and color, then installs the tracer.
func setupRun(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()

	m, ok, err := project.LoadManifest(".")
	if err != nil {
		return err
	}
	if ok {
		manifest = m
	}

	verbose, _ := pf.GetCount("verbose")
	quiet, _ := pf.GetBool("quiet")
	logFile, _ := pf.GetString("log-file")
	verbosity := verbose
	if quiet {
		verbosity = -1
	}
	var logPath *string
	if logFile != "" {
		logPath = &logFile
	}
	commonlog.Configure(verbosity, logPath)

	colorFlag, _ := pf.GetString("color")
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup

	var pc prof.Config
	pc.CPU, _ = pf.GetString("cpuprofile")
	pc.Mem, _ = pf.GetString("memprofile")
	pc.Trace, _ = pf.GetString("runtime-trace")
	if pc.Enabled() {
		if profiling, err = prof.Start(pc); err != nil {
			return err
		}
	}
	return nil
}

func teardownRun(cmd *cobra.Command) {
	if err := profiling.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	profiling = nil
	traceCleanup()
	traceCleanup = func() {}
}

// useColor reports whether diagnostics go out colored.
func useColor() bool { return !color.NoColor }

// dumpTraceOnPanic flushes the ring buffer, if any, when a command panics.
func dumpTraceOnPanic(cmd *cobra.Command) {
	r := recover()
	if r == nil {
		return
	}
	if multi, ok := trace.FromContext(cmd.Context()).(*trace.MultiTracer); ok && multi.Ring() != nil {
		fmt.Fprintln(os.Stderr, "trace: last events before panic:")
		_ = multi.Ring().Dump(os.Stderr, trace.FormatText)
	} else if ring, ok := trace.FromContext(cmd.Context()).(*trace.RingTracer); ok {
		fmt.Fprintln(os.Stderr, "trace: last events before panic:")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
