package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"coolc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "coolc",
	Short: "Semantic analyzer for Cool programs",
	Long: `coolc reads the abstract syntax tree produced by a Cool parser,
checks the class hierarchy and the static types of every expression,
and prints the type-annotated tree or the semantic errors it found.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, _ []string) { teardownRun(cmd) },
}

// exitError carries a process exit code; the diagnostics that caused it
// have already been printed.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(semantCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.CountP("verbose", "v", "increase log verbosity (repeatable)")
	pf.String("log-file", "", "write logs to a file instead of stderr")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to keep per file (0=unlimited)")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace mode (stream|ring|both)")
	pf.Int("trace-ring-size", 0, "ring buffer capacity for ring trace mode")
	pf.String("cache-dir", "", "analysis cache directory (default: user cache dir)")
	pf.Bool("no-cache", false, "disable the analysis cache")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	err := rootCmd.Execute()
	// PersistentPostRun не вызывается, если команда вернула ошибку
	teardownRun(rootCmd)
	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
