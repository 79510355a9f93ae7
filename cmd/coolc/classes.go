package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coolc/internal/ast"
	"coolc/internal/astio"
	"coolc/internal/diag"
	"coolc/internal/diagfmt"
	"coolc/internal/sema"
	"coolc/internal/source"
)

var classesCmd = &cobra.Command{
	Use:   "classes <file.ast|file.astb>",
	Short: "Print the inheritance tree of a program",
	Args:  cobra.ExactArgs(1),
	RunE:  runClasses,
}

func runClasses(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	maxDiags, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiags)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(source.NewFileSet(), ast.Hints{})

	prog, err := astio.Read(b, path, data, rep)
	if err == nil {
		var h *sema.Hierarchy
		if h, err = sema.BuildHierarchy(b, prog, rep); err == nil {
			return diagfmt.ClassTree(cmd.OutOrStdout(), b, h)
		}
	}
	if ferr := diagfmt.Pretty(cmd.ErrOrStderr(), bag, b.Files, diagfmt.PrettyOpts{Color: useColor(), ShowNotes: true}); ferr != nil {
		return ferr
	}
	return &exitError{code: 1}
}
