package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"coolc/internal/ast"
	"coolc/internal/astio"
	"coolc/internal/diag"
	"coolc/internal/diagfmt"
	"coolc/internal/source"
)

var convertLog = commonlog.GetLogger("coolc.convert")

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert an AST dump between text (.ast) and binary (.astb) form",
	Long: `convert reads a dump in either form and writes it in the form selected by
the output extension (.astb selects the binary form). Both forms are
accepted by semant and classes.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	bag := diag.NewBag(1)
	b := ast.NewBuilder(source.NewFileSet(), ast.Hints{})
	prog, err := astio.Read(b, in, data, diag.BagReporter{Bag: bag})
	if err != nil {
		_ = diagfmt.Pretty(cmd.ErrOrStderr(), bag, b.Files, diagfmt.PrettyOpts{Color: useColor()})
		return &exitError{code: 1}
	}

	var encoded []byte
	if astio.IsBinary(out) {
		encoded, err = astio.EncodeBinary(b, prog)
		if err != nil {
			return err
		}
	} else {
		var buf bytes.Buffer
		if err := astio.WriteText(&buf, b, prog, nil); err != nil {
			return err
		}
		encoded = buf.Bytes()
	}
	if err := os.WriteFile(out, encoded, 0o644); err != nil {
		return err
	}
	convertLog.Infof("converted %s (%d bytes) to %s (%d bytes)", in, len(data), out, len(encoded))
	return nil
}
