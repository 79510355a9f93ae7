package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"coolc/internal/diag"
	"coolc/internal/source"
)

type palette struct {
	loc, err, warn, info, note, code *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		loc:  color.New(color.Bold),
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		note: color.New(color.FgBlue),
		code: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.loc, p.err, p.warn, p.info, p.note, p.code} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<file>:<line>: error: <message> [CODE]
//	  <file>:<line>: note: <note>
//
// Порядок определяется bag.Items().
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		line := fmt.Sprintf("%s: %s %s",
			p.loc.Sprint(location(fs, d.Primary, opts.PathMode)),
			p.severity(d.Severity).Sprint(d.Severity.Label()+":"),
			d.Message)
		if opts.ShowCodes {
			line += " " + p.code.Sprintf("[%s]", d.Code.ID())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s: %s %s\n",
				p.loc.Sprint(location(fs, n.Span, opts.PathMode)),
				p.note.Sprint("note:"),
				n.Msg); err != nil {
				return err
			}
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		_, err := fmt.Fprintf(w, "%s %d more diagnostics not shown\n", p.info.Sprint("..."), dropped)
		return err
	}
	return nil
}

// Short prints the plain "<file>:<line>: <message>" form.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	_, err := io.WriteString(w, diag.FormatShort(bag.Items(), fs))
	return err
}
