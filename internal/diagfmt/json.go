package diagfmt

import (
	"encoding/json"
	"io"

	"coolc/internal/diag"
	"coolc/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FileJSON groups the diagnostics of one analyzed input.
type FileJSON struct {
	Path        string           `json:"path"`
	Halted      string           `json:"halted,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	return LocationJSON{File: displayName(fs, span.File, mode), Line: span.Line}
}

// BuildFileJSON converts the diagnostics of one input. halted is the halt
// message, empty when analysis succeeded.
func BuildFileJSON(path, halted string, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) FileJSON {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := FileJSON{Path: path, Halted: halted, Diagnostics: make([]DiagnosticJSON, 0, n)}
	for i := range n {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: note.Msg, Location: makeLocation(note.Span, fs, opts.PathMode)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes files as one indented document.
func JSON(w io.Writer, files []FileJSON) error {
	out := DiagnosticsOutput{Files: files}
	if out.Files == nil {
		out.Files = []FileJSON{}
	}
	for _, f := range files {
		out.Count += len(f.Diagnostics)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
