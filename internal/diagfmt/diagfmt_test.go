package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"coolc/internal/diag"
	"coolc/internal/sema"
	"coolc/internal/source"
	"coolc/internal/testkit"
)

func sampleBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	file := fs.Location("dir/over.cl")
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemMethodBodyMismatch, source.LineSpan(file, 20), "In redefined method f, return type Int is different from original return type String.").
		WithNote(source.LineSpan(file, 10), "original method declared here"))
	bag.Add(diag.NewError(diag.SemParentUndefined, source.LineSpan(file, 3), "Class B inherits from an undefined class C."))
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	want := "over.cl:20: error: In redefined method f, return type Int is different from original return type String.\n" +
		"  over.cl:10: note: original method declared here\n" +
		"over.cl:3: error: Class B inherits from an undefined class C.\n"
	if buf.String() != want {
		t.Fatalf("pretty output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyColorAndCodes(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true, ShowCodes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Error("colored output has no escape sequences")
	}
	if !strings.Contains(out, "dir/over.cl") || !strings.Contains(out, "["+diag.SemParentUndefined.ID()+"]") {
		t.Errorf("unexpected output:\n%q", out)
	}
	if strings.Contains(out, "note:") {
		t.Error("notes printed without ShowNotes")
	}
}

func TestPrettyDropped(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	for i := 1; i <= 3; i++ {
		bag.Add(diag.NewError(diag.SemAttrRedefined, source.LineSpan(fs.Location("a.cl"), i), "x"))
	}
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2 more diagnostics not shown") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag()
	files := []FileJSON{
		BuildFileJSON("over.ast", "Compilation halted due to static semantic errors.", bag, fs, JSONOpts{IncludeNotes: true}),
		BuildFileJSON("ok.ast", "", diag.NewBag(0), fs, JSONOpts{}),
	}
	var buf bytes.Buffer
	if err := JSON(&buf, files); err != nil {
		t.Fatal(err)
	}
	var got DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 || len(got.Files) != 2 {
		t.Fatalf("count=%d files=%d", got.Count, len(got.Files))
	}
	first := got.Files[0].Diagnostics[0]
	if first.Location.Line != 20 || first.Severity != "error" || len(first.Notes) != 1 || first.Notes[0].Location.Line != 10 {
		t.Errorf("first diagnostic = %+v", first)
	}
	if got.Files[1].Halted != "" || len(got.Files[1].Diagnostics) != 0 {
		t.Errorf("clean file = %+v", got.Files[1])
	}

	limited := BuildFileJSON("over.ast", "", bag, fs, JSONOpts{Max: 1})
	if len(limited.Diagnostics) != 1 || limited.Diagnostics[0].Notes != nil {
		t.Errorf("limited = %+v", limited)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	if err := Sarif(&buf, []SarifInput{{Bag: bag, Files: fs}}, SarifRunMeta{ToolName: "coolc", ToolVersion: "0.0.1"}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 2 || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("results=%d rules=%d", len(run.Results), len(run.Tool.Driver.Rules))
	}
	if run.Results[0].RelatedLocations[0].PhysicalLocation.Region.StartLine != 10 {
		t.Error("note must become a related location")
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("errors must mark the invocation failed")
	}
}

func TestClassTree(t *testing.T) {
	p := testkit.NewProg("t.cl")
	p.Line(1).MainClass(p.Int(0))
	p.Line(5).Class("Ä", "")
	p.Line(7).Class("B", "Ä")
	bag := diag.NewBag(0)
	res, err := sema.Analyze(p.B, p.Program, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, diag.FormatShort(bag.Items(), p.B.Files))
	}
	var buf bytes.Buffer
	if err := ClassTree(&buf, p.B, res.Hierarchy); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "Object ") {
		t.Fatalf("tree must start at Object:\n%s", buf.String())
	}
	if len(lines) != res.Hierarchy.Len() {
		t.Errorf("lines = %d, classes = %d", len(lines), res.Hierarchy.Len())
	}
	col := -1
	for _, l := range lines {
		idx := strings.Index(l, "<basic class>")
		if idx < 0 {
			idx = strings.Index(l, "t.cl:")
		}
		if idx < 0 {
			t.Fatalf("line without location: %q", l)
		}
		w := runewidth.StringWidth(l[:idx])
		if col >= 0 && w != col {
			t.Errorf("misaligned detail column in %q", l)
		}
		col = w
	}
	if !strings.Contains(buf.String(), "└── B ") {
		t.Errorf("B must be nested under Ä:\n%s", buf.String())
	}
}
