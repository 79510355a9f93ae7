package sema_test

import (
	"errors"
	"strings"
	"testing"

	"coolc/internal/diag"
	"coolc/internal/sema"
	"coolc/internal/testkit"
)

type outcome struct {
	res  sema.Result
	bag  *diag.Bag
	err  error
	prog *testkit.Prog
}

func analyze(t *testing.T, p *testkit.Prog) outcome {
	t.Helper()
	bag := diag.NewBag(0)
	res, err := sema.Analyze(p.B, p.Program, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	return outcome{res: res, bag: bag, err: err, prog: p}
}

func (o outcome) short() string {
	return diag.FormatShort(o.bag.Items(), o.prog.B.Files)
}

func (o outcome) stage(t *testing.T) sema.Stage {
	t.Helper()
	var halt *sema.HaltError
	if !errors.As(o.err, &halt) {
		t.Fatalf("expected *HaltError, got %v\n%s", o.err, o.short())
	}
	return halt.Stage
}

func (o outcome) ok(t *testing.T) {
	t.Helper()
	if o.err != nil {
		t.Fatalf("unexpected failure: %v\n%s", o.err, o.short())
	}
	if err := testkit.CheckFullyTyped(o.prog.B, o.prog.Program, o.res); err != nil {
		t.Fatal(err)
	}
}

// wantOnly asserts exactly one diagnostic containing substr.
func (o outcome) wantOnly(t *testing.T, substr string) {
	t.Helper()
	items := o.bag.Items()
	if len(items) != 1 {
		t.Fatalf("want 1 diagnostic containing %q, got %d:\n%s", substr, len(items), o.short())
	}
	if !strings.Contains(items[0].Message, substr) {
		t.Fatalf("diagnostic %q does not contain %q", items[0].Message, substr)
	}
}

func (o outcome) want(t *testing.T, substr string) {
	t.Helper()
	for _, d := range o.bag.Items() {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Fatalf("no diagnostic contains %q:\n%s", substr, o.short())
}
