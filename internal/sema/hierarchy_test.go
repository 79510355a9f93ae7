package sema_test

import (
	"strings"
	"testing"

	"coolc/internal/diag"
	"coolc/internal/sema"
	"coolc/internal/testkit"
	"coolc/internal/types"
)

func TestMissingMainIsSingleDiagnostic(t *testing.T) {
	p := testkit.NewProg("nomain.cl")
	p.Line(4).Class("A", "")
	o := analyze(t, p)
	if o.stage(t).Pass() != 1 {
		t.Errorf("missing Main must fail in pass 1, got %v", o.stage(t))
	}
	o.wantOnly(t, "Class Main is not defined.")
}

func TestInheritanceCycleReported(t *testing.T) {
	p := testkit.NewProg("cycle.cl")
	p.MainClass(p.Int(0))
	p.Line(5).Class("A", "B")
	p.Line(9).Class("B", "A")
	o := analyze(t, p)
	if got := o.stage(t); got != sema.StageHierarchy {
		t.Errorf("stage = %v", got)
	}
	want := "cycle.cl:5: Class A has an inheritance cycle\ncycle.cl:9: Class B has an inheritance cycle\n"
	if got := o.short(); got != want {
		t.Errorf("diagnostics:\n%s\nwant:\n%s", got, want)
	}
	if !strings.Contains(o.err.Error(), "static semantic errors") {
		t.Errorf("halt message = %q", o.err.Error())
	}
}

func TestCycleAboveClassTerminates(t *testing.T) {
	p := testkit.NewProg("cycle.cl")
	p.MainClass(p.Int(0))
	p.Line(2).Class("C", "A")
	p.Line(3).Class("A", "B")
	p.Line(4).Class("B", "A")
	o := analyze(t, p)
	o.stage(t)
	if o.bag.Len() != 2 {
		t.Fatalf("want cycle errors for A and B only:\n%s", o.short())
	}
	for _, d := range o.bag.Items() {
		if strings.Contains(d.Message, "Class C") {
			t.Errorf("C is not on the cycle: %s", d.Message)
		}
	}
}

func TestClassRulesBatchAndHaltBeforeInjection(t *testing.T) {
	p := testkit.NewProg("rules.cl")
	p.Line(1).Class("SELF_TYPE", "")
	p.Line(2).Class("Int", "")
	p.Line(3).Class("C", "C")
	p.Line(4).Class("D", "Bool")
	p.Line(5).Class("E", "SELF_TYPE")
	p.Line(6).MainClass(p.Int(1))
	p.Line(7).MainClass(p.Int(2))
	before := len(p.Program.Classes)

	o := analyze(t, p)
	if got := o.stage(t); got != sema.StageClassRules {
		t.Fatalf("stage = %v", got)
	}
	want := strings.Join([]string{
		"rules.cl:1: SELF_TYPE cannot be used as a class name",
		"rules.cl:2: Class Int is a built-in class and cannot be redefined",
		"rules.cl:3: Class C cannot inherit from itself",
		"rules.cl:4: Class D cannot inherit from Bool",
		"rules.cl:5: Class E cannot inherit from itself",
		"rules.cl:7: Class Main already defined",
	}, "\n") + "\n"
	if got := o.short(); got != want {
		t.Errorf("diagnostics:\n%s\nwant:\n%s", got, want)
	}
	if len(p.Program.Classes) != before {
		t.Error("built-ins must not be injected when class rules fail")
	}
	if o.err.Error() != "Compilation halted due to lex and syntax errors" {
		t.Errorf("halt message = %q", o.err.Error())
	}
}

func TestUndefinedParent(t *testing.T) {
	p := testkit.NewProg("parent.cl")
	p.MainClass(p.Int(0))
	p.Line(3).Class("A", "Z")
	o := analyze(t, p)
	o.wantOnly(t, "Class A cannot inherit from Z because Z is not defined")
	if o.bag.Items()[0].Code != diag.SemParentUndefined {
		t.Errorf("code = %v", o.bag.Items()[0].Code)
	}
}

func buildValid(t *testing.T) (*testkit.Prog, *sema.Hierarchy) {
	t.Helper()
	p := testkit.NewProg("tree.cl")
	p.Class("Main", "IO", p.Method("main", nil, "Object", p.Int(0)))
	p.Class("A", "")
	p.Class("B", "A")
	p.Class("C", "A")
	p.Class("D", "B")
	bag := diag.NewBag(0)
	h, err := sema.BuildHierarchy(p.B, p.Program, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("BuildHierarchy: %v\n%s", err, diag.FormatShort(bag.Items(), p.B.Files))
	}
	return p, h
}

func TestBuildHierarchyLinksAndInjects(t *testing.T) {
	p, h := buildValid(t)
	if err := testkit.CheckHierarchyInvariants(p.B, h); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Program.Classes); got != 5+len(types.Builtins) {
		t.Fatalf("program has %d classes after injection", got)
	}
	root := p.B.Classes.Get(h.Root)
	if root.Type != types.Object || !root.Builtin {
		t.Fatalf("root = %+v", root)
	}
	a := p.Type("A")
	var kids []string
	for _, id := range h.Children(a) {
		kids = append(kids, p.B.Label(p.B.Classes.Get(id).Type))
	}
	if strings.Join(kids, ",") != "B,C" {
		t.Errorf("children of A = %v", kids)
	}
	io, _ := h.Class(types.IO)
	if _, ok := p.B.Methods(io)[p.B.Name("out_string")]; !ok {
		t.Error("IO.out_string missing")
	}
	str, _ := h.Class(types.String)
	substr := p.B.Methods(str)[p.B.Name("substr")]
	if got := p.B.FormalTypes(substr); len(got) != 2 || got[0] != types.Int {
		t.Errorf("substr formals = %v", got)
	}
	if p.B.Classes.Get(str).Span.File != 0 {
		t.Error("built-ins must be located in <basic class>")
	}
}

func TestConformanceAndLUB(t *testing.T) {
	p, h := buildValid(t)
	A, B, C, D := p.Type("A"), p.Type("B"), p.Type("C"), p.Type("D")
	all := []types.ClassType{types.Object, types.IO, types.Int, types.Bool, types.String, types.Main, A, B, C, D}

	for _, x := range all {
		if !h.Conforms(x, x) {
			t.Errorf("%s does not conform to itself", p.B.Label(x))
		}
		if !h.Conforms(x, types.Object) {
			t.Errorf("%s does not conform to Object", p.B.Label(x))
		}
		for _, y := range all {
			for _, z := range all {
				if h.Conforms(x, y) && h.Conforms(y, z) && !h.Conforms(x, z) {
					t.Errorf("transitivity broken: %s <= %s <= %s", p.B.Label(x), p.B.Label(y), p.B.Label(z))
				}
			}
		}
	}
	if h.Conforms(A, B) || !h.Conforms(D, A) || h.Conforms(C, B) {
		t.Error("subclass relation wrong")
	}
	if h.Conforms(types.NoType, types.Object) {
		t.Error("NoType conforms to nothing")
	}

	cases := []struct{ a, b, want types.ClassType }{
		{B, C, A},
		{D, C, A},
		{D, B, B},
		{B, types.Main, types.Object},
		{types.Int, types.String, types.Object},
		{types.Main, types.IO, types.IO},
		{types.SelfType, types.SelfType, types.SelfType},
	}
	for _, tc := range cases {
		got := h.LUB(tc.a, tc.b)
		if got != tc.want {
			t.Errorf("LUB(%s, %s) = %s, want %s", p.B.Label(tc.a), p.B.Label(tc.b), p.B.Label(got), p.B.Label(tc.want))
		}
		if tc.a.IsSelf() {
			continue
		}
		if !h.Conforms(tc.a, got) || !h.Conforms(tc.b, got) {
			t.Errorf("LUB(%s, %s) is not a common ancestor", p.B.Label(tc.a), p.B.Label(tc.b))
		}
	}
	// no strictly deeper common ancestor than LUB(B, C)
	for _, x := range all {
		if x != A && h.Conforms(x, A) && h.Conforms(B, x) && h.Conforms(C, x) {
			t.Errorf("%s is a deeper common ancestor of B and C", p.B.Label(x))
		}
	}
	if got := h.Ancestors(D); len(got) != 4 || got[3] != types.Object {
		t.Errorf("Ancestors(D) = %v", got)
	}
	if h.Ancestors(types.SelfType) != nil {
		t.Error("SELF_TYPE has no hierarchy node")
	}
	if _, ok := h.Class(types.SelfType); ok {
		t.Error("SELF_TYPE must not be registered")
	}
}
