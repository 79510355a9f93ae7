package sema_test

import (
	"testing"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/sema"
	"coolc/internal/testkit"
	"coolc/internal/types"
)

func TestDispatchOnNewObject(t *testing.T) {
	p := testkit.NewProg("ok.cl")
	p.Line(2)
	call := p.Call(p.New("A"), "foo")
	p.MainClass(call)
	p.Line(6).Class("A", "", p.Method("foo", nil, "Int", p.Int(5)))

	o := analyze(t, p)
	o.ok(t)
	if got := o.res.TypeOf(call); got != types.Int {
		t.Fatalf("type of (new A).foo() = %s, want Int", p.B.Label(got))
	}
	if o.res.Hierarchy == nil || !o.res.Hierarchy.IsValid(p.Type("A")) {
		t.Fatal("result must carry the hierarchy")
	}
}

func TestArithmeticOnString(t *testing.T) {
	p := testkit.NewProg("arith.cl")
	p.Line(3)
	p.MainClass(p.Add(p.Str("abc"), p.Int(1)))

	o := analyze(t, p)
	if got := o.stage(t); got != sema.StageTypeCheck {
		t.Fatalf("stage = %v", got)
	}
	if got, want := o.short(), "arith.cl:3: non-int arguments: String + Int\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if o.err.Error() != "Compilation halted due to static semantic errors." {
		t.Errorf("halt message = %q", o.err.Error())
	}
}

func TestExpressionTypes(t *testing.T) {
	p := testkit.NewProg("types.cl")
	p.Class("A", "")
	p.Class("B", "A")
	p.Class("C", "A")

	cond := p.If(p.Bool(true), p.New("B"), p.New("C"))
	kase := p.Case(p.Int(1),
		p.Branch("x", "Int", p.New("B")),
		p.Branch("y", "String", p.New("C")),
	)
	loop := p.While(p.Lt(p.Int(1), p.Int(2)), p.Int(0))
	isvoid := p.IsVoid(p.New("A"))
	eqStr := p.Eq(p.Str("a"), p.Str("b"))
	eqObj := p.Eq(p.Int(1), p.Int(2))
	neg := p.Neg(p.Int(3))
	not := p.Not(p.Bool(false))
	let := p.Let("x", "Int", p.Int(1), p.Add(p.Obj("x"), p.Int(1)))
	letNoInit := p.Let("s", "String", ast.NoExprID, p.Obj("s"))
	block := p.Block(p.Int(1), p.Str("z"))
	self := p.Self()
	selfCall := p.SelfCall("out_string", p.Str("hi"))
	copyCall := p.Call(p.New("B"), "copy")
	typeName := p.Call(p.Int(4), "type_name")
	static := p.StaticCall(p.New("B"), "A", "type_name")
	substr := p.Call(p.Str("hello"), "substr", p.Int(0), p.Int(2))

	p.Class("Main", "IO", p.Method("main", nil, "Object", p.Block(
		cond, kase, loop, isvoid, eqStr, eqObj, neg, not, let, letNoInit,
		block, self, selfCall, copyCall, typeName, static, substr,
	)))

	o := analyze(t, p)
	o.ok(t)

	A := p.Type("A")
	cases := []struct {
		name string
		id   ast.ExprID
		want types.ClassType
	}{
		{"if", cond, A},
		{"case", kase, A},
		{"while", loop, types.Object},
		{"isvoid", isvoid, types.Bool},
		{"string =", eqStr, types.Bool},
		{"int =", eqObj, types.Bool},
		{"~", neg, types.Int},
		{"not", not, types.Bool},
		{"let", let, types.Int},
		{"let without init", letNoInit, types.String},
		{"block", block, types.String},
		{"self", self, types.SelfType},
		{"self dispatch returning SELF_TYPE", selfCall, types.Main},
		{"copy", copyCall, types.Main},
		{"type_name", typeName, types.String},
		{"static", static, types.String},
		{"substr", substr, types.String},
	}
	for _, tc := range cases {
		if got := o.res.TypeOf(tc.id); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, p.B.Label(got), p.B.Label(tc.want))
		}
	}
}

func TestSelfTypeMethods(t *testing.T) {
	p := testkit.NewProg("self.cl")
	p.MainClass(p.Int(0))
	p.Line(4)
	p.Class("A", "",
		p.Method("me", nil, "SELF_TYPE", p.Self()),
		p.Line(5).Method("fresh", nil, "SELF_TYPE", p.New("SELF_TYPE")),
		p.Line(6).Method("mine", nil, "SELF_TYPE", p.New("A")),
		p.Line(7).Method("dup", nil, "SELF_TYPE", p.SelfCall("copy")),
		p.Line(8).Method("other", nil, "SELF_TYPE", p.New("Object")),
	)
	o := analyze(t, p)
	o.wantOnly(t, "Inferred return type Object of method other does not conform to declared return type SELF_TYPE.")
	if d := o.bag.Items()[0]; d.Primary.Line != 8 || d.Code != diag.SemMethodBodyMismatch {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestSelfTypeIdioms(t *testing.T) {
	p := testkit.NewProg("idioms.cl")
	p.Class("Main", "IO",
		p.Method("main", nil, "Object", p.Int(0)),
		p.Line(3).Method("say", nil, "SELF_TYPE", p.SelfCall("out_string", p.Str("hi"))),
		p.Line(4).Method("dup", nil, "SELF_TYPE", p.SelfCall("copy")),
	)
	p.Line(6)
	p.Class("A", "",
		p.Attr("x", "SELF_TYPE", p.New("A")),
		p.Line(7).Method("reset", nil, "SELF_TYPE", p.Assign("x", p.New("A"))),
		p.Line(8).Method("keep", nil, "SELF_TYPE", p.Let("y", "SELF_TYPE", p.New("A"), p.Obj("y"))),
	)
	analyze(t, p).ok(t)
}

func TestSingleDiagnosticCases(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *testkit.Prog)
		want  string
	}{
		{
			name: "static dispatch mismatch",
			build: func(p *testkit.Prog) {
				p.Class("A", "", p.Method("foo", nil, "Int", p.Int(1)))
				p.Class("B", "", p.Method("foo", nil, "Int", p.Int(2)))
				p.MainClass(p.StaticCall(p.New("A"), "B", "foo"))
			},
			want: "Expression does not conform to specified static dispatch type B",
		},
		{
			name: "static type undefined",
			build: func(p *testkit.Prog) {
				p.MainClass(p.StaticCall(p.Int(1), "Nope", "copy"))
			},
			want: "Static type Nope is undefined",
		},
		{
			name: "override return type",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", p.Formals("x", "Int"), "Int", p.Obj("x")))
				p.Class("B", "A", p.Method("foo", p.Formals("x", "Int"), "String", p.Str("s")))
			},
			want: "In redefined method foo, return type String is different from original type Int",
		},
		{
			name: "override parameters",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", p.Formals("x", "Int"), "Int", p.Int(1)))
				p.Class("B", "A", p.Method("foo", p.Formals("x", "String"), "Int", p.Int(1)))
			},
			want: "Incompatible parameters to override method foo",
		},
		{
			name: "override of built-in",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("type_name", nil, "Int", p.Int(1)))
			},
			want: "In redefined method type_name, return type Int is different from original type String",
		},
		{
			name: "cascade stops at first failure",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Add(p.Add(p.Str("a"), p.Int(1)), p.Int(2)))
			},
			want: "non-int arguments: String + Int",
		},
		{
			name: "undefined receiver does not cascade",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Call(p.Add(p.Obj("x"), p.Int(1)), "foo"))
			},
			want: "x is undefined",
		},
		{
			name: "illegal basic comparison",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Eq(p.Int(1), p.Str("a")))
			},
			want: "Illegal comparison with a basic type",
		},
		{
			name: "object equality",
			build: func(p *testkit.Prog) {
				p.Class("A", "")
				p.MainClass(p.Eq(p.New("A"), p.New("A")))
			},
			want: "non-int arguments: A = A",
		},
		{
			name: "not on Int",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Not(p.Int(1)))
			},
			want: "Argument of 'not' has type Int instead of Bool.",
		},
		{
			name: "neg on Bool",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Neg(p.Bool(true)))
			},
			want: "Argument of '~' has type Bool instead of Int.",
		},
		{
			name: "if predicate",
			build: func(p *testkit.Prog) {
				p.MainClass(p.If(p.Int(1), p.Int(2), p.Int(3)))
			},
			want: "Predicate of 'if' does not have type Bool.",
		},
		{
			name: "loop predicate",
			build: func(p *testkit.Prog) {
				p.MainClass(p.While(p.Str("x"), p.Int(2)))
			},
			want: "Loop condition does not have type Bool.",
		},
		{
			name: "assign to self",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Assign("self", p.Int(1)))
			},
			want: "Cannot assign to 'self'.",
		},
		{
			name: "assign undeclared",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Assign("y", p.Int(1)))
			},
			want: "Assignment to undeclared variable y.",
		},
		{
			name: "assign mismatch",
			build: func(p *testkit.Prog) {
				p.Class("Main", "",
					p.Attr("a", "Int", ast.NoExprID),
					p.Method("main", nil, "Object", p.Assign("a", p.Str("s"))),
				)
			},
			want: "Type String of assigned expression does not conform to declared type Int of identifier a.",
		},
		{
			name: "new undefined",
			build: func(p *testkit.Prog) {
				p.MainClass(p.New("Ghost"))
			},
			want: "'new' used with undefined class Ghost.",
		},
		{
			name: "let binds self",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Let("self", "Int", p.Int(1), p.Int(1)))
			},
			want: "'self' cannot be bound in a 'let' expression.",
		},
		{
			name: "let undefined type",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Let("x", "Ghost", ast.NoExprID, p.Obj("x")))
			},
			want: "Class Ghost of let-bound identifier x is undefined.",
		},
		{
			name: "let init mismatch",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Let("x", "Int", p.Str("s"), p.Obj("x")))
			},
			want: "Inferred type String of initialization of x does not conform to identifier's declared type Int.",
		},
		{
			name: "let init does not see its own name",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Let("x", "Int", p.Obj("x"), p.Obj("x")))
			},
			want: "x is undefined",
		},
		{
			name: "case binds self",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Case(p.Int(1), p.Branch("self", "Int", p.Int(1))))
			},
			want: "'self' bound in 'case'.",
		},
		{
			name: "case duplicate branch",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Case(p.Int(1),
					p.Branch("x", "Int", p.Int(1)),
					p.Branch("y", "Int", p.Int(2)),
				))
			},
			want: "Duplicate branch Int in case statement.",
		},
		{
			name: "case undefined type",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Case(p.Int(1), p.Branch("x", "Ghost", p.Int(1))))
			},
			want: "Class Ghost of case branch is undefined.",
		},
		{
			name: "wrong arity",
			build: func(p *testkit.Prog) {
				p.Class("A", "", p.Method("foo", p.Formals("x", "Int"), "Int", p.Obj("x")))
				p.MainClass(p.Call(p.New("A"), "foo"))
			},
			want: "There is no method named foo on type A which takes the specified parameters",
		},
		{
			name: "argument does not conform",
			build: func(p *testkit.Prog) {
				p.Class("A", "", p.Method("foo", p.Formals("x", "Int"), "Int", p.Obj("x")))
				p.MainClass(p.Call(p.New("A"), "foo", p.Str("s")))
			},
			want: "There is no method named foo on type A which takes the specified parameters",
		},
		{
			name: "nearest declaration decides",
			build: func(p *testkit.Prog) {
				p.Class("A", "", p.Method("foo", p.Formals("x", "Int"), "Int", p.Obj("x")))
				p.Class("B", "A", p.Method("foo", p.Formals("x", "Int"), "Int", p.Obj("x")))
				p.MainClass(p.Call(p.New("B"), "foo"))
			},
			want: "There is no method named foo on type B",
		},
		{
			name: "Main without main",
			build: func(p *testkit.Prog) {
				p.Class("Main", "", p.Method("foo", nil, "Int", p.Int(1)))
			},
			want: "class Main must have a main method",
		},
		{
			name: "main with arguments",
			build: func(p *testkit.Prog) {
				p.Class("Main", "", p.Method("main", p.Formals("x", "Int"), "Object", p.Obj("x")))
			},
			want: "'main' method in class Main should have no arguments.",
		},
		{
			name: "method multiply defined",
			build: func(p *testkit.Prog) {
				p.Class("Main", "",
					p.Method("main", nil, "Object", p.Int(0)),
					p.Method("main", nil, "Object", p.Int(1)),
				)
			},
			want: "Method main is multiply defined.",
		},
		{
			name: "method return type undefined",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", nil, "Ghost", p.Int(1)))
			},
			want: "Method foo return type Ghost is undefined",
		},
		{
			name: "method named self",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("self", nil, "Int", p.Int(1)))
			},
			want: "self cannot be used as a method name",
		},
		{
			name: "parameter named self",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", p.Formals("self", "Int"), "Int", p.Int(1)))
			},
			want: "Cannot use self as parameter name in method foo",
		},
		{
			name: "duplicate parameter",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", p.Formals("x", "Int", "x", "Int"), "Int", p.Obj("x")))
			},
			want: "Cannot use the same parameter name x more than once in method foo",
		},
		{
			name: "SELF_TYPE parameter",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", p.Formals("x", "SELF_TYPE"), "Int", p.Int(1)))
			},
			want: "Method foo parameter x cannot have type SELF_TYPE",
		},
		{
			name: "parameter type undefined",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Method("foo", p.Formals("x", "Ghost"), "Int", p.Obj("x")))
			},
			want: "Method foo parameter x has undefined type Ghost",
		},
		{
			name: "attribute redefined in subclass",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Attr("a", "Int", ast.NoExprID))
				p.Class("B", "A", p.Attr("a", "String", ast.NoExprID))
			},
			want: "a cannot be redefined",
		},
		{
			name: "attribute type undefined",
			build: func(p *testkit.Prog) {
				p.Class("Main", "",
					p.Attr("a", "Ghost", ast.NoExprID),
					p.Method("main", nil, "Object", p.Obj("a")),
				)
			},
			want: "Attribute a type Ghost is undefined",
		},
		{
			name: "attribute named self",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Attr("self", "Int", ast.NoExprID))
			},
			want: "self cannot be used as an attribute name",
		},
		{
			name: "attribute initializer mismatch",
			build: func(p *testkit.Prog) {
				p.MainClass(p.Int(0))
				p.Class("A", "", p.Attr("a", "Int", p.Str("s")))
			},
			want: "Inferred type String of initialization of attribute a does not conform to declared type Int.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testkit.NewProg("case.cl")
			tt.build(p)
			o := analyze(t, p)
			if got := o.stage(t); got != sema.StageTypeCheck {
				t.Fatalf("stage = %v\n%s", got, o.short())
			}
			o.wantOnly(t, tt.want)
		})
	}
}

func TestInheritedFeaturesVisible(t *testing.T) {
	p := testkit.NewProg("inherit.cl")
	p.Class("A", "",
		p.Attr("n", "Int", p.Int(7)),
		p.Method("foo", p.Formals("x", "A"), "Int", p.Obj("n")),
	)
	use := p.Add(p.Obj("n"), p.SelfCall("foo", p.Self()))
	p.Class("B", "A", p.Method("bar", nil, "Int", use))
	call := p.Call(p.New("B"), "foo", p.New("B"))
	p.MainClass(call)

	o := analyze(t, p)
	o.ok(t)
	if o.res.TypeOf(use) != types.Int || o.res.TypeOf(call) != types.Int {
		t.Fatal("inherited attribute and method must type as Int")
	}
}

func TestOverrideNoteAndOrder(t *testing.T) {
	p := testkit.NewProg("notes.cl")
	p.MainClass(p.Int(0))
	p.Line(10).Class("A", "", p.Method("foo", nil, "Int", p.Int(1)))
	p.Line(20).Class("B", "A", p.Method("foo", nil, "Bool", p.Bool(true)))

	o := analyze(t, p)
	o.stage(t)
	d := o.bag.Items()[0]
	if d.Code != diag.SemOverrideReturn || d.Primary.Line != 20 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span.Line != 10 {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestAnalyzeTwiceIsStable(t *testing.T) {
	build := func() outcome {
		p := testkit.NewProg("twice.cl")
		p.Class("A", "")
		p.Class("B", "A")
		p.MainClass(p.Block(p.Add(p.Str("x"), p.Int(1)), p.Not(p.Int(2))))
		return analyze(t, p)
	}
	first, second := build(), build()
	if first.short() != second.short() || first.bag.Len() != 2 {
		t.Fatalf("unstable diagnostics:\n%s\n---\n%s", first.short(), second.short())
	}
}
