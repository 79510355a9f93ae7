package astio

import (
	"errors"
	"strings"
	"testing"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/sema"
	"coolc/internal/testkit"
)

const helloDump = `#1
_program
  #1
  _class
    Main
    IO
    "hello.cl"
    (
    #2
    _attr
      greeting
      String
      #2
      _string
        "hi\n"
      : _no_type
    #3
    _attr
      count
      Int
      #3
      _no_expr
      : _no_type
    #4
    _method
      main
      Object
      #5
      _dispatch
        #5
        _object
          self
        : _no_type
        out_string
        (
        #5
        _object
          greeting
        : _no_type
        )
      : _no_type
    )
`

func TestReadWriteRoundTrip(t *testing.T) {
	b := ast.NewBuilder(nil, ast.Hints{})
	prog, err := ReadText(b, "hello.ast", []byte(helloDump), nil)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got := FormatText(b, prog, nil); got != helloDump {
		t.Fatalf("round trip mismatch:\n%s", got)
	}
	main := b.Classes.Get(prog.Classes[0])
	if b.Files.Name(main.Span.File) != "hello.cl" || main.Span.Line != 1 {
		t.Errorf("class located at %s", b.Files.Format(main.Span))
	}
	if prog.Span.File != main.Span.File {
		t.Error("program must be located in the first class's file")
	}
	attrs := b.Attrs(prog.Classes[0])
	if len(attrs) != 2 || b.Features.Get(attrs[1]).Expr.IsValid() {
		t.Fatalf("attributes = %v", attrs)
	}
}

func TestAnnotatedOutput(t *testing.T) {
	b := ast.NewBuilder(nil, ast.Hints{})
	prog, err := ReadText(b, "hello.ast", []byte(helloDump), nil)
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(0)
	res, err := sema.Analyze(b, prog, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("Analyze: %v\n%s", err, diag.FormatShort(bag.Items(), b.Files))
	}
	out := FormatText(b, prog, res.TypeOf)
	for _, want := range []string{
		"        : SELF_TYPE\n", // self receiver
		"        : String\n",    // argument
		"      : Main\n",        // dispatch result
		"      : _no_type\n",    // missing initializer
	} {
		if !strings.Contains(out, want) {
			t.Errorf("annotated dump lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "_class\n    Object") {
		t.Error("built-in classes must not be printed")
	}
}

func fullProgram() *testkit.Prog {
	p := testkit.NewProg("full.cl")
	p.Line(2).Class("A", "",
		p.Attr("x", "Int", p.Neg(p.Int(3))),
		p.Line(3).Method("f", p.Formals("a", "Int", "b", "A"), "SELF_TYPE", p.Block(
			p.Assign("x", p.Add(p.Obj("a"), p.Int(1))),
			p.If(p.Not(p.Lt(p.Obj("a"), p.Int(0))), p.Bool(true), p.Bool(false)),
			p.While(p.IsVoid(p.Obj("b")), p.Str("tab\there \"q\"")),
			p.Self(),
		)),
	)
	p.Line(8).Class("Main", "A",
		p.Method("main", nil, "Object", p.Let("y", "A", ast.NoExprID,
			p.Case(p.New("A"),
				p.Line(10).Branch("i", "Int", p.Bin(ast.OpLe, p.Obj("i"), p.Int(2))),
				p.Line(11).Branch("o", "Object", p.StaticCall(p.Self(), "A", "f", p.Int(1), p.Obj("y"))),
			),
		)),
		p.Line(12).Method("g", nil, "Int", p.Bin(ast.OpDiv, p.Bin(ast.OpMul, p.Int(6), p.Int(2)), p.Bin(ast.OpSub, p.Int(3), p.Int(1)))),
		p.Attr("e", "Bool", p.Eq(p.Int(1), p.Int(1))),
	)
	return p
}

func TestTextRoundTripAllNodes(t *testing.T) {
	p := fullProgram()
	first := FormatText(p.B, p.Program, nil)

	b := ast.NewBuilder(nil, ast.Hints{})
	prog, err := ReadText(b, "full.ast", []byte(first), nil)
	if err != nil {
		t.Fatalf("ReadText: %v\n%s", err, first)
	}
	if second := FormatText(b, prog, nil); second != first {
		t.Fatalf("text round trip differs:\n%s\n---\n%s", first, second)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	p := fullProgram()
	want := FormatText(p.B, p.Program, nil)

	data, err := EncodeBinary(p.B, p.Program)
	if err != nil {
		t.Fatal(err)
	}
	b := ast.NewBuilder(nil, ast.Hints{})
	prog, err := Read(b, "full"+BinaryExt, data, nil)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got := FormatText(b, prog, nil); got != want {
		t.Fatalf("binary round trip differs:\n%s\n---\n%s", want, got)
	}
	if len(data) >= len(want) {
		t.Errorf("binary form (%d bytes) is not smaller than text (%d bytes)", len(data), len(want))
	}
}

func TestDecodeBinaryRejectsGarbage(t *testing.T) {
	b := ast.NewBuilder(nil, ast.Hints{})
	bag := diag.NewBag(0)
	_, err := DecodeBinary(b, "bad.astb", []byte{0xc1, 0x00}, diag.BagReporter{Bag: bag})
	var se *SyntaxError
	if !errors.As(err, &se) || se.Code != diag.SynMalformedDump {
		t.Fatalf("err = %v", err)
	}
	if bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %d", bag.Len())
	}
}

func TestDecodeBinaryRejectsAbsentExpressions(t *testing.T) {
	p := testkit.NewProg("gap.cl")
	p.MainClass(p.Add(p.Int(1), ast.NoExprID))
	data, err := EncodeBinary(p.B, p.Program)
	if err != nil {
		t.Fatal(err)
	}
	_, err = DecodeBinary(ast.NewBuilder(nil, ast.Hints{}), "gap.astb", data, nil)
	var se *SyntaxError
	if !errors.As(err, &se) || se.Code != diag.SynMalformedDump {
		t.Fatalf("err = %v", err)
	}
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name string
		dump string
		code diag.Code
		line int
	}{
		{"unknown class tag", "#1\n_program\n#2\n_klass\n", diag.SynUnknownNode, 4},
		{"truncated class", "#1\n_program\n#1\n_class\nMain\n", diag.SynUnexpectedEOF, 5},
		{"bad int", "#1\n_program\n#1\n_class\nMain\nObject\n\"m.cl\"\n(\n#2\n_attr\nx\nInt\n#2\n_int\n1x\n", diag.SynBadLiteral, 15},
		{"bad header", "#one\n_program\n", diag.SynBadLiteral, 1},
		{"unknown expression", "#1\n_program\n#1\n_class\nMain\nObject\n\"m.cl\"\n(\n#2\n_attr\nx\nInt\n#2\n_frob\n", diag.SynUnknownNode, 14},
		{"missing paren", "#1\n_program\n#1\n_class\nMain\nObject\n\"m.cl\"\n)\n", diag.SynMalformedDump, 8},
		{"absent method body", "#1\n_program\n#1\n_class\nMain\nObject\n\"m.cl\"\n(\n#2\n_method\nmain\nObject\n#2\n_no_expr\n", diag.SynMalformedDump, 14},
		{"absent operand", "#1\n_program\n#1\n_class\nMain\nObject\n\"m.cl\"\n(\n#2\n_method\nmain\nObject\n#2\n_plus\n#2\n_int\n1\n#2\n_no_expr\n", diag.SynMalformedDump, 19},
		{"absent dispatch argument", "#1\n_program\n#1\n_class\nMain\nObject\n\"m.cl\"\n(\n#2\n_method\nmain\nObject\n#2\n_dispatch\n#2\n_object\nself\nabort\n(\n#2\n_no_expr\n", diag.SynMalformedDump, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder(nil, ast.Hints{})
			bag := diag.NewBag(0)
			_, err := ReadText(b, "in.ast", []byte(tt.dump), diag.BagReporter{Bag: bag})
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v", err)
			}
			if se.Code != tt.code || se.Line != tt.line {
				t.Fatalf("got %v at line %d (%s), want %v at %d", se.Code, se.Line, se.Msg, tt.code, tt.line)
			}
			items := bag.Items()
			if len(items) != 1 || b.Files.Name(items[0].Primary.File) != "in.ast" {
				t.Fatalf("diagnostics = %+v", items)
			}
		})
	}
}

func TestQuoteUnquote(t *testing.T) {
	for _, s := range []string{"", "plain", "a\"b\\c", "line\nbreak\ttab\b\f", "\x01\x1f\x7f", "héllo"} {
		q := Quote(s)
		got, err := Unquote(q)
		if err != nil || got != s {
			t.Errorf("Unquote(Quote(%q)) = %q, %v (quoted %s)", s, got, err, q)
		}
	}
	if got, _ := Unquote(`"\101\7x"`); got != "A\ax" {
		t.Errorf("octal escapes: %q", got)
	}
	if Quote("\x01") != `"\001"` {
		t.Errorf("Quote(\\x01) = %s", Quote("\x01"))
	}
	if _, err := Unquote(`abc`); err == nil {
		t.Error("unquoted literal must fail")
	}
}
