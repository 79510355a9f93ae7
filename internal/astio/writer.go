package astio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"coolc/internal/ast"
	"coolc/internal/types"
)

// TypeFunc returns the type annotation written for an expression.
type TypeFunc func(ast.ExprID) types.ClassType

// WriteText prints the user classes of prog in dump format. typeOf may be
// nil, in which case every expression is written as _no_type.
func WriteText(w io.Writer, b *ast.Builder, prog *ast.Program, typeOf TypeFunc) error {
	tw := &textWriter{w: bufio.NewWriter(w), b: b, typeOf: typeOf}
	tw.program(prog)
	return tw.w.Flush()
}

type textWriter struct {
	w      *bufio.Writer
	b      *ast.Builder
	typeOf TypeFunc
	depth  int
}

// bufio.Writer запоминает первую ошибку, её вернёт Flush
func (tw *textWriter) line(s string) {
	for range tw.depth {
		_, _ = tw.w.WriteString("  ")
	}
	_, _ = tw.w.WriteString(s)
	_ = tw.w.WriteByte('\n')
}

func (tw *textWriter) header(line uint32, tag string) {
	tw.line("#" + strconv.FormatUint(uint64(line), 10))
	tw.line(tag)
}

func (tw *textWriter) in()  { tw.depth++ }
func (tw *textWriter) out() { tw.depth-- }

func (tw *textWriter) typeName(t types.ClassType) string {
	if t.IsNone() {
		return noType
	}
	return tw.b.Label(t)
}

func (tw *textWriter) program(prog *ast.Program) {
	tw.header(prog.Span.Line, tagProgram)
	tw.in()
	for _, id := range prog.Classes {
		if cls := tw.b.Classes.Get(id); cls != nil && !cls.Builtin {
			tw.class(cls)
		}
	}
	tw.out()
}

func (tw *textWriter) class(cls *ast.Class) {
	tw.header(cls.Span.Line, tagClass)
	tw.in()
	tw.line(tw.b.Label(cls.Type))
	if cls.Parent.IsNone() {
		tw.line(noClass)
	} else {
		tw.line(tw.b.Label(cls.Parent))
	}
	tw.line(Quote(tw.b.Files.Name(cls.Span.File)))
	tw.line("(")
	for _, fid := range cls.Features {
		tw.feature(tw.b.Features.Get(fid))
	}
	tw.line(")")
	tw.out()
}

func (tw *textWriter) feature(f *ast.Feature) {
	switch f.Kind {
	case ast.FeatureAttr:
		tw.header(f.Span.Line, tagAttr)
		tw.in()
		tw.line(tw.b.NameOf(f.Name))
		tw.line(tw.typeName(f.Type))
		tw.expr(f.Expr, f.Span.Line)
		tw.out()
	case ast.FeatureMethod:
		tw.header(f.Span.Line, tagMethod)
		tw.in()
		tw.line(tw.b.NameOf(f.Name))
		for _, pid := range f.Formals {
			p := tw.b.Features.Formal(pid)
			tw.header(p.Span.Line, tagFormal)
			tw.in()
			tw.line(tw.b.NameOf(p.Name))
			tw.line(tw.typeName(p.Type))
			tw.out()
		}
		tw.line(tw.typeName(f.Type))
		tw.expr(f.Expr, f.Span.Line)
		tw.out()
	}
}

// expr prints id; an absent expression is printed as _no_expr on the
// owner's line.
func (tw *textWriter) expr(id ast.ExprID, ownerLine uint32) {
	e := tw.b.Exprs.Get(id)
	if e == nil || e.Kind == ast.ExprNoOp {
		tw.header(ownerLine, tagNoExpr)
		tw.line(": " + noType)
		return
	}
	line := e.Span.Line
	ex := tw.b.Exprs

	switch e.Kind {
	case ast.ExprBool:
		lit, _ := ex.Literal(id)
		tw.header(line, tagBool)
		tw.in()
		if lit.Bool {
			tw.line("1")
		} else {
			tw.line("0")
		}
		tw.out()
	case ast.ExprInt:
		lit, _ := ex.Literal(id)
		tw.header(line, tagInt)
		tw.in()
		tw.line(tw.b.Ints.MustLookup(lit.Value))
		tw.out()
	case ast.ExprString:
		lit, _ := ex.Literal(id)
		tw.header(line, tagString)
		tw.in()
		tw.line(Quote(tw.b.Strings.MustLookup(lit.Value)))
		tw.out()
	case ast.ExprNeg, ast.ExprIsVoid, ast.ExprNot:
		u, _ := ex.Unary(id)
		tw.header(line, unaryTag(e.Kind))
		tw.in()
		tw.expr(u.Operand, line)
		tw.out()
	case ast.ExprArith, ast.ExprCompare:
		bin, _ := ex.Binary(id)
		tw.header(line, binaryNames[bin.Op])
		tw.in()
		tw.expr(bin.Left, line)
		tw.expr(bin.Right, line)
		tw.out()
	case ast.ExprDispatch:
		d, _ := ex.Dispatch(id)
		tag := tagDispatch
		if d.IsStatic() {
			tag = tagStatic
		}
		tw.header(line, tag)
		tw.in()
		tw.expr(d.Receiver, line)
		if d.IsStatic() {
			tw.line(tw.typeName(d.Static))
		}
		tw.line(tw.b.NameOf(d.Method))
		tw.line("(")
		for _, a := range d.Args {
			tw.expr(a, line)
		}
		tw.line(")")
		tw.out()
	case ast.ExprAssign:
		a, _ := ex.Assign(id)
		tw.header(line, tagAssign)
		tw.in()
		tw.line(tw.b.NameOf(a.Name))
		tw.expr(a.Value, line)
		tw.out()
	case ast.ExprObject:
		o, _ := ex.Object(id)
		tw.header(line, tagObject)
		tw.in()
		tw.line(tw.b.NameOf(o.Name))
		tw.out()
	case ast.ExprNew:
		n, _ := ex.NewOf(id)
		tw.header(line, tagNew)
		tw.in()
		tw.line(tw.typeName(n.Type))
		tw.out()
	case ast.ExprCond:
		c, _ := ex.Cond(id)
		tw.header(line, tagCond)
		tw.in()
		tw.expr(c.Pred, line)
		tw.expr(c.Then, line)
		tw.expr(c.Else, line)
		tw.out()
	case ast.ExprLoop:
		l, _ := ex.Loop(id)
		tw.header(line, tagLoop)
		tw.in()
		tw.expr(l.Pred, line)
		tw.expr(l.Body, line)
		tw.out()
	case ast.ExprCase:
		c, _ := ex.Case(id)
		tw.header(line, tagCase)
		tw.in()
		tw.expr(c.Scrutinee, line)
		for i := range c.Branches {
			br := &c.Branches[i]
			tw.header(br.Span.Line, tagBranch)
			tw.in()
			tw.line(tw.b.NameOf(br.Name))
			tw.line(tw.typeName(br.Type))
			tw.expr(br.Body, br.Span.Line)
			tw.out()
		}
		tw.out()
	case ast.ExprBlock:
		blk, _ := ex.Block(id)
		tw.header(line, tagBlock)
		tw.in()
		for _, x := range blk.Exprs {
			tw.expr(x, line)
		}
		tw.out()
	case ast.ExprLet:
		l, _ := ex.Let(id)
		tw.header(line, tagLet)
		tw.in()
		tw.line(tw.b.NameOf(l.Name))
		tw.line(tw.typeName(l.Type))
		tw.expr(l.Init, line)
		tw.expr(l.Body, line)
		tw.out()
	}

	t := types.NoType
	if tw.typeOf != nil {
		t = tw.typeOf(id)
	}
	tw.line(": " + tw.typeName(t))
}

// FormatText is WriteText into a string.
func FormatText(b *ast.Builder, prog *ast.Program, typeOf TypeFunc) string {
	var sb strings.Builder
	_ = WriteText(&sb, b, prog, typeOf)
	return sb.String()
}
