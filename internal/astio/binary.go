package astio

import (
	"bytes"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/source"
	"coolc/internal/types"
)

// binarySchema is bumped whenever the encoded layout changes.
const binarySchema uint16 = 1

// BinaryExt is the file extension of msgpack-encoded programs.
const BinaryExt = ".astb"

type binProgram struct {
	Schema  uint16     `msgpack:"v"`
	Line    uint32     `msgpack:"l"`
	Files   []string   `msgpack:"f"`
	Classes []binClass `msgpack:"c"`
}

type binClass struct {
	Name     string       `msgpack:"n"`
	Parent   string       `msgpack:"p,omitempty"`
	File     uint32       `msgpack:"f"`
	Line     uint32       `msgpack:"l"`
	Features []binFeature `msgpack:"x,omitempty"`
}

type binFeature struct {
	Method  bool        `msgpack:"m,omitempty"`
	Name    string      `msgpack:"n"`
	Type    string      `msgpack:"t"`
	Line    uint32      `msgpack:"l"`
	Formals []binFormal `msgpack:"a,omitempty"`
	Expr    *binExpr    `msgpack:"e,omitempty"`
}

type binFormal struct {
	Name string `msgpack:"n"`
	Type string `msgpack:"t"`
	Line uint32 `msgpack:"l"`
}

// binExpr reuses the dump tags as node kinds. Text carries the literal,
// identifier or method name; Type the new/static/let type.
type binExpr struct {
	Tag      string      `msgpack:"k"`
	Line     uint32      `msgpack:"l"`
	Text     string      `msgpack:"s,omitempty"`
	Type     string      `msgpack:"t,omitempty"`
	Kids     []*binExpr  `msgpack:"c,omitempty"`
	Branches []binBranch `msgpack:"b,omitempty"`
}

type binBranch struct {
	Name string   `msgpack:"n"`
	Type string   `msgpack:"t"`
	Line uint32   `msgpack:"l"`
	Body *binExpr `msgpack:"e"`
}

// IsBinary reports whether name uses the binary extension.
func IsBinary(name string) bool {
	return strings.HasSuffix(name, BinaryExt)
}

// Read dispatches on the file extension.
func Read(b *ast.Builder, name string, data []byte, rep diag.Reporter) (*ast.Program, error) {
	if IsBinary(name) {
		return DecodeBinary(b, name, data, rep)
	}
	return ReadText(b, name, data, rep)
}

// EncodeBinary encodes the user classes of prog.
func EncodeBinary(b *ast.Builder, prog *ast.Program) ([]byte, error) {
	enc := encoder{b: b, files: make(map[source.FileID]uint32)}
	out := binProgram{Schema: binarySchema, Line: prog.Span.Line}
	for _, id := range prog.Classes {
		cls := b.Classes.Get(id)
		if cls == nil || cls.Builtin {
			continue
		}
		out.Classes = append(out.Classes, enc.class(cls))
	}
	out.Files = enc.names
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&out); err != nil {
		return nil, fmt.Errorf("encode program: %w", err)
	}
	return buf.Bytes(), nil
}

type encoder struct {
	b     *ast.Builder
	files map[source.FileID]uint32
	names []string
}

func (e *encoder) file(id source.FileID) uint32 {
	if idx, ok := e.files[id]; ok {
		return idx
	}
	idx, err := safecast.Convert[uint32](len(e.names))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	e.files[id] = idx
	e.names = append(e.names, e.b.Files.Name(id))
	return idx
}

func (e *encoder) typeName(t types.ClassType) string {
	if t.IsNone() {
		return ""
	}
	return e.b.Label(t)
}

func (e *encoder) class(cls *ast.Class) binClass {
	out := binClass{
		Name:   e.typeName(cls.Type),
		Parent: e.typeName(cls.Parent),
		File:   e.file(cls.Span.File),
		Line:   cls.Span.Line,
	}
	for _, fid := range cls.Features {
		f := e.b.Features.Get(fid)
		bf := binFeature{
			Method: f.Kind == ast.FeatureMethod,
			Name:   e.b.NameOf(f.Name),
			Type:   e.typeName(f.Type),
			Line:   f.Span.Line,
			Expr:   e.expr(f.Expr),
		}
		for _, pid := range f.Formals {
			p := e.b.Features.Formal(pid)
			bf.Formals = append(bf.Formals, binFormal{Name: e.b.NameOf(p.Name), Type: e.typeName(p.Type), Line: p.Span.Line})
		}
		out.Features = append(out.Features, bf)
	}
	return out
}

func (e *encoder) expr(id ast.ExprID) *binExpr {
	x := e.b.Exprs.Get(id)
	if x == nil || x.Kind == ast.ExprNoOp {
		return nil
	}
	ex := e.b.Exprs
	out := &binExpr{Line: x.Span.Line}
	kids := func(ids ...ast.ExprID) {
		for _, k := range ids {
			out.Kids = append(out.Kids, e.expr(k))
		}
	}
	switch x.Kind {
	case ast.ExprBool:
		lit, _ := ex.Literal(id)
		out.Tag, out.Text = tagBool, "0"
		if lit.Bool {
			out.Text = "1"
		}
	case ast.ExprInt:
		lit, _ := ex.Literal(id)
		out.Tag, out.Text = tagInt, e.b.Ints.MustLookup(lit.Value)
	case ast.ExprString:
		lit, _ := ex.Literal(id)
		out.Tag, out.Text = tagString, e.b.Strings.MustLookup(lit.Value)
	case ast.ExprNeg, ast.ExprIsVoid, ast.ExprNot:
		u, _ := ex.Unary(id)
		out.Tag = unaryTag(x.Kind)
		kids(u.Operand)
	case ast.ExprArith, ast.ExprCompare:
		bin, _ := ex.Binary(id)
		out.Tag = binaryNames[bin.Op]
		kids(bin.Left, bin.Right)
	case ast.ExprDispatch:
		d, _ := ex.Dispatch(id)
		out.Tag, out.Text = tagDispatch, e.b.NameOf(d.Method)
		if d.IsStatic() {
			out.Tag, out.Type = tagStatic, e.typeName(d.Static)
		}
		kids(d.Receiver)
		kids(d.Args...)
	case ast.ExprAssign:
		a, _ := ex.Assign(id)
		out.Tag, out.Text = tagAssign, e.b.NameOf(a.Name)
		kids(a.Value)
	case ast.ExprObject:
		o, _ := ex.Object(id)
		out.Tag, out.Text = tagObject, e.b.NameOf(o.Name)
	case ast.ExprNew:
		n, _ := ex.NewOf(id)
		out.Tag, out.Type = tagNew, e.typeName(n.Type)
	case ast.ExprCond:
		c, _ := ex.Cond(id)
		out.Tag = tagCond
		kids(c.Pred, c.Then, c.Else)
	case ast.ExprLoop:
		l, _ := ex.Loop(id)
		out.Tag = tagLoop
		kids(l.Pred, l.Body)
	case ast.ExprCase:
		c, _ := ex.Case(id)
		out.Tag = tagCase
		kids(c.Scrutinee)
		for _, br := range c.Branches {
			out.Branches = append(out.Branches, binBranch{
				Name: e.b.NameOf(br.Name),
				Type: e.typeName(br.Type),
				Line: br.Span.Line,
				Body: e.expr(br.Body),
			})
		}
	case ast.ExprBlock:
		blk, _ := ex.Block(id)
		out.Tag = tagBlock
		kids(blk.Exprs...)
	case ast.ExprLet:
		l, _ := ex.Let(id)
		out.Tag, out.Text, out.Type = tagLet, e.b.NameOf(l.Name), e.typeName(l.Type)
		kids(l.Init, l.Body)
	}
	return out
}

// DecodeBinary rebuilds a program encoded by EncodeBinary. Malformed
// input is reported like a malformed text dump.
func DecodeBinary(b *ast.Builder, name string, data []byte, rep diag.Reporter) (*ast.Program, error) {
	d := decoder{b: b, dump: b.Files.Location(name), name: name}
	prog, err := d.decode(data)
	if err != nil {
		if se, ok := err.(*SyntaxError); ok && rep != nil {
			diag.ReportError(rep, se.Code, se.Span, se.Msg).Emit()
		}
		return nil, err
	}
	return prog, nil
}

type decoder struct {
	b     *ast.Builder
	dump  source.FileID
	name  string
	files []source.FileID
	file  source.FileID
}

func (d *decoder) fail(code diag.Code, format string, args ...any) error {
	return &SyntaxError{
		Code: code,
		Span: source.LineSpan(d.dump, 0),
		Name: d.name,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (d *decoder) typeOf(name string) types.ClassType {
	if name == "" {
		return types.NoType
	}
	return d.b.Type(name)
}

func (d *decoder) span(line uint32) source.Span {
	return source.Span{File: d.file, Line: line}
}

func (d *decoder) decode(data []byte) (*ast.Program, error) {
	var in binProgram
	if err := msgpack.Unmarshal(data, &in); err != nil {
		return nil, d.fail(diag.SynMalformedDump, "malformed binary AST: %v", err)
	}
	if in.Schema != binarySchema {
		return nil, d.fail(diag.SynMalformedDump, "unsupported binary AST schema %d", in.Schema)
	}
	for _, f := range in.Files {
		d.files = append(d.files, d.b.Files.Location(f))
	}
	prog := d.b.NewProgram(source.Span{File: d.dump, Line: in.Line})
	for i := range in.Classes {
		c := &in.Classes[i]
		if int(c.File) >= len(d.files) {
			return nil, d.fail(diag.SynMalformedDump, "class %s refers to unknown file %d", c.Name, c.File)
		}
		d.file = d.files[c.File]
		id := d.b.NewClass(prog, d.span(c.Line), d.typeOf(c.Name), d.typeOf(c.Parent))
		for j := range c.Features {
			fid, err := d.feature(&c.Features[j])
			if err != nil {
				return nil, err
			}
			d.b.PushFeature(id, fid)
		}
		if i == 0 {
			prog.Span.File = d.file
		}
	}
	return prog, nil
}

func (d *decoder) feature(f *binFeature) (ast.FeatureID, error) {
	if !f.Method {
		init, err := d.optExpr(f.Expr)
		if err != nil {
			return ast.NoFeatureID, err
		}
		return d.b.Features.NewAttr(d.span(f.Line), d.b.Name(f.Name), d.typeOf(f.Type), init), nil
	}
	if f.Expr == nil {
		return ast.NoFeatureID, d.fail(diag.SynMalformedDump, "method %s at line %d has no body", f.Name, f.Line)
	}
	body, err := d.expr(f.Expr)
	if err != nil {
		return ast.NoFeatureID, err
	}
	formals := make([]ast.FormalID, 0, len(f.Formals))
	for _, p := range f.Formals {
		formals = append(formals, d.b.Features.NewFormal(d.span(p.Line), d.b.Name(p.Name), d.typeOf(p.Type)))
	}
	return d.b.Features.NewMethod(d.span(f.Line), d.b.Name(f.Name), formals, d.typeOf(f.Type), body), nil
}

func (d *decoder) kids(x *binExpr, n int) ([]ast.ExprID, error) {
	if n >= 0 && len(x.Kids) != n {
		return nil, d.fail(diag.SynMalformedDump, "%s at line %d has %d operands, want %d", x.Tag, x.Line, len(x.Kids), n)
	}
	out := make([]ast.ExprID, len(x.Kids))
	for i, k := range x.Kids {
		id, err := d.expr(k)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// optExpr decodes an initializer; nil means "uninitialized".
func (d *decoder) optExpr(x *binExpr) (ast.ExprID, error) {
	if x == nil {
		return ast.NoExprID, nil
	}
	return d.expr(x)
}

// expr decodes an expression that must be present.
func (d *decoder) expr(x *binExpr) (ast.ExprID, error) {
	if x == nil {
		return ast.NoExprID, d.fail(diag.SynMalformedDump, "missing expression")
	}
	ex := d.b.Exprs
	sp := d.span(x.Line)

	if op, ok := binaryTags[x.Tag]; ok {
		k, err := d.kids(x, 2)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewBinary(sp, op, k[0], k[1]), nil
	}
	if kind, ok := unaryTags[x.Tag]; ok {
		k, err := d.kids(x, 1)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewUnary(sp, kind, k[0]), nil
	}

	switch x.Tag {
	case tagBool:
		return ex.NewBool(sp, x.Text == "1"), nil
	case tagInt:
		return ex.NewInt(sp, d.b.Ints.Intern(x.Text)), nil
	case tagString:
		return ex.NewString(sp, d.b.Strings.Intern(x.Text)), nil
	case tagDispatch, tagStatic:
		k, err := d.kids(x, -1)
		if err != nil {
			return ast.NoExprID, err
		}
		if len(k) == 0 {
			return ast.NoExprID, d.fail(diag.SynMalformedDump, "dispatch at line %d has no receiver", x.Line)
		}
		return ex.NewDispatch(sp, k[0], d.typeOf(x.Type), d.b.Name(x.Text), k[1:]), nil
	case tagAssign:
		k, err := d.kids(x, 1)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewAssign(sp, d.b.Name(x.Text), k[0]), nil
	case tagObject:
		return ex.NewObject(sp, d.b.Name(x.Text)), nil
	case tagNew:
		return ex.NewNewExpr(sp, d.typeOf(x.Type)), nil
	case tagCond:
		k, err := d.kids(x, 3)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewCond(sp, k[0], k[1], k[2]), nil
	case tagLoop:
		k, err := d.kids(x, 2)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewLoop(sp, k[0], k[1]), nil
	case tagBlock:
		k, err := d.kids(x, -1)
		if err != nil {
			return ast.NoExprID, err
		}
		if len(k) == 0 {
			return ast.NoExprID, d.fail(diag.SynMalformedDump, "empty block at line %d", x.Line)
		}
		return ex.NewBlock(sp, k), nil
	case tagLet:
		if len(x.Kids) != 2 {
			return ast.NoExprID, d.fail(diag.SynMalformedDump, "%s at line %d has %d operands, want 2", x.Tag, x.Line, len(x.Kids))
		}
		init, err := d.optExpr(x.Kids[0])
		if err != nil {
			return ast.NoExprID, err
		}
		body, err := d.expr(x.Kids[1])
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewLet(sp, d.b.Name(x.Text), d.typeOf(x.Type), init, body), nil
	case tagCase:
		k, err := d.kids(x, 1)
		if err != nil {
			return ast.NoExprID, err
		}
		if len(x.Branches) == 0 {
			return ast.NoExprID, d.fail(diag.SynMalformedDump, "case without branches at line %d", x.Line)
		}
		branches := make([]ast.CaseBranch, 0, len(x.Branches))
		for _, br := range x.Branches {
			body, err := d.expr(br.Body)
			if err != nil {
				return ast.NoExprID, err
			}
			branches = append(branches, ast.CaseBranch{
				Name: d.b.Name(br.Name),
				Type: d.typeOf(br.Type),
				Body: body,
				Span: d.span(br.Line),
			})
		}
		return ex.NewCase(sp, k[0], branches), nil
	default:
		return ast.NoExprID, d.fail(diag.SynUnknownNode, "unknown node %q at line %d", x.Tag, x.Line)
	}
}
