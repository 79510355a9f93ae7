package astio

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/source"
	"coolc/internal/types"
)

// noClass is the parent written for Object in dumps of the basic classes.
const noClass = "_no_class"

// SyntaxError describes the first malformed line of a dump.
type SyntaxError struct {
	Code diag.Code
	Span source.Span
	Name string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

type dumpLine struct {
	text string
	no   int
}

type reader struct {
	b     *ast.Builder
	name  string
	dump  source.FileID
	lines []dumpLine
	pos   int

	file     source.FileID // файл текущего класса
	lastLine int
}

// ReadText parses a text dump into b. The first malformed line is
// reported to rep (when non-nil) and returned as a *SyntaxError.
func ReadText(b *ast.Builder, name string, data []byte, rep diag.Reporter) (*ast.Program, error) {
	r := &reader{b: b, name: name, dump: b.Files.Location(name)}
	r.file = r.dump
	for i, raw := range bytes.Split(data, []byte{'\n'}) {
		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}
		r.lines = append(r.lines, dumpLine{text: text, no: i + 1})
	}
	prog, err := r.program()
	if err != nil {
		if se, ok := err.(*SyntaxError); ok && rep != nil {
			diag.ReportError(rep, se.Code, se.Span, se.Msg).Emit()
		}
		return nil, err
	}
	return prog, nil
}

func (r *reader) fail(code diag.Code, format string, args ...any) error {
	no := 0
	switch {
	case r.pos < len(r.lines):
		no = r.lines[r.pos].no
	case len(r.lines) > 0:
		no = r.lines[len(r.lines)-1].no
	}
	return &SyntaxError{
		Code: code,
		Span: source.LineSpan(r.dump, no),
		Name: r.name,
		Line: no,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (r *reader) eof(what string) error {
	return r.fail(diag.SynUnexpectedEOF, "unexpected end of dump, expected %s", what)
}

func (r *reader) peek(off int) (string, bool) {
	if r.pos+off >= len(r.lines) {
		return "", false
	}
	return r.lines[r.pos+off].text, true
}

// peekTag returns the tag of the next node, looking past its header.
func (r *reader) peekTag() string {
	text, ok := r.peek(0)
	if !ok {
		return ""
	}
	if strings.HasPrefix(text, "#") {
		text, _ = r.peek(1)
	}
	return text
}

func (r *reader) word(what string) (string, error) {
	text, ok := r.peek(0)
	if !ok {
		return "", r.eof(what)
	}
	r.pos++
	return text, nil
}

func (r *reader) expect(want string) error {
	text, ok := r.peek(0)
	if !ok {
		return r.eof(strconv.Quote(want))
	}
	if text != want {
		return r.fail(diag.SynMalformedDump, "expected %q, found %q", want, text)
	}
	r.pos++
	return nil
}

// header consumes an optional "#<line>" and the node tag. A node without
// a header inherits the previous line number.
func (r *reader) header(what string) (int, string, error) {
	text, ok := r.peek(0)
	if !ok {
		return 0, "", r.eof(what)
	}
	if strings.HasPrefix(text, "#") {
		n, err := strconv.Atoi(text[1:])
		if err != nil || n < 0 {
			return 0, "", r.fail(diag.SynBadLiteral, "bad line header %q", text)
		}
		r.lastLine = n
		r.pos++
	}
	tag, err := r.word(what)
	return r.lastLine, tag, err
}

func (r *reader) span(line int) source.Span {
	return source.LineSpan(r.file, line)
}

func (r *reader) typeName(what string) (types.ClassType, error) {
	w, err := r.word(what)
	if err != nil {
		return types.NoType, err
	}
	if w == noClass {
		return types.NoType, nil
	}
	return r.b.Type(w), nil
}

func (r *reader) ident(what string) (source.StringID, error) {
	w, err := r.word(what)
	if err != nil {
		return source.NoStringID, err
	}
	return r.b.Name(w), nil
}

func (r *reader) program() (*ast.Program, error) {
	line, tag, err := r.header("program")
	if err != nil {
		return nil, err
	}
	if tag != tagProgram {
		r.pos--
		return nil, r.fail(diag.SynUnknownNode, "expected %s, found %q", tagProgram, tag)
	}
	prog := r.b.NewProgram(source.LineSpan(r.dump, line))
	for r.pos < len(r.lines) {
		if err := r.class(prog); err != nil {
			return nil, err
		}
	}
	if len(prog.Classes) > 0 {
		// программа относится к файлу первого класса
		prog.Span.File = r.b.Classes.Get(prog.Classes[0]).Span.File
	}
	return prog, nil
}

func (r *reader) class(prog *ast.Program) error {
	line, tag, err := r.header("class")
	if err != nil {
		return err
	}
	if tag != tagClass {
		r.pos--
		return r.fail(diag.SynUnknownNode, "expected %s, found %q", tagClass, tag)
	}
	name, err := r.typeName("class name")
	if err != nil {
		return err
	}
	parent, err := r.typeName("parent name")
	if err != nil {
		return err
	}
	lit, err := r.word("file name")
	if err != nil {
		return err
	}
	fname, err := Unquote(lit)
	if err != nil {
		r.pos--
		return r.fail(diag.SynBadLiteral, "%v", err)
	}
	r.file = r.b.Files.Location(fname)
	if err := r.expect("("); err != nil {
		return err
	}
	id := r.b.NewClass(prog, r.span(line), name, parent)
	for {
		text, ok := r.peek(0)
		if !ok {
			return r.eof(`")"`)
		}
		if text == ")" {
			r.pos++
			return nil
		}
		fid, err := r.feature()
		if err != nil {
			return err
		}
		r.b.PushFeature(id, fid)
	}
}

func (r *reader) feature() (ast.FeatureID, error) {
	line, tag, err := r.header("feature")
	if err != nil {
		return ast.NoFeatureID, err
	}
	switch tag {
	case tagAttr:
		name, err := r.ident("attribute name")
		if err != nil {
			return ast.NoFeatureID, err
		}
		typ, err := r.typeName("attribute type")
		if err != nil {
			return ast.NoFeatureID, err
		}
		init, err := r.optExpr()
		if err != nil {
			return ast.NoFeatureID, err
		}
		return r.b.Features.NewAttr(r.span(line), name, typ, init), nil
	case tagMethod:
		name, err := r.ident("method name")
		if err != nil {
			return ast.NoFeatureID, err
		}
		var formals []ast.FormalID
		for r.peekTag() == tagFormal {
			fl, _, err := r.header("formal")
			if err != nil {
				return ast.NoFeatureID, err
			}
			pname, err := r.ident("formal name")
			if err != nil {
				return ast.NoFeatureID, err
			}
			ptype, err := r.typeName("formal type")
			if err != nil {
				return ast.NoFeatureID, err
			}
			formals = append(formals, r.b.Features.NewFormal(r.span(fl), pname, ptype))
		}
		ret, err := r.typeName("return type")
		if err != nil {
			return ast.NoFeatureID, err
		}
		body, err := r.expr()
		if err != nil {
			return ast.NoFeatureID, err
		}
		return r.b.Features.NewMethod(r.span(line), name, formals, ret, body), nil
	default:
		r.pos--
		return ast.NoFeatureID, r.fail(diag.SynUnknownNode, "expected %s or %s, found %q", tagAttr, tagMethod, tag)
	}
}

// exprList reads expressions while the next node is one.
func (r *reader) exprList() ([]ast.ExprID, error) {
	var out []ast.ExprID
	for isExprTag(r.peekTag()) {
		e, err := r.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *reader) exprs(n int) ([]ast.ExprID, error) {
	out := make([]ast.ExprID, n)
	for i := range out {
		e, err := r.expr()
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// expr reads an expression that must be present.
func (r *reader) expr() (ast.ExprID, error) { return r.node(false) }

// optExpr reads an attribute or let initializer, where _no_expr means
// "uninitialized".
func (r *reader) optExpr() (ast.ExprID, error) { return r.node(true) }

func (r *reader) node(optional bool) (ast.ExprID, error) {
	line, tag, err := r.header("expression")
	if err != nil {
		return ast.NoExprID, err
	}
	if tag == tagNoExpr && !optional {
		r.pos--
		return ast.NoExprID, r.fail(diag.SynMalformedDump, "%s is only allowed as an attribute or let initializer", tagNoExpr)
	}
	id, err := r.exprBody(line, tag)
	if err != nil {
		return ast.NoExprID, err
	}
	// аннотация типа необязательна и при чтении игнорируется
	if text, ok := r.peek(0); ok && strings.HasPrefix(text, ":") {
		r.pos++
	}
	return id, nil
}

func (r *reader) exprBody(line int, tag string) (ast.ExprID, error) {
	ex := r.b.Exprs
	sp := r.span(line)

	if op, ok := binaryTags[tag]; ok {
		kids, err := r.exprs(2)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewBinary(sp, op, kids[0], kids[1]), nil
	}
	if kind, ok := unaryTags[tag]; ok {
		operand, err := r.expr()
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewUnary(sp, kind, operand), nil
	}

	switch tag {
	case tagNoExpr:
		return ast.NoExprID, nil
	case tagBool:
		w, err := r.word("bool value")
		if err != nil {
			return ast.NoExprID, err
		}
		switch w {
		case "1", "true":
			return ex.NewBool(sp, true), nil
		case "0", "false":
			return ex.NewBool(sp, false), nil
		}
		r.pos--
		return ast.NoExprID, r.fail(diag.SynBadLiteral, "bad bool literal %q", w)
	case tagInt:
		w, err := r.word("int value")
		if err != nil {
			return ast.NoExprID, err
		}
		if strings.TrimLeft(w, "0123456789") != "" {
			r.pos--
			return ast.NoExprID, r.fail(diag.SynBadLiteral, "bad int literal %q", w)
		}
		return ex.NewInt(sp, r.b.Ints.Intern(w)), nil
	case tagString:
		w, err := r.word("string value")
		if err != nil {
			return ast.NoExprID, err
		}
		s, err := Unquote(w)
		if err != nil {
			r.pos--
			return ast.NoExprID, r.fail(diag.SynBadLiteral, "%v", err)
		}
		return ex.NewString(sp, r.b.Strings.Intern(s)), nil
	case tagDispatch, tagStatic:
		return r.dispatch(sp, tag == tagStatic)
	case tagAssign:
		name, err := r.ident("assignee")
		if err != nil {
			return ast.NoExprID, err
		}
		value, err := r.expr()
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewAssign(sp, name, value), nil
	case tagObject:
		name, err := r.ident("object name")
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewObject(sp, name), nil
	case tagNew:
		typ, err := r.typeName("class name")
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewNewExpr(sp, typ), nil
	case tagCond:
		kids, err := r.exprs(3)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewCond(sp, kids[0], kids[1], kids[2]), nil
	case tagLoop:
		kids, err := r.exprs(2)
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewLoop(sp, kids[0], kids[1]), nil
	case tagBlock:
		kids, err := r.exprList()
		if err != nil {
			return ast.NoExprID, err
		}
		if len(kids) == 0 {
			return ast.NoExprID, r.fail(diag.SynMalformedDump, "empty block")
		}
		return ex.NewBlock(sp, kids), nil
	case tagCase:
		return r.typcase(sp)
	case tagLet:
		name, err := r.ident("let name")
		if err != nil {
			return ast.NoExprID, err
		}
		typ, err := r.typeName("let type")
		if err != nil {
			return ast.NoExprID, err
		}
		init, err := r.optExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		body, err := r.expr()
		if err != nil {
			return ast.NoExprID, err
		}
		return ex.NewLet(sp, name, typ, init, body), nil
	default:
		r.pos--
		return ast.NoExprID, r.fail(diag.SynUnknownNode, "unknown node %q", tag)
	}
}

func (r *reader) dispatch(sp source.Span, static bool) (ast.ExprID, error) {
	recv, err := r.expr()
	if err != nil {
		return ast.NoExprID, err
	}
	staticType := types.NoType
	if static {
		if staticType, err = r.typeName("static type"); err != nil {
			return ast.NoExprID, err
		}
	}
	method, err := r.ident("method name")
	if err != nil {
		return ast.NoExprID, err
	}
	if err := r.expect("("); err != nil {
		return ast.NoExprID, err
	}
	args, err := r.exprList()
	if err != nil {
		return ast.NoExprID, err
	}
	if err := r.expect(")"); err != nil {
		return ast.NoExprID, err
	}
	return r.b.Exprs.NewDispatch(sp, recv, staticType, method, args), nil
}

func (r *reader) typcase(sp source.Span) (ast.ExprID, error) {
	scrutinee, err := r.expr()
	if err != nil {
		return ast.NoExprID, err
	}
	var branches []ast.CaseBranch
	for r.peekTag() == tagBranch {
		line, _, err := r.header("branch")
		if err != nil {
			return ast.NoExprID, err
		}
		name, err := r.ident("branch name")
		if err != nil {
			return ast.NoExprID, err
		}
		typ, err := r.typeName("branch type")
		if err != nil {
			return ast.NoExprID, err
		}
		body, err := r.expr()
		if err != nil {
			return ast.NoExprID, err
		}
		branches = append(branches, ast.CaseBranch{Name: name, Type: typ, Body: body, Span: r.span(line)})
	}
	if len(branches) == 0 {
		return ast.NoExprID, r.fail(diag.SynMalformedDump, "case without branches")
	}
	return r.b.Exprs.NewCase(sp, scrutinee, branches), nil
}
