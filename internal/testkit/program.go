package testkit

import (
	"strconv"

	"coolc/internal/ast"
	"coolc/internal/source"
	"coolc/internal/types"
)

// Prog assembles an AST program for tests. Nodes are located at the
// current line, set with Line.
type Prog struct {
	B       *ast.Builder
	Program *ast.Program
	File    source.FileID
	line    int
}

func NewProg(file string) *Prog {
	b := ast.NewBuilder(nil, ast.Hints{})
	fid := b.Files.Location(file)
	p := &Prog{B: b, File: fid, line: 1}
	p.Program = b.NewProgram(p.Span())
	return p
}

// Line sets the line of nodes created next.
func (p *Prog) Line(n int) *Prog {
	p.line = n
	return p
}

func (p *Prog) Span() source.Span {
	return source.LineSpan(p.File, p.line)
}

// Type resolves a source type name; "" means no type.
func (p *Prog) Type(name string) types.ClassType {
	return p.B.Type(name)
}

// Class declares a class; an empty parent means Object.
func (p *Prog) Class(name, parent string, features ...ast.FeatureID) ast.ClassID {
	pt := types.Object
	if parent != "" {
		pt = p.Type(parent)
	}
	id := p.B.NewClass(p.Program, p.Span(), p.Type(name), pt)
	for _, f := range features {
		p.B.PushFeature(id, f)
	}
	return id
}

func (p *Prog) Method(name string, formals []ast.FormalID, ret string, body ast.ExprID) ast.FeatureID {
	return p.B.Features.NewMethod(p.Span(), p.B.Name(name), formals, p.Type(ret), body)
}

func (p *Prog) Attr(name, typ string, init ast.ExprID) ast.FeatureID {
	return p.B.Features.NewAttr(p.Span(), p.B.Name(name), p.Type(typ), init)
}

// Formals takes name/type pairs.
func (p *Prog) Formals(pairs ...string) []ast.FormalID {
	out := make([]ast.FormalID, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, p.B.Features.NewFormal(p.Span(), p.B.Name(pairs[i]), p.Type(pairs[i+1])))
	}
	return out
}

func (p *Prog) Int(v int) ast.ExprID {
	return p.B.Exprs.NewInt(p.Span(), p.B.Ints.Intern(strconv.Itoa(v)))
}

func (p *Prog) Str(s string) ast.ExprID {
	return p.B.Exprs.NewString(p.Span(), p.B.Strings.Intern(s))
}

func (p *Prog) Bool(v bool) ast.ExprID {
	return p.B.Exprs.NewBool(p.Span(), v)
}

func (p *Prog) Obj(name string) ast.ExprID {
	return p.B.Exprs.NewObject(p.Span(), p.B.Name(name))
}

func (p *Prog) Self() ast.ExprID {
	return p.Obj("self")
}

func (p *Prog) New(typ string) ast.ExprID {
	return p.B.Exprs.NewNewExpr(p.Span(), p.Type(typ))
}

func (p *Prog) Bin(op ast.BinaryOp, l, r ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewBinary(p.Span(), op, l, r)
}

func (p *Prog) Add(l, r ast.ExprID) ast.ExprID { return p.Bin(ast.OpAdd, l, r) }
func (p *Prog) Eq(l, r ast.ExprID) ast.ExprID  { return p.Bin(ast.OpEq, l, r) }
func (p *Prog) Lt(l, r ast.ExprID) ast.ExprID  { return p.Bin(ast.OpLt, l, r) }

func (p *Prog) Neg(e ast.ExprID) ast.ExprID { return p.B.Exprs.NewUnary(p.Span(), ast.ExprNeg, e) }
func (p *Prog) Not(e ast.ExprID) ast.ExprID { return p.B.Exprs.NewUnary(p.Span(), ast.ExprNot, e) }
func (p *Prog) IsVoid(e ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewUnary(p.Span(), ast.ExprIsVoid, e)
}

func (p *Prog) Assign(name string, e ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewAssign(p.Span(), p.B.Name(name), e)
}

func (p *Prog) If(pred, then, els ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewCond(p.Span(), pred, then, els)
}

func (p *Prog) While(pred, body ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewLoop(p.Span(), pred, body)
}

func (p *Prog) Block(es ...ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewBlock(p.Span(), es)
}

// Let binds one name; pass ast.NoExprID for no initializer.
func (p *Prog) Let(name, typ string, init, body ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewLet(p.Span(), p.B.Name(name), p.Type(typ), init, body)
}

func (p *Prog) Branch(name, typ string, body ast.ExprID) ast.CaseBranch {
	return ast.CaseBranch{Name: p.B.Name(name), Type: p.Type(typ), Body: body, Span: p.Span()}
}

func (p *Prog) Case(e ast.ExprID, branches ...ast.CaseBranch) ast.ExprID {
	return p.B.Exprs.NewCase(p.Span(), e, branches)
}

func (p *Prog) Call(recv ast.ExprID, method string, args ...ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewDispatch(p.Span(), recv, types.NoType, p.B.Name(method), args)
}

// SelfCall is `method(args)` with an implicit self receiver.
func (p *Prog) SelfCall(method string, args ...ast.ExprID) ast.ExprID {
	return p.Call(p.Self(), method, args...)
}

func (p *Prog) StaticCall(recv ast.ExprID, typ, method string, args ...ast.ExprID) ast.ExprID {
	return p.B.Exprs.NewDispatch(p.Span(), recv, p.Type(typ), p.B.Name(method), args)
}

// MainClass declares `class Main { main(): Object { body } }`.
func (p *Prog) MainClass(body ast.ExprID) ast.ClassID {
	return p.Class("Main", "", p.Method("main", nil, "Object", body))
}
