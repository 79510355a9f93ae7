package ast

import (
	"coolc/internal/source"
	"coolc/internal/types"
)

// Exprs manages allocation of expressions. Each kind keeps its payload in
// its own arena; Expr.Payload indexes into the arena of Expr.Kind.
type Exprs struct {
	Arena      *Arena[Expr]
	Literals   *Arena[ExprLiteralData]
	Unaries    *Arena[ExprUnaryData]
	Binaries   *Arena[ExprBinaryData]
	Dispatches *Arena[ExprDispatchData]
	Assigns    *Arena[ExprAssignData]
	Objects    *Arena[ExprObjectData]
	News       *Arena[ExprNewData]
	Conds      *Arena[ExprCondData]
	Loops      *Arena[ExprLoopData]
	Cases      *Arena[ExprCaseData]
	Blocks     *Arena[ExprBlockData]
	Lets       *Arena[ExprLetData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 4
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		Literals:   NewArena[ExprLiteralData](small),
		Unaries:    NewArena[ExprUnaryData](small),
		Binaries:   NewArena[ExprBinaryData](small),
		Dispatches: NewArena[ExprDispatchData](small),
		Assigns:    NewArena[ExprAssignData](small),
		Objects:    NewArena[ExprObjectData](small),
		News:       NewArena[ExprNewData](small),
		Conds:      NewArena[ExprCondData](small),
		Loops:      NewArena[ExprLoopData](small),
		Cases:      NewArena[ExprCaseData](small),
		Blocks:     NewArena[ExprBlockData](small),
		Lets:       NewArena[ExprLetData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

// NewNoOp creates an explicit "no expression" node. It differs from
// NoExprID in that it has a location and gets a type slot.
func (e *Exprs) NewNoOp(span source.Span) ExprID {
	return e.new(ExprNoOp, span, 0)
}

func (e *Exprs) NewBool(span source.Span, v bool) ExprID {
	return e.new(ExprBool, span, e.Literals.Allocate(ExprLiteralData{Bool: v}))
}

func (e *Exprs) NewString(span source.Span, value source.StringID) ExprID {
	return e.new(ExprString, span, e.Literals.Allocate(ExprLiteralData{Value: value}))
}

func (e *Exprs) NewInt(span source.Span, value source.StringID) ExprID {
	return e.new(ExprInt, span, e.Literals.Allocate(ExprLiteralData{Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprBool, ExprString, ExprInt)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

// NewUnary creates a neg, isvoid or not node.
func (e *Exprs) NewUnary(span source.Span, kind ExprKind, operand ExprID) ExprID {
	switch kind {
	case ExprNeg, ExprIsVoid, ExprNot:
	default:
		panic("ast: NewUnary with non-unary kind " + kind.String())
	}
	return e.new(kind, span, e.Unaries.Allocate(ExprUnaryData{Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprNeg, ExprIsVoid, ExprNot)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

// NewBinary creates an arithmetic or comparison node depending on op.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	kind := ExprCompare
	if op.IsArith() {
		kind = ExprArith
	}
	return e.new(kind, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprArith, ExprCompare)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

// NewDispatch creates a dispatch; pass types.NoType as static for an
// ordinary call.
func (e *Exprs) NewDispatch(span source.Span, receiver ExprID, static types.ClassType, method source.StringID, args []ExprID) ExprID {
	return e.new(ExprDispatch, span, e.Dispatches.Allocate(ExprDispatchData{
		Receiver: receiver,
		Static:   static,
		Method:   method,
		Args:     args,
	}))
}

func (e *Exprs) Dispatch(id ExprID) (*ExprDispatchData, bool) {
	p, ok := e.payload(id, ExprDispatch)
	if !ok {
		return nil, false
	}
	return e.Dispatches.Get(p), true
}

func (e *Exprs) NewAssign(span source.Span, name source.StringID, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Name: name, Value: value}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

func (e *Exprs) NewObject(span source.Span, name source.StringID) ExprID {
	return e.new(ExprObject, span, e.Objects.Allocate(ExprObjectData{Name: name}))
}

func (e *Exprs) Object(id ExprID) (*ExprObjectData, bool) {
	p, ok := e.payload(id, ExprObject)
	if !ok {
		return nil, false
	}
	return e.Objects.Get(p), true
}

func (e *Exprs) NewNewExpr(span source.Span, typ types.ClassType) ExprID {
	return e.new(ExprNew, span, e.News.Allocate(ExprNewData{Type: typ}))
}

// NewOf returns the payload of a `new T` expression.
func (e *Exprs) NewOf(id ExprID) (*ExprNewData, bool) {
	p, ok := e.payload(id, ExprNew)
	if !ok {
		return nil, false
	}
	return e.News.Get(p), true
}

func (e *Exprs) NewCond(span source.Span, pred, then, els ExprID) ExprID {
	return e.new(ExprCond, span, e.Conds.Allocate(ExprCondData{Pred: pred, Then: then, Else: els}))
}

func (e *Exprs) Cond(id ExprID) (*ExprCondData, bool) {
	p, ok := e.payload(id, ExprCond)
	if !ok {
		return nil, false
	}
	return e.Conds.Get(p), true
}

func (e *Exprs) NewLoop(span source.Span, pred, body ExprID) ExprID {
	return e.new(ExprLoop, span, e.Loops.Allocate(ExprLoopData{Pred: pred, Body: body}))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	p, ok := e.payload(id, ExprLoop)
	if !ok {
		return nil, false
	}
	return e.Loops.Get(p), true
}

func (e *Exprs) NewCase(span source.Span, scrutinee ExprID, branches []CaseBranch) ExprID {
	return e.new(ExprCase, span, e.Cases.Allocate(ExprCaseData{Scrutinee: scrutinee, Branches: branches}))
}

func (e *Exprs) Case(id ExprID) (*ExprCaseData, bool) {
	p, ok := e.payload(id, ExprCase)
	if !ok {
		return nil, false
	}
	return e.Cases.Get(p), true
}

func (e *Exprs) NewBlock(span source.Span, exprs []ExprID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{Exprs: exprs}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

func (e *Exprs) NewLet(span source.Span, name source.StringID, typ types.ClassType, init, body ExprID) ExprID {
	return e.new(ExprLet, span, e.Lets.Allocate(ExprLetData{Name: name, Type: typ, Init: init, Body: body}))
}

// NewLetChain desugars `let a, b, c in body` into nested single lets and
// returns the outermost one.
func (e *Exprs) NewLetChain(bindings []LetBinding, body ExprID) ExprID {
	if len(bindings) == 0 {
		panic("ast: let without bindings")
	}
	inner := body
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		inner = e.NewLet(b.Span, b.Name, b.Type, b.Init, inner)
	}
	return inner
}

func (e *Exprs) Let(id ExprID) (*ExprLetData, bool) {
	p, ok := e.payload(id, ExprLet)
	if !ok {
		return nil, false
	}
	return e.Lets.Get(p), true
}

// Children returns the direct sub-expressions of id in evaluation order.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ExprNeg, ExprIsVoid, ExprNot:
		u, _ := e.Unary(id)
		return []ExprID{u.Operand}
	case ExprArith, ExprCompare:
		b, _ := e.Binary(id)
		return []ExprID{b.Left, b.Right}
	case ExprDispatch:
		d, _ := e.Dispatch(id)
		return append([]ExprID{d.Receiver}, d.Args...)
	case ExprAssign:
		a, _ := e.Assign(id)
		return []ExprID{a.Value}
	case ExprCond:
		c, _ := e.Cond(id)
		return []ExprID{c.Pred, c.Then, c.Else}
	case ExprLoop:
		l, _ := e.Loop(id)
		return []ExprID{l.Pred, l.Body}
	case ExprCase:
		c, _ := e.Case(id)
		out := []ExprID{c.Scrutinee}
		for _, br := range c.Branches {
			out = append(out, br.Body)
		}
		return out
	case ExprBlock:
		b, _ := e.Block(id)
		return append([]ExprID(nil), b.Exprs...)
	case ExprLet:
		l, _ := e.Let(id)
		if l.Init.IsValid() {
			return []ExprID{l.Init, l.Body}
		}
		return []ExprID{l.Body}
	default:
		return nil
	}
}

// Walk visits id and every sub-expression in pre-order.
func (e *Exprs) Walk(id ExprID, visit func(ExprID)) {
	if !id.IsValid() {
		return
	}
	visit(id)
	for _, child := range e.Children(id) {
		e.Walk(child, visit)
	}
}
