package sema

import (
	"fmt"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/trace"
	"coolc/internal/types"
)

// typeExpr computes, records and returns the static type of id. NoType
// means the node failed; the failure was reported by the node itself or by
// a sub-expression, and callers must not report again.
func (tc *typeChecker) typeExpr(id ast.ExprID) types.ClassType {
	expr := tc.b.Exprs.Get(id)
	if expr == nil {
		return types.NoType
	}

	var span *trace.Span
	if tc.tracer.Level() >= trace.LevelDebug {
		span = trace.Begin(tc.tracer, trace.ScopeNode, expr.Kind.String(), tc.classSpan)
		defer span.End("")
	}

	var t types.ClassType
	switch expr.Kind {
	case ast.ExprNoOp:
		t = types.NoType
	case ast.ExprBool:
		t = types.Bool
	case ast.ExprString:
		t = types.String
	case ast.ExprInt:
		t = types.Int
	case ast.ExprNeg:
		t = tc.typeUnary(id, expr, types.Int, "~")
	case ast.ExprNot:
		t = tc.typeUnary(id, expr, types.Bool, "not")
	case ast.ExprIsVoid:
		t = tc.typeIsVoid(id)
	case ast.ExprArith:
		t = tc.typeArith(id, expr)
	case ast.ExprCompare:
		t = tc.typeCompare(id, expr)
	case ast.ExprAssign:
		t = tc.typeAssign(id, expr)
	case ast.ExprObject:
		t = tc.typeObject(id, expr)
	case ast.ExprNew:
		t = tc.typeNew(id, expr)
	case ast.ExprBlock:
		t = tc.typeBlock(id)
	case ast.ExprCond:
		t = tc.typeCond(id, expr)
	case ast.ExprLoop:
		t = tc.typeLoop(id, expr)
	case ast.ExprLet:
		t = tc.typeLet(id, expr)
	case ast.ExprCase:
		t = tc.typeCase(id)
	case ast.ExprDispatch:
		t = tc.typeDispatch(id, expr)
	default:
		panic(fmt.Sprintf("sema: unhandled expression kind %v", expr.Kind))
	}
	return tc.setType(id, t)
}

func (tc *typeChecker) typeUnary(id ast.ExprID, expr *ast.Expr, want types.ClassType, op string) types.ClassType {
	data, _ := tc.b.Exprs.Unary(id)
	t := tc.typeExpr(data.Operand)
	if t.IsNone() {
		return types.NoType
	}
	if t != want {
		code := diag.SemNegOperand
		if want == types.Bool {
			code = diag.SemNotOperand
		}
		tc.report(code, expr.Span, "Argument of '%s' has type %s instead of %s.", op, tc.label(t), tc.label(want))
		return types.NoType
	}
	return want
}

func (tc *typeChecker) typeIsVoid(id ast.ExprID) types.ClassType {
	data, _ := tc.b.Exprs.Unary(id)
	if tc.typeExpr(data.Operand).IsNone() {
		return types.NoType
	}
	return types.Bool
}

func (tc *typeChecker) typeArith(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Binary(id)
	l := tc.typeExpr(data.Left)
	r := tc.typeExpr(data.Right)
	if l.IsNone() || r.IsNone() {
		return types.NoType
	}
	if l != types.Int || r != types.Int {
		tc.report(diag.SemArithOperand, expr.Span, "non-int arguments: %s %s %s", tc.label(l), data.Op, tc.label(r))
		return types.NoType
	}
	return types.Int
}

// typeCompare: `=` between two basic types needs identical types; every
// other comparison needs Int operands.
func (tc *typeChecker) typeCompare(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Binary(id)
	l := tc.typeExpr(data.Left)
	r := tc.typeExpr(data.Right)
	if l.IsNone() || r.IsNone() {
		return types.NoType
	}
	if data.Op == ast.OpEq && l.IsConstant() && r.IsConstant() {
		if l != r {
			tc.report(diag.SemCompareBasic, expr.Span, "Illegal comparison with a basic type")
			return types.NoType
		}
		return types.Bool
	}
	if l != types.Int || r != types.Int {
		tc.report(diag.SemCompareOperand, expr.Span, "non-int arguments: %s %s %s", tc.label(l), data.Op, tc.label(r))
		return types.NoType
	}
	return types.Bool
}

func (tc *typeChecker) typeAssign(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Assign(id)
	value := tc.typeExpr(data.Value)
	name := tc.name(data.Name)
	if data.Name == tc.self {
		tc.report(diag.SemAssignSelf, expr.Span, "Cannot assign to 'self'.")
		return types.NoType
	}
	declared, ok := tc.vars.Lookup(data.Name)
	if !ok {
		tc.report(diag.SemUndefinedVar, expr.Span, "Assignment to undeclared variable %s.", name)
		return types.NoType
	}
	if value.IsNone() || declared.IsNone() {
		return types.NoType
	}
	if !tc.conformsDeclared(value, declared) {
		tc.report(diag.SemAssignMismatch, expr.Span,
			"Type %s of assigned expression does not conform to declared type %s of identifier %s.",
			tc.label(value), tc.label(declared), name)
		return types.NoType
	}
	return value
}

func (tc *typeChecker) typeObject(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Object(id)
	t, ok := tc.vars.Lookup(data.Name)
	if !ok {
		tc.report(diag.SemUndefinedVar, expr.Span, "%s is undefined", tc.name(data.Name))
		return types.NoType
	}
	return t
}

func (tc *typeChecker) typeNew(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.NewOf(id)
	if !tc.isDefined(data.Type, true) {
		tc.report(diag.SemNewUndefined, expr.Span, "'new' used with undefined class %s.", tc.label(data.Type))
		return types.NoType
	}
	return data.Type
}

// typeBlock checks every element; the block takes the last one's type.
func (tc *typeChecker) typeBlock(id ast.ExprID) types.ClassType {
	data, _ := tc.b.Exprs.Block(id)
	failed := false
	last := types.NoType
	for _, e := range data.Exprs {
		last = tc.typeExpr(e)
		if last.IsNone() {
			failed = true
		}
	}
	if failed {
		return types.NoType
	}
	return last
}

func (tc *typeChecker) typeCond(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Cond(id)
	pred := tc.typeExpr(data.Pred)
	then := tc.typeExpr(data.Then)
	els := tc.typeExpr(data.Else)
	if pred.IsNone() || then.IsNone() || els.IsNone() {
		return types.NoType
	}
	if pred != types.Bool {
		tc.report(diag.SemPredicateNotBool, expr.Span, "Predicate of 'if' does not have type Bool.")
		return types.NoType
	}
	return tc.lub(then, els)
}

// typeLoop: a loop has no useful value and is always Object.
func (tc *typeChecker) typeLoop(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Loop(id)
	pred := tc.typeExpr(data.Pred)
	body := tc.typeExpr(data.Body)
	if pred.IsNone() || body.IsNone() {
		return types.NoType
	}
	if pred != types.Bool {
		tc.report(diag.SemPredicateNotBool, expr.Span, "Loop condition does not have type Bool.")
		return types.NoType
	}
	return types.Object
}
