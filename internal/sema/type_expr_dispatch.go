package sema

import (
	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/source"
	"coolc/internal/types"
)

// typeDispatch covers ordinary, self and static dispatch.
func (tc *typeChecker) typeDispatch(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Dispatch(id)
	recv := tc.typeExpr(data.Receiver)

	argTypes := make([]types.ClassType, 0, len(data.Args))
	argsOK := true
	for _, arg := range data.Args {
		t := tc.typeExpr(arg)
		if t.IsNone() {
			argsOK = false
		}
		argTypes = append(argTypes, t)
	}
	if recv.IsNone() {
		return types.NoType
	}

	dispatch, ok := tc.dispatchClass(recv, data, expr)
	if !ok || !argsOK {
		return types.NoType
	}

	method, ok := tc.findMethod(data.Method, argTypes, dispatch)
	if !ok {
		tc.report(diag.SemNoMatchingMethod, expr.Span,
			"There is no method named %s on type %s which takes the specified parameters",
			tc.name(data.Method), tc.label(dispatch))
		return types.NoType
	}

	ret := tc.b.Features.Get(method).Type
	if !tc.isDefined(ret, true) {
		return types.NoType // reported at the declaration
	}
	// SELF_TYPE resolves to the class enclosing the call site.
	return tc.trueType(ret)
}

// dispatchClass returns the class the method lookup starts from.
func (tc *typeChecker) dispatchClass(recv types.ClassType, data *ast.ExprDispatchData, expr *ast.Expr) (types.ClassType, bool) {
	dynamic := tc.trueType(recv)
	if !tc.h.IsValid(dynamic) {
		return types.NoType, false
	}
	if !data.IsStatic() {
		return dynamic, true
	}
	if !tc.h.IsValid(data.Static) {
		tc.report(diag.SemStaticTypeUndefined, expr.Span, "Static type %s is undefined", tc.label(data.Static))
		return types.NoType, false
	}
	if !tc.h.Conforms(dynamic, data.Static) {
		tc.report(diag.SemStaticDispatchMismatch, expr.Span,
			"Expression does not conform to specified static dispatch type %s", tc.label(data.Static))
		return types.NoType, false
	}
	return data.Static, true
}

// findMethod searches cls and then its ancestors for name. The nearest
// class declaring the name decides: its method must take len(args)
// parameters and every argument's true type must conform to the formal.
func (tc *typeChecker) findMethod(name source.StringID, args []types.ClassType, cls types.ClassType) (ast.FeatureID, bool) {
	for _, t := range tc.h.Ancestors(cls) {
		classID, _ := tc.h.Class(t)
		fid, ok := tc.b.Methods(classID)[name]
		if !ok {
			continue
		}
		formals := tc.b.FormalTypes(fid)
		if len(formals) != len(args) {
			return ast.NoFeatureID, false
		}
		for i, formal := range formals {
			if !tc.h.Conforms(tc.trueType(args[i]), formal) {
				return ast.NoFeatureID, false
			}
		}
		return fid, true
	}
	return ast.NoFeatureID, false
}
