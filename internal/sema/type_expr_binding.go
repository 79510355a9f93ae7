package sema

import (
	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/types"
)

func (tc *typeChecker) typeLet(id ast.ExprID, expr *ast.Expr) types.ClassType {
	data, _ := tc.b.Exprs.Let(id)
	name := tc.name(data.Name)
	failed := false

	if data.Name == tc.self {
		tc.report(diag.SemLetSelf, expr.Span, "'self' cannot be bound in a 'let' expression.")
		failed = true
	}
	declared := data.Type
	if !tc.isDefined(declared, true) {
		tc.report(diag.SemLetTypeUndefined, expr.Span, "Class %s of let-bound identifier %s is undefined.", tc.label(declared), name)
		declared = types.NoType
		failed = true
	}

	// инициализатор проверяется вне области видимости нового имени
	if data.Init.IsValid() {
		init := tc.typeExpr(data.Init)
		switch {
		case init.IsNone():
			failed = true
		case declared.IsNone():
		case !tc.h.Conforms(tc.trueType(init), tc.trueType(declared)):
			tc.report(diag.SemLetInitMismatch, expr.Span,
				"Inferred type %s of initialization of %s does not conform to identifier's declared type %s.",
				tc.label(init), name, tc.label(declared))
			failed = true
		}
	}

	tc.vars.EnterScope()
	if data.Name != tc.self {
		tc.vars.Insert(data.Name, declared)
	}
	body := tc.typeExpr(data.Body)
	tc.vars.ExitScope()

	if failed {
		return types.NoType
	}
	return body
}

// typeCase types each branch in its own scope; the case takes the LUB of
// all branch types.
func (tc *typeChecker) typeCase(id ast.ExprID) types.ClassType {
	data, _ := tc.b.Exprs.Case(id)
	failed := tc.typeExpr(data.Scrutinee).IsNone()

	seen := make(map[types.ClassType]struct{}, len(data.Branches))
	result := types.NoType
	for i := range data.Branches {
		br := &data.Branches[i]
		if br.Name == tc.self {
			tc.report(diag.SemCaseSelf, br.Span, "'self' bound in 'case'.")
			failed = true
		}
		bound := br.Type
		switch {
		case !tc.isDefined(br.Type, false):
			tc.report(diag.SemCaseTypeUndefined, br.Span, "Class %s of case branch is undefined.", tc.label(br.Type))
			bound = types.NoType
			failed = true
		default:
			if _, dup := seen[br.Type]; dup {
				tc.report(diag.SemCaseDuplicateBranch, br.Span, "Duplicate branch %s in case statement.", tc.label(br.Type))
				failed = true
			}
			seen[br.Type] = struct{}{}
		}

		tc.vars.EnterScope()
		if br.Name != tc.self {
			tc.vars.Insert(br.Name, bound)
		}
		bt := tc.typeExpr(br.Body)
		tc.vars.ExitScope()

		switch {
		case bt.IsNone():
			failed = true
		case result.IsNone():
			result = bt
		default:
			result = tc.lub(result, bt)
		}
	}
	if failed || len(data.Branches) == 0 {
		return types.NoType
	}
	return result
}
