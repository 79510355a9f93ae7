package sema

import (
	"slices"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/source"
	"coolc/internal/trace"
	"coolc/internal/types"
)

// checkClass processes one class and then its inheritable subclasses, so
// attribute and method scopes of ancestors enclose those of descendants.
func (tc *typeChecker) checkClass(id ast.ClassID) {
	cls := tc.b.Classes.Get(id)
	var span *trace.Span
	if tc.tracer.Enabled() {
		span = trace.Begin(tc.tracer, trace.ScopeClass, tc.label(cls.Type), tc.passSpan)
		tc.classSpan = span.ID()
	}

	tc.vars.EnterScope()
	tc.methods.EnterScope()

	tc.class, tc.classType = id, cls.Type
	for _, fid := range tc.b.Attrs(id) {
		tc.declareAttr(cls, tc.b.Features.Get(fid))
	}
	methods := tc.b.Methods(id)
	for _, fid := range cls.Features {
		f := tc.b.Features.Get(fid)
		if f.Kind != ast.FeatureMethod {
			continue
		}
		if methods[f.Name] != fid {
			tc.report(diag.SemMethodRedefined, f.Span, "Method %s is multiply defined.", tc.name(f.Name))
			continue
		}
		tc.declareMethod(cls, fid)
	}

	if cls.Type == types.Main {
		tc.checkMainMethod(cls, methods)
	}

	if !cls.Builtin {
		tc.checkClassBody(id)
	}
	span.End("")

	for _, child := range tc.h.Children(cls.Type) {
		if tc.b.Classes.Get(child).Type.IsInheritable() {
			tc.checkClass(child)
		}
	}

	tc.methods.ExitScope()
	tc.vars.ExitScope()
}

func (tc *typeChecker) declareAttr(cls *ast.Class, f *ast.Feature) {
	if cls.Builtin {
		tc.vars.Insert(f.Name, f.Type)
		return
	}
	name := tc.name(f.Name)
	if !tc.isDefined(f.Type, true) {
		tc.report(diag.SemAttrTypeUndefined, f.Span, "Attribute %s type %s is undefined", name, tc.label(f.Type))
		// bind as NoType so uses of the attribute stay silent
		if f.Name != tc.self && !tc.vars.Contains(f.Name) {
			tc.vars.Insert(f.Name, types.NoType)
		}
		return
	}
	if f.Name == tc.self {
		tc.report(diag.SemAttrSelfName, f.Span, "self cannot be used as an attribute name")
		return
	}
	if tc.vars.Contains(f.Name) {
		tc.report(diag.SemAttrRedefined, f.Span, "%s cannot be redefined", name)
		return
	}
	tc.vars.Insert(f.Name, f.Type)
}

func (tc *typeChecker) declareMethod(cls *ast.Class, fid ast.FeatureID) {
	f := tc.b.Features.Get(fid)
	if cls.Builtin {
		tc.methods.Insert(f.Name, fid)
		return
	}
	name := tc.name(f.Name)
	if !tc.isDefined(f.Type, true) {
		tc.report(diag.SemMethodReturnUndefined, f.Span, "Method %s return type %s is undefined", name, tc.label(f.Type))
		return
	}
	if f.Name == tc.self {
		tc.report(diag.SemMethodSelfName, f.Span, "self cannot be used as a method name")
		return
	}
	tc.checkFormals(f)
	tc.checkOverride(f)
	// the new signature installs even when the override was rejected
	tc.methods.Insert(f.Name, fid)
}

func (tc *typeChecker) checkFormals(f *ast.Feature) {
	method := tc.name(f.Name)
	seen := make(map[source.StringID]struct{}, len(f.Formals))
	for _, pid := range f.Formals {
		p := tc.b.Features.Formal(pid)
		param := tc.name(p.Name)
		switch {
		case p.Type.IsSelf():
			tc.report(diag.SemFormalSelfType, p.Span, "Method %s parameter %s cannot have type SELF_TYPE", method, param)
		case !tc.isDefined(p.Type, false):
			tc.report(diag.SemFormalTypeUndefined, p.Span, "Method %s parameter %s has undefined type %s", method, param, tc.label(p.Type))
		}
		if p.Name == tc.self {
			tc.report(diag.SemFormalSelfName, p.Span, "Cannot use self as parameter name in method %s", method)
			continue
		}
		if _, dup := seen[p.Name]; dup {
			tc.report(diag.SemFormalDuplicate, p.Span, "Cannot use the same parameter name %s more than once in method %s", param, method)
			continue
		}
		seen[p.Name] = struct{}{}
	}
}

// checkOverride compares f with the nearest inherited method of the same
// name. Return types and formal type lists must match exactly.
func (tc *typeChecker) checkOverride(f *ast.Feature) {
	superID, ok := tc.methods.Lookup(f.Name)
	if !ok {
		return
	}
	super := tc.b.Features.Get(superID)
	name := tc.name(f.Name)
	if f.Type != super.Type {
		diag.ReportError(tc.reporter, diag.SemOverrideReturn, f.Span,
			"In redefined method "+name+", return type "+tc.label(f.Type)+" is different from original type "+tc.label(super.Type)).
			WithNote(super.Span, "original method declared here").
			Emit()
		return
	}
	if !slices.Equal(tc.formalTypes(f), tc.formalTypes(super)) {
		diag.ReportError(tc.reporter, diag.SemOverrideParams, f.Span,
			"Incompatible parameters to override method "+name).
			WithNote(super.Span, "original method declared here").
			Emit()
	}
}

func (tc *typeChecker) formalTypes(f *ast.Feature) []types.ClassType {
	out := make([]types.ClassType, 0, len(f.Formals))
	for _, p := range f.Formals {
		out = append(out, tc.b.Features.Formal(p).Type)
	}
	return out
}

func (tc *typeChecker) checkMainMethod(cls *ast.Class, methods map[source.StringID]ast.FeatureID) {
	fid, ok := methods[tc.mainName]
	if !ok {
		tc.report(diag.SemMainMethodMissing, cls.Span, "class Main must have a main method")
		return
	}
	if f := tc.b.Features.Get(fid); len(f.Formals) != 0 {
		tc.report(diag.SemMainMethodMissing, f.Span, "'main' method in class Main should have no arguments.")
	}
}

// checkClassBody type-checks attribute initializers and method bodies in
// a scope binding self to SELF_TYPE.
func (tc *typeChecker) checkClassBody(id ast.ClassID) {
	cls := tc.b.Classes.Get(id)
	tc.vars.EnterScope()
	defer tc.vars.ExitScope()
	tc.vars.Insert(tc.self, types.SelfType)

	for _, fid := range cls.Features {
		f := tc.b.Features.Get(fid)
		switch f.Kind {
		case ast.FeatureAttr:
			tc.checkAttrInit(f)
		case ast.FeatureMethod:
			tc.checkMethodBody(f)
		}
	}
}

func (tc *typeChecker) checkAttrInit(f *ast.Feature) {
	if !f.Expr.IsValid() {
		return
	}
	t := tc.typeExpr(f.Expr)
	if t.IsNone() || !tc.isDefined(f.Type, true) {
		return
	}
	if !tc.conformsDeclared(t, f.Type) {
		tc.report(diag.SemAttrInitMismatch, f.Span,
			"Inferred type %s of initialization of attribute %s does not conform to declared type %s.",
			tc.label(t), tc.name(f.Name), tc.label(f.Type))
	}
}

func (tc *typeChecker) checkMethodBody(f *ast.Feature) {
	tc.vars.EnterScope()
	defer tc.vars.ExitScope()

	bound := make(map[source.StringID]struct{}, len(f.Formals))
	for _, pid := range f.Formals {
		p := tc.b.Features.Formal(pid)
		if p.Name == tc.self {
			continue
		}
		if _, dup := bound[p.Name]; dup {
			continue
		}
		bound[p.Name] = struct{}{}
		t := p.Type
		if !tc.isDefined(t, false) {
			t = types.NoType
		}
		tc.vars.Insert(p.Name, t)
	}

	if !f.Expr.IsValid() {
		return
	}
	body := tc.typeExpr(f.Expr)
	if body.IsNone() || !tc.isDefined(f.Type, true) {
		return
	}
	if !tc.conformsDeclared(body, f.Type) {
		tc.report(diag.SemMethodBodyMismatch, f.Span,
			"Inferred return type %s of method %s does not conform to declared return type %s.",
			tc.label(body), tc.name(f.Name), tc.label(f.Type))
	}
}
