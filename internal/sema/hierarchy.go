package sema

import (
	"fmt"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/types"
)

// Hierarchy is the validated class tree. Child links are kept in a
// parent-indexed multimap instead of on the class nodes.
type Hierarchy struct {
	Root ast.ClassID

	classes  map[types.ClassType]ast.ClassID
	parents  map[types.ClassType]types.ClassType
	children map[types.ClassType][]ast.ClassID
	order    []types.ClassType
}

func newHierarchy() *Hierarchy {
	return &Hierarchy{
		classes:  make(map[types.ClassType]ast.ClassID),
		parents:  make(map[types.ClassType]types.ClassType),
		children: make(map[types.ClassType][]ast.ClassID),
	}
}

func (h *Hierarchy) register(t, parent types.ClassType, id ast.ClassID) {
	h.classes[t] = id
	h.parents[t] = parent
	h.order = append(h.order, t)
}

func (h *Hierarchy) link(parent types.ClassType, child ast.ClassID) {
	h.children[parent] = append(h.children[parent], child)
}

// Class returns the node registered for t.
func (h *Hierarchy) Class(t types.ClassType) (ast.ClassID, bool) {
	id, ok := h.classes[t]
	return id, ok
}

// IsValid reports whether t names a registered class. SELF_TYPE never does.
func (h *Hierarchy) IsValid(t types.ClassType) bool {
	_, ok := h.classes[t]
	return ok
}

// Parent returns the declared parent of a registered class; Object has
// none.
func (h *Hierarchy) Parent(t types.ClassType) (types.ClassType, bool) {
	p, ok := h.parents[t]
	if !ok || p.IsNone() {
		return types.NoType, false
	}
	return p, true
}

// Children returns the direct subclasses of t in link order.
func (h *Hierarchy) Children(t types.ClassType) []ast.ClassID {
	return h.children[t]
}

// ValidClasses returns every registered class: user classes in
// declaration order, then the built-ins.
func (h *Hierarchy) ValidClasses() []types.ClassType {
	out := make([]types.ClassType, len(h.order))
	copy(out, h.order)
	return out
}

func (h *Hierarchy) Len() int {
	return len(h.classes)
}

// BuildHierarchy validates class declarations, injects the built-in
// classes into prog and links every valid class under its parent.
// Diagnostics go to rep; a *HaltError is returned at either checkpoint.
func BuildHierarchy(b *ast.Builder, prog *ast.Program, rep diag.Reporter) (*Hierarchy, error) {
	hb := hierarchyBuilder{
		b:   b,
		rep: &diag.CountingReporter{Next: rep},
		h:   newHierarchy(),
	}
	return hb.run(prog)
}

type hierarchyBuilder struct {
	b   *ast.Builder
	rep *diag.CountingReporter
	h   *Hierarchy
}

func (hb *hierarchyBuilder) report(code diag.Code, cls *ast.Class, format string, args ...any) {
	diag.ReportError(hb.rep, code, cls.Span, fmt.Sprintf(format, args...)).Emit()
}

func (hb *hierarchyBuilder) label(t types.ClassType) string {
	return hb.b.Label(t)
}

func (hb *hierarchyBuilder) run(prog *ast.Program) (*Hierarchy, error) {
	// TODO: preload classes from other compilation units once programs span
	// several input files; each input is analyzed on its own for now.
	valid := make([]ast.ClassID, 0, len(prog.Classes)+len(types.Builtins))
	for _, id := range prog.Classes {
		cls := hb.b.Classes.Get(id)
		if hb.checkClassRules(cls) {
			hb.h.register(cls.Type, cls.Parent, id)
			valid = append(valid, id)
		}
	}
	ruleErrors := hb.rep.Errors()

	if !hb.h.IsValid(types.Main) {
		diag.ReportError(hb.rep, diag.SemMainUndefined, prog.Span, "Class Main is not defined.").Emit()
	}

	if ruleErrors > 0 {
		return nil, &HaltError{Stage: StageClassRules, Errors: hb.rep.Errors()}
	}

	for _, id := range injectBuiltins(hb.b, prog) {
		cls := hb.b.Classes.Get(id)
		hb.h.register(cls.Type, cls.Parent, id)
		valid = append(valid, id)
	}

	for _, id := range valid {
		hb.checkInheritance(id)
	}

	if hb.rep.Errors() > 0 {
		return nil, &HaltError{Stage: StageHierarchy, Errors: hb.rep.Errors()}
	}
	hb.h.Root = hb.h.classes[types.Object]
	return hb.h, nil
}

// checkClassRules reports the first rule a declaration breaks.
func (hb *hierarchyBuilder) checkClassRules(cls *ast.Class) bool {
	name := hb.label(cls.Type)
	switch {
	case cls.Type.IsSelf():
		hb.report(diag.SemClassSelfTypeName, cls, "SELF_TYPE cannot be used as a class name")
	case cls.Type.IsBuiltin():
		hb.report(diag.SemClassBuiltinRedefined, cls, "Class %s is a built-in class and cannot be redefined", name)
	case cls.Parent.IsSelf() || cls.Parent == cls.Type:
		hb.report(diag.SemClassInheritsSelf, cls, "Class %s cannot inherit from itself", name)
	case !cls.Parent.IsInheritable():
		hb.report(diag.SemClassInheritsConstant, cls, "Class %s cannot inherit from %s", name, hb.label(cls.Parent))
	case hb.h.IsValid(cls.Type):
		hb.report(diag.SemClassRedefined, cls, "Class %s already defined", name)
	default:
		return true
	}
	return false
}

func (hb *hierarchyBuilder) checkInheritance(id ast.ClassID) {
	cls := hb.b.Classes.Get(id)
	if cls.Parent.IsNone() {
		return // Object
	}
	if !hb.h.IsValid(cls.Parent) {
		hb.report(diag.SemParentUndefined, cls, "Class %s cannot inherit from %[2]s because %[2]s is not defined",
			hb.label(cls.Type), hb.label(cls.Parent))
		return
	}

	// The walk stops at a class seen before, so a cycle further up that
	// does not pass through cls cannot loop forever.
	seen := make(map[types.ClassType]struct{}, hb.h.Len())
	for cur, ok := cls.Parent, true; ok; cur, ok = hb.h.Parent(cur) {
		if cur == cls.Type {
			hb.report(diag.SemInheritanceCycle, cls, "Class %s has an inheritance cycle", hb.label(cls.Type))
			return
		}
		if _, dup := seen[cur]; dup || !hb.h.IsValid(cur) {
			break
		}
		seen[cur] = struct{}{}
	}
	hb.h.link(cls.Parent, id)
}
