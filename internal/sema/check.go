package sema

import (
	"fmt"

	"coolc/internal/ast"
	"coolc/internal/diag"
	"coolc/internal/source"
	"coolc/internal/symbols"
	"coolc/internal/trace"
	"coolc/internal/types"
)

// Options configure a semantic pass over a program.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// ParentSpan nests the pass spans under a caller's span.
	ParentSpan uint64
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Hierarchy *Hierarchy
	// ExprTypes is the type slot of every expression. A missing entry
	// means NoType: the node failed and was already reported.
	ExprTypes map[ast.ExprID]types.ClassType
}

// TypeOf returns the static type recorded for id.
func (r Result) TypeOf(id ast.ExprID) types.ClassType {
	if t, ok := r.ExprTypes[id]; ok {
		return t
	}
	return types.NoType
}

// Analyze runs both passes. On failure it returns a *HaltError and the
// partial Result must not be handed downstream.
func Analyze(b *ast.Builder, prog *ast.Program, opts Options) (Result, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	root := trace.Begin(tracer, trace.ScopePass, "semant", opts.ParentSpan)
	defer root.End("")

	span := trace.Begin(tracer, trace.ScopePass, "build_hierarchy", root.ID())
	h, err := BuildHierarchy(b, prog, opts.Reporter)
	span.End("")
	if err != nil {
		return Result{ExprTypes: map[ast.ExprID]types.ClassType{}}, err
	}
	opts.Tracer = tracer
	return typeCheck(b, h, opts, root.ID())
}

// TypeCheck runs pass 2 over a hierarchy returned by BuildHierarchy.
func TypeCheck(b *ast.Builder, h *Hierarchy, opts Options) (Result, error) {
	return typeCheck(b, h, opts, opts.ParentSpan)
}

func typeCheck(b *ast.Builder, h *Hierarchy, opts Options, parent uint64) (Result, error) {
	res := Result{
		Hierarchy: h,
		ExprTypes: make(map[ast.ExprID]types.ClassType, b.Exprs.Arena.Len()),
	}
	tc := &typeChecker{
		b:        b,
		h:        h,
		reporter: &diag.CountingReporter{Next: opts.Reporter},
		tracer:   opts.Tracer,
		vars:     symbols.NewTable[types.ClassType](),
		methods:  symbols.NewTable[ast.FeatureID](),
		result:   &res,
		self:     b.Name("self"),
		mainName: b.Name("main"),
	}
	if tc.tracer == nil {
		tc.tracer = trace.Nop
	}
	tc.run(parent)
	if n := tc.reporter.Errors(); n > 0 {
		return res, &HaltError{Stage: StageTypeCheck, Errors: n}
	}
	return res, nil
}

type typeChecker struct {
	b        *ast.Builder
	h        *Hierarchy
	reporter *diag.CountingReporter
	tracer   trace.Tracer
	vars     *symbols.Table[types.ClassType]
	methods  *symbols.Table[ast.FeatureID]
	result   *Result

	// текущий класс, относительно которого разрешается SELF_TYPE
	class     ast.ClassID
	classType types.ClassType

	self      source.StringID
	mainName  source.StringID
	passSpan  uint64
	classSpan uint64
}

func (tc *typeChecker) run(parent uint64) {
	span := trace.Begin(tc.tracer, trace.ScopePass, "type_check", parent)
	defer span.End("")
	tc.passSpan = span.ID()

	if tc.h == nil || !tc.h.Root.IsValid() {
		return
	}
	tc.checkClass(tc.h.Root)
}

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diag.ReportError(tc.reporter, code, span, msg).Emit()
}

func (tc *typeChecker) label(t types.ClassType) string {
	return tc.b.Label(t)
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.b.NameOf(id)
}

func (tc *typeChecker) setType(id ast.ExprID, t types.ClassType) types.ClassType {
	if !t.IsNone() {
		tc.result.ExprTypes[id] = t
	}
	return t
}

// trueType resolves SELF_TYPE against the enclosing class.
func (tc *typeChecker) trueType(t types.ClassType) types.ClassType {
	if t.IsSelf() {
		return tc.classType
	}
	return t
}

func (tc *typeChecker) isDefined(t types.ClassType, allowSelf bool) bool {
	if t.IsSelf() {
		return allowSelf
	}
	return tc.h.IsValid(t)
}

// conformsDeclared checks a value type against a declared type. Both
// sides are resolved to true types before the hierarchy walk.
func (tc *typeChecker) conformsDeclared(actual, declared types.ClassType) bool {
	if actual.IsSelf() && declared.IsSelf() {
		return true
	}
	return tc.h.Conforms(tc.trueType(actual), tc.trueType(declared))
}

func (tc *typeChecker) lub(a, b types.ClassType) types.ClassType {
	if a == b {
		return a
	}
	return tc.h.LUB(tc.trueType(a), tc.trueType(b))
}
