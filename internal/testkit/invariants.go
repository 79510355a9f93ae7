package testkit

import (
	"fmt"

	"coolc/internal/ast"
	"coolc/internal/sema"
	"coolc/internal/types"
)

// CheckHierarchyInvariants verifies a hierarchy returned by a successful
// BuildHierarchy:
// 1) from every valid class, parent links reach Object within Len() steps
// without revisiting the start
// 2) every child link points to a class whose declared parent is the key
// 3) every class except Object is linked exactly once
func CheckHierarchyInvariants(b *ast.Builder, h *sema.Hierarchy) error {
	if b == nil || h == nil {
		return fmt.Errorf("nil builder or hierarchy")
	}
	linked := make(map[types.ClassType]int)
	for _, t := range h.ValidClasses() {
		steps := 0
		cur := t
		for cur != types.Object {
			p, ok := h.Parent(cur)
			if !ok {
				return fmt.Errorf("%s: chain ends at %s before Object", b.Label(t), b.Label(cur))
			}
			cur = p
			steps++
			if cur == t {
				return fmt.Errorf("%s: chain revisits its start", b.Label(t))
			}
			if steps > h.Len() {
				return fmt.Errorf("%s: chain longer than %d", b.Label(t), h.Len())
			}
		}
		for _, child := range h.Children(t) {
			c := b.Classes.Get(child)
			if c == nil {
				return fmt.Errorf("%s: dangling child id %d", b.Label(t), child)
			}
			if c.Parent != t {
				return fmt.Errorf("%s linked under %s but declares parent %s", b.Label(c.Type), b.Label(t), b.Label(c.Parent))
			}
			linked[c.Type]++
		}
	}
	for _, t := range h.ValidClasses() {
		want := 1
		if t == types.Object {
			want = 0
		}
		if linked[t] != want {
			return fmt.Errorf("%s linked %d times, want %d", b.Label(t), linked[t], want)
		}
	}
	return nil
}

// CheckFullyTyped verifies that every expression under a user class has a
// recorded type, which a successful analysis guarantees.
func CheckFullyTyped(b *ast.Builder, prog *ast.Program, res sema.Result) error {
	var missing []ast.ExprID
	for _, cid := range prog.Classes {
		cls := b.Classes.Get(cid)
		if cls.Builtin {
			continue
		}
		for _, fid := range cls.Features {
			f := b.Features.Get(fid)
			if f.Kind == ast.FeatureMethod && !f.Expr.IsValid() {
				return fmt.Errorf("method %s has no body", b.NameOf(f.Name))
			}
			b.Exprs.Walk(f.Expr, func(id ast.ExprID) {
				if b.Exprs.Get(id).Kind == ast.ExprNoOp {
					return
				}
				if res.TypeOf(id).IsNone() {
					missing = append(missing, id)
				}
			})
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d untyped expressions, first: %v", len(missing), b.Exprs.Get(missing[0]).Kind)
	}
	return nil
}
