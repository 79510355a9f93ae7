package sema

import (
	"slices"

	"coolc/internal/types"
)

// Ancestors returns t followed by its ancestors up to Object. SELF_TYPE
// must be resolved before calling; unknown types yield nil.
func (h *Hierarchy) Ancestors(t types.ClassType) []types.ClassType {
	if !h.IsValid(t) {
		return nil
	}
	chain := make([]types.ClassType, 0, 4)
	// ограничение по числу классов: иерархия уже ациклична, но не доверяем
	for cur, ok := t, true; ok && len(chain) <= h.Len(); cur, ok = h.Parent(cur) {
		chain = append(chain, cur)
	}
	return chain
}

// Conforms reports whether a conforms to b: a is b, b is Object, or b is
// an ancestor of a. Both types must already be true types.
func (h *Hierarchy) Conforms(a, b types.ClassType) bool {
	if a.IsNone() || b.IsNone() {
		return false
	}
	if a == b || b == types.Object {
		return true
	}
	return slices.Contains(h.Ancestors(a), b)
}

// LUB returns the deepest class that is an ancestor of both a and b.
// Two equal types are their own LUB, including SELF_TYPE; otherwise both
// must be true types.
func (h *Hierarchy) LUB(a, b types.ClassType) types.ClassType {
	if a == b {
		return a
	}
	ca, cb := h.Ancestors(a), h.Ancestors(b)
	if ca == nil || cb == nil {
		return types.Object
	}
	// walk both chains from the root inward while they agree
	lub := types.Object
	for i, j := len(ca)-1, len(cb)-1; i >= 0 && j >= 0 && ca[i] == cb[j]; i, j = i-1, j-1 {
		lub = ca[i]
	}
	return lub
}
