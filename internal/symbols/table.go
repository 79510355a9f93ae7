package symbols

import (
	"coolc/internal/source"
)

// Table is a stack of name -> value frames. Lookup walks from the
// innermost frame outward. Frames are entered and exited in strict LIFO
// order; a Table is owned by one traversal and never shared.
type Table[T any] struct {
	frames []map[source.StringID]T
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{}
}

func (t *Table[T]) EnterScope() {
	t.frames = append(t.frames, make(map[source.StringID]T))
}

// ExitScope drops the innermost frame. Exiting with no open frame is a
// traversal bug and panics.
func (t *Table[T]) ExitScope() {
	if len(t.frames) == 0 {
		panic("symbols: ExitScope without matching EnterScope")
	}
	t.frames[len(t.frames)-1] = nil
	t.frames = t.frames[:len(t.frames)-1]
}

// Depth returns the number of open frames.
func (t *Table[T]) Depth() int {
	return len(t.frames)
}

// Insert binds name in the innermost frame, shadowing outer bindings.
func (t *Table[T]) Insert(name source.StringID, v T) {
	if len(t.frames) == 0 {
		panic("symbols: Insert with no open scope")
	}
	t.frames[len(t.frames)-1][name] = v
}

func (t *Table[T]) Lookup(name source.StringID) (T, bool) {
	return t.lookupFrom(len(t.frames)-1, name)
}

// LookupOuter skips the innermost frame.
func (t *Table[T]) LookupOuter(name source.StringID) (T, bool) {
	return t.lookupFrom(len(t.frames)-2, name)
}

func (t *Table[T]) lookupFrom(top int, name source.StringID) (T, bool) {
	for i := top; i >= 0; i-- {
		if v, ok := t.frames[i][name]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Probe looks only in the innermost frame.
func (t *Table[T]) Probe(name source.StringID) (T, bool) {
	if len(t.frames) == 0 {
		var zero T
		return zero, false
	}
	v, ok := t.frames[len(t.frames)-1][name]
	return v, ok
}

func (t *Table[T]) Contains(name source.StringID) bool {
	_, ok := t.Lookup(name)
	return ok
}
