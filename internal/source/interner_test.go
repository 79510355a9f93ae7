package source

import (
	"fmt"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	// NoStringID зарезервирован для пустой строки
	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID должен возвращать пустую строку, получили: %q, ok=%v", s, ok)
	}

	id1 := interner.Intern("Main")
	if id1 == NoStringID {
		t.Fatal("Intern returned NoStringID for a non-empty string")
	}
	if id2 := interner.Intern("Main"); id1 != id2 {
		t.Errorf("same text, different ids: %d != %d", id1, id2)
	}
	if s, ok := interner.Lookup(id1); !ok || s != "Main" {
		t.Errorf("Lookup = %q, %v", s, ok)
	}
	if id3 := interner.Intern("main"); id3 == id1 {
		t.Error("distinct texts must not share an id")
	}
	if interner.Len() != 3 {
		t.Errorf("Len = %d, want 3", interner.Len())
	}
}

func TestInternerIdempotentMany(t *testing.T) {
	interner := NewInterner()
	ids := make(map[string]StringID)
	for i := range 500 {
		s := fmt.Sprintf("ident_%d", i%123)
		id := interner.Intern(s)
		if prev, ok := ids[s]; ok && prev != id {
			t.Fatalf("%q interned to %d then %d", s, prev, id)
		}
		ids[s] = id
	}
	seen := make(map[StringID]string)
	for s, id := range ids {
		if other, ok := seen[id]; ok {
			t.Fatalf("%q and %q share id %d", s, other, id)
		}
		seen[id] = s
	}
	if interner.Len() != 124 {
		t.Errorf("Len = %d, want 124", interner.Len())
	}
}

func TestInternerBytesCopies(t *testing.T) {
	interner := NewInterner()
	buf := []byte("self")
	id := interner.InternBytes(buf)
	buf[0] = 'S'
	if got := interner.MustLookup(id); got != "self" {
		t.Errorf("interned text changed with caller buffer: %q", got)
	}
	if id2 := interner.Intern("self"); id2 != id {
		t.Errorf("InternBytes and Intern disagree: %d != %d", id, id2)
	}
}

func TestInternerFindAndInvalid(t *testing.T) {
	interner := NewInterner()
	if _, ok := interner.Find("x"); ok {
		t.Error("Find must not intern")
	}
	if interner.Len() != 1 {
		t.Errorf("Len = %d after Find", interner.Len())
	}
	if _, ok := interner.Lookup(StringID(42)); ok {
		t.Error("Lookup of unknown id must fail")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustLookup of unknown id must panic")
		}
	}()
	interner.MustLookup(StringID(42))
}
