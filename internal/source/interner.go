package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// StringID is a handle to an interned string. Handles are only meaningful
// for the Interner that issued them.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier, string and integer literal text.
// One Interner lives for one compilation; it is not safe for concurrent use.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern возвращает ID строки, добавляя её при первом обращении.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}

	// копия, чтобы не держать исходный буфер читателя
	cpy := string([]byte(s))
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	id := StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Find returns the handle of s without interning it.
func (i *Interner) Find(s string) (StringID, bool) {
	id, ok := i.index[s]
	return id, ok
}

// Lookup возвращает строку по ID; false для чужого или невалидного ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts NoStringID too, so it is never less than 1.
func (i *Interner) Len() int {
	return len(i.byID)
}

func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
