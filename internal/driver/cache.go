package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"coolc/internal/diag"
	"coolc/internal/sema"
	"coolc/internal/source"
)

// текущая версия формата записи; при изменении cacheEntry увеличить
const cacheSchema uint16 = 1

// Digest identifies one analysis input.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Cache stores analysis outcomes on disk, keyed by the input name and
// content. Entries are written atomically; concurrent writers of the same
// key race harmlessly since they write identical data.
type Cache struct {
	dir string
}

type cacheEntry struct {
	Schema    uint16       `msgpack:"v"`
	Stage     uint8        `msgpack:"s"` // 0: analysis succeeded
	Errors    int          `msgpack:"e"`
	Diags     []cachedDiag `msgpack:"d,omitempty"`
	Emitted   bool         `msgpack:"m"`
	Annotated []byte       `msgpack:"a,omitempty"`
}

type cachedDiag struct {
	Severity uint8        `msgpack:"sv"`
	Code     uint16       `msgpack:"c"`
	Message  string       `msgpack:"m"`
	File     string       `msgpack:"f"`
	Line     uint32       `msgpack:"l"`
	Notes    []cachedNote `msgpack:"n,omitempty"`
}

type cachedNote struct {
	File string `msgpack:"f"`
	Line uint32 `msgpack:"l"`
	Msg  string `msgpack:"m"`
}

// OpenCache uses dir, or $XDG_CACHE_HOME/coolc (~/.cache/coolc) when dir
// is empty.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("locate cache dir: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "coolc")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string { return c.dir }

// Key hashes the input name together with its content, since syntax
// diagnostics are located in the input file.
func (c *Cache) Key(name string, content []byte) Digest {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(content)
	var d Digest
	h.Sum(d[:0])
	return d
}

func (c *Cache) path(key Digest) string {
	s := key.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

func (c *Cache) get(key Digest) (*cacheEntry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var e cacheEntry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if e.Schema != cacheSchema {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *Cache) put(key Digest, e *cacheEntry) error {
	if c == nil {
		return nil
	}
	e.Schema = cacheSchema
	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func entryFromResult(res *Result) *cacheEntry {
	e := &cacheEntry{
		Emitted:   res.Annotated != nil,
		Annotated: res.Annotated,
	}
	var halt *sema.HaltError
	if errors.As(res.Err, &halt) {
		e.Stage = uint8(halt.Stage)
		e.Errors = halt.Errors
	}
	for _, d := range res.Bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			File:     res.Files.Name(d.Primary.File),
			Line:     d.Primary.Line,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{File: res.Files.Name(n.Span.File), Line: n.Span.Line, Msg: n.Msg})
		}
		e.Diags = append(e.Diags, cd)
	}
	return e
}

// restore rebuilds a Result from e. Diagnostics are re-located in a
// fresh file set.
func (e *cacheEntry) restore(res *Result, limit int) {
	res.Files = source.NewFileSet()
	res.Bag = diag.NewBag(limit)
	for _, cd := range e.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: res.Files.Location(cd.File), Line: cd.Line},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: res.Files.Location(n.File), Line: n.Line}, Msg: n.Msg})
		}
		res.Bag.Add(d)
	}
	if e.Stage != 0 {
		res.Err = &sema.HaltError{Stage: sema.Stage(e.Stage), Errors: e.Errors}
	}
	if e.Emitted {
		res.Annotated = e.Annotated
		if res.Annotated == nil {
			res.Annotated = []byte{}
		}
	}
	res.Cached = true
}
