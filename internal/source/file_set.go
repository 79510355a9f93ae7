package source

import (
	"fmt"

	"fortio.org/safecast"
)

// FileSet registers the file names that locations refer to.
// Id 0 is always BasicClassFile.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	fs := &FileSet{
		files: make([]File, 0, 4),
		index: make(map[string]FileID),
	}
	fs.add(BasicClassName)
	return fs
}

// Location returns the id for a location file name, registering it once.
// Names are kept verbatim: they are what diagnostics print.
func (fs *FileSet) Location(name string) FileID {
	if id, ok := fs.index[name]; ok {
		return id
	}
	return fs.add(name)
}

func (fs *FileSet) add(name string) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{ID: id, Path: name})
	fs.index[name] = id
	return id
}

func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Name returns the display name of id, or "?" for an unknown id.
func (fs *FileSet) Name(id FileID) string {
	if int(id) >= len(fs.files) {
		return "?"
	}
	return fs.files[id].Path
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Format renders span as "<file>:<line>".
func (fs *FileSet) Format(span Span) string {
	return fmt.Sprintf("%s:%d", fs.Name(span.File), span.Line)
}
