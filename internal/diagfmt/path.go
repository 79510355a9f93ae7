package diagfmt

import (
	"fmt"
	"path/filepath"

	"coolc/internal/source"
)

func displayName(fs *source.FileSet, id source.FileID, mode PathMode) string {
	name := fs.Name(id)
	if mode == PathModeBasename {
		return filepath.Base(name)
	}
	return name
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	return fmt.Sprintf("%s:%d", displayName(fs, sp.File, mode), sp.Line)
}
