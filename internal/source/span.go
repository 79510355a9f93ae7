package source

import "fmt"

// Span is a source location: a file and a 1-based line. Line 0 is used
// only for built-in classes.
type Span struct {
	File FileID
	Line uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.File, s.Line)
}

// LineSpan builds a span from a parsed line number.
func LineSpan(file FileID, line int) Span {
	if line < 0 {
		line = 0
	}
	return Span{File: file, Line: uint32(min(line, 1<<31))}
}
