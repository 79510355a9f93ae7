package source

import "slices"

// Normalize strips a UTF-8 BOM and folds CRLF line endings of a text
// input. changed reports whether anything was rewritten.
func Normalize(content []byte) (out []byte, changed bool) {
	out, bom := removeBOM(content)
	out, crlf := normalizeCRLF(out)
	return out, bom || crlf
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}
