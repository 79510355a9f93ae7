package diag

import (
	"strings"

	"coolc/internal/source"
)

// FormatShort renders one "<file>:<line>: <message>" line per diagnostic,
// in the order given. This is the stable form used by golden tests and the
// default CLI output.
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := range diags {
		sb.WriteString(ShortLine(&diags[i], fs))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ShortLine renders a single diagnostic without the trailing newline.
func ShortLine(d *Diagnostic, fs *source.FileSet) string {
	loc := d.Primary.String()
	if fs != nil {
		loc = fs.Format(d.Primary)
	}
	return loc + ": " + sanitizeMessage(d.Message)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
