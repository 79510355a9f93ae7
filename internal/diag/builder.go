package diag

import "coolc/internal/source"

// New builds a diagnostic without going through a Reporter. The driver
// uses it for findings that do not come from an analysis pass.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// LoadFailed reports an input that could not be read at all. It is placed
// at line 0 of the input, where no class location exists yet.
func LoadFailed(file source.FileID, err error) Diagnostic {
	return NewError(IOLoadFailed, source.LineSpan(file, 0), err.Error())
}

// WithNote attaches a secondary location, such as the declaration an
// override is checked against.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
