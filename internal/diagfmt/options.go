package diagfmt

// PathMode specifies how file names are displayed.
type PathMode uint8

const (
	// PathModeAsIs prints names exactly as recorded in the input.
	PathModeAsIs PathMode = iota
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// ShowCodes appends the diagnostic code, e.g. "[SEM3401]".
	ShowCodes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
