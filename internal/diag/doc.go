// Package diag defines the diagnostic model shared by the analysis phases.
//
// Phases never print. They report through a Reporter, usually a
// BagReporter that appends to a Bag in emission order. Emission order is
// the traversal order of the phase, which is deterministic, so the short
// form produced by FormatShort is stable enough for golden files.
//
// A Diagnostic carries a Severity, a Code (see codes.go; SYN 2xxx for the
// AST dump reader, SEM 3xxx for semantic analysis, IO 4xxx, PRJ 5xxx), a
// message and a primary source.Span (file and line). Notes add secondary
// locations, e.g. where an overridden method was declared.
//
// Rendering beyond the short form lives in internal/diagfmt.
package diag
