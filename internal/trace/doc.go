// Package trace records nested timing spans for coolc runs.
//
// A span is opened with Begin and closed with End. Spans nest through the
// parent id, so a run over a directory produces a tree of the form
//
//	driver:semant-dir
//	  file:foo.ast
//	    pass:semant
//	      pass:build_hierarchy
//	      pass:type_check
//	        class:Main
//
// Which scopes are recorded depends on the Level:
//
//   - LevelPhase: driver, file and pass spans
//   - LevelDetail: adds one span per class
//   - LevelDebug: adds one span per expression node
//
// Tracers either stream events to a writer (text or NDJSON) or keep the
// last N events in a ring that can be dumped after a failure.
package trace
