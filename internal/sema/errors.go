package sema

import "fmt"

// Stage names the checkpoint at which analysis halted.
type Stage uint8

const (
	// StageSyntax: the input AST itself could not be read.
	StageSyntax Stage = iota + 1
	// StageClassRules: pass 1 checkpoint after per-class rule validation.
	StageClassRules
	// StageHierarchy: pass 1 checkpoint after built-ins were injected and
	// parents, cycles and Main were verified.
	StageHierarchy
	// StageTypeCheck: end of pass 2.
	StageTypeCheck
)

func (s Stage) String() string {
	switch s {
	case StageSyntax:
		return "syntax"
	case StageClassRules:
		return "class-rules"
	case StageHierarchy:
		return "hierarchy"
	case StageTypeCheck:
		return "typecheck"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// Pass returns 1 for hierarchy construction, 2 for type checking and 0
// for input errors.
func (s Stage) Pass() int {
	switch s {
	case StageClassRules, StageHierarchy:
		return 1
	case StageTypeCheck:
		return 2
	default:
		return 0
	}
}

const (
	haltSyntax   = "Compilation halted due to lex and syntax errors"
	haltSemantic = "Compilation halted due to static semantic errors."
)

// HaltError is returned when a checkpoint finds recorded errors. The
// diagnostics themselves are in the reporter's sink; HaltError is only the
// summary signal.
type HaltError struct {
	Stage  Stage
	Errors int
}

func (e *HaltError) Error() string {
	switch e.Stage {
	case StageSyntax, StageClassRules:
		return haltSyntax
	default:
		return haltSemantic
	}
}
