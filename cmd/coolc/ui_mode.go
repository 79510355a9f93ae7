package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress view for directory runs of semant.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether a directory of files is analyzed behind the
// progress view. The view shares the terminal with short and pretty
// diagnostics only; json and sarif go to stdout untouched, and --quiet
// turns it off.
func shouldUseTUI(s semantSettings, files int) bool {
	if s.quiet || (s.format != "short" && s.format != "pretty") {
		return false
	}
	switch s.ui {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		// auto: несколько файлов и терминал на stdout
		return files > 1 && isTerminal(os.Stdout)
	}
}
