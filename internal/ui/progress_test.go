package ui

import (
	"errors"
	"strings"
	"testing"

	"coolc/internal/pipeline"
)

func TestApplyEventTracksStatus(t *testing.T) {
	m := newProgressModel("semant", []string{"a.ast", "b.ast"}, nil)

	m.applyEvent(pipeline.Event{File: "a.ast", Stage: pipeline.StageTypeCheck, Status: pipeline.StatusWorking})
	if m.items[0].status != "checking" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(pipeline.Event{File: "a.ast", Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "b.ast", Stage: pipeline.StageHierarchy, Status: pipeline.StatusError, Err: errors.New("x")})
	// late events for a finished file are ignored
	m.applyEvent(pipeline.Event{File: "b.ast", Stage: pipeline.StageRead, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "unknown.ast", Status: pipeline.StatusDone})

	if m.items[0].status != "ok" || m.items[1].status != "halted" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if m.finished() != 2 || m.failed != 1 {
		t.Fatalf("finished=%d failed=%d", m.finished(), m.failed)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newProgressModel("semant", []string{"a.ast", "b.ast"}, nil)
	m.applyEvent(pipeline.Event{File: "b.ast", Status: pipeline.StatusCached})
	m.done = true

	out := m.View()
	for _, want := range []string{"done: semant (1/2)", "a.ast", "b.ast", "queued", "cached"} {
		if !strings.Contains(out, want) {
			t.Errorf("view lacks %q:\n%s", want, out)
		}
	}
	if newProgressModel("x", nil, nil).View() != "" {
		t.Error("empty model must render nothing")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a-rather-long-name.ast", 10); got != "a-rathe..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
