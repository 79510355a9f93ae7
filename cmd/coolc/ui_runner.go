package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"coolc/internal/driver"
	"coolc/internal/pipeline"
	"coolc/internal/ui"
)

type dirOutcome struct {
	results []*driver.Result
	err     error
}

// analyzeDirWithUI runs AnalyzeDir in the background while a progress
// view renders its events on stdout.
func analyzeDirWithUI(ctx context.Context, dir string, files []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		o := opts
		o.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.AnalyzeDir(ctx, dir, o)
		outcomeCh <- dirOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("semant "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// после выхода из UI (например, по ctrl+c) анализ должен дописать события
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
