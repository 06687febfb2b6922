package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"polylint/internal/lint"
	"polylint/internal/ui"
)

type checkOutcome struct {
	result *lint.Result
	err    error
}

// runCheckWithUI runs the lint pipeline with a live progress display. The
// pipeline runs in a goroutine feeding events into the Bubble Tea model;
// the report itself is printed by the caller once the UI has exited.
func runCheckWithUI(ctx context.Context, title string, linters []string, opts lint.Options) (*lint.Result, error) {
	events := make(chan lint.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = lint.ChannelSink{Ch: events}
		res, err := lint.Run(ctx, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, linters, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
