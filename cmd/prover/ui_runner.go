package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"prover/internal/batch"
	"prover/internal/ui"
)

type batchOutcome struct {
	outcomes []batch.Outcome
	err      error
}

// runBatchWithUI runs req while a Bubble Tea program renders its events.
func runBatchWithUI(ctx context.Context, title string, req batch.Request) ([]batch.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan batch.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		req.Progress = batch.ChannelSink{Ch: events}
		outs, err := batch.Run(ctx, req)
		outcomeCh <- batchOutcome{outcomes: outs, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI закрыт: после ctrl+c batch ещё работает, останавливаем его и
	// сливаем оставшиеся события, чтобы он не заблокировался
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.outcomes, uiErr
	}
	return outcome.outcomes, outcome.err
}
