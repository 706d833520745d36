package main

import (
	"context"
	"errors"
	"fmt"

	"augmentstats/internal/pipeline"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var errBusy = errors.New("a batch is already being processed")

// ProcessFolder asks for a screenshot folder and processes it in the background.
// It returns the chosen folder, or "" when the dialog was cancelled.
func (a *App) ProcessFolder() (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	dir, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select screenshot folder",
	})
	if err != nil || dir == "" {
		return "", err
	}
	return dir, a.ProcessFiles([]string{dir})
}

// ProcessFiles processes screenshot files or folders in the background. Results are
// delivered through the process:* events and then sit in the review queue.
func (a *App) ProcessFiles(paths []string) error {
	if err := a.ready(); err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	a.mu.Lock()
	if a.processing != nil {
		a.mu.Unlock()
		return errBusy
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.processing = cancel
	a.mu.Unlock()

	go func() {
		defer func() {
			a.mu.Lock()
			a.processing = nil
			a.mu.Unlock()
			cancel()
		}()

		result, err := a.tracker.Ingest(ctx, paths, a.emitProgress)
		if err != nil {
			log.Error().Err(err).Msg("[App] processing failed")
			a.emitError(fmt.Errorf("failed to process screenshots: %w", err))
			return
		}
		a.emitDone(result)
	}()
	return nil
}

// CancelProcessing stops the running batch, if any.
func (a *App) CancelProcessing() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.processing != nil {
		a.processing()
	}
}

// IsProcessing reports whether a batch is running.
func (a *App) IsProcessing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processing != nil
}

// outcomeSummary counts outcomes by status for the frontend.
func outcomeSummary(result *pipeline.Result) map[string]int {
	summary := map[string]int{}
	for _, o := range result.Outcomes {
		summary[string(o.Status)]++
	}
	return summary
}
