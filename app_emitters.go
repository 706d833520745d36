package main

import (
	"augmentstats/internal/pipeline"
	"augmentstats/internal/progress"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// emitProgress forwards pipeline progress to the frontend and stream subscribers
func (a *App) emitProgress(p pipeline.Progress) {
	runtime.EventsEmit(a.ctx, string(progress.EventProgress), p)
	a.hub.Broadcast(progress.Event{Type: progress.EventProgress, Progress: &p})
}

// emitDone announces a finished batch
func (a *App) emitDone(result *pipeline.Result) {
	runtime.EventsEmit(a.ctx, string(progress.EventDone), map[string]interface{}{
		"sessions": result.Sessions,
		"outcomes": result.Outcomes,
		"summary":  outcomeSummary(result),
	})
	a.hub.Broadcast(progress.Event{
		Type:     progress.EventDone,
		Sessions: len(result.Sessions),
		Failed:   result.Failed(),
	})
}

// emitError reports a failed batch
func (a *App) emitError(err error) {
	runtime.EventsEmit(a.ctx, string(progress.EventError), map[string]interface{}{
		"error": err.Error(),
	})
	a.hub.Broadcast(progress.Event{Type: progress.EventError, Error: err.Error()})
}
