package main

import (
	"fmt"
	"os"
	"time"

	"augmentstats/internal/export"
	"augmentstats/internal/session"
	"augmentstats/internal/stats"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// GetStats returns the report for "live" or "pbe"
func (a *App) GetStats(scope string) (stats.Report, error) {
	if err := a.ready(); err != nil {
		return stats.Report{}, err
	}
	class, err := session.ParseClass(scope)
	if err != nil {
		return stats.Report{}, err
	}
	return a.tracker.Stats(a.ctx, class)
}

// GetStatsByGroup returns one report per reporting period
func (a *App) GetStatsByGroup(scope string) (map[string]stats.Report, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	class, err := session.ParseClass(scope)
	if err != nil {
		return nil, err
	}
	return a.tracker.StatsByGroup(a.ctx, class)
}

// GetHistory returns every recorded game, newest first
func (a *App) GetHistory() ([]session.Game, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.tracker.History(a.ctx)
}

// ExportCSV saves the stats of a scope to a CSV file chosen by the user.
// It returns the written path, or "" when the dialog was cancelled.
func (a *App) ExportCSV(scope string) (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	class, err := session.ParseClass(scope)
	if err != nil {
		return "", err
	}

	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export stats",
		DefaultFilename: export.CSVFileName(class, time.Now()),
		Filters:         []runtime.FileFilter{{DisplayName: "CSV (*.csv)", Pattern: "*.csv"}},
	})
	if err != nil || path == "" {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export: %w", err)
	}
	defer f.Close()

	if err := a.tracker.ExportCSV(a.ctx, f, class); err != nil {
		os.Remove(path)
		return "", err
	}
	log.Info().Str("path", path).Msg("[App] stats exported")
	return path, nil
}
