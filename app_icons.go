package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var jsonFilter = []runtime.FileFilter{{DisplayName: "JSON (*.json)", Pattern: "*.json"}}

// GetAugmentDB summarizes the learned icons
func (a *App) GetAugmentDB() map[string]interface{} {
	if a.ready() != nil {
		return map[string]interface{}{"count": 0, "names": []string{}}
	}
	snap := a.tracker.Icons()
	return map[string]interface{}{
		"count":   snap.Len(),
		"names":   snap.Names(),
		"version": snap.Version,
	}
}

// ExportAugmentDB saves the learned icons to a JSON file chosen by the user
func (a *App) ExportAugmentDB() (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export augment icons",
		DefaultFilename: "augment_db.json",
		Filters:         jsonFilter,
	})
	if err != nil || path == "" {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export: %w", err)
	}
	defer f.Close()
	if err := a.tracker.ExportIcons(f); err != nil {
		return "", err
	}
	return path, nil
}

// ImportAugmentDB merges icons from a JSON file chosen by the user
func (a *App) ImportAugmentDB() (int, error) {
	if err := a.ready(); err != nil {
		return 0, err
	}
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Import augment icons",
		Filters: jsonFilter,
	})
	if err != nil || path == "" {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open import: %w", err)
	}
	defer f.Close()

	n, err := a.tracker.ImportIcons(a.ctx, f)
	if err != nil {
		return 0, err
	}
	log.Info().Int("icons", n).Str("path", path).Msg("[App] icons imported")
	return n, nil
}

// ClearAugments forgets every learned icon after confirmation
func (a *App) ClearAugments() (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	if !a.confirm("Clear augment icons", "Forget every learned augment icon?") {
		return false, nil
	}
	return true, a.tracker.ClearIcons(a.ctx)
}

// ClearAllData deletes every game and icon after confirmation
func (a *App) ClearAllData() (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	if !a.confirm("Clear all data", "Delete every recorded game and learned icon? This cannot be undone.") {
		return false, nil
	}
	return true, a.tracker.ClearAll(a.ctx)
}

// UpdateIconPack downloads the shared icon pack if a newer one is published
func (a *App) UpdateIconPack() string {
	if err := a.ready(); err != nil {
		return err.Error()
	}
	version, n, err := a.tracker.PullIconPack(a.ctx)
	if err != nil {
		return fmt.Sprintf("Update failed: %v", err)
	}
	if n == 0 {
		return "Icons are up to date"
	}
	return fmt.Sprintf("Updated to %s (%d icons)", version, n)
}

func (a *App) confirm(title, message string) bool {
	choice, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         title,
		Message:       message,
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "No",
	})
	return err == nil && choice == "Yes"
}
