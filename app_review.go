package main

import (
	"augmentstats/internal/session"
)

// GetPendingSessions returns processed sessions awaiting review
func (a *App) GetPendingSessions() []*session.Session {
	if a.ready() != nil {
		return []*session.Session{}
	}
	return a.tracker.Review().Pending()
}

// UpdateSessionPlacement sets the final placement of a pending session
func (a *App) UpdateSessionPlacement(index, placement int) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.tracker.Review().SetPlacement(index, placement)
}

// NameAugment names an augment slot, learning its icon if it was unrecognized
func (a *App) NameAugment(index, slot int, name string) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.tracker.Review().NameAugment(a.ctx, index, slot, name)
}

// RemoveSession discards a pending session
func (a *App) RemoveSession(index int) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.tracker.Review().Remove(index)
}

// SaveSessions records every pending session and returns how many were saved
func (a *App) SaveSessions() (int, error) {
	if err := a.ready(); err != nil {
		return 0, err
	}
	return a.tracker.Review().Save(a.ctx)
}
