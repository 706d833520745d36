package data

import (
	"context"
	"errors"

	"augmentstats/internal/icons"
	"augmentstats/internal/session"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store persists recorded games and the learned augment icons.
type Store interface {
	// AddGames appends games to their class collections. Either all games are
	// written or none are.
	AddGames(ctx context.Context, games []session.Game) error
	// Games returns the games of one collection, oldest first.
	Games(ctx context.Context, class session.Class) ([]session.Game, error)
	// Icons returns the learned reference icons.
	Icons(ctx context.Context) (map[string]icons.Fingerprint, error)
	// SaveIcons upserts reference icons; existing names are overwritten.
	SaveIcons(ctx context.Context, entries map[string]icons.Fingerprint) error
	ClearIcons(ctx context.Context) error
	// ClearAll deletes every game and icon.
	ClearAll(ctx context.Context) error
	Close() error
}

// Compile-time interface compliance checks.
var (
	_ Store = (*GameDB)(nil)
	_ Store = (*PGStore)(nil)
)

// AllGames returns the games of every collection, newest first.
func AllGames(ctx context.Context, s Store) ([]session.Game, error) {
	var all []session.Game
	for _, class := range session.Classes {
		games, err := s.Games(ctx, class)
		if err != nil {
			return nil, err
		}
		all = append(all, games...)
	}
	sortNewestFirst(all)
	return all, nil
}
