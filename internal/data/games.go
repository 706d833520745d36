package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"augmentstats/internal/icons"
	"augmentstats/internal/session"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// GameDB stores games and icons in SQLite, either a local file or a libsql database.
type GameDB struct {
	db *sql.DB
}

// DefaultDBPath returns the database location under the user's config directory.
func DefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "AugmentStats", "augments.db")
}

// OpenGameDB opens a local SQLite file, or ":memory:" for a throwaway database.
func OpenGameDB(path string) (*GameDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// an in-memory database only lives as long as its single connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return newGameDB(db)
}

func newGameDB(db *sql.DB) (*GameDB, error) {
	g := &GameDB{db: db}
	if err := g.init(); err != nil {
		db.Close()
		return nil, err
	}
	return g, nil
}

// init creates the schema
func (g *GameDB) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			class TEXT NOT NULL,
			date INTEGER NOT NULL,
			placement INTEGER NOT NULL DEFAULT 4,
			augments TEXT NOT NULL DEFAULT '[]',
			grp TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_games_class_date ON games (class, date);

		CREATE TABLE IF NOT EXISTS augment_icons (
			name TEXT PRIMARY KEY,
			hash INTEGER NOT NULL,
			thumb BLOB,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`

	if _, err := g.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AddGames appends games in a single transaction.
func (g *GameDB) AddGames(ctx context.Context, games []session.Game) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after Commit()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (id, class, date, placement, augments, grp)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare games statement: %w", err)
	}
	defer stmt.Close()

	for _, game := range games {
		augments, err := encodeAugments(game.Augments)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, game.ID, string(game.Class), game.Date, game.Placement, augments, game.Group); err != nil {
			return fmt.Errorf("failed to insert game %s: %w", game.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Info().Int("games", len(games)).Msg("[Store] games recorded")
	return nil
}

// Games returns one collection ordered by start time.
func (g *GameDB) Games(ctx context.Context, class session.Class) ([]session.Game, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, class, date, placement, augments, grp
		FROM games
		WHERE class = ?
		ORDER BY date ASC, created_at ASC
	`, string(class))
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []session.Game
	for rows.Next() {
		var game session.Game
		var cls, augments string
		if err := rows.Scan(&game.ID, &cls, &game.Date, &game.Placement, &augments, &game.Group); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		game.Class = session.Class(cls)
		if game.Augments, err = decodeAugments(augments); err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Icons loads every learned icon.
func (g *GameDB) Icons(ctx context.Context) (map[string]icons.Fingerprint, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT name, hash, thumb FROM augment_icons`)
	if err != nil {
		return nil, fmt.Errorf("failed to query icons: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]icons.Fingerprint)
	for rows.Next() {
		var name string
		var hash int64
		var thumb []byte
		if err := rows.Scan(&name, &hash, &thumb); err != nil {
			return nil, fmt.Errorf("failed to scan icon: %w", err)
		}
		// hashes are stored bit-for-bit as signed integers
		entries[name] = icons.Fingerprint{Hash: uint64(hash), Thumb: thumb}
	}
	return entries, rows.Err()
}

// SaveIcons upserts icons in one transaction.
func (g *GameDB) SaveIcons(ctx context.Context, entries map[string]icons.Fingerprint) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO augment_icons (name, hash, thumb, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET
			hash = excluded.hash,
			thumb = excluded.thumb,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare icons statement: %w", err)
	}
	defer stmt.Close()

	for name, fp := range entries {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("icon name is empty")
		}
		if _, err := stmt.ExecContext(ctx, name, int64(fp.Hash), fp.Thumb); err != nil {
			return fmt.Errorf("failed to save icon %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// ClearIcons removes every learned icon.
func (g *GameDB) ClearIcons(ctx context.Context) error {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM augment_icons`); err != nil {
		return fmt.Errorf("failed to clear icons: %w", err)
	}
	return nil
}

// ClearAll removes every game and icon.
func (g *GameDB) ClearAll(ctx context.Context) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, table := range []string{"games", "augment_icons"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection
func (g *GameDB) Close() error {
	return g.db.Close()
}
