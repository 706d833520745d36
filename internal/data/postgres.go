package data

import (
	"context"
	"fmt"

	"augmentstats/internal/icons"
	"augmentstats/internal/session"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PGStore keeps games and icons in Postgres so several installs can share them.
type PGStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool and ensures the schema exists.
func OpenPostgres(ctx context.Context, dbURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("[Postgres] Connected successfully")
	return s, nil
}

func (s *PGStore) init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			class TEXT NOT NULL,
			date BIGINT NOT NULL,
			placement SMALLINT NOT NULL DEFAULT 4,
			augments TEXT[] NOT NULL DEFAULT '{}',
			grp TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_games_class_date ON games (class, date);

		CREATE TABLE IF NOT EXISTS augment_icons (
			name TEXT PRIMARY KEY,
			hash BIGINT NOT NULL,
			thumb BYTEA,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AddGames queues every insert in one batch inside a transaction.
func (s *PGStore) AddGames(ctx context.Context, games []session.Game) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, game := range games {
			augments := game.Augments
			if augments == nil {
				augments = []string{}
			}
			batch.Queue(`
				INSERT INTO games (id, class, date, placement, augments, grp)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, game.ID, string(game.Class), game.Date, game.Placement, augments, game.Group)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert games: %w", err)
		}
		return nil
	})
}

// Games returns one collection ordered by start time.
func (s *PGStore) Games(ctx context.Context, class session.Class) ([]session.Game, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, class, date, placement, augments, grp
		FROM games
		WHERE class = $1
		ORDER BY date ASC, created_at ASC
	`, string(class))
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []session.Game
	for rows.Next() {
		var game session.Game
		var cls string
		if err := rows.Scan(&game.ID, &cls, &game.Date, &game.Placement, &game.Augments, &game.Group); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		game.Class = session.Class(cls)
		games = append(games, game)
	}
	return games, rows.Err()
}

// Icons loads every learned icon.
func (s *PGStore) Icons(ctx context.Context) (map[string]icons.Fingerprint, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, hash, thumb FROM augment_icons`)
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
		entries[name] = icons.Fingerprint{Hash: uint64(hash), Thumb: thumb}
	}
	return entries, rows.Err()
}

// SaveIcons upserts icons in one transaction.
func (s *PGStore) SaveIcons(ctx context.Context, entries map[string]icons.Fingerprint) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for name, fp := range entries {
			batch.Queue(`
				INSERT INTO augment_icons (name, hash, thumb, updated_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (name) DO UPDATE SET
					hash = EXCLUDED.hash,
					thumb = EXCLUDED.thumb,
					updated_at = EXCLUDED.updated_at
			`, name, int64(fp.Hash), fp.Thumb)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save icons: %w", err)
		}
		return nil
	})
}

// ClearIcons removes every learned icon.
func (s *PGStore) ClearIcons(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE augment_icons`); err != nil {
		return fmt.Errorf("failed to clear icons: %w", err)
	}
	return nil
}

// ClearAll removes every game and icon.
func (s *PGStore) ClearAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE games, augment_icons`); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
