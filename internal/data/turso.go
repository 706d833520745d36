package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Build-time variables - set via -ldflags
// Example: go build -ldflags "-X 'augmentstats/internal/data.TursoURL=libsql://...' -X 'augmentstats/internal/data.TursoAuthToken=...'"
var (
	TursoURL       string // Turso database URL
	TursoAuthToken string // Turso auth token
)

// OpenTurso connects a GameDB to a remote libsql database so several machines can
// share one history.
func OpenTurso(url, token string) (*GameDB, error) {
	if url == "" {
		url = TursoURL
	}
	if token == "" {
		token = TursoAuthToken
	}
	if url == "" {
		return nil, fmt.Errorf("Turso URL not configured (set TURSO_DATABASE_URL or build with -ldflags)")
	}

	db, err := sql.Open("libsql", tursoDSN(url, token))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Turso: %w", err)
	}

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Turso: %w", err)
	}

	log.Info().Msg("[Turso] Connected successfully")
	return newGameDB(db)
}

func tursoDSN(url, token string) string {
	if token == "" {
		return url
	}
	return fmt.Sprintf("%s?authToken=%s", url, token)
}
