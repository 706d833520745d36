package data

import (
	"context"
	"strings"
)

// Options selects a storage backend.
type Options struct {
	// Path is the local SQLite file.
	Path string
	// DatabaseURL, when set, is a Postgres or libsql URL and takes precedence over Path.
	DatabaseURL string
	// AuthToken authenticates libsql URLs.
	AuthToken string
}

// Open picks the backend from the URL scheme: postgres:// goes to Postgres,
// libsql:// and https:// to Turso, anything else falls back to the local file.
func Open(ctx context.Context, opts Options) (Store, error) {
	url := opts.DatabaseURL
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return OpenPostgres(ctx, url)
	case strings.HasPrefix(url, "libsql://"), strings.HasPrefix(url, "https://"):
		return OpenTurso(url, opts.AuthToken)
	}

	path := opts.Path
	if path == "" {
		path = DefaultDBPath()
	}
	return OpenGameDB(path)
}
