package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/movieapi/internal/movie"
)

func setupSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)

	s, err := NewSQLStore(context.Background(), db, DialectSQLite)
	require.NoError(t, err, "new sql store")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// backends returns a fresh instance of every store implementation that can run in tests.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": setupSQLiteStore(t),
	}
}

func inception() movie.Movie {
	return movie.Movie{
		ID:       "a1",
		Title:    "Inception",
		Year:     2010,
		Director: "Christopher Nolan",
		Duration: 148,
		Poster:   "https://example.com/inception.jpg",
		Genre:    []string{"Action", "Sci-Fi"},
		Rate:     8.8,
	}
}

func godfather() movie.Movie {
	return movie.Movie{
		ID:       "b2",
		Title:    "The Godfather",
		Year:     1972,
		Director: "Francis Ford Coppola",
		Duration: 175,
		Poster:   "https://example.com/godfather.jpg",
		Genre:    []string{"Crime", "Drama"},
		Rate:     9.2,
	}
}

func ptr[T any](v T) *T {
	return &v
}
