// Package store holds the movie collection behind a backend-neutral interface.
package store

import (
	"context"
	"errors"

	"github.com/vmunix/movieapi/internal/movie"
)

//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks

var (
	// ErrNotFound indicates no movie has the requested ID.
	ErrNotFound = errors.New("movie not found")

	// ErrDuplicate indicates the ID is in use or was used before.
	ErrDuplicate = errors.New("duplicate movie id")

	// ErrMissingID indicates a movie was inserted without an ID.
	ErrMissingID = errors.New("movie id is required")
)

// Store is the authoritative movie collection.
// Absence is reported as ErrNotFound; callers branch on it with errors.Is.
type Store interface {
	// List returns every movie in insertion order.
	List(ctx context.Context) ([]movie.Movie, error)
	// ListByGenre returns movies having genre, compared case-insensitively.
	// The result is empty, not nil, when nothing matches.
	ListByGenre(ctx context.Context, genre string) ([]movie.Movie, error)
	Get(ctx context.Context, id string) (movie.Movie, error)
	// Insert appends m. The ID must be set and never used before.
	Insert(ctx context.Context, m movie.Movie) error
	// Update merges p over the stored movie and returns the result.
	Update(ctx context.Context, id string, p movie.Patch) (movie.Movie, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
