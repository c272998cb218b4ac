package store

import (
	"context"
	"slices"
	"sync"

	"github.com/vmunix/movieapi/internal/movie"
)

// MemoryStore keeps movies in a slice guarded by a mutex.
type MemoryStore struct {
	mu     sync.RWMutex
	movies []movie.Movie
	used   map[string]struct{} // every ID ever inserted, including deleted ones
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{used: make(map[string]struct{})}
}

func (s *MemoryStore) List(_ context.Context) ([]movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]movie.Movie, len(s.movies))
	for i, m := range s.movies {
		out[i] = m.Clone()
	}
	return out, nil
}

func (s *MemoryStore) ListByGenre(_ context.Context, genre string) ([]movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []movie.Movie{}
	for _, m := range s.movies {
		if m.MatchesGenre(genre) {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return movie.Movie{}, ErrNotFound
	}
	return s.movies[i].Clone(), nil
}

func (s *MemoryStore) Insert(_ context.Context, m movie.Movie) error {
	if m.ID == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.used[m.ID]; ok {
		return ErrDuplicate
	}
	s.used[m.ID] = struct{}{}
	s.movies = append(s.movies, m.Clone())
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, p movie.Patch) (movie.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return movie.Movie{}, ErrNotFound
	}
	s.movies[i] = p.Apply(s.movies[i])
	return s.movies[i].Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.movies = slices.Delete(s.movies, i, i+1)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// indexOf must be called with s.mu held.
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.movies {
		if s.movies[i].ID == id {
			return i
		}
	}
	return -1
}
