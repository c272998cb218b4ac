package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vmunix/movieapi/internal/movie"
)

// LoadSeedFile reads a JSON array of movies and validates every record.
// Any problem, including a repeated ID, is returned as an error.
func LoadSeedFile(path string) ([]movie.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var movies []movie.Movie
	if err := dec.Decode(&movies); err != nil {
		return nil, fmt.Errorf("parsing seed %s: %w", path, err)
	}

	seen := make(map[string]int, len(movies))
	for i, m := range movies {
		if err := movie.ValidateRecord(m); err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
		if prev, ok := seen[m.ID]; ok {
			return nil, fmt.Errorf("seed record %d: id %q already used by record %d", i, m.ID, prev)
		}
		seen[m.ID] = i
	}
	return movies, nil
}

// Seed inserts movies into s, skipping IDs the store already holds.
// It returns the number of movies inserted.
func Seed(ctx context.Context, s Store, movies []movie.Movie) (int, error) {
	inserted := 0
	for _, m := range movies {
		err := s.Insert(ctx, m)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, ErrDuplicate):
			continue
		default:
			return inserted, fmt.Errorf("seed %s: %w", m.ID, err)
		}
	}
	return inserted, nil
}
