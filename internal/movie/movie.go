// Package movie defines the movie record, its genres, and schema validation.
package movie

import (
	"time"

	"golang.org/x/text/cases"
)

// Movie is a single movie record.
type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Director string   `json:"director"`
	Duration int      `json:"duration"`
	Poster   string   `json:"poster"`
	Genre    []string `json:"genre"`
	Rate     float64  `json:"rate"`
}

// Clone returns a copy that shares no memory with m.
func (m Movie) Clone() Movie {
	m.Genre = append([]string(nil), m.Genre...)
	return m
}

// Known genres. Validation matches these exactly.
const (
	GenreAction    = "Action"
	GenreAdventure = "Adventure"
	GenreCrime     = "Crime"
	GenreComedy    = "Comedy"
	GenreDrama     = "Drama"
	GenreFantasy   = "Fantasy"
	GenreHorror    = "Horror"
	GenreThriller  = "Thriller"
	GenreSciFi     = "Sci-Fi"
)

var genres = []string{
	GenreAction, GenreAdventure, GenreCrime, GenreComedy, GenreDrama,
	GenreFantasy, GenreHorror, GenreThriller, GenreSciFi,
}

// Genres returns the enumerated genres in display order.
func Genres() []string {
	return append([]string(nil), genres...)
}

// IsGenre reports whether g is exactly one of the known genres.
func IsGenre(g string) bool {
	for _, known := range genres {
		if g == known {
			return true
		}
	}
	return false
}

// Bounds for numeric fields.
const (
	MinYear    = 1900
	yearBuffer = 5
	MinRate    = 0.0
	MaxRate    = 10.0
)

// MaxYear is the latest accepted release year.
func MaxYear() int {
	return time.Now().Year() + yearBuffer
}

// FoldGenre returns the case-folded form used for query matching.
// Whitespace is significant: " drama " does not fold to "drama".
func FoldGenre(g string) string {
	return cases.Fold().String(g)
}

// MatchesGenre reports whether any of m's genres equals query, ignoring case.
// This is the query-time rule; validation uses IsGenre.
func (m Movie) MatchesGenre(query string) bool {
	want := FoldGenre(query)
	for _, g := range m.Genre {
		if FoldGenre(g) == want {
			return true
		}
	}
	return false
}
