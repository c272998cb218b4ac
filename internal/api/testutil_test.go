package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/movieapi/internal/movie"
	"github.com/vmunix/movieapi/internal/store"
)

var testOrigins = []string{"http://localhost:8080", "https://movies.com", "https://modu.dev"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns a server over a memory store seeded with movies.
func newTestServer(t *testing.T, movies ...movie.Movie) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	for _, m := range movies {
		require.NoError(t, st.Insert(t.Context(), m))
	}
	return New(st, Config{AllowedOrigins: testOrigins}, testLogger()), st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func seedMovie() movie.Movie {
	return movie.Movie{
		ID:       "dcdd0fad-a94c-4810-8acc-5f108d3b18c3",
		Title:    "The Shawshank Redemption",
		Year:     1994,
		Director: "Frank Darabont",
		Duration: 142,
		Poster:   "https://i.ebayimg.com/images/g/4goAAOSwMyBe7hnQ/s-l1200.webp",
		Genre:    []string{"Drama"},
		Rate:     9.3,
	}
}

func crimeMovie() movie.Movie {
	return movie.Movie{
		ID:       "c8a7d63f-3b04-44d3-9d95-8782fd7dcfaf",
		Title:    "The Dark Knight",
		Year:     2008,
		Director: "Christopher Nolan",
		Duration: 152,
		Poster:   "https://i.ebayimg.com/images/g/yokAAOSw8w1YARbm/s-l1200.jpg",
		Genre:    []string{"Action", "Crime", "Drama"},
		Rate:     9,
	}
}

const inceptionBody = `{
	"title": "Inception",
	"year": 2010,
	"director": "Christopher Nolan",
	"duration": 148,
	"poster": "https://example.com/inception.jpg",
	"genre": ["Action", "Sci-Fi"],
	"rate": 8.8
}`
