package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/movieapi/internal/config"
	"github.com/vmunix/movieapi/internal/movie"
)

func TestMoviesList_Human(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/movies").
		RespondJSON(http.StatusOK, []movie.Movie{sampleMovie()}).
		Build()

	out, err := runCmd(t, srv.URL, "", "movies", "list", "--genre=")
	require.NoError(t, err)
	assert.Contains(t, out, "Movies (1)")
	assert.Contains(t, out, sampleMovie().ID)
	assert.Contains(t, out, "The Shawshank Redemption")
}

func TestMoviesList_Empty(t *testing.T) {
	srv := newMockServer(t).
		RespondJSON(http.StatusOK, []movie.Movie{}).
		Build()

	out, err := runCmd(t, srv.URL, "", "movies", "list", "--genre", "Horror")
	require.NoError(t, err)
	assert.Contains(t, out, "No movies found")
}

func TestMoviesGet_JSON(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/movies/" + sampleMovie().ID).
		RespondJSON(http.StatusOK, sampleMovie()).
		Build()

	out, err := runCmd(t, srv.URL, "", "--json", "movies", "get", sampleMovie().ID)
	require.NoError(t, err)

	var got movie.Movie
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sampleMovie(), got)
}

func TestMoviesGet_NotFound(t *testing.T) {
	srv := newMockServer(t).
		RespondJSON(http.StatusNotFound, map[string]string{"error": "movie with id = x not found"}).
		Build()

	_, err := runCmd(t, srv.URL, "", "movies", "get", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestMoviesCreate_FromStdin(t *testing.T) {
	doc := `{"title":"Inception"}`
	srv := newMockServer(t).
		ExpectMethod(http.MethodPost).
		Handler(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, doc, string(body))
			respondJSON(t, w, http.StatusCreated, sampleMovie())
		}).
		Build()

	out, err := runCmd(t, srv.URL, doc, "movies", "create", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Created The Shawshank Redemption")
}

func TestMoviesUpdate_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"year":2020}`), 0644))

	srv := newMockServer(t).
		ExpectPath("/movies/abc").
		ExpectMethod(http.MethodPatch).
		RespondJSON(http.StatusOK, sampleMovie()).
		Build()

	out, err := runCmd(t, srv.URL, "", "movies", "update", "abc", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")
}

func TestMoviesUpdate_MissingFile(t *testing.T) {
	_, err := runCmd(t, "http://127.0.0.1:1", "", "movies", "update", "abc", "--file", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.json")
}

func TestMoviesDelete(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/movies/abc").
		ExpectMethod(http.MethodDelete).
		RespondJSON(http.StatusOK, map[string]string{"message": "Movie delete"}).
		Build()

	out, err := runCmd(t, srv.URL, "", "movies", "delete", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Deleted abc\n", out)
}

func TestGenres(t *testing.T) {
	out, err := runCmd(t, "http://127.0.0.1:1", "", "genres")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(movie.Genres(), "\n")+"\n", out)
}

func TestStatus(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/healthz").
		RespondJSON(http.StatusOK, HealthResponse{Status: "ok", Movies: 4}).
		Build()

	out, err := runCmd(t, srv.URL, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "(ok)")
	assert.Contains(t, out, "Movies:  4")
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "http://127.0.0.1:1", "", "version")
	require.NoError(t, err)
	assert.Equal(t, "movieapi dev\n", out)
}

func TestConfigInitAndTest(t *testing.T) {
	t.Setenv("PORT", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	out, err := runCmd(t, "http://127.0.0.1:1", "", "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = runCmd(t, "http://127.0.0.1:1", "", "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// The example config points at ./data/movies.json; clear it so the
	// seed existence check does not depend on the working directory.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cleared := strings.Replace(string(data), `seed = "./data/movies.json"`, `seed = ""`, 1)
	require.NoError(t, os.WriteFile(path, []byte(cleared), 0644))

	out, err = runCmd(t, "http://127.0.0.1:1", "", "config", "test", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "Seed:       (none)")
}

func TestConfigTest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 99999

[store]
dsn = "${MOVIEAPI_TEST_UNSET_VAR}"
`), 0644))

	out, err := runCmd(t, "http://127.0.0.1:1", "", "config", "test", path)
	require.Error(t, err)
	assert.Contains(t, out, "MOVIEAPI_TEST_UNSET_VAR")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Inception", truncate("Inception", 32))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))

	accented := strings.Repeat("é", 40)
	got := truncate(accented, 32)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 32, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 20), truncate(strings.Repeat("é", 20), 32))
}

func TestMoviesList_MultiByteTitle(t *testing.T) {
	m := sampleMovie()
	m.Title = strings.Repeat("é", 40)
	srv := newMockServer(t).
		RespondJSON(http.StatusOK, []movie.Movie{m}).
		Build()

	out, err := runCmd(t, srv.URL, "", "movies", "list", "--genre=")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 29)+"...")
}

func TestConfigInit_FromCurrent(t *testing.T) {
	t.Setenv("PORT", "4321")
	dir := t.TempDir()
	source := filepath.Join(dir, "source.toml")
	require.NoError(t, os.WriteFile(source, []byte(`
[server]
port = 7000
log_format = "json"

[data]
seed = ""

[store]
driver = "sqlite"
`), 0644))
	target := filepath.Join(dir, "effective.toml")

	out, err := runCmd(t, "http://127.0.0.1:1", "", "config", "init", target, "--from-current", "--config", source)
	require.NoError(t, err)
	assert.Contains(t, out, "from "+source)

	t.Setenv("PORT", "")
	cfg, err := config.Load(target)
	require.NoError(t, err)
	assert.Equal(t, 4321, cfg.Server.Port, "PORT override is baked into the written file")
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, config.DefaultAllowedOrigins, cfg.CORS.AllowedOrigins)
}
