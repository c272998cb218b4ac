package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vmunix/movieapi/internal/movie"
)

// Client wraps HTTP calls to the movieapi server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new movieapi client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []movie.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.Field + ": " + f.Reason
		}
		return fmt.Sprintf("server error %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// newAPIError decodes the error shapes the server produces: {"error": "..."},
// {"error": [{field, reason}]}, {"message": "..."} and plain text.
func newAPIError(code int, body []byte) *APIError {
	e := &APIError{StatusCode: code}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		e.Message = strings.TrimSpace(string(body))
		return e
	}

	switch {
	case len(envelope.Error) > 0 && envelope.Error[0] == '[':
		_ = json.Unmarshal(envelope.Error, &e.Fields)
	case len(envelope.Error) > 0:
		_ = json.Unmarshal(envelope.Error, &e.Message)
	default:
		e.Message = envelope.Message
	}
	return e
}

func (c *Client) do(method, path string, body []byte, want int, result any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		respBody, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, respBody)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func moviePath(id string) string {
	return "/movies/" + url.PathEscape(id)
}

// ListMovies returns every movie, filtered by genre when genre is non-empty.
func (c *Client) ListMovies(genre string) ([]movie.Movie, error) {
	path := "/movies"
	if genre != "" {
		path += "?" + url.Values{"genre": {genre}}.Encode()
	}
	var movies []movie.Movie
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetMovie(id string) (*movie.Movie, error) {
	var m movie.Movie
	if err := c.do(http.MethodGet, moviePath(id), nil, http.StatusOK, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMovie posts a raw JSON movie document.
func (c *Client) CreateMovie(body []byte) (*movie.Movie, error) {
	var m movie.Movie
	if err := c.do(http.MethodPost, "/movies", body, http.StatusCreated, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMovie patches a movie with a raw JSON document.
func (c *Client) UpdateMovie(id string, body []byte) (*movie.Movie, error) {
	var m movie.Movie
	if err := c.do(http.MethodPatch, moviePath(id), body, http.StatusOK, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMovie(id string) error {
	return c.do(http.MethodDelete, moviePath(id), nil, http.StatusOK, nil)
}

// HealthResponse mirrors GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Movies int    `json:"movies"`
}

func (c *Client) Health() (*HealthResponse, error) {
	var h HealthResponse
	if err := c.do(http.MethodGet, "/healthz", nil, http.StatusOK, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
