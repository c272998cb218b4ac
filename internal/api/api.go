// Package api implements the movies HTTP API.
package api

import (
	"encoding/json"
	"expvar"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/vmunix/movieapi/internal/movie"
	"github.com/vmunix/movieapi/internal/store"
)

// DefaultMaxBodyBytes limits request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Config holds API server configuration.
type Config struct {
	// AllowedOrigins is the CORS allow-list. Requests without an Origin header
	// are always allowed.
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Server serves the movies API.
type Server struct {
	store   store.Store
	cfg     Config
	logger  *slog.Logger
	newID   func() string
	origins map[string]bool
}

// New creates a new API server backed by s.
func New(s store.Store, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}
	return &Server{
		store:   s,
		cfg:     cfg,
		logger:  logger,
		newID:   uuid.NewString,
		origins: origins,
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(s.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(s.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/movies", s.listMovies)
	router.HandlerFunc(http.MethodPost, "/movies", s.createMovie)
	router.HandlerFunc(http.MethodGet, "/movies/:id", s.getMovie)
	router.HandlerFunc(http.MethodPatch, "/movies/:id", s.updateMovie)
	router.HandlerFunc(http.MethodDelete, "/movies/:id", s.deleteMovie)

	router.HandlerFunc(http.MethodGet, "/genres", s.listGenres)
	router.HandlerFunc(http.MethodGet, "/healthz", s.healthz)
	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return s.logRequests(s.recoverPanic(s.enableCORS(router)))
}

// Response bodies
type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error []movie.FieldError `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
	Movies int    `json:"movies"`
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (s *Server) notFoundResponse(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "the requested resource could not be found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "the "+r.Method+" method is not supported for this resource")
}

func (s *Server) failedValidationResponse(w http.ResponseWriter, fields []movie.FieldError) {
	writeJSON(w, http.StatusBadRequest, validationResponse{Error: fields})
}
