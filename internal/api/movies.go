package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vmunix/movieapi/internal/movie"
	"github.com/vmunix/movieapi/internal/store"
)

// maxIDAttempts bounds retries when a generated ID collides with a used one.
const maxIDAttempts = 3

func pathID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("id")
}

// readBody reads at most MaxBodyBytes. A size violation is reported as a
// body field error so clients see the same shape as schema violations.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, *movie.FieldError, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &movie.FieldError{
				Field:  movie.BodyField,
				Reason: fmt.Sprintf("must not exceed %d bytes", maxErr.Limit),
			}, nil
		}
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil, nil
}

// validationFields extracts field errors from a validator error.
func validationFields(err error) ([]movie.FieldError, bool) {
	var verr *movie.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	var (
		movies []movie.Movie
		err    error
	)
	if genre := r.URL.Query().Get("genre"); genre != "" {
		movies, err = s.store.ListByGenre(r.Context(), genre)
	} else {
		movies, err = s.store.List(r.Context())
	}
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if movies == nil {
		movies = []movie.Movie{}
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	m, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("movie with id = %s not found", id))
			return
		}
		s.serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) createMovie(w http.ResponseWriter, r *http.Request) {
	body, bodyErr, err := s.readBody(w, r)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if bodyErr != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, validationResponse{Error: []movie.FieldError{*bodyErr}})
		return
	}

	m, err := movie.ValidateFull(body)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			s.failedValidationResponse(w, fields)
			return
		}
		s.serverErrorResponse(w, r, err)
		return
	}

	for attempt := 1; ; attempt++ {
		m.ID = s.newID()
		err = s.store.Insert(r.Context(), m)
		if !errors.Is(err, store.ErrDuplicate) || attempt == maxIDAttempts {
			break
		}
		s.logger.Warn("generated movie id collided, retrying", "id", m.ID, "attempt", attempt)
	}
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	s.logger.Info("movie created", "id", m.ID, "title", m.Title)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) updateMovie(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	body, bodyErr, err := s.readBody(w, r)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if bodyErr != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, validationResponse{Error: []movie.FieldError{*bodyErr}})
		return
	}

	patch, err := movie.ValidatePartial(body)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			s.failedValidationResponse(w, fields)
			return
		}
		s.serverErrorResponse(w, r, err)
		return
	}

	m, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "Movie not found"})
			return
		}
		s.serverErrorResponse(w, r, err)
		return
	}

	if patch.IsEmpty() {
		s.logger.Debug("empty movie update", "id", id)
	} else {
		s.logger.Info("movie updated", "id", id)
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Resource not found")
			return
		}
		s.serverErrorResponse(w, r, err)
		return
	}

	s.logger.Info("movie deleted", "id", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Movie delete"})
}

func (s *Server) listGenres(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, movie.Genres())
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	movies, err := s.store.List(r.Context())
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Movies: len(movies)})
}
