package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/waterx/internal/repo"
	"github.com/rs/zerolog"
)

const maxPageSize = 1000

// Envelope wraps every response body.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func ok(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, Envelope{Success: true, Data: data}); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string, headers ...http.Header) {
	if err := writeJSON(w, status, Envelope{Error: msg}, headers...); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

func invalid(w http.ResponseWriter, r *http.Request, errs []ValidationError) {
	if err := writeJSON(w, http.StatusBadRequest, Envelope{Error: "validation failed", Errors: errs}); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// writeError maps store errors to status codes. Anything unexpected is logged
// and reported as 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var storageErr *repo.StorageError
	switch {
	case errors.Is(err, repo.ErrNotFound):
		fail(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrConflict):
		fail(w, r, http.StatusConflict, "already exists")
	case errors.Is(err, repo.ErrInvalidCursor):
		fail(w, r, http.StatusBadRequest, "invalid cursor")
	case errors.As(err, &storageErr):
		zerolog.Ctx(r.Context()).Error().Err(err).Str("op", storageErr.Op).Str("key", storageErr.Key).Msg("storage failure")
		fail(w, r, http.StatusInternalServerError, "storage unavailable")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		fail(w, r, http.StatusInternalServerError, "internal error")
	}
}

// listOptions reads ?cursor= and ?limit=.
func listOptions(r *http.Request) (repo.ListOptions, error) {
	q := r.URL.Query()
	opts := repo.ListOptions{Cursor: q.Get("cursor")}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			return opts, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
		}
		opts.Limit = limit
	}
	return opts, nil
}
