package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/waterx/internal/events"
	"github.com/rogerio-castellano/waterx/internal/repo"
)

// The helpers below carry the request flow shared by every entity: list a
// page, create, patch and delete, publishing an event after each write.

func listPage[T any](w http.ResponseWriter, r *http.Request, store *repo.Store[T]) (repo.Page[T], bool) {
	opts, err := listOptions(r)
	if err != nil {
		fail(w, r, http.StatusBadRequest, err.Error())
		return repo.Page[T]{}, false
	}
	page, err := store.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return repo.Page[T]{}, false
	}
	return page, true
}

func createRecord[T any](s *Server, w http.ResponseWriter, r *http.Request, store *repo.Store[T], v T, view func(T) any) {
	created, err := store.Create(r.Context(), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.emit(r, store.Name(), events.Created, store.ID(&created), view(created))
	ok(w, r, http.StatusCreated, view(created))
}

// decodeUpdate reads and validates a partial body into req and returns it as a patch.
func decodeUpdate(w http.ResponseWriter, r *http.Request, req any) (repo.Patch, bool) {
	if err := readJSON(w, r, req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return nil, false
	}
	if errs := validateRequest(req); len(errs) > 0 {
		invalid(w, r, errs)
		return nil, false
	}
	patch, err := repo.PatchFrom(req)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "invalid input")
		return nil, false
	}
	return patch, true
}

func patchRecord[T any](s *Server, w http.ResponseWriter, r *http.Request, store *repo.Store[T], patch repo.Patch, view func(T) any) {
	id := chi.URLParam(r, "id")
	updated, err := store.Patch(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(patch) > 0 {
		s.emit(r, store.Name(), events.Updated, id, view(updated))
	}
	ok(w, r, http.StatusOK, view(updated))
}

func deleteRecord[T any](s *Server, w http.ResponseWriter, r *http.Request, store *repo.Store[T]) {
	id := chi.URLParam(r, "id")
	existed, err := store.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existed {
		writeError(w, r, repo.ErrNotFound)
		return
	}
	s.emit(r, store.Name(), events.Deleted, id, nil)
	ok(w, r, http.StatusOK, DeleteResult{ID: id})
}

func (s *Server) emit(r *http.Request, entity string, action events.Action, id string, data any) {
	events.Emit(r.Context(), s.publisher, events.Event{
		Entity: entity,
		Action: action,
		ID:     id,
		At:     s.now().UTC(),
		Data:   data,
	})
}

func identity[T any](v T) any { return v }
