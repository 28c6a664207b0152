package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/waterx/internal/kv"
	"github.com/rs/zerolog"
)

// Descriptor names an entity type and tells the store where its id lives.
type Descriptor[T any] struct {
	// Name namespaces record keys: <Name>/<id>.
	Name string
	// Index is the ordered set holding every id of the type.
	Index string
	ID    func(*T) *string
}

// Patch maps JSON field names to their replacement values.
type Patch map[string]json.RawMessage

// PatchFrom encodes v (typically a request with omitempty fields) as a Patch.
func PatchFrom(v any) (Patch, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch: %w", err)
	}
	p := Patch{}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("patch must be a JSON object: %w", err)
	}
	return p, nil
}

type ListOptions struct {
	Cursor string
	Limit  int
}

// Page is one slice of a listing. Next is nil at the end of the list.
type Page[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
}

// Store provides CRUD and listing for one entity type over a kv.Backend.
// Record writes and index maintenance are committed in the same batch, so the
// index never holds an id without a record after a successful operation.
type Store[T any] struct {
	backend kv.Backend
	desc    Descriptor[T]
}

func NewStore[T any](backend kv.Backend, desc Descriptor[T]) *Store[T] {
	return &Store[T]{backend: backend, desc: desc}
}

func (s *Store[T]) Name() string {
	return s.desc.Name
}

// ID returns the id of v.
func (s *Store[T]) ID(v *T) string {
	return *s.desc.ID(v)
}

func (s *Store[T]) key(id string) string {
	return s.desc.Name + "/" + id
}

// Create stores v under a new key. An empty id is replaced by a UUID.
// It never overwrites: a taken id yields ErrConflict.
func (s *Store[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T

	idp := s.desc.ID(&v)
	if *idp == "" {
		*idp = uuid.NewString()
	}
	id := *idp
	key := s.key(id)

	data, err := json.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s: %w", s.desc.Name, err)
	}

	batch := kv.NewBatch().PutIfAbsent(key, data).IndexAdd(s.desc.Index, id)
	if err := s.backend.Commit(ctx, batch); err != nil {
		if errors.Is(err, kv.ErrExists) {
			return zero, fmt.Errorf("%s %q: %w", s.desc.Name, id, ErrConflict)
		}
		return zero, &StorageError{Op: "create", Key: key, Err: err}
	}
	return v, nil
}

func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	key := s.key(id)
	ok, err := s.backend.Exists(ctx, key)
	if err != nil {
		return false, &StorageError{Op: "exists", Key: key, Err: err}
	}
	return ok, nil
}

// Get returns the record stored under id.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var v T

	data, err := s.load(ctx, "get", id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s %q: %w", s.desc.Name, id, err)
	}
	return v, nil
}

func (s *Store[T]) load(ctx context.Context, op, id string) ([]byte, error) {
	key := s.key(id)
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%s %q: %w", s.desc.Name, id, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Op: op, Key: key, Err: err}
	}
	return data, nil
}

// Patch merges p into the stored record field by field: a field present in p
// replaces the previous value entirely, absent fields are kept. The id never changes.
func (s *Store[T]) Patch(ctx context.Context, id string, p Patch) (T, error) {
	var out T

	data, err := s.load(ctx, "patch", id)
	if err != nil {
		return out, err
	}
	if len(p) == 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("failed to decode %s %q: %w", s.desc.Name, id, err)
		}
		return out, nil
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return out, fmt.Errorf("failed to decode %s %q: %w", s.desc.Name, id, err)
	}
	for name, value := range p {
		fields[name] = value
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("failed to merge %s %q: %w", s.desc.Name, id, err)
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, fmt.Errorf("invalid patch for %s %q: %w", s.desc.Name, id, err)
	}
	*s.desc.ID(&out) = id

	encoded, err := json.Marshal(out)
	if err != nil {
		return out, fmt.Errorf("failed to encode %s: %w", s.desc.Name, err)
	}

	// IndexAdd is a no-op for members; it keeps the record listed if a
	// concurrent delete raced with this write.
	key := s.key(id)
	batch := kv.NewBatch().Put(key, encoded).IndexAdd(s.desc.Index, id)
	if err := s.backend.Commit(ctx, batch); err != nil {
		return out, &StorageError{Op: "patch", Key: key, Err: err}
	}
	return out, nil
}

// Delete removes the record and its index entry together. It reports whether
// a record existed; deleting a missing id is not an error.
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	key := s.key(id)

	existed, err := s.backend.Exists(ctx, key)
	if err != nil {
		return false, &StorageError{Op: "delete", Key: key, Err: err}
	}

	batch := kv.NewBatch().Delete(key).IndexRemove(s.desc.Index, id)
	if err := s.backend.Commit(ctx, batch); err != nil {
		return false, &StorageError{Op: "delete", Key: key, Err: err}
	}
	return existed, nil
}

// List returns records in index order. With a zero Limit the whole list is
// returned and Next is nil. Index entries without a record are skipped.
func (s *Store[T]) List(ctx context.Context, opts ListOptions) (Page[T], error) {
	page := Page[T]{Items: []T{}}

	ids, err := s.backend.Members(ctx, s.desc.Index)
	if err != nil {
		return page, &StorageError{Op: "list", Key: s.desc.Index, Err: err}
	}

	start := 0
	if opts.Cursor != "" {
		start, err = strconv.Atoi(opts.Cursor)
		if err != nil || start < 0 {
			return page, fmt.Errorf("%q: %w", opts.Cursor, ErrInvalidCursor)
		}
	}
	start = min(start, len(ids))

	end := len(ids)
	if opts.Limit > 0 && start+opts.Limit < len(ids) {
		end = start + opts.Limit
		next := strconv.Itoa(end)
		page.Next = &next
	}

	ids = ids[start:end]
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}

	values, err := s.backend.GetMany(ctx, keys)
	if err != nil {
		return page, &StorageError{Op: "list", Key: s.desc.Index, Err: err}
	}

	for i, data := range values {
		if data == nil {
			zerolog.Ctx(ctx).Warn().
				Str("entity", s.desc.Name).
				Str("id", ids[i]).
				Msg("index entry without record, skipping")
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return page, fmt.Errorf("failed to decode %s %q: %w", s.desc.Name, ids[i], err)
		}
		page.Items = append(page.Items, v)
	}
	return page, nil
}

// All returns every record of the type in index order.
func (s *Store[T]) All(ctx context.Context) ([]T, error) {
	page, err := s.List(ctx, ListOptions{})
	return page.Items, err
}
