package kv

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Backend for tests and ephemeral environments.
type Memory struct {
	mu      sync.RWMutex
	values  map[string][]byte
	indexes map[string][]string
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		values:  make(map[string][]byte),
		indexes: make(map[string][]string),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *Memory) GetMany(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := m.values[k]; ok {
			out[i] = slices.Clone(v)
		}
	}
	return out, nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.values[key]
	return ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = slices.Clone(value)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.values[key]
	delete(m.values, key)
	return ok, nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Members(_ context.Context, index string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.indexes[index]), nil
}

// Commit holds the write lock for the whole batch, so readers never observe
// a partially applied batch.
func (m *Memory) Commit(_ context.Context, b *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range b.guarded() {
		if _, ok := m.values[key]; ok {
			return ErrExists
		}
	}

	for _, o := range b.ops {
		switch o.kind {
		case opPut, opPutIfAbsent:
			m.values[o.key] = slices.Clone(o.value)
		case opDelete:
			delete(m.values, o.key)
		case opIndexAdd:
			if !slices.Contains(m.indexes[o.index], o.id) {
				m.indexes[o.index] = append(m.indexes[o.index], o.id)
			}
		case opIndexRemove:
			m.indexes[o.index] = slices.DeleteFunc(m.indexes[o.index], func(id string) bool {
				return id == o.id
			})
		}
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Clear drops every value and index.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string][]byte)
	m.indexes = make(map[string][]string)
}
