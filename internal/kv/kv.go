// Package kv defines the key-value capability the entity store is built on,
// with in-memory, Redis and Postgres implementations.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// ErrExists is returned by Commit when a PutIfAbsent key is already taken.
// Nothing in the batch is applied.
var ErrExists = errors.New("kv: key already exists")

// Backend is a key-value store with ordered id sets (indexes) and atomic batches.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMany returns values positionally; a missing key yields a nil entry.
	GetMany(ctx context.Context, keys []string) ([][]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Members lists the ids of an index in insertion order.
	Members(ctx context.Context, index string) ([]string, error)
	// Commit applies every operation of the batch or none of them.
	Commit(ctx context.Context, b *Batch) error
	Close() error
}

type opKind int

const (
	opPut opKind = iota
	opPutIfAbsent
	opDelete
	opIndexAdd
	opIndexRemove
)

type op struct {
	kind  opKind
	key   string
	value []byte
	index string
	id    string
}

// Batch collects writes that a Backend commits together.
type Batch struct {
	ops []op
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Put(key string, value []byte) *Batch {
	b.ops = append(b.ops, op{kind: opPut, key: key, value: value})
	return b
}

// PutIfAbsent stores value only if key is unset; otherwise the whole batch fails with ErrExists.
func (b *Batch) PutIfAbsent(key string, value []byte) *Batch {
	b.ops = append(b.ops, op{kind: opPutIfAbsent, key: key, value: value})
	return b
}

func (b *Batch) Delete(key string) *Batch {
	b.ops = append(b.ops, op{kind: opDelete, key: key})
	return b
}

// IndexAdd appends id to the index unless it is already a member.
func (b *Batch) IndexAdd(index, id string) *Batch {
	b.ops = append(b.ops, op{kind: opIndexAdd, index: index, id: id})
	return b
}

func (b *Batch) IndexRemove(index, id string) *Batch {
	b.ops = append(b.ops, op{kind: opIndexRemove, index: index, id: id})
	return b
}

// guarded lists the keys that must be absent for the batch to apply.
func (b *Batch) guarded() []string {
	var keys []string
	for _, o := range b.ops {
		if o.kind == opPutIfAbsent {
			keys = append(keys, o.key)
		}
	}
	return keys
}
