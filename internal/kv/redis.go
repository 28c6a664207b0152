package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis stores values as plain string keys and indexes as sorted sets scored
// by a per-index sequence, which keeps insertion order.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

var _ Backend = (*Redis)(nil)

// NewRedis wraps rdb; every key is namespaced under prefix (e.g. "waterx:").
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) indexKey(index string) string {
	return r.prefix + "index:" + index
}

func (r *Redis) seqKey(index string) string {
	return r.prefix + "seq:" + index
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *Redis) GetMany(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = r.key(k)
	}

	vals, err := r.rdb.MGet(ctx, namespaced...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = []byte(s)
		}
	}
	return out, nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(key)).Result()
	return n > 0, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Del(ctx, r.key(key)).Result()
	return n > 0, err
}

func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, r.key(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}
	return keys, nil
}

func (r *Redis) Members(ctx context.Context, index string) ([]string, error) {
	return r.rdb.ZRange(ctx, r.indexKey(index), 0, -1).Result()
}

// Commit runs the batch inside MULTI/EXEC. Index positions are drawn from the
// sequence before the transaction starts; gaps left by failed commits are harmless.
// PutIfAbsent keys are WATCHed and checked first, so a concurrent writer aborts
// the transaction instead of being overwritten.
func (r *Redis) Commit(ctx context.Context, b *Batch) error {
	scores := make(map[int]float64)
	for i, o := range b.ops {
		if o.kind != opIndexAdd {
			continue
		}
		seq, err := r.rdb.Incr(ctx, r.seqKey(o.index)).Result()
		if err != nil {
			return fmt.Errorf("next position for %s: %w", o.index, err)
		}
		scores[i] = float64(seq)
	}

	guarded := b.guarded()
	if len(guarded) == 0 {
		_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			r.queue(ctx, pipe, b, scores)
			return nil
		})
		return err
	}

	watched := make([]string, len(guarded))
	for i, k := range guarded {
		watched[i] = r.key(k)
	}
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, watched...).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			r.queue(ctx, pipe, b, scores)
			return nil
		})
		return err
	}, watched...)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrExists
	}
	return err
}

func (r *Redis) queue(ctx context.Context, pipe redis.Pipeliner, b *Batch, scores map[int]float64) {
	for i, o := range b.ops {
		switch o.kind {
		case opPut, opPutIfAbsent:
			pipe.Set(ctx, r.key(o.key), o.value, 0)
		case opDelete:
			pipe.Del(ctx, r.key(o.key))
		case opIndexAdd:
			pipe.ZAddNX(ctx, r.indexKey(o.index), redis.Z{Score: scores[i], Member: o.id})
		case opIndexRemove:
			pipe.ZRem(ctx, r.indexKey(o.index), o.id)
		}
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
