package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const queryTimeout = 3 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key   TEXT PRIMARY KEY,
	value JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS kv_index (
	name TEXT NOT NULL,
	id   TEXT NOT NULL,
	seq  BIGSERIAL,
	PRIMARY KEY (name, id)
);`

// Postgres keeps values in kv_entries and index members in kv_index, ordered by seq.
type Postgres struct {
	db *sql.DB
}

var _ Backend = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the backing tables when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create kv schema: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var v []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (p *Postgres) GetMany(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `SELECT key, value FROM kv_entries WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string][]byte, len(keys))
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		found[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, k := range keys {
		out[i] = found[k]
	}
	return out, nil
}

func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := p.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM kv_entries WHERE key = $1)`, key).Scan(&exists)
	return exists, err
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := p.db.ExecContext(ctx, upsertEntry, key, value)
	return err
}

func (p *Postgres) Delete(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	if err != nil {
		return false, err
	}
	rowsAffected, _ := res.RowsAffected()
	return rowsAffected > 0, nil
}

func (p *Postgres) Keys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `SELECT key FROM kv_entries WHERE starts_with(key, $1) ORDER BY key`, prefix)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (p *Postgres) Members(ctx context.Context, index string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `SELECT id FROM kv_index WHERE name = $1 ORDER BY seq`, index)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

const insertEntry = `INSERT INTO kv_entries (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO NOTHING`

const upsertEntry = `INSERT INTO kv_entries (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

func (p *Postgres) Commit(ctx context.Context, b *Batch) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, o := range b.ops {
		switch o.kind {
		case opPut:
			_, err = tx.ExecContext(ctx, upsertEntry, o.key, o.value)
		case opPutIfAbsent:
			var res sql.Result
			if res, err = tx.ExecContext(ctx, insertEntry, o.key, o.value); err == nil {
				var n int64
				if n, err = res.RowsAffected(); err == nil && n == 0 {
					return ErrExists
				}
			}
		case opDelete:
			_, err = tx.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, o.key)
		case opIndexAdd:
			_, err = tx.ExecContext(ctx, `INSERT INTO kv_index (name, id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, o.index, o.id)
		case opIndexRemove:
			_, err = tx.ExecContext(ctx, `DELETE FROM kv_index WHERE name = $1 AND id = $2`, o.index, o.id)
		}
		if err != nil {
			return fmt.Errorf("failed to apply batch: %w", err)
		}
	}

	return tx.Commit()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
