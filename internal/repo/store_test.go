package repo

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/waterx/internal/kv"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductStore() (*Store[models.Product], *kv.Memory) {
	backend := kv.NewMemory()
	return NewStore(backend, ProductDescriptor), backend
}

// assertIndexMatchesRecords checks that the index holds exactly the ids with a record.
func assertIndexMatchesRecords(t *testing.T, backend kv.Backend, desc Descriptor[models.Product]) {
	t.Helper()
	ctx := context.Background()

	members, err := backend.Members(ctx, desc.Index)
	require.NoError(t, err)
	keys, err := backend.Keys(ctx, desc.Name+"/")
	require.NoError(t, err)

	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = strings.TrimPrefix(k, desc.Name+"/")
	}
	assert.ElementsMatch(t, ids, members)
}

func TestStore_CreateAssignsIDAndIndexes(t *testing.T) {
	ctx := context.Background()
	store, backend := newProductStore()

	created, err := store.Create(ctx, models.Product{Name: "19L Bottle", Price: 150})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	members, err := backend.Members(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, members)
}

func TestStore_CreateRejectsTakenID(t *testing.T) {
	ctx := context.Background()
	store, _ := newProductStore()

	_, err := store.Create(ctx, models.Product{ID: "p1", Name: "19L Bottle"})
	require.NoError(t, err)

	_, err = store.Create(ctx, models.Product{ID: "p1", Name: "Other"})
	require.ErrorIs(t, err, ErrConflict)

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "19L Bottle", got.Name)
}

// gatedBackend holds every Commit until n callers have reached it, so all of
// them have already made whatever reads precede the write.
type gatedBackend struct {
	kv.Backend
	arrived sync.WaitGroup
}

func newGatedBackend(inner kv.Backend, n int) *gatedBackend {
	g := &gatedBackend{Backend: inner}
	g.arrived.Add(n)
	return g
}

func (g *gatedBackend) Commit(ctx context.Context, b *kv.Batch) error {
	g.arrived.Done()
	g.arrived.Wait()
	return g.Backend.Commit(ctx, b)
}

func TestStore_ConcurrentCreateSameIDHasOneWinner(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	const writers = 4
	inner := map[string]kv.Backend{
		"memory": kv.NewMemory(),
		"redis":  kv.NewRedis(rdb, "test:"),
	}

	for name, backend := range inner {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewStore(newGatedBackend(backend, writers), ProductDescriptor)

			var wg sync.WaitGroup
			errs := make([]error, writers)
			for i := range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, errs[i] = store.Create(ctx, models.Product{ID: "p1", Name: "writer-" + string(rune('a'+i))})
				}()
			}
			wg.Wait()

			winner := -1
			for i, err := range errs {
				if err == nil {
					require.Equal(t, -1, winner, "more than one create succeeded")
					winner = i
					continue
				}
				require.ErrorIs(t, err, ErrConflict)
			}
			require.NotEqual(t, -1, winner, "no create succeeded")

			got, err := NewStore(backend, ProductDescriptor).Get(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "writer-"+string(rune('a'+winner)), got.Name)

			members, err := backend.Members(ctx, ProductDescriptor.Index)
			require.NoError(t, err)
			assert.Equal(t, []string{"p1"}, members)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newProductStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := store.Exists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PatchMergesPresentFields(t *testing.T) {
	ctx := context.Background()
	store, _ := newProductStore()

	created, err := store.Create(ctx, models.Product{
		Name:  "19L Bottle",
		Price: 150,
		Stock: models.Stock{Full: 10, Empty: 4, Defective: 1},
	})
	require.NoError(t, err)

	patched, err := store.Patch(ctx, created.ID, Patch{
		"price": json.RawMessage(`200`),
		"stock": json.RawMessage(`{"full": 7}`),
		"id":    json.RawMessage(`"hijack"`),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, patched.ID)
	assert.Equal(t, "19L Bottle", patched.Name)
	assert.Equal(t, 200.0, patched.Price)
	// a present nested object replaces the previous one as a whole
	assert.Equal(t, models.Stock{Full: 7}, patched.Stock)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, patched, got)

	_, err = store.Get(ctx, "hijack")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_EmptyPatchLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	store, _ := newProductStore()

	created, err := store.Create(ctx, models.Product{Name: "1.5L Bottle", Price: 40, Stock: models.Stock{Full: 3}})
	require.NoError(t, err)

	patched, err := store.Patch(ctx, created.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, created, patched)
}

func TestStore_PatchMissing(t *testing.T) {
	store, _ := newProductStore()

	_, err := store.Patch(context.Background(), "ghost", Patch{"name": json.RawMessage(`"x"`)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PatchFromSkipsUnsetFields(t *testing.T) {
	name := "Renamed"
	p, err := PatchFrom(struct {
		Name  *string  `json:"name,omitempty"`
		Price *float64 `json:"price,omitempty"`
	}{Name: &name})
	require.NoError(t, err)

	assert.Len(t, p, 1)
	assert.JSONEq(t, `"Renamed"`, string(p["name"]))
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, backend := newProductStore()

	created, err := store.Create(ctx, models.Product{Name: "19L Bottle"})
	require.NoError(t, err)

	existed, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	assertIndexMatchesRecords(t, backend, ProductDescriptor)
}

func TestStore_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newProductStore()

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		_, err := store.Create(ctx, models.Product{ID: strings.ToLower(name), Name: name})
		require.NoError(t, err)
	}

	page, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Nil(t, page.Next)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "A", page.Items[0].Name)
	assert.Equal(t, "E", page.Items[4].Name)
}

func TestStore_ListPaginates(t *testing.T) {
	ctx := context.Background()
	store, _ := newProductStore()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := store.Create(ctx, models.Product{ID: id})
		require.NoError(t, err)
	}

	var seen []string
	opts := ListOptions{Limit: 2}
	for {
		page, err := store.List(ctx, opts)
		require.NoError(t, err)
		for _, p := range page.Items {
			seen = append(seen, p.ID)
		}
		if page.Next == nil {
			break
		}
		opts.Cursor = *page.Next
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, seen)

	_, err := store.List(ctx, ListOptions{Cursor: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidCursor)

	page, err := store.List(ctx, ListOptions{Cursor: "99", Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
}

func TestStore_ListSkipsDanglingIndexEntries(t *testing.T) {
	ctx := context.Background()
	store, backend := newProductStore()

	_, err := store.Create(ctx, models.Product{ID: "kept"})
	require.NoError(t, err)
	require.NoError(t, backend.Commit(ctx, kv.NewBatch().IndexAdd("products", "dangling")))

	items, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].ID)

	// deleting the dangling id repairs the index
	existed, err := store.Delete(ctx, "dangling")
	require.NoError(t, err)
	assert.False(t, existed)
	assertIndexMatchesRecords(t, backend, ProductDescriptor)
}

func TestStore_IndexMatchesRecordsAfterRandomOperations(t *testing.T) {
	ctx := context.Background()
	store, backend := newProductStore()
	rng := rand.New(rand.NewSource(42))
	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6"}

	for range 500 {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			_, err := store.Create(ctx, models.Product{ID: id, Name: id})
			if err != nil {
				require.ErrorIs(t, err, ErrConflict)
			}
		case 1:
			_, err := store.Patch(ctx, id, Patch{"price": json.RawMessage(`12.5`)})
			if err != nil {
				require.ErrorIs(t, err, ErrNotFound)
			}
		case 2:
			_, err := store.Delete(ctx, id)
			require.NoError(t, err)
		}
		assertIndexMatchesRecords(t, backend, ProductDescriptor)
	}
}

type failingBackend struct {
	kv.Backend
}

var errBackendDown = errors.New("connection refused")

func (failingBackend) Exists(context.Context, string) (bool, error) { return false, errBackendDown }
func (failingBackend) Get(context.Context, string) ([]byte, error)  { return nil, errBackendDown }
func (failingBackend) Commit(context.Context, *kv.Batch) error       { return errBackendDown }
func (failingBackend) Members(context.Context, string) ([]string, error) {
	return nil, errBackendDown
}

func TestStore_PropagatesStorageErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingBackend{Backend: kv.NewMemory()}, ProductDescriptor)

	_, err := store.Create(ctx, models.Product{Name: "x"})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "create", storageErr.Op)
	assert.ErrorIs(t, err, errBackendDown)

	_, err = store.Get(ctx, "x")
	assert.ErrorIs(t, err, errBackendDown)

	_, err = store.List(ctx, ListOptions{})
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "list", storageErr.Op)
}
