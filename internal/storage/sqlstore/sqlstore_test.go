package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type recordingSink struct {
	mu      sync.Mutex
	changes []storage.Change
}

func (r *recordingSink) Publish(c storage.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recordingSink) kinds() []storage.ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]storage.ChangeKind, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Kind)
	}
	return out
}

func newTestStore(t *testing.T) (*Storage, *recordingSink) {
	t.Helper()

	s, err := Open(SQLite, SQLiteDSN(filepath.Join(t.TempDir(), "crm.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))

	sink := &recordingSink{}
	s.SetSink(sink)
	return s, sink
}

func doc(collection, id, data string) storage.Document {
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	return storage.Document{
		Collection: collection,
		ID:         id,
		Data:       []byte(data),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestStorage_CRUD(t *testing.T) {
	s, sink := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, doc("clients", "c1", `{"name":"Durand"}`)))
	require.NoError(t, s.Insert(ctx, doc("clients", "c2", `{"name":"Martin"}`)))
	require.NoError(t, s.Insert(ctx, doc("teams", "t1", `{"name":"Alpha"}`)))

	got, err := s.Get(ctx, "clients", "c1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Durand"}`, string(got.Data))
	assert.Equal(t, time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC), got.CreatedAt)

	list, err := s.List(ctx, "clients")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	upd := doc("clients", "c1", `{"name":"Durand SA"}`)
	upd.Status = "x"
	upd.UpdatedAt = upd.UpdatedAt.Add(time.Hour)
	require.NoError(t, s.Update(ctx, upd))

	got, err = s.Get(ctx, "clients", "c1")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	require.NoError(t, s.Delete(ctx, "clients", "c2"))
	list, err = s.List(ctx, "clients")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, []storage.ChangeKind{
		storage.ChangeAdded, storage.ChangeAdded, storage.ChangeAdded,
		storage.ChangeModified, storage.ChangeRemoved,
	}, sink.kinds())
}

func TestStorage_RemovalCarriesTime(t *testing.T) {
	s, sink := newTestStore(t)
	ctx := context.Background()
	deletedAt := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return deletedAt }

	require.NoError(t, s.Insert(ctx, doc("clients", "c1", `{}`)))
	require.NoError(t, s.Insert(ctx, doc("clients", "c2", `{}`)))
	require.NoError(t, s.Delete(ctx, "clients", "c1"))
	require.NoError(t, s.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		return tx.Delete(ctx, "clients", "c2")
	}))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.changes, 4)
	for _, c := range sink.changes[2:] {
		assert.Equal(t, storage.ChangeRemoved, c.Kind)
		assert.Equal(t, deletedAt, c.Document.UpdatedAt)
	}
}

func TestStorage_MissingDocuments(t *testing.T) {
	s, sink := newTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "clients", "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.Update(ctx, doc("clients", "nope", `{}`))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.Delete(ctx, "clients", "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.Empty(t, sink.kinds())
}

func TestStorage_InsertDuplicate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, doc("clients", "c1", `{}`)))
	err := s.Insert(ctx, doc("clients", "c1", `{}`))
	assert.ErrorIs(t, err, storage.ErrConflict)

	// same id in another collection is fine
	assert.NoError(t, s.Insert(ctx, doc("teams", "c1", `{}`)))
}

func TestStorage_RunInTx_Commit(t *testing.T) {
	s, sink := newTestStore(t)
	ctx := context.Background()

	err := s.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		require.NoError(t, tx.Insert(ctx, doc("clients", "c1", `{}`)))
		require.NoError(t, tx.Insert(ctx, doc("clients", "c2", `{}`)))

		// nothing published before commit
		assert.Empty(t, sink.kinds())

		// nested calls join the transaction
		return tx.RunInTx(ctx, func(ctx context.Context, inner storage.DocStore) error {
			return inner.Delete(ctx, "clients", "c2")
		})
	})
	require.NoError(t, err)

	list, err := s.List(ctx, "clients")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, []storage.ChangeKind{storage.ChangeAdded, storage.ChangeAdded, storage.ChangeRemoved}, sink.kinds())
}

func TestStorage_RunInTx_Rollback(t *testing.T) {
	s, sink := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		require.NoError(t, tx.Insert(ctx, doc("clients", "c1", `{}`)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.List(ctx, "clients")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, sink.kinds())
}

func TestStorage_MigrateIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}
