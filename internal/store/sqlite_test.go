package store

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pool connection would get its own in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	require.NoError(t, err)

	return NewSQLiteBackend(db, zap.NewNop())
}

func TestSQLiteBackend_CreateAssignsIDAndTimestamps(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	doc := &Document{Body: []byte(`{"category":"Feed"}`)}
	require.NoError(t, backend.Create(ctx, "accounts/a1/budgets", doc))

	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	stored, err := backend.Get(ctx, "accounts/a1/budgets", doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Feed"}`, string(stored.Body))
}

func TestSQLiteBackend_UpdateMergesBody(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	doc := &Document{Body: []byte(`{"category":"Feed","plannedAmount":500}`)}
	require.NoError(t, backend.Create(ctx, "accounts/a1/budgets", doc))

	require.NoError(t, backend.Update(ctx, "accounts/a1/budgets", doc.ID,
		[]byte(`{"plannedAmount":750}`)))

	stored, err := backend.Get(ctx, "accounts/a1/budgets", doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Feed","plannedAmount":750}`, string(stored.Body))
}

func TestSQLiteBackend_UpdateMissingIsNotFound(t *testing.T) {
	backend := newTestBackend(t)

	err := backend.Update(context.Background(), "accounts/a1/budgets", "nope", []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBackend_DeleteMissingIsNotFound(t *testing.T) {
	backend := newTestBackend(t)

	err := backend.Delete(context.Background(), "accounts/a1/budgets", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBackend_CollectionsAreIsolatedByPath(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Create(ctx, "accounts/a1/budgets", &Document{Body: []byte(`{"n":1}`)}))
	require.NoError(t, backend.Create(ctx, "accounts/a2/budgets", &Document{Body: []byte(`{"n":2}`)}))

	docs, err := backend.Load(ctx, "accounts/a1/budgets", OrderInsertion)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSQLiteBackend_SubscribePushesInitialAndOnWrite(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	var snapshots [][]Document
	sub := backend.Subscribe("accounts/a1/transactions", OrderInsertion, func(docs []Document, err error) {
		require.NoError(t, err)
		snapshots = append(snapshots, docs)
	})
	defer sub.Cancel()

	require.Len(t, snapshots, 1, "initial snapshot expected")
	assert.Empty(t, snapshots[0])

	require.NoError(t, backend.Create(ctx, "accounts/a1/transactions",
		&Document{Body: []byte(`{"amount":300}`)}))
	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[1], 1)

	// Writes to other collections must not reach this subscriber.
	require.NoError(t, backend.Create(ctx, "accounts/a1/budgets",
		&Document{Body: []byte(`{"plannedAmount":500}`)}))
	assert.Len(t, snapshots, 2)
}

func TestSQLiteBackend_CancelStopsCallbacks(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	calls := 0
	sub := backend.Subscribe("accounts/a1/budgets", OrderInsertion, func([]Document, error) {
		calls++
	})
	require.Equal(t, 1, calls)

	sub.Cancel()
	sub.Cancel() // idempotent, must not panic

	require.NoError(t, backend.Create(ctx, "accounts/a1/budgets",
		&Document{Body: []byte(`{}`)}))
	assert.Equal(t, 1, calls, "no callbacks after teardown")
}

func TestSQLiteBackend_OrderCreatedDesc(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	first := &Document{Body: []byte(`{"n":1}`)}
	second := &Document{Body: []byte(`{"n":2}`)}
	require.NoError(t, backend.Create(ctx, "c", first))
	require.NoError(t, backend.Create(ctx, "c", second))

	var latest []Document
	sub := backend.Subscribe("c", OrderCreatedDesc, func(docs []Document, err error) {
		require.NoError(t, err)
		latest = docs
	})
	defer sub.Cancel()

	require.Len(t, latest, 2)
	assert.Equal(t, second.ID, latest[0].ID)
	assert.Equal(t, first.ID, latest[1].ID)
}

func TestSQLiteBackend_LastWriteWins(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	doc := &Document{Body: []byte(`{"quantity":5}`)}
	require.NoError(t, backend.Create(ctx, "c", doc))

	require.NoError(t, backend.Update(ctx, "c", doc.ID, []byte(`{"quantity":7}`)))
	require.NoError(t, backend.Update(ctx, "c", doc.ID, []byte(`{"quantity":9}`)))

	stored, err := backend.Get(ctx, "c", doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity":9}`, string(stored.Body))
}
