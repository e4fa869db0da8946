package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SQLiteBackend persists collections in a single documents table and pushes a
// fresh snapshot through the hub after every durable write. Concurrent
// writers to the same document are last-write-wins; the backend adds no
// optimistic-concurrency check.
type SQLiteBackend struct {
	db     *sql.DB
	hub    *snapshotHub
	logger *zap.Logger
}

// NewSQLiteBackend creates a backend over an already-migrated database.
func NewSQLiteBackend(db *sql.DB, logger *zap.Logger) *SQLiteBackend {
	return &SQLiteBackend{
		db:     db,
		hub:    newSnapshotHub(logger),
		logger: logger,
	}
}

// Create inserts a document, assigning an id and timestamps when absent.
func (b *SQLiteBackend) Create(ctx context.Context, collection string, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	query := `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := b.db.ExecContext(ctx, query,
		collection, doc.ID, string(doc.Body), doc.CreatedAt, doc.UpdatedAt); err != nil {
		b.logger.Error("Failed to create document",
			zap.String("collection", collection),
			zap.String("id", doc.ID),
			zap.Error(err))
		return fmt.Errorf("%w: create: %v", ErrStoreUnavailable, err)
	}

	b.refresh(collection)
	return nil
}

// Update merges body into the stored JSON document. Missing fields are kept,
// fields present in body overwrite. Returns ErrNotFound for an unknown id.
func (b *SQLiteBackend) Update(ctx context.Context, collection, id string, body []byte) error {
	existing, err := b.Get(ctx, collection, id)
	if err != nil {
		return err
	}

	merged, err := mergeJSON(existing.Body, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	query := `
		UPDATE documents SET body = ?, updated_at = ?
		WHERE collection = ? AND id = ?
	`
	res, err := b.db.ExecContext(ctx, query, string(merged), time.Now().UTC(), collection, id)
	if err != nil {
		b.logger.Error("Failed to update document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err))
		return fmt.Errorf("%w: update: %v", ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	b.refresh(collection)
	return nil
}

// Delete removes a document. Returns ErrNotFound for an unknown id.
func (b *SQLiteBackend) Delete(ctx context.Context, collection, id string) error {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		b.logger.Error("Failed to delete document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err))
		return fmt.Errorf("%w: delete: %v", ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	b.refresh(collection)
	return nil
}

// Get returns a single document by id.
func (b *SQLiteBackend) Get(ctx context.Context, collection, id string) (*Document, error) {
	query := `
		SELECT id, body, created_at, updated_at FROM documents
		WHERE collection = ? AND id = ?
	`
	var doc Document
	var body string
	err := b.db.QueryRowContext(ctx, query, collection, id).Scan(
		&doc.ID, &body, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		b.logger.Error("Failed to get document",
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: get: %v", ErrStoreUnavailable, err)
	}
	doc.Body = []byte(body)
	return &doc, nil
}

// Load returns the current snapshot of a collection.
func (b *SQLiteBackend) Load(ctx context.Context, collection string, order Order) ([]Document, error) {
	clause := "ORDER BY rowid ASC"
	switch order {
	case OrderCreatedDesc:
		clause = "ORDER BY created_at DESC, rowid DESC"
	case OrderCreatedAsc:
		clause = "ORDER BY created_at ASC, rowid ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, body, created_at, updated_at FROM documents
		WHERE collection = ? %s
	`, clause)

	rows, err := b.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var body string
		if err := rows.Scan(&doc.ID, &body, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStoreUnavailable, err)
		}
		doc.Body = []byte(body)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrStoreUnavailable, err)
	}

	return docs, nil
}

// Subscribe registers fn on the collection's snapshot stream and pushes the
// current snapshot immediately.
func (b *SQLiteBackend) Subscribe(collection string, order Order, fn SnapshotFunc) Subscription {
	sub := b.hub.subscribe(collection, order, fn)

	docs, err := b.Load(context.Background(), collection, OrderInsertion)
	if err != nil {
		b.hub.fail(collection, err)
		return sub
	}
	b.hub.initial(sub, docs)

	return sub
}

// refresh reloads the collection and publishes the new snapshot. A failed
// reload is surfaced to subscribers alongside the last-known snapshot.
func (b *SQLiteBackend) refresh(collection string) {
	docs, err := b.Load(context.Background(), collection, OrderInsertion)
	if err != nil {
		b.hub.fail(collection, err)
		return
	}
	b.hub.publish(collection, docs)
}

// mergeJSON overlays patch onto base at the top level of the object.
func mergeJSON(base, patch []byte) ([]byte, error) {
	merged := make(map[string]any)
	if len(base) > 0 {
		if err := json.Unmarshal(base, &merged); err != nil {
			return nil, err
		}
	}
	var overlay map[string]any
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return json.Marshal(merged)
}
