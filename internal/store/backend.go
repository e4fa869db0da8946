// Package store implements the live-collection layer: a document backend
// with push-based snapshot subscriptions, and typed collection mirrors on
// top of it. Consumers only ever observe snapshots pushed by the backend
// after a durable write; there is no optimistic local mutation.
package store

import (
	"context"
	"time"
)

// Document is the raw persisted form of a record: an opaque JSON body plus
// the metadata the backend maintains for it.
type Document struct {
	ID        string
	Body      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order selects how a collection snapshot is sorted.
type Order int

const (
	// OrderInsertion preserves backend insertion order (no client re-sort)
	OrderInsertion Order = iota

	// OrderCreatedDesc sorts by creation time, newest first
	OrderCreatedDesc

	// OrderCreatedAsc sorts by creation time, oldest first
	OrderCreatedAsc
)

// SnapshotFunc receives the current documents of a subscribed collection.
// When the backend fails to refresh, err is non-nil and docs carries the
// last-known snapshot so consumers can keep rendering stale data.
type SnapshotFunc func(docs []Document, err error)

// Subscription is the disposable handle returned by Subscribe. Cancel is
// idempotent and safe to call after teardown; once cancelled no further
// snapshot callbacks fire.
type Subscription interface {
	Cancel()
}

// Backend is the only contract required of the backing document store:
// write-through mutations and a push-based snapshot stream per collection.
type Backend interface {
	// Create inserts a document. The write is durable before Create returns.
	Create(ctx context.Context, collection string, doc *Document) error

	// Update merges the given JSON body into the document with the given id.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, body []byte) error

	// Delete removes the document with the given id.
	// Returns ErrNotFound if the document does not exist.
	Delete(ctx context.Context, collection, id string) error

	// Get returns a single document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Load returns the current snapshot of a collection.
	Load(ctx context.Context, collection string, order Order) ([]Document, error)

	// Subscribe registers fn for snapshot pushes on the collection. The
	// current snapshot is delivered immediately, then again after every
	// successful write to the collection.
	Subscribe(collection string, order Order, fn SnapshotFunc) Subscription
}
