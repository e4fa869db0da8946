package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Record is the shape every stored entity exposes to the collection layer.
type Record interface {
	RecordID() string
	SetRecordID(id string)
	SetTimestamps(created, updated time.Time)
}

// recordPtr constrains PT to "pointer to T that implements Record".
type recordPtr[T any] interface {
	Record
	*T
}

// Collection is a typed live mirror over one collection path. Writes go
// through the backend before returning; reads and subscriptions only ever
// reflect what the backend pushed back, never a locally patched copy.
type Collection[T any, PT recordPtr[T]] struct {
	backend Backend
	path    string
	order   Order
	authed  bool
}

// CollectionOption configures a collection mirror.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	order  Order
	authed bool
}

// WithOrder sets the snapshot ordering for reads and subscriptions.
func WithOrder(order Order) CollectionOption {
	return func(c *collectionConfig) {
		c.order = order
	}
}

// WithoutAccount marks the mirror as lacking an authenticated account.
// Reads yield empty snapshots (not an endless loading state) and every
// mutation fails with ErrUnauthenticated rather than silently no-oping.
func WithoutAccount() CollectionOption {
	return func(c *collectionConfig) {
		c.authed = false
	}
}

// NewCollection creates a typed mirror over the given collection path.
func NewCollection[T any, PT recordPtr[T]](backend Backend, path string, opts ...CollectionOption) *Collection[T, PT] {
	cfg := collectionConfig{order: OrderInsertion, authed: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Collection[T, PT]{
		backend: backend,
		path:    path,
		order:   cfg.order,
		authed:  cfg.authed,
	}
}

// Path returns the collection path the mirror is bound to.
func (c *Collection[T, PT]) Path() string {
	return c.path
}

// Create writes rec through to the backend and fills in its generated id and
// timestamps from the stored document.
func (c *Collection[T, PT]) Create(ctx context.Context, rec PT) error {
	if !c.authed {
		return ErrUnauthenticated
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrEncodingFailure, err)
	}

	doc := &Document{ID: rec.RecordID(), Body: body}
	if err := c.backend.Create(ctx, c.path, doc); err != nil {
		return err
	}

	rec.SetRecordID(doc.ID)
	rec.SetTimestamps(doc.CreatedAt, doc.UpdatedAt)
	return nil
}

// Update merges patch into the stored document. ErrNotFound when id is
// absent from the collection.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, patch map[string]any) error {
	if !c.authed {
		return ErrUnauthenticated
	}

	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("%w: marshal patch: %v", ErrEncodingFailure, err)
	}

	return c.backend.Update(ctx, c.path, id, body)
}

// Delete removes the document with the given id.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	if !c.authed {
		return ErrUnauthenticated
	}
	return c.backend.Delete(ctx, c.path, id)
}

// Get returns a single decoded record.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	if !c.authed {
		return nil, ErrUnauthenticated
	}

	doc, err := c.backend.Get(ctx, c.path, id)
	if err != nil {
		return nil, err
	}
	return decodeDoc[T, PT](*doc)
}

// List returns the current snapshot, decoded, in the configured order.
func (c *Collection[T, PT]) List(ctx context.Context) ([]PT, error) {
	if !c.authed {
		return nil, nil
	}

	docs, err := c.backend.Load(ctx, c.path, c.order)
	if err != nil {
		return nil, err
	}
	return decodeDocs[T, PT](docs)
}

// Subscribe registers fn on the collection's snapshot stream. On a refresh
// failure fn receives the last-known records together with the error so the
// consumer can keep showing stale data. For an unauthenticated mirror fn is
// invoked once with an empty snapshot and never again.
func (c *Collection[T, PT]) Subscribe(fn func(recs []PT, err error)) Subscription {
	if !c.authed {
		fn(nil, nil)
		return noopSubscription{}
	}

	return c.backend.Subscribe(c.path, c.order, func(docs []Document, err error) {
		recs, decErr := decodeDocs[T, PT](docs)
		if decErr != nil && err == nil {
			err = decErr
		}
		fn(recs, err)
	})
}

// noopSubscription is handed out when there is nothing to tear down.
type noopSubscription struct{}

func (noopSubscription) Cancel() {}

func decodeDoc[T any, PT recordPtr[T]](doc Document) (PT, error) {
	var v T
	rec := PT(&v)
	if err := json.Unmarshal(doc.Body, rec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %s: %v", ErrEncodingFailure, doc.ID, err)
	}
	rec.SetRecordID(doc.ID)
	rec.SetTimestamps(doc.CreatedAt, doc.UpdatedAt)
	return rec, nil
}

func decodeDocs[T any, PT recordPtr[T]](docs []Document) ([]PT, error) {
	recs := make([]PT, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeDoc[T, PT](doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
