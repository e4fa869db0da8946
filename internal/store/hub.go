package store

import (
	"sync"

	"go.uber.org/zap"
)

// snapshotHub routes collection snapshots to registered subscribers. Delivery
// is serialized: the hub lock is held while callbacks run, so one snapshot is
// fully processed before the next is dispatched and no callback interleaves
// with a recomputation it triggers elsewhere. Callbacks must not issue
// synchronous writes back into the store; derived views are pure maps over
// the snapshot they receive.
type snapshotHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*hubSubscription
	last   map[string][]Document
	logger *zap.Logger
}

// hubSubscription is the disposable handle handed back to subscribers.
type hubSubscription struct {
	hub        *snapshotHub
	collection string
	id         int
	order      Order
	fn         SnapshotFunc
	once       sync.Once
}

func newSnapshotHub(logger *zap.Logger) *snapshotHub {
	return &snapshotHub{
		subs:   make(map[string]map[int]*hubSubscription),
		last:   make(map[string][]Document),
		logger: logger,
	}
}

// subscribe registers fn for a collection and returns its handle. The caller
// is responsible for pushing the initial snapshot.
func (h *snapshotHub) subscribe(collection string, order Order, fn SnapshotFunc) *hubSubscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &hubSubscription{
		hub:        h,
		collection: collection,
		id:         h.nextID,
		order:      order,
		fn:         fn,
	}

	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]*hubSubscription)
	}
	h.subs[collection][sub.id] = sub

	h.logger.Debug("Snapshot subscriber registered",
		zap.String("collection", collection),
		zap.Int("subscriber_id", sub.id))

	return sub
}

// publish retains docs as the last-known snapshot for the collection and
// delivers it to every subscriber.
func (h *snapshotHub) publish(collection string, docs []Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last[collection] = docs
	h.deliver(collection, docs, nil)
}

// fail delivers err to every subscriber of the collection alongside the
// last-known snapshot, never instead of it.
func (h *snapshotHub) fail(collection string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.Error("Snapshot refresh failed",
		zap.String("collection", collection),
		zap.Error(err))

	h.deliver(collection, h.last[collection], err)
}

// deliver runs under h.mu.
func (h *snapshotHub) deliver(collection string, docs []Document, err error) {
	for _, sub := range h.subs[collection] {
		h.safeDeliver(sub, docs, err)
	}
}

// safeDeliver runs a subscriber callback with panic recovery so one broken
// consumer cannot take down the whole feed.
func (h *snapshotHub) safeDeliver(sub *hubSubscription, docs []Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Snapshot subscriber panic recovered",
				zap.String("collection", sub.collection),
				zap.Int("subscriber_id", sub.id),
				zap.Any("panic", r))
		}
	}()

	sub.fn(orderDocs(docs, sub.order), err)
}

// initial pushes the first snapshot to a freshly registered subscriber,
// unless it cancelled in the meantime.
func (h *snapshotHub) initial(sub *hubSubscription, docs []Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[sub.collection]; ok {
		if _, live := subs[sub.id]; live {
			h.safeDeliver(sub, docs, nil)
		}
	}
}

// unsubscribe removes a subscriber. Safe to call more than once.
func (h *snapshotHub) unsubscribe(sub *hubSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[sub.collection]; ok {
		delete(subs, sub.id)
		if len(subs) == 0 {
			delete(h.subs, sub.collection)
		}
	}

	h.logger.Debug("Snapshot subscriber removed",
		zap.String("collection", sub.collection),
		zap.Int("subscriber_id", sub.id))
}

// Cancel tears the subscription down. Idempotent: calling it again, or after
// the hub has already dropped the subscriber, is a no-op.
func (s *hubSubscription) Cancel() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}
