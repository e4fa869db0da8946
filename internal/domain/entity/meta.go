// Package entity defines the persisted domain records. Association between
// records is by matching string fields at read time (category, sample id);
// there are no foreign keys and no referential-integrity guarantee.
package entity

import "time"

// Meta carries the identity and timestamps every stored record has. The id
// is assigned by the store on create; timestamps are maintained by the store.
type Meta struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// RecordID returns the store-assigned id.
func (m *Meta) RecordID() string { return m.ID }

// SetRecordID sets the store-assigned id.
func (m *Meta) SetRecordID(id string) { m.ID = id }

// SetTimestamps sets the store-maintained timestamps.
func (m *Meta) SetTimestamps(created, updated time.Time) {
	m.CreatedAt = created
	m.UpdatedAt = updated
}
