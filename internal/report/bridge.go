// Package report bridges the two sides of the lab-report lifecycle: the
// partner-side store with its own status vocabulary, and the customer-facing
// read projection. The two collections share only a report id; there is no
// foreign key between them and no cross-collection transaction.
package report

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/store"
)

// placeholderTitle is used when an approved report has no sample name.
const placeholderTitle = "Lab Report"

// ApprovedFeed is the slice of the collection layer the bridge consumes.
type ApprovedFeed interface {
	Subscribe(fn func(recs []*entity.ApprovedReport, err error)) store.Subscription
}

// Bridge maintains the customer-visible lab-report projection from the live
// approved-report feed. The projection is re-derived in full on every
// snapshot; no per-item state survives between runs. On a feed error the
// last-known projection is retained so consumers keep showing stale data.
type Bridge struct {
	mu      sync.RWMutex
	current []entity.LabReport
	feedErr error
	sub     store.Subscription
	logger  *zap.Logger
}

// NewBridge subscribes to the approved-report feed and keeps the projection
// current until Close is called.
func NewBridge(feed ApprovedFeed, logger *zap.Logger) *Bridge {
	b := &Bridge{logger: logger}
	b.sub = feed.Subscribe(b.onSnapshot)
	return b
}

func (b *Bridge) onSnapshot(recs []*entity.ApprovedReport, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.feedErr = err
	if err != nil {
		b.logger.Warn("Approved-report feed error, keeping last projection",
			zap.Error(err))
		return
	}
	b.current = Project(recs)
}

// Reports returns the current projection together with the feed's last
// error, if any. The projection is never blanked by an error.
func (b *Bridge) Reports() ([]entity.LabReport, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]entity.LabReport, len(b.current))
	copy(out, b.current)
	return out, b.feedErr
}

// AddLabReport always fails: the customer projection is read-only. Writes
// happen on the partner-approval side only.
func (b *Bridge) AddLabReport(entity.LabReport) error {
	return store.ErrUnsupportedOperation
}

// UpdateLabReportStatus always fails: approved reports have exactly one
// customer-visible status and it never changes.
func (b *Bridge) UpdateLabReportStatus(id, status string) error {
	return store.ErrUnsupportedOperation
}

// Close tears down the feed subscription. Idempotent.
func (b *Bridge) Close() {
	b.sub.Cancel()
}

// Project maps approved reports to their customer-facing shape. Pure: no
// state, deterministic for a given snapshot.
func Project(recs []*entity.ApprovedReport) []entity.LabReport {
	out := make([]entity.LabReport, 0, len(recs))
	for _, rec := range recs {
		out = append(out, entity.LabReport{
			ID:           rec.ID,
			Title:        titleOf(rec),
			SampleID:     rec.ID,
			Status:       entity.LabReportStatus,
			PartnerEmail: rec.PartnerEmail,
			URL:          rec.ReportURL,
			Notes:        notesOf(rec.Parameters),
		})
	}
	return out
}

func titleOf(rec *entity.ApprovedReport) string {
	if rec.SampleName != "" {
		return rec.SampleName
	}
	return placeholderTitle
}

// notesOf flattens parameters to a display string. A structured value is
// serialized as JSON (object keys come out sorted, so the string is stable);
// the UI never receives a raw structure it cannot render as text.
func notesOf(params any) string {
	switch v := params.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
