package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/domain/lifecycle"
	"github.com/bluepond/aqualedger/internal/store"
)

type reportFixture struct {
	backend  *store.SQLiteBackend
	partners *PartnerService
	reports  *ReportService
	partner  *entity.LabPartner
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	backend := newTestBackend(t)
	partners := NewPartnerService(backend, zap.NewNop())
	reports := NewReportService(backend, partners, zap.NewNop())

	partner, err := partners.Invite(context.Background(), "owner-1", "lab@pond.example")
	require.NoError(t, err)

	return &reportFixture{backend: backend, partners: partners, reports: reports, partner: partner}
}

func (f *reportFixture) submit(t *testing.T, sampleName string) *entity.PartnerReport {
	t.Helper()

	report := &entity.PartnerReport{
		CustomerMobile: "+919876543210",
		SampleName:     sampleName,
		Parameters:     map[string]any{"ph": 7.4},
	}
	require.NoError(t, f.reports.SubmitSample(context.Background(), f.partner.ID, report))
	return report
}

func TestReport_SubmitStartsAsSample(t *testing.T) {
	f := newReportFixture(t)
	report := f.submit(t, "Pond 3 water")

	assert.Equal(t, "sample", report.Status)
	assert.Empty(t, report.ReportURL)
}

func TestReport_SubmitValidatesCustomerMobile(t *testing.T) {
	f := newReportFixture(t)

	err := f.reports.SubmitSample(context.Background(), f.partner.ID,
		&entity.PartnerReport{CustomerMobile: "not-a-number"})
	assert.Error(t, err)
}

func TestReport_AttachMovesToPending(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	report := f.submit(t, "Pond 3 water")

	require.NoError(t, f.reports.AttachResult(ctx, f.partner.ID, report.ID, "upload-handle-1"))

	stored, err := f.reports.ListForPartner(ctx, f.partner.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "pending", stored[0].Status)
	assert.Equal(t, "upload-handle-1", stored[0].ReportURL)
}

func TestReport_ApproveWritesApprovedCollection(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	report := f.submit(t, "Pond 3 water")

	require.NoError(t, f.reports.AttachResult(ctx, f.partner.ID, report.ID, "upload-handle-1"))
	require.NoError(t, f.reports.Approve(ctx, "owner-1", f.partner.ID, report.ID))

	// Partner side flipped to approved.
	stored, err := f.reports.ListForPartner(ctx, f.partner.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", stored[0].Status)

	// Customer side got a document keyed by the same report id.
	approved, err := f.reports.ApprovedCollection().List(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, report.ID, approved[0].ID)
	assert.Equal(t, "lab@pond.example", approved[0].PartnerEmail)
	assert.Equal(t, "upload-handle-1", approved[0].ReportURL)
	assert.False(t, approved[0].ApprovedAt.IsZero())
}

func TestReport_ApproveWithoutFileFails(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	report := f.submit(t, "Pond 3 water")

	err := f.reports.Approve(ctx, "owner-1", f.partner.ID, report.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	approved, listErr := f.reports.ApprovedCollection().List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, approved, "failed approval must not promote anything")
}

func TestReport_RejectAllowsResubmission(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	report := f.submit(t, "Pond 3 water")

	require.NoError(t, f.reports.AttachResult(ctx, f.partner.ID, report.ID, "upload-1"))
	require.NoError(t, f.reports.Reject(ctx, "owner-1", f.partner.ID, report.ID))

	stored, _ := f.reports.ListForPartner(ctx, f.partner.ID)
	assert.Equal(t, "rejected", stored[0].Status)

	require.NoError(t, f.reports.AttachResult(ctx, f.partner.ID, report.ID, "upload-2"))
	stored, _ = f.reports.ListForPartner(ctx, f.partner.ID)
	assert.Equal(t, "pending", stored[0].Status)
	assert.Equal(t, "upload-2", stored[0].ReportURL)
}

func TestReport_ApproveUnknownPartnerIsNotFound(t *testing.T) {
	f := newReportFixture(t)

	err := f.reports.Approve(context.Background(), "owner-1", "ghost", "r1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReport_RejectRequiresOwner(t *testing.T) {
	f := newReportFixture(t)
	report := f.submit(t, "Pond 3 water")

	err := f.reports.Reject(context.Background(), "", f.partner.ID, report.ID)
	assert.ErrorIs(t, err, store.ErrUnauthenticated)
}
