package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/domain/lifecycle"
	"github.com/bluepond/aqualedger/internal/store"
	"github.com/bluepond/aqualedger/pkg/utils"
)

// ApprovedReportsPath is the customer-visible approved collection. It is
// owned by no account: it is a read projection fed only by owner approvals.
const ApprovedReportsPath = "approved-reports"

func partnerReportsPath(partnerID string) string {
	return fmt.Sprintf("partners/%s/reports", partnerID)
}

// ReportService drives the partner side of the report lifecycle and the
// approval step that promotes a report into the customer-visible collection.
// The partner store and the approved store share only the report id; the two
// writes of an approval are independent, with no cross-store transaction.
type ReportService struct {
	backend  store.Backend
	partners *PartnerService
	logger   *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(backend store.Backend, partners *PartnerService, logger *zap.Logger) *ReportService {
	return &ReportService{backend: backend, partners: partners, logger: logger}
}

func (s *ReportService) reports(partnerID string) *store.Collection[entity.PartnerReport, *entity.PartnerReport] {
	if partnerID == "" {
		return store.NewCollection[entity.PartnerReport](s.backend, partnerReportsPath(""), store.WithoutAccount())
	}
	return store.NewCollection[entity.PartnerReport](s.backend, partnerReportsPath(partnerID),
		store.WithOrder(store.OrderCreatedDesc))
}

func (s *ReportService) approved() *store.Collection[entity.ApprovedReport, *entity.ApprovedReport] {
	return store.NewCollection[entity.ApprovedReport](s.backend, ApprovedReportsPath,
		store.WithOrder(store.OrderCreatedDesc))
}

// ApprovedCollection exposes the approved feed for the customer bridge.
func (s *ReportService) ApprovedCollection() *store.Collection[entity.ApprovedReport, *entity.ApprovedReport] {
	return s.approved()
}

// ListForPartner returns a partner's own reports, newest first.
func (s *ReportService) ListForPartner(ctx context.Context, partnerID string) ([]*entity.PartnerReport, error) {
	return s.reports(partnerID).List(ctx)
}

// SubmitSample registers a new sample without a result file. The report
// starts in the sample state.
func (s *ReportService) SubmitSample(ctx context.Context, partnerID string, r *entity.PartnerReport) error {
	if err := utils.ValidateMobile(r.CustomerMobile); err != nil {
		return err
	}

	r.Status = lifecycle.StateSample.String()
	if err := s.reports(partnerID).Create(ctx, r); err != nil {
		return err
	}

	s.logger.Info("Sample submitted",
		zap.String("partner_id", partnerID),
		zap.String("report_id", r.ID),
		zap.String("sample_name", r.SampleName))
	return nil
}

// AttachResult attaches a result file reference to a sample, moving it to
// pending. reportURL is the opaque upload handle, not a dereferenceable URL.
func (s *ReportService) AttachResult(ctx context.Context, partnerID, reportID, reportURL string) error {
	col := s.reports(partnerID)

	report, err := col.Get(ctx, reportID)
	if err != nil {
		return err
	}

	machine, err := lifecycle.NewMachine(lifecycle.State(report.Status))
	if err != nil {
		return err
	}
	if err := machine.Fire(lifecycle.TriggerAttachFile); err != nil {
		return err
	}

	return col.Update(ctx, reportID, map[string]any{
		"status":    machine.State().String(),
		"reportUrl": reportURL,
	})
}

// Approve promotes a pending report into the approved collection. It writes
// the customer-visible document first and flips the partner-side status
// second; the two collections are only eventually consistent with each
// other, and a crash between the writes leaves a pending report with an
// already-visible approval rather than the reverse.
func (s *ReportService) Approve(ctx context.Context, accountID, partnerID, reportID string) error {
	partner, err := s.partners.Get(ctx, accountID, partnerID)
	if err != nil {
		return err
	}

	col := s.reports(partnerID)
	report, err := col.Get(ctx, reportID)
	if err != nil {
		return err
	}

	machine, err := lifecycle.NewMachine(lifecycle.State(report.Status))
	if err != nil {
		return err
	}
	if err := machine.Fire(lifecycle.TriggerApprove); err != nil {
		return err
	}

	// Keyed by the shared report id: the only association between the two
	// collections.
	promoted := &entity.ApprovedReport{
		SampleName:   report.SampleName,
		PartnerEmail: partner.Email,
		ReportURL:    report.ReportURL,
		Parameters:   report.Parameters,
		ApprovedAt:   time.Now().UTC(),
	}
	promoted.ID = report.ID
	if err := s.approved().Create(ctx, promoted); err != nil {
		return err
	}

	if err := col.Update(ctx, reportID, map[string]any{"status": machine.State().String()}); err != nil {
		return err
	}

	s.logger.Info("Report approved",
		zap.String("account_id", accountID),
		zap.String("partner_id", partnerID),
		zap.String("report_id", reportID))
	return nil
}

// Reject declines a pending report. The partner may attach a new result
// file, which moves it back to pending.
func (s *ReportService) Reject(ctx context.Context, accountID, partnerID, reportID string) error {
	if accountID == "" {
		return store.ErrUnauthenticated
	}

	col := s.reports(partnerID)
	report, err := col.Get(ctx, reportID)
	if err != nil {
		return err
	}

	machine, err := lifecycle.NewMachine(lifecycle.State(report.Status))
	if err != nil {
		return err
	}
	if err := machine.Fire(lifecycle.TriggerReject); err != nil {
		return err
	}

	return col.Update(ctx, reportID, map[string]any{"status": machine.State().String()})
}
