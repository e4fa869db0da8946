package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/aggregate"
	"github.com/bluepond/aqualedger/internal/domain/entity"
	"github.com/bluepond/aqualedger/internal/domain/lifecycle"
	"github.com/bluepond/aqualedger/internal/palette"
	"github.com/bluepond/aqualedger/internal/store"
	"github.com/bluepond/aqualedger/internal/upload"
)

// respondError maps domain errors onto HTTP status codes. Anything
// unrecognized is treated as a validation failure.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, store.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrUnsupportedOperation):
		status = http.StatusMethodNotAllowed
	case errors.Is(err, upload.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, store.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= 500 {
		s.logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Budgets ---

func (s *Server) handleListBudgets(c *gin.Context) {
	budgets, err := s.services.Budgets.List(c.Request.Context(), accountID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

func (s *Server) handleCreateBudget(c *gin.Context) {
	var budget entity.Budget
	if err := c.ShouldBindJSON(&budget); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Budgets.Create(c.Request.Context(), accountID(c), &budget); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (s *Server) handleUpdateBudget(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Budgets.Update(c.Request.Context(), accountID(c), c.Param("id"), patch); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) handleDeleteBudget(c *gin.Context) {
	if err := s.services.Budgets.Delete(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Transactions ---

func (s *Server) handleListTransactions(c *gin.Context) {
	transactions, err := s.services.Transactions.List(c.Request.Context(), accountID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var txn entity.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Transactions.Create(c.Request.Context(), accountID(c), &txn); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (s *Server) handleUpdateTransaction(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Transactions.Update(c.Request.Context(), accountID(c), c.Param("id"), patch); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	if err := s.services.Transactions.Delete(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Comparison ---

// comparisonRow decorates an aggregation row with its display colors so the
// UI never has to re-derive them.
type comparisonRow struct {
	aggregate.CategoryComparison
	Color palette.Entry `json:"color"`
	Badge palette.Entry `json:"badge"`
}

func (s *Server) handleComparison(c *gin.Context) {
	rows, err := s.services.Comparison.Current(accountID(c))
	if err != nil {
		// The view keeps serving its last-known rows alongside the error.
		s.logger.Warn("Comparison feed error", zap.Error(err))
	}

	out := make([]comparisonRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, comparisonRow{
			CategoryComparison: row,
			Color:              palette.ColorOf(row.Category),
			Badge:              palette.BadgeOf(row.Category),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rows": out})
}

func (s *Server) handleComparisonExport(c *gin.Context) {
	rows, err := s.services.Comparison.Current(accountID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	data, name, err := s.services.Exporter.ComparisonWorkbook(rows)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// --- Partners ---

func (s *Server) handleListPartners(c *gin.Context) {
	partners, err := s.services.Partners.List(c.Request.Context(), accountID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

func (s *Server) handleInvitePartner(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	partner, err := s.services.Partners.Invite(c.Request.Context(), accountID(c), req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, partner)
}

func (s *Server) handlePartnerStatus(c *gin.Context) {
	var req struct {
		Status entity.PartnerStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Partners.SetStatus(c.Request.Context(), accountID(c), c.Param("id"), req.Status); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// --- Partner reports ---

func (s *Server) handleListPartnerReports(c *gin.Context) {
	reports, err := s.services.Reports.ListForPartner(c.Request.Context(), partnerID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleSubmitSample(c *gin.Context) {
	var report entity.PartnerReport
	if err := c.ShouldBindJSON(&report); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Reports.SubmitSample(c.Request.Context(), partnerID(c), &report); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleAttachResult(c *gin.Context) {
	var req struct {
		ReportURL string `json:"reportUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Reports.AttachResult(c.Request.Context(), partnerID(c), c.Param("id"), req.ReportURL); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// approval requests carry the partner in the body: the owner acts on another
// party's collection, so the identity header alone does not locate it.
type approvalRequest struct {
	PartnerID string `json:"partnerId" binding:"required"`
}

func (s *Server) handleApproveReport(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Reports.Approve(c.Request.Context(), accountID(c), req.PartnerID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}

func (s *Server) handleRejectReport(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Reports.Reject(c.Request.Context(), accountID(c), req.PartnerID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

// --- Uploads ---

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()

	handle, err := s.services.Uploads.Upload(c.Request.Context(),
		partnerID(c), c.PostForm("path"), file.Filename, f)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"handle": handle})
}

// --- Lab reports (customer projection) ---

func (s *Server) handleListLabReports(c *gin.Context) {
	reports, err := s.services.Bridge.Reports()
	if err != nil {
		// Stale data with a warning beats an empty screen.
		s.logger.Warn("Lab-report feed error, serving last projection", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleAddLabReport(c *gin.Context) {
	var report entity.LabReport
	if err := c.ShouldBindJSON(&report); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondError(c, s.services.Bridge.AddLabReport(report))
}

func (s *Server) handleLabReportStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondError(c, s.services.Bridge.UpdateLabReportStatus(c.Param("id"), req.Status))
}

// --- Inventory ---

func (s *Server) handleListInventory(c *gin.Context) {
	items, err := s.services.Inventory.List(c.Request.Context(), accountID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleCreateInventory(c *gin.Context) {
	var item entity.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Inventory.Create(c.Request.Context(), accountID(c), &item); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleUpdateInventory(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.services.Inventory.Update(c.Request.Context(), accountID(c), c.Param("id"), patch); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) handleDeleteInventory(c *gin.Context) {
	if err := s.services.Inventory.Delete(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdjustInventory(c *gin.Context) {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	item, err := s.services.Inventory.AdjustQuantity(c.Request.Context(), accountID(c), c.Param("id"), req.Delta)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- Advice ---

func (s *Server) handleAdviceTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": s.services.Advisor.Topics()})
}

func (s *Server) handleAdvice(c *gin.Context) {
	var req struct {
		Topic string `json:"topic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"topic":  req.Topic,
		"advice": s.services.Advisor.Advice(req.Topic),
	})
}
