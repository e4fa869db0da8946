// Package http is the HTTP adapter: a thin gin layer translating requests
// into service calls. Identity is resolved from headers upstream of this
// service; a missing account yields empty reads and loud write failures,
// never an endless loading state.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/export"
	"github.com/bluepond/aqualedger/internal/report"
	"github.com/bluepond/aqualedger/internal/service"
	"github.com/bluepond/aqualedger/internal/upload"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Services bundles everything the handlers call.
type Services struct {
	Budgets      *service.BudgetService
	Transactions *service.TransactionService
	Comparison   *service.ComparisonService
	Partners     *service.PartnerService
	Reports      *service.ReportService
	Inventory    *service.InventoryService
	Advisor      *service.AdvisorService
	Bridge       *report.Bridge
	Exporter     *export.Exporter
	Uploads      *upload.Pipeline
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over the given services.
func NewServer(config ServerConfig, services Services, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		logger:   logger,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(logger))
	s.router.Use(cors())
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		budgets := api.Group("/budgets")
		budgets.GET("", s.handleListBudgets)
		budgets.POST("", s.handleCreateBudget)
		budgets.PATCH("/:id", s.handleUpdateBudget)
		budgets.DELETE("/:id", s.handleDeleteBudget)

		transactions := api.Group("/transactions")
		transactions.GET("", s.handleListTransactions)
		transactions.POST("", s.handleCreateTransaction)
		transactions.PATCH("/:id", s.handleUpdateTransaction)
		transactions.DELETE("/:id", s.handleDeleteTransaction)

		reports := api.Group("/reports")
		reports.GET("/comparison", s.handleComparison)
		reports.GET("/comparison/export", s.handleComparisonExport)

		partners := api.Group("/partners")
		partners.GET("", s.handleListPartners)
		partners.POST("", s.handleInvitePartner)
		partners.PATCH("/:id/status", s.handlePartnerStatus)

		partnerReports := api.Group("/partner-reports")
		partnerReports.GET("", s.handleListPartnerReports)
		partnerReports.POST("", s.handleSubmitSample)
		partnerReports.POST("/:id/attach", s.handleAttachResult)
		partnerReports.POST("/:id/approve", s.handleApproveReport)
		partnerReports.POST("/:id/reject", s.handleRejectReport)

		api.POST("/uploads", s.handleUpload)

		labReports := api.Group("/lab-reports")
		labReports.GET("", s.handleListLabReports)
		labReports.POST("", s.handleAddLabReport)
		labReports.PATCH("/:id/status", s.handleLabReportStatus)

		inventory := api.Group("/inventory")
		inventory.GET("", s.handleListInventory)
		inventory.POST("", s.handleCreateInventory)
		inventory.PATCH("/:id", s.handleUpdateInventory)
		inventory.DELETE("/:id", s.handleDeleteInventory)
		inventory.POST("/:id/adjust", s.handleAdjustInventory)

		api.GET("/advice/topics", s.handleAdviceTopics)
		api.POST("/advice", s.handleAdvice)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}
