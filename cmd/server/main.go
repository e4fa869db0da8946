package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/bluepond/aqualedger/internal/config"
	"github.com/bluepond/aqualedger/internal/export"
	httpapi "github.com/bluepond/aqualedger/internal/interfaces/http"
	"github.com/bluepond/aqualedger/internal/report"
	"github.com/bluepond/aqualedger/internal/service"
	"github.com/bluepond/aqualedger/internal/store"
	"github.com/bluepond/aqualedger/internal/upload"
	"github.com/bluepond/aqualedger/migrations"
	"github.com/bluepond/aqualedger/pkg/database"
	"github.com/bluepond/aqualedger/pkg/utils"
)

func main() {
	// Local overrides from .env, if present.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting AquaLedger",
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(migrations.Files); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	backend := store.NewSQLiteBackend(db.DB, logger)

	partners := service.NewPartnerService(backend, logger)
	reports := service.NewReportService(backend, partners, logger)
	comparison := service.NewComparisonService(backend, logger)
	defer comparison.Close()

	bridge := report.NewBridge(reports.ApprovedCollection(), logger)
	defer bridge.Close()

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpapi.Services{
		Budgets:      service.NewBudgetService(backend, logger),
		Transactions: service.NewTransactionService(backend, logger),
		Comparison:   comparison,
		Partners:     partners,
		Reports:      reports,
		Inventory:    service.NewInventoryService(backend, logger),
		Advisor:      service.NewAdvisorService(),
		Bridge:       bridge,
		Exporter:     export.NewExporter(logger),
		Uploads:      upload.NewPipeline(backend, cfg.Upload.MaxSizeBytes, logger),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
