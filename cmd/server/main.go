package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/extract"
	"backoffice/internal/handler"
	"backoffice/internal/logger"
	"backoffice/internal/repository/postgres"
	"backoffice/internal/router"
	"backoffice/internal/service"
	s3storage "backoffice/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceIncomeRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize services
	extractor := extract.NewDefaultChain(zl, cfg.Extraction.RepairWithPdfcpu)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, s3Client, extractor, &cfg.S3, &cfg.Extraction, zl)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, cfg.Extraction.MaxFileSizeBytes(), zl)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, invoiceH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
