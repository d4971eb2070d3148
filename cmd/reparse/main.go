// Command reparse re-runs the field parser over pending invoice_income rows
// that have not been processed yet, using their stored raw text or, when
// that is empty, the PDF kept in object storage.
// Usage: go run ./cmd/reparse [-batch 100]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/extract"
	"backoffice/internal/logger"
	"backoffice/internal/repository/postgres"
	"backoffice/internal/service"
	s3storage "backoffice/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	batch := flag.Int("batch", 100, "rows fetched per query")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("initializing S3 client: %w", err)
	}

	svc := service.NewInvoiceService(
		postgres.NewInvoiceIncomeRepo(db),
		s3Client,
		extract.NewDefaultChain(zl, cfg.Extraction.RepairWithPdfcpu),
		&cfg.S3, &cfg.Extraction, zl,
	)

	stats, err := svc.Reparse(ctx, *batch)
	if stats != nil {
		zl.Info("reparse finished",
			zap.Int("scanned", stats.Scanned),
			zap.Int("updated", stats.Updated),
			zap.Int("failed", stats.Failed))
	}
	if err != nil {
		return fmt.Errorf("reparse: %w", err)
	}
	return nil
}
