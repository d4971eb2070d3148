// Command extractbatch runs the intake pipeline over a directory of invoice
// PDFs without storage or database and writes the results to a workbook.
// Usage: go run ./cmd/extractbatch -dir ./pdfs -out facturas.xlsx [-project 1]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"backoffice/internal/assemble"
	"backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/extract"
	"backoffice/internal/logger"
	"backoffice/internal/normalize"
	"backoffice/internal/parser"
	"backoffice/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", ".", "directory containing PDF files")
	out := flag.String("out", "facturas.xlsx", "output workbook path")
	projectID := flag.Int64("project", 0, "project ID stamped on every row")
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

	paths, err := listPDFs(*dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files in %s", *dir)
	}

	chain := extract.NewDefaultChain(zl, cfg.Extraction.RepairWithPdfcpu)
	p := parser.New(parser.Options{KnownIssuerRUT: cfg.Extraction.KnownIssuerRUT})
	// Rows are for review, so a missing issuer RUT stays empty.
	asm := assemble.New(assemble.Options{
		Ceiling:               normalize.ExtendedCeiling,
		DefaultIssueDateToday: cfg.Extraction.DefaultIssueDateToday,
	})

	ctx := context.Background()
	invoices := make([]domain.InvoiceIncome, 0, len(paths))
	failed := 0
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			zl.Warn("extractbatch: read failed", zap.String("file", path), zap.Error(err))
			failed++
			continue
		}
		text, err := chain.Extract(ctx, data)
		if err != nil {
			zl.Warn("extractbatch: extraction failed", zap.String("file", path), zap.Error(err))
			failed++
			continue
		}
		asset := domain.StoredAsset{Key: filepath.Base(path)}
		inv, err := asm.Assemble(p.Parse(text.Text), *projectID, asset, text.Text)
		if err != nil {
			zl.Warn("extractbatch: assemble failed", zap.String("file", path), zap.Error(err))
			failed++
			continue
		}
		inv.ID = int64(i + 1)
		invoices = append(invoices, *inv)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	defer func() { _ = f.Close() }()
	if err := xlsxexport.Write(f, invoices); err != nil {
		return err
	}

	zl.Info("extractbatch finished",
		zap.Int("files", len(paths)), zap.Int("extracted", len(invoices)),
		zap.Int("failed", failed), zap.String("out", *out))
	return nil
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
