package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice/internal/assemble"
	"backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/normalize"
	"backoffice/internal/parser"
	"backoffice/internal/port"
	"backoffice/internal/validator"
)

// Policy captures how an intake endpoint differs from its sibling.
type Policy struct {
	Name string
	// StorageFailureFatal aborts the request when the PDF cannot be stored.
	// Otherwise processing continues with an empty pdf_url.
	StorageFailureFatal bool
	Ceiling             decimal.Decimal
	RUTLimit            int
	Persist             bool
	// FallbackIssuerRUT stamps the configured company RUT on records whose
	// issuer RUT was not found in the text.
	FallbackIssuerRUT   bool
}

// BaselinePolicy is the best-effort intake: storage failures are tolerated
// and the record is always persisted.
func BaselinePolicy() Policy {
	return Policy{
		Name:                "baseline",
		StorageFailureFatal: false,
		Ceiling:             normalize.BaselineCeiling,
		RUTLimit:            20,
		Persist:             true,
	}
}

// RobustPolicy is the fail-fast intake used by the verification workflow.
// With persist unset the parsed record is returned for review only.
func RobustPolicy(persist bool) Policy {
	return Policy{
		Name:                "robust",
		StorageFailureFatal: true,
		Ceiling:             normalize.ExtendedCeiling,
		RUTLimit:            50,
		Persist:             persist,
		FallbackIssuerRUT:   true,
	}
}

// ReparsePolicy re-reads stored rows. A row may have come through either
// intake, so the wider limits apply and no issuer RUT is invented.
func ReparsePolicy() Policy {
	return Policy{
		Name:                "reparse",
		StorageFailureFatal: true,
		Ceiling:             normalize.ExtendedCeiling,
		RUTLimit:            50,
		Persist:             true,
	}
}

// ProcessInput is the DTO for a single PDF intake.
type ProcessInput struct {
	ProjectID   int64
	Filename    string
	ContentType string
	Data        []byte
}

// ProcessResult is everything one intake produced.
type ProcessResult struct {
	Invoice    *domain.InvoiceIncome
	Fields     domain.ParsedFields
	Extracted  *domain.ExtractedText
	Asset      domain.StoredAsset
	Validation *validator.Report
	Persisted  bool
	// IssuerConfirmed is set when the first RUT is the configured company RUT.
	IssuerConfirmed bool
}

// ConfirmInput carries fields reviewed by a person after an extract-only run.
type ConfirmInput struct {
	ProjectID int64
	Fields    domain.ParsedFields
	PDFURL    string
	PDFKey    string
	RawText   string
}

// ReparseStats summarizes a re-parse run.
type ReparseStats struct {
	Scanned int
	Updated int
	Failed  int
}

// InvoiceService defines the invoice intake contract.
type InvoiceService interface {
	Process(ctx context.Context, input ProcessInput, policy Policy) (*ProcessResult, error)
	Confirm(ctx context.Context, input ConfirmInput) (*domain.InvoiceIncome, *validator.Report, error)
	GetByID(ctx context.Context, id int64) (*domain.InvoiceIncome, string, error)
	ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]domain.InvoiceIncome, int, error)
	Reparse(ctx context.Context, batchSize int) (*ReparseStats, error)
}

type invoiceService struct {
	repo      port.InvoiceRepository
	storage   port.ObjectStorage
	extractor port.TextExtractor
	parser    *parser.Parser
	engine    *validator.Engine
	s3Cfg     *config.S3Config
	extCfg    *config.ExtractionConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	repo port.InvoiceRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	s3Cfg *config.S3Config,
	extCfg *config.ExtractionConfig,
	logger *zap.Logger,
) InvoiceService {
	return newInvoiceService(repo, storage, extractor, s3Cfg, extCfg, logger, time.Now)
}

func newInvoiceService(
	repo port.InvoiceRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	s3Cfg *config.S3Config,
	extCfg *config.ExtractionConfig,
	logger *zap.Logger,
	now func() time.Time,
) *invoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &invoiceService{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		parser:    parser.New(parser.Options{KnownIssuerRUT: extCfg.KnownIssuerRUT}),
		engine:    validator.NewEngine(nil, extCfg.KnownIssuerRUT).WithClock(now),
		s3Cfg:     s3Cfg,
		extCfg:    extCfg,
		logger:    logger,
		now:       now,
	}
}

func (s *invoiceService) Process(ctx context.Context, input ProcessInput, policy Policy) (*ProcessResult, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	log := s.logger.With(
		zap.String("policy", policy.Name),
		zap.Int64("project_id", input.ProjectID),
		zap.String("filename", input.Filename),
	)
	log.Info("invoiceService.Process: processing invoice", zap.Int("bytes", len(input.Data)))

	asset, err := s.store(ctx, input)
	if err != nil {
		if policy.StorageFailureFatal {
			log.Error("invoiceService.Process: storage upload failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		log.Warn("invoiceService.Process: storage upload failed, continuing without pdf_url", zap.Error(err))
		asset = domain.StoredAsset{}
	}

	extracted, err := s.extractor.Extract(ctx, input.Data)
	if err != nil {
		log.Error("invoiceService.Process: text extraction failed", zap.Error(err))
		return nil, err
	}

	fields := s.parser.Parse(extracted.Text)
	log.Debug("invoiceService.Process: fields parsed",
		zap.String("strategy", string(extracted.Strategy)), zap.Int("fields", len(fields)))

	inv, err := s.assembler(policy).Assemble(fields, input.ProjectID, asset, extracted.Text)
	if err != nil {
		return nil, fmt.Errorf("assembling invoice: %w", err)
	}

	result := &ProcessResult{
		Invoice:         inv,
		Fields:          fields,
		Extracted:       extracted,
		Asset:           asset,
		Validation:      s.engine.Validate(inv),
		IssuerConfirmed: s.parser.IssuerConfirmed(fields),
	}

	if !policy.Persist {
		return result, nil
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		log.Error("invoiceService.Process: persisting invoice failed", zap.Error(err))
		s.discard(ctx, asset)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	result.Persisted = true
	log.Info("invoiceService.Process: invoice persisted",
		zap.Int64("invoice_id", inv.ID), zap.Bool("valid", result.Validation.Valid))
	return result, nil
}

func (s *invoiceService) Confirm(ctx context.Context, input ConfirmInput) (*domain.InvoiceIncome, *validator.Report, error) {
	if input.ProjectID <= 0 {
		return nil, nil, domain.ErrInvalidProjectID
	}
	fields := domain.ParsedFields{}
	for f, v := range input.Fields {
		if !domain.ValidFields[f] {
			return nil, nil, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidFields, f)
		}
		fields.Set(f, v)
	}

	asset := domain.StoredAsset{Key: input.PDFKey, URL: input.PDFURL}
	inv, err := s.assembler(RobustPolicy(true)).Assemble(fields, input.ProjectID, asset, input.RawText)
	if err != nil {
		return nil, nil, fmt.Errorf("assembling invoice: %w", err)
	}
	inv.Status = domain.InvoiceStatusVerified
	inv.IsProcessed = true

	report := s.engine.Validate(inv)
	if err := s.repo.Create(ctx, inv); err != nil {
		s.logger.Error("invoiceService.Confirm: persisting invoice failed",
			zap.Int64("project_id", input.ProjectID), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	s.logger.Info("invoiceService.Confirm: verified invoice persisted",
		zap.Int64("invoice_id", inv.ID), zap.Int64("project_id", inv.ProjectID))
	return inv, report, nil
}

// GetByID returns the record and a time-limited download URL for its PDF.
// The URL is empty when the record has no stored object or presigning fails.
func (s *invoiceService) GetByID(ctx context.Context, id int64) (*domain.InvoiceIncome, string, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if inv.PDFKey == "" {
		return inv, "", nil
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, inv.PDFKey, s.s3Cfg.PresignExpiry)
	if err != nil {
		s.logger.Warn("invoiceService.GetByID: presign failed",
			zap.Int64("invoice_id", id), zap.Error(err))
		return inv, "", nil
	}
	return inv, url, nil
}

func (s *invoiceService) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]domain.InvoiceIncome, int, error) {
	if projectID <= 0 {
		return nil, 0, domain.ErrInvalidProjectID
	}
	return s.repo.ListByProject(ctx, projectID, offset, limit)
}

// Reparse re-runs the parser over pending, unprocessed rows. Rows without
// stored text are re-extracted from their PDF when one was stored.
func (s *invoiceService) Reparse(ctx context.Context, batchSize int) (*ReparseStats, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	stats := &ReparseStats{}
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rows, err := s.repo.ListUnprocessed(ctx, afterID, batchSize)
		if err != nil {
			return stats, fmt.Errorf("listing unprocessed invoices: %w", err)
		}
		if len(rows) == 0 {
			return stats, nil
		}
		for i := range rows {
			row := &rows[i]
			afterID = row.ID
			stats.Scanned++
			if err := s.reparseOne(ctx, row); err != nil {
				stats.Failed++
				s.logger.Warn("invoiceService.Reparse: row failed",
					zap.Int64("invoice_id", row.ID), zap.Error(err))
				continue
			}
			stats.Updated++
		}
		if len(rows) < batchSize {
			return stats, nil
		}
	}
}

func (s *invoiceService) reparseOne(ctx context.Context, row *domain.InvoiceIncome) error {
	text := row.RawText
	if strings.TrimSpace(text) == "" {
		if row.PDFKey == "" {
			return fmt.Errorf("%w: no raw text or stored pdf", domain.ErrTextExtraction)
		}
		data, err := s.storage.Download(ctx, s.s3Cfg.Bucket, row.PDFKey)
		if err != nil {
			return fmt.Errorf("downloading pdf: %w", err)
		}
		extracted, err := s.extractor.Extract(ctx, data)
		if err != nil {
			return err
		}
		text = extracted.Text
	}

	fields := s.parser.Parse(text)
	asset := domain.StoredAsset{Key: row.PDFKey, URL: row.PDFURL}
	inv, err := s.assembler(ReparsePolicy()).Assemble(fields, row.ProjectID, asset, text)
	if err != nil {
		return fmt.Errorf("assembling invoice: %w", err)
	}
	if inv.IssuerRUT == "" {
		inv.IssuerRUT = row.IssuerRUT
	}
	inv.ID = row.ID
	inv.Status = row.Status
	inv.IsProcessed = true
	return s.repo.UpdateExtraction(ctx, inv)
}

func (s *invoiceService) validateInput(input ProcessInput) error {
	if len(input.Data) == 0 {
		return domain.ErrMissingFile
	}
	if input.ProjectID <= 0 {
		return domain.ErrInvalidProjectID
	}
	if limit := s.extCfg.MaxFileSizeBytes(); limit > 0 && int64(len(input.Data)) > limit {
		return domain.ErrFileTooLarge
	}
	if !isPDF(input.ContentType, input.Data) {
		return domain.ErrNotPDF
	}
	return nil
}

// isPDF requires both the declared content type and the %PDF- signature.
// Readers tolerate leading junk, so the signature may start within the first
// kilobyte.
func isPDF(contentType string, data []byte) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt != domain.PDFContentType {
		return false
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

func (s *invoiceService) store(ctx context.Context, input ProcessInput) (domain.StoredAsset, error) {
	key := ObjectKey(s.now(), input.Filename)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Data),
		ContentType: domain.PDFContentType,
		Size:        int64(len(input.Data)),
		Metadata: map[string]string{
			"project-id":        strconv.FormatInt(input.ProjectID, 10),
			"original-filename": SanitizeFilename(input.Filename),
		},
	})
	if err != nil {
		return domain.StoredAsset{}, err
	}
	return domain.StoredAsset{Key: key, URL: s.storage.PublicURL(s.s3Cfg.Bucket, key)}, nil
}

// discard removes an object whose record could not be saved.
func (s *invoiceService) discard(ctx context.Context, asset domain.StoredAsset) {
	if asset.Key == "" {
		return
	}
	if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, asset.Key); err != nil {
		s.logger.Warn("invoiceService.discard: removing orphaned pdf failed",
			zap.String("key", asset.Key), zap.Error(err))
	}
}

func (s *invoiceService) assembler(policy Policy) *assemble.Assembler {
	limits := assemble.DefaultLimits()
	if policy.RUTLimit > 0 {
		limits.RUT = policy.RUTLimit
	}
	var fallbackRUT string
	if policy.FallbackIssuerRUT {
		fallbackRUT = s.extCfg.KnownIssuerRUT
	}
	return assemble.New(assemble.Options{
		Ceiling:               policy.Ceiling,
		Limits:                limits,
		KnownIssuerRUT:        fallbackRUT,
		DefaultIssueDateToday: s.extCfg.DefaultIssueDateToday,
		Now:                   s.now,
	})
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds the storage key invoices/invoice-<unixmillis>-<name>.
func ObjectKey(now time.Time, filename string) string {
	return fmt.Sprintf("invoices/invoice-%d-%s", now.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name and replaces characters outside
// [A-Za-z0-9._-] with underscores.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "_"), "_")
	if base == "" || strings.Trim(base, ".") == "" {
		return "invoice.pdf"
	}
	return base
}
