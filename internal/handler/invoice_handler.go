package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/service"
	"backoffice/internal/validator"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	exportPageSize   = 200
)

// InvoiceHandler handles invoice intake and retrieval endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	maxFileSize    int64
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler. maxFileSize is the upload
// limit in bytes.
func NewInvoiceHandler(invoiceService service.InvoiceService, maxFileSize int64, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{
		invoiceService: invoiceService,
		maxFileSize:    maxFileSize,
		logger:         logger,
		now:            time.Now,
	}
}

// ProcessResponse is returned by the baseline intake.
type ProcessResponse struct {
	Success       bool                  `json:"success"`
	Data          *domain.InvoiceIncome `json:"data"`
	ExtractedData domain.ParsedFields   `json:"extractedData"`
	Validation    *validator.Report     `json:"validation"`
}

// ExtractResponse is returned by the robust intake with action=extract.
// RawText and PDFKey are echoed back so the reviewed record can be confirmed.
type ExtractResponse struct {
	Success         bool                  `json:"success"`
	Data            *domain.InvoiceIncome `json:"data"`
	ExtractedRaw    domain.ParsedFields   `json:"extractedRaw"`
	PDFURL          string                `json:"pdfUrl"`
	PDFKey          string                `json:"pdfKey"`
	RawText         string                `json:"rawText"`
	Strategy        string                `json:"strategy"`
	IssuerConfirmed bool                  `json:"issuerConfirmed"`
	Validation      *validator.Report     `json:"validation"`
}

// PersistResponse is returned by the robust intake when the record is saved.
type PersistResponse struct {
	Success       bool                  `json:"success"`
	Invoice       *domain.InvoiceIncome `json:"invoice"`
	ExtractedData domain.ParsedFields   `json:"extractedData"`
	Validation    *validator.Report     `json:"validation"`
}

// ConfirmRequest is the body of POST /api/invoices/confirm.
type ConfirmRequest struct {
	ProjectID int64             `json:"projectId" binding:"required"`
	Fields    map[string]string `json:"fields"`
	PDFURL    string            `json:"pdfUrl"`
	PDFKey    string            `json:"pdfKey"`
	RawText   string            `json:"rawText"`
}

// Process handles POST /api/invoices/process
// @Summary Process an invoice PDF
// @Description Extract, parse and persist an invoice. Storage failures are tolerated.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice PDF"
// @Param projectId formData int true "Project ID"
// @Success 200 {object} ProcessResponse
// @Failure 400 {object} ErrorResponse "Missing file or project, or not a PDF"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Extraction or persistence failed"
// @Router /invoices/process [post]
func (h *InvoiceHandler) Process(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.Process(c.Request.Context(), input, service.BaselinePolicy())
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{
		Success:       true,
		Data:          result.Invoice,
		ExtractedData: result.Fields,
		Validation:    result.Validation,
	})
}

// ProcessRobust handles POST /api/invoices/process-robust
// @Summary Process an invoice PDF for verification
// @Description With action=extract the parsed record is returned without saving; otherwise it is persisted. Storage failures abort the request.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice PDF"
// @Param projectId formData int true "Project ID"
// @Param action formData string false "extract to skip persistence"
// @Success 200 {object} ExtractResponse "action=extract"
// @Success 200 {object} PersistResponse "persisted"
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/process-robust [post]
func (h *InvoiceHandler) ProcessRobust(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	extractOnly := strings.EqualFold(strings.TrimSpace(c.PostForm("action")), "extract")
	result, err := h.invoiceService.Process(c.Request.Context(), input, service.RobustPolicy(!extractOnly))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	if extractOnly {
		strategy := ""
		if result.Extracted != nil {
			strategy = string(result.Extracted.Strategy)
		}
		c.JSON(http.StatusOK, ExtractResponse{
			Success:         true,
			Data:            result.Invoice,
			ExtractedRaw:    result.Fields,
			PDFURL:          result.Asset.URL,
			PDFKey:          result.Asset.Key,
			RawText:         result.Invoice.RawText,
			Strategy:        strategy,
			IssuerConfirmed: result.IssuerConfirmed,
			Validation:      result.Validation,
		})
		return
	}

	c.JSON(http.StatusOK, PersistResponse{
		Success:       true,
		Invoice:       result.Invoice,
		ExtractedData: result.Fields,
		Validation:    result.Validation,
	})
}

// Confirm handles POST /api/invoices/confirm
// @Summary Save a reviewed invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body ConfirmRequest true "Reviewed fields"
// @Success 200 {object} PersistResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/confirm [post]
func (h *InvoiceHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Solicitud inválida", err.Error())
		return
	}

	fields := make(domain.ParsedFields, len(req.Fields))
	for k, v := range req.Fields {
		fields[domain.Field(k)] = v
	}

	inv, report, err := h.invoiceService.Confirm(c.Request.Context(), service.ConfirmInput{
		ProjectID: req.ProjectID,
		Fields:    fields,
		PDFURL:    req.PDFURL,
		PDFKey:    req.PDFKey,
		RawText:   req.RawText,
	})
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, PersistResponse{
		Success:       true,
		Invoice:       inv,
		ExtractedData: fields,
		Validation:    report,
	})
}

// List handles GET /api/invoices
// @Summary List invoices of a project
// @Tags invoices
// @Produce json
// @Param projectId query int true "Project ID"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.InvoiceIncome,meta=PagMeta}
// @Failure 400 {object} ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	projectID, err := parseProjectID(c.Query("projectId"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	offset, limit := parsePagination(c.Query("offset"), c.Query("limit"))

	invoices, total, err := h.invoiceService.ListByProject(c.Request.Context(), projectID, offset, limit)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	if invoices == nil {
		invoices = []domain.InvoiceIncome{}
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/invoices/:id
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "El ID de la factura no es válido", "")
		return
	}

	inv, downloadURL, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, gin.H{
		"invoice":      inv,
		"download_url": downloadURL,
	})
}

// Export handles GET /api/invoices/export
// @Summary Export the invoices of a project
// @Tags invoices
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param projectId query int true "Project ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	projectID, err := parseProjectID(c.Query("projectId"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "Formato no soportado; use csv o xlsx", "")
		return
	}

	invoices, err := h.collectProject(c, projectID)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	h.writeExport(c, projectID, format, invoices)
}

func (h *InvoiceHandler) collectProject(c *gin.Context, projectID int64) ([]domain.InvoiceIncome, error) {
	var all []domain.InvoiceIncome
	for offset := 0; ; offset += exportPageSize {
		page, total, err := h.invoiceService.ListByProject(c.Request.Context(), projectID, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize || len(all) >= total {
			return all, nil
		}
	}
}

// readUpload reads the multipart form of an intake request. On failure the
// error response has already been written.
func (h *InvoiceHandler) readUpload(c *gin.Context) (service.ProcessInput, bool) {
	if h.maxFileSize > 0 {
		// Leave room for the multipart envelope and the other form fields.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+1<<20)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, h.logger, domain.ErrFileTooLarge)
			return service.ProcessInput{}, false
		}
		HandleError(c, h.logger, domain.ErrMissingFile)
		return service.ProcessInput{}, false
	}
	defer func() { _ = file.Close() }()

	rawProjectID := strings.TrimSpace(c.PostForm("projectId"))
	if rawProjectID == "" {
		HandleError(c, h.logger, domain.ErrMissingProjectID)
		return service.ProcessInput{}, false
	}
	projectID, err := parseProjectID(rawProjectID)
	if err != nil {
		HandleError(c, h.logger, err)
		return service.ProcessInput{}, false
	}

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		HandleError(c, h.logger, domain.ErrFileTooLarge)
		return service.ProcessInput{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, h.logger, fmt.Errorf("reading upload: %w", err))
		return service.ProcessInput{}, false
	}

	return service.ProcessInput{
		ProjectID:   projectID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

func parseProjectID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrMissingProjectID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidProjectID
	}
	return id, nil
}

func parsePagination(rawOffset, rawLimit string) (offset, limit int) {
	offset, _ = strconv.Atoi(rawOffset)
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(rawLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit
}
