package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/middleware"
)

// APIResponse is the envelope for read endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg, details string) {
	c.JSON(status, ErrorResponse{Error: msg, Code: code, Details: details})
}

// MapDomainError translates domain errors to HTTP status codes, error codes
// and user-facing messages.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, "MISSING_FILE", "No se proporcionó ningún archivo"
	case errors.Is(err, domain.ErrMissingProjectID):
		return http.StatusBadRequest, "MISSING_PROJECT_ID", "Se requiere el ID del proyecto"
	case errors.Is(err, domain.ErrInvalidProjectID):
		return http.StatusBadRequest, "INVALID_PROJECT_ID", "El ID del proyecto no es válido"
	case errors.Is(err, domain.ErrNotPDF):
		return http.StatusBadRequest, "NOT_PDF", "El archivo debe ser un PDF"
	case errors.Is(err, domain.ErrInvalidFields):
		return http.StatusBadRequest, "INVALID_FIELDS", "Los datos de la factura no son válidos"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "El archivo excede el tamaño máximo permitido"
	case errors.Is(err, domain.ErrInvoiceNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Factura no encontrada"
	case errors.Is(err, domain.ErrTextExtraction):
		return http.StatusInternalServerError, "TEXT_EXTRACTION_FAILED", "No se pudo extraer el texto del PDF"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "Error al subir el PDF al almacenamiento"
	case errors.Is(err, domain.ErrPersistFailed):
		return http.StatusInternalServerError, "PERSIST_FAILED", "Error al guardar la factura"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno del servidor"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server errors carry the underlying error text in details.
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	status, code, msg := MapDomainError(err)
	details := ""
	if status >= 500 {
		details = err.Error()
		logger.Error("handler: internal error",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	}
	RespondError(c, status, code, msg, details)
}
