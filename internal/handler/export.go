package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/csvexport"
	"backoffice/internal/domain"
	"backoffice/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeExport streams invoices as a CSV or XLSX attachment. Headers are
// committed before the body, so write errors can only be logged.
func (h *InvoiceHandler) writeExport(c *gin.Context, projectID int64, format string, invoices []domain.InvoiceIncome) {
	filename := csvexport.BuildFilename(projectID, h.now(), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	var err error
	switch format {
	case "xlsx":
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		err = xlsxexport.Write(c.Writer, invoices)
	default:
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		err = writeCSV(c, invoices)
	}
	if err != nil {
		h.logger.Error("invoiceHandler.Export: writing export failed",
			zap.Int64("project_id", projectID), zap.String("format", format), zap.Error(err))
	}
}

func writeCSV(c *gin.Context, invoices []domain.InvoiceIncome) error {
	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return err
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
