package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the export header row (22 columns).
var Columns = []string{
	"ID",
	"Proyecto",
	"Estado",
	"Procesada",
	"Folio",
	"Fecha Emisión",
	"Emisor",
	"RUT Emisor",
	"Dirección Emisor",
	"Email Emisor",
	"Cliente",
	"RUT Cliente",
	"Dirección Cliente",
	"Ciudad Cliente",
	"Descripción",
	"N° Contrato",
	"Forma de Pago",
	"Monto Neto",
	"IVA",
	"Impuesto Adicional",
	"Total",
	"Creada",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.InvoiceIncome) error {
	for i := range invoices {
		if err := w.csv.Write(InvoiceRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// InvoiceRow converts a single invoice to a row matching Columns.
func InvoiceRow(inv *domain.InvoiceIncome) []string {
	issueDate := ""
	if inv.IssueDate != nil {
		issueDate = *inv.IssueDate
	}
	return []string{
		strconv.FormatInt(inv.ID, 10),
		strconv.FormatInt(inv.ProjectID, 10),
		string(inv.Status),
		formatBool(inv.IsProcessed),
		inv.InvoiceNumber,
		issueDate,
		inv.IssuerName,
		inv.IssuerRUT,
		inv.IssuerAddress,
		inv.IssuerEmail,
		inv.ClientName,
		inv.ClientRUT,
		inv.ClientAddress,
		inv.ClientCity,
		inv.Description,
		inv.ContractNumber,
		inv.PaymentMethod,
		FormatMoney(inv.NetAmount),
		FormatMoney(inv.IVAAmount),
		FormatMoney(inv.AdditionalTax),
		FormatMoney(inv.TotalAmount),
		formatTime(inv.CreatedAt),
	}
}

// FormatMoney renders an amount with two decimals and a period separator.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for a project export.
// Format: facturas_proyecto_{id}_{YYYY-MM-DD}.{ext}
func BuildFilename(projectID int64, now time.Time, ext string) string {
	base := SanitizeFilename(fmt.Sprintf("facturas_proyecto_%d", projectID))
	return fmt.Sprintf("%s_%s.%s", base, now.Format("2006-01-02"), ext)
}
