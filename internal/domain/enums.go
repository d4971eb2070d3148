package domain

// Field names a value recovered from invoice text.
type Field string

const (
	FieldIssuerName     Field = "issuer_name"
	FieldIssuerRUT      Field = "issuer_rut"
	FieldIssuerAddress  Field = "issuer_address"
	FieldIssuerEmail    Field = "issuer_email"
	FieldClientName     Field = "client_name"
	FieldClientRUT      Field = "client_rut"
	FieldClientAddress  Field = "client_address"
	FieldClientCity     Field = "client_city"
	FieldInvoiceNumber  Field = "invoice_number"
	FieldIssueDate      Field = "issue_date"
	FieldDescription    Field = "description"
	FieldContractNumber Field = "contract_number"
	FieldPaymentMethod  Field = "payment_method"
	FieldNetAmount      Field = "net_amount"
	FieldIVAAmount      Field = "iva_amount"
	FieldAdditionalTax  Field = "additional_tax"
	FieldTotalAmount    Field = "total_amount"
	FieldIVAPercentage  Field = "iva_percentage"
)

// AllFields lists every field in the order the export columns use.
var AllFields = []Field{
	FieldIssuerName, FieldIssuerRUT, FieldIssuerAddress, FieldIssuerEmail,
	FieldClientName, FieldClientRUT, FieldClientAddress, FieldClientCity,
	FieldInvoiceNumber, FieldIssueDate, FieldDescription, FieldContractNumber,
	FieldPaymentMethod, FieldNetAmount, FieldIVAAmount, FieldAdditionalTax,
	FieldTotalAmount, FieldIVAPercentage,
}

// ValidFields is the lookup set of AllFields.
var ValidFields = func() map[Field]bool {
	m := make(map[Field]bool, len(AllFields))
	for _, f := range AllFields {
		m[f] = true
	}
	return m
}()

// ExtractionStrategy identifies which text extraction path produced a text blob.
type ExtractionStrategy string

const (
	StrategyPrimary  ExtractionStrategy = "primary"
	StrategyFallback ExtractionStrategy = "fallback"
)

// InvoiceStatus represents the review lifecycle of a persisted invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusVerified InvoiceStatus = "verified"
	InvoiceStatusRejected InvoiceStatus = "rejected"
)

// PDFContentType is the only MIME type accepted for invoice uploads.
const PDFContentType = "application/pdf"

// DefaultIVAPercentage is the statutory Chilean VAT rate.
const DefaultIVAPercentage = 19.00
