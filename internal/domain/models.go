package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// PDFPayload is an uploaded PDF held in memory for a single extraction request.
type PDFPayload struct {
	Filename string
	Data     []byte
}

// ExtractedText is the linearized text of a PDF and the strategy that produced it.
type ExtractedText struct {
	Text     string             `json:"text"`
	Strategy ExtractionStrategy `json:"strategy"`
	Pages    int                `json:"pages"`
}

// ParsedFields maps each recovered field to its raw captured value.
// A missing key means the field was not found.
type ParsedFields map[Field]string

// Get returns the trimmed value of f and whether it is present.
func (p ParsedFields) Get(f Field) (string, bool) {
	v, ok := p[f]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Set stores v under f unless v is blank after trimming.
func (p ParsedFields) Set(f Field, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	p[f] = v
}

// StoredAsset references the original PDF in object storage.
type StoredAsset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// InvoiceIncome is a normalized invoice record as stored in invoice_income.
type InvoiceIncome struct {
	ID             int64           `db:"id" json:"id"`
	ProjectID      int64           `db:"project_id" json:"project_id"`
	IssuerName     string          `db:"issuer_name" json:"issuer_name"`
	IssuerRUT      string          `db:"issuer_rut" json:"issuer_rut"`
	IssuerAddress  string          `db:"issuer_address" json:"issuer_address"`
	IssuerEmail    string          `db:"issuer_email" json:"issuer_email"`
	ClientName     string          `db:"client_name" json:"client_name"`
	ClientRUT      string          `db:"client_rut" json:"client_rut"`
	ClientAddress  string          `db:"client_address" json:"client_address"`
	ClientCity     string          `db:"client_city" json:"client_city"`
	InvoiceNumber  string          `db:"invoice_number" json:"invoice_number"`
	IssueDate      *string         `db:"issue_date" json:"issue_date"`
	Description    string          `db:"description" json:"description"`
	ContractNumber string          `db:"contract_number" json:"contract_number"`
	PaymentMethod  string          `db:"payment_method" json:"payment_method"`
	NetAmount      float64         `db:"net_amount" json:"net_amount"`
	IVAAmount      float64         `db:"iva_amount" json:"iva_amount"`
	AdditionalTax  float64         `db:"additional_tax" json:"additional_tax"`
	TotalAmount    float64         `db:"total_amount" json:"total_amount"`
	IVAPercentage  float64         `db:"iva_percentage" json:"iva_percentage"`
	PDFURL         string          `db:"pdf_url" json:"pdf_url"`
	PDFKey         string          `db:"pdf_key" json:"pdf_key"`
	RawText        string          `db:"raw_text" json:"raw_text"`
	ParsedData     json.RawMessage `db:"parsed_data" json:"parsed_data"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	IsProcessed    bool            `db:"is_processed" json:"is_processed"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}
