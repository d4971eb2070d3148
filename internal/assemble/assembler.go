// Package assemble merges parsed invoice fields with defaults into a
// persistence-ready invoice_income record.
package assemble

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
	"backoffice/internal/normalize"
)

// Limits holds the maximum rune length of each stored text column.
type Limits struct {
	Name           int
	Address        int
	RUT            int
	Email          int
	City           int
	InvoiceNumber  int
	Description    int
	ContractNumber int
	PaymentMethod  int
	RawText        int
}

// DefaultLimits returns the column limits of the invoice_income table.
func DefaultLimits() Limits {
	return Limits{
		Name:           200,
		Address:        200,
		RUT:            20,
		Email:          100,
		City:           100,
		InvoiceNumber:  50,
		Description:    500,
		ContractNumber: 100,
		PaymentMethod:  100,
		RawText:        5000,
	}
}

// Options configures an Assembler.
type Options struct {
	Ceiling        decimal.Decimal
	Limits         Limits
	KnownIssuerRUT string
	// DefaultIssueDateToday stamps records whose issue date could not be
	// parsed with the current date. Off by default: an unresolved date is
	// left empty for the verification step.
	DefaultIssueDateToday bool
	Now                   func() time.Time
}

// Assembler builds invoice records. It holds no per-call state.
type Assembler struct {
	opts Options
}

// New creates an Assembler, filling unset options with defaults.
func New(opts Options) *Assembler {
	if opts.Ceiling.IsZero() {
		opts.Ceiling = normalize.BaselineCeiling
	}
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Assembler{opts: opts}
}

// Assemble normalizes fields into a pending, unprocessed record for projectID.
// Text is truncated to the column limits, never rejected.
func (a *Assembler) Assemble(fields domain.ParsedFields, projectID int64, asset domain.StoredAsset, rawText string) (*domain.InvoiceIncome, error) {
	if fields == nil {
		fields = domain.ParsedFields{}
	}
	parsed, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling parsed fields: %w", err)
	}

	l := a.opts.Limits
	text := func(f domain.Field, limit int) string {
		v, _ := fields.Get(f)
		return Truncate(v, limit)
	}

	inv := &domain.InvoiceIncome{
		ProjectID:      projectID,
		IssuerName:     text(domain.FieldIssuerName, l.Name),
		IssuerRUT:      text(domain.FieldIssuerRUT, l.RUT),
		IssuerAddress:  text(domain.FieldIssuerAddress, l.Address),
		IssuerEmail:    text(domain.FieldIssuerEmail, l.Email),
		ClientName:     text(domain.FieldClientName, l.Name),
		ClientRUT:      text(domain.FieldClientRUT, l.RUT),
		ClientAddress:  text(domain.FieldClientAddress, l.Address),
		ClientCity:     text(domain.FieldClientCity, l.City),
		InvoiceNumber:  text(domain.FieldInvoiceNumber, l.InvoiceNumber),
		Description:    text(domain.FieldDescription, l.Description),
		ContractNumber: text(domain.FieldContractNumber, l.ContractNumber),
		PaymentMethod:  text(domain.FieldPaymentMethod, l.PaymentMethod),
		NetAmount:      a.amount(fields, domain.FieldNetAmount),
		IVAAmount:      a.amount(fields, domain.FieldIVAAmount),
		AdditionalTax:  a.amount(fields, domain.FieldAdditionalTax),
		TotalAmount:    a.amount(fields, domain.FieldTotalAmount),
		IVAPercentage:  domain.DefaultIVAPercentage,
		PDFURL:         asset.URL,
		PDFKey:         asset.Key,
		RawText:        Truncate(rawText, l.RawText),
		ParsedData:     parsed,
		Status:         domain.InvoiceStatusPending,
		IsProcessed:    false,
	}

	if inv.IssuerRUT == "" && a.opts.KnownIssuerRUT != "" {
		inv.IssuerRUT = Truncate(a.opts.KnownIssuerRUT, l.RUT)
	}
	if raw, ok := fields.Get(domain.FieldIVAPercentage); ok {
		if pct, ok := normalize.Percentage(raw); ok {
			inv.IVAPercentage = pct
		}
	}
	if raw, ok := fields.Get(domain.FieldIssueDate); ok {
		if iso, ok := normalize.Date(raw); ok {
			inv.IssueDate = &iso
		}
	}
	if inv.IssueDate == nil && a.opts.DefaultIssueDateToday {
		today := a.opts.Now().Format(time.DateOnly)
		inv.IssueDate = &today
	}

	return inv, nil
}

func (a *Assembler) amount(fields domain.ParsedFields, f domain.Field) float64 {
	raw, ok := fields.Get(f)
	if !ok {
		return 0
	}
	return normalize.Amount(raw, a.opts.Ceiling)
}

// Truncate cuts s to at most limit runes. A non-positive limit leaves s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
