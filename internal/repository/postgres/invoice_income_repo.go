package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"backoffice/internal/domain"
	"backoffice/internal/port"
)

// issue_date is read back as text so it stays in YYYY-MM-DD form.
const invoiceColumns = `id, project_id, issuer_name, issuer_rut, issuer_address, issuer_email,
	client_name, client_rut, client_address, client_city, invoice_number,
	issue_date::text AS issue_date, description, contract_number, payment_method,
	net_amount, iva_amount, additional_tax, total_amount, iva_percentage,
	pdf_url, pdf_key, raw_text, parsed_data, status, is_processed, created_at, updated_at`

type invoiceIncomeRepo struct {
	db *sqlx.DB
}

// NewInvoiceIncomeRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceIncomeRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceIncomeRepo{db: db}
}

func (r *invoiceIncomeRepo) Create(ctx context.Context, inv *domain.InvoiceIncome) error {
	query := `INSERT INTO invoice_income
		(project_id, issuer_name, issuer_rut, issuer_address, issuer_email,
		 client_name, client_rut, client_address, client_city, invoice_number,
		 issue_date, description, contract_number, payment_method,
		 net_amount, iva_amount, additional_tax, total_amount, iva_percentage,
		 pdf_url, pdf_key, raw_text, parsed_data, status, is_processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::date, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		inv.ProjectID, inv.IssuerName, inv.IssuerRUT, inv.IssuerAddress, inv.IssuerEmail,
		inv.ClientName, inv.ClientRUT, inv.ClientAddress, inv.ClientCity, inv.InvoiceNumber,
		inv.IssueDate, inv.Description, inv.ContractNumber, inv.PaymentMethod,
		inv.NetAmount, inv.IVAAmount, inv.AdditionalTax, inv.TotalAmount, inv.IVAPercentage,
		inv.PDFURL, inv.PDFKey, inv.RawText, jsonOrEmpty(inv.ParsedData), inv.Status, inv.IsProcessed,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceIncomeRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceIncomeRepo) GetByID(ctx context.Context, id int64) (*domain.InvoiceIncome, error) {
	var inv domain.InvoiceIncome
	err := r.db.GetContext(ctx, &inv,
		"SELECT "+invoiceColumns+" FROM invoice_income WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceIncomeRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceIncomeRepo) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]domain.InvoiceIncome, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoice_income WHERE project_id = $1", projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceIncomeRepo.ListByProject count: %w", err)
	}

	var invoices []domain.InvoiceIncome
	err = r.db.SelectContext(ctx, &invoices,
		`SELECT `+invoiceColumns+` FROM invoice_income
		 WHERE project_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceIncomeRepo.ListByProject: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceIncomeRepo) ListUnprocessed(ctx context.Context, afterID int64, limit int) ([]domain.InvoiceIncome, error) {
	var invoices []domain.InvoiceIncome
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT `+invoiceColumns+` FROM invoice_income
		 WHERE is_processed = FALSE AND status = $1 AND id > $2
		 ORDER BY id ASC LIMIT $3`,
		domain.InvoiceStatusPending, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("invoiceIncomeRepo.ListUnprocessed: %w", err)
	}
	return invoices, nil
}

// UpdateExtraction overwrites the parsed columns of a row. Status and
// project are left untouched.
func (r *invoiceIncomeRepo) UpdateExtraction(ctx context.Context, inv *domain.InvoiceIncome) error {
	query := `UPDATE invoice_income SET
		issuer_name = $1, issuer_rut = $2, issuer_address = $3, issuer_email = $4,
		client_name = $5, client_rut = $6, client_address = $7, client_city = $8,
		invoice_number = $9, issue_date = $10::date, description = $11,
		contract_number = $12, payment_method = $13,
		net_amount = $14, iva_amount = $15, additional_tax = $16, total_amount = $17,
		iva_percentage = $18, raw_text = $19, parsed_data = $20, is_processed = $21,
		updated_at = NOW()
		WHERE id = $22
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		inv.IssuerName, inv.IssuerRUT, inv.IssuerAddress, inv.IssuerEmail,
		inv.ClientName, inv.ClientRUT, inv.ClientAddress, inv.ClientCity,
		inv.InvoiceNumber, inv.IssueDate, inv.Description,
		inv.ContractNumber, inv.PaymentMethod,
		inv.NetAmount, inv.IVAAmount, inv.AdditionalTax, inv.TotalAmount,
		inv.IVAPercentage, inv.RawText, jsonOrEmpty(inv.ParsedData), inv.IsProcessed,
		inv.ID,
	).Scan(&inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvoiceNotFound
		}
		return fmt.Errorf("invoiceIncomeRepo.UpdateExtraction: %w", err)
	}
	return nil
}

func jsonOrEmpty(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}
