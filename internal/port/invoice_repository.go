package port

import (
	"context"

	"backoffice/internal/domain"
)

// InvoiceRepository defines the contract for invoice_income persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.InvoiceIncome) error
	GetByID(ctx context.Context, id int64) (*domain.InvoiceIncome, error)
	ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]domain.InvoiceIncome, int, error)
	// ListUnprocessed returns rows with is_processed = false and id > afterID,
	// ordered by id, for batch re-parsing.
	ListUnprocessed(ctx context.Context, afterID int64, limit int) ([]domain.InvoiceIncome, error)
	UpdateExtraction(ctx context.Context, inv *domain.InvoiceIncome) error
}
