package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.InvoiceIncome) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.InvoiceIncome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceIncome), args.Error(1)
}

func (m *MockInvoiceRepo) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]domain.InvoiceIncome, int, error) {
	args := m.Called(ctx, projectID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceIncome), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) ListUnprocessed(ctx context.Context, afterID int64, limit int) ([]domain.InvoiceIncome, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceIncome), args.Error(1)
}

func (m *MockInvoiceRepo) UpdateExtraction(ctx context.Context, inv *domain.InvoiceIncome) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
