package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/domain"
	"backoffice/internal/service"
	"backoffice/internal/validator"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Process(ctx context.Context, input service.ProcessInput, policy service.Policy) (*service.ProcessResult, error) {
	args := m.Called(ctx, input, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockInvoiceService) Confirm(ctx context.Context, input service.ConfirmInput) (*domain.InvoiceIncome, *validator.Report, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.InvoiceIncome), args.Get(1).(*validator.Report), args.Error(2)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id int64) (*domain.InvoiceIncome, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.InvoiceIncome), args.String(1), args.Error(2)
}

func (m *MockInvoiceService) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]domain.InvoiceIncome, int, error) {
	args := m.Called(ctx, projectID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceIncome), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) Reparse(ctx context.Context, batchSize int) (*service.ReparseStats, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReparseStats), args.Error(1)
}
