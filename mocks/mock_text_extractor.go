package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"backoffice/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedText), args.Error(1)
}
