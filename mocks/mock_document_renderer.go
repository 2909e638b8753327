package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

// MockDocumentRenderer is a mock implementation of port.DocumentRenderer.
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) Render(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) (*port.RenderedDocument, error) {
	args := m.Called(ctx, invoice, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RenderedDocument), args.Error(1)
}
