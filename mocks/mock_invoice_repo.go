package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	args := m.Called(ctx, invoice, items)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.InvoiceSummary, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceSummary), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) Update(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	args := m.Called(ctx, invoice, items)
	return args.Error(0)
}

func (m *MockInvoiceRepo) Finalize(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepo) AttachDocument(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}
