package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, input service.CreateInvoiceInput) (*domain.Invoice, []domain.InvoiceItem, error) {
	args := m.Called(ctx, input)
	var invoice *domain.Invoice
	var items []domain.InvoiceItem
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InvoiceItem)
	}
	return invoice, items, args.Error(2)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, []domain.InvoiceItem, error) {
	args := m.Called(ctx, id)
	var invoice *domain.Invoice
	var items []domain.InvoiceItem
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InvoiceItem)
	}
	return invoice, items, args.Error(2)
}

func (m *MockInvoiceService) List(ctx context.Context, userID string, offset, limit int) ([]domain.InvoiceSummary, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceSummary), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) Update(ctx context.Context, id uuid.UUID, input service.UpdateInvoiceInput) (*domain.Invoice, []domain.InvoiceItem, error) {
	args := m.Called(ctx, id, input)
	var invoice *domain.Invoice
	var items []domain.InvoiceItem
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InvoiceItem)
	}
	return invoice, items, args.Error(2)
}

func (m *MockInvoiceService) Finalize(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ResolveSeller(ctx context.Context, invoiceType domain.InvoiceType, userID string, seller *service.SellerDetails) (*service.SellerDetails, error) {
	args := m.Called(ctx, invoiceType, userID, seller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SellerDetails), args.Error(1)
}

func (m *MockInvoiceService) RenderAndAttach(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) (string, error) {
	args := m.Called(ctx, invoice, items)
	return args.String(0), args.Error(1)
}
