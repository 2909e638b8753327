package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendInvoice(ctx context.Context, invoice *domain.Invoice, documentURL string) error {
	args := m.Called(ctx, invoice, documentURL)
	return args.Error(0)
}
