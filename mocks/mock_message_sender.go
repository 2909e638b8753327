package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

// MockMessageSender is a mock implementation of port.MessageSender.
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendInvoice(ctx context.Context, invoice *domain.Invoice, documentURL string) (*port.MessageReceipt, error) {
	args := m.Called(ctx, invoice, documentURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.MessageReceipt), args.Error(1)
}
