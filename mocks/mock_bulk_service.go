package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/service"
)

// MockBulkService is a mock implementation of service.BulkService.
type MockBulkService struct {
	mock.Mock
}

func (m *MockBulkService) Ingest(ctx context.Context, upload io.Reader, opts service.BulkOptions) (*service.BatchResult, error) {
	args := m.Called(ctx, upload, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}
