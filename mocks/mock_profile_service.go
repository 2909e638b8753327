package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/service"
)

// MockProfileService is a mock implementation of service.ProfileService.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Upsert(ctx context.Context, userID string, input service.UpsertProfileInput) (*domain.BusinessProfile, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessProfile), args.Error(1)
}

func (m *MockProfileService) GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessProfile), args.Error(1)
}
