package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
)

// MockBusinessProfileRepo is a mock implementation of port.BusinessProfileRepository.
type MockBusinessProfileRepo struct {
	mock.Mock
}

func (m *MockBusinessProfileRepo) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockBusinessProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessProfile), args.Error(1)
}
