package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
)

// MockSequenceRepo is a mock implementation of port.SequenceRepository.
type MockSequenceRepo struct {
	mock.Mock
}

func (m *MockSequenceRepo) Next(ctx context.Context, sequenceType domain.SequenceType, ownerID string) (int64, error) {
	args := m.Called(ctx, sequenceType, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
