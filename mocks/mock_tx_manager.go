package mocks

import "context"

// MockTxManager is a pass-through implementation of port.TxManager for
// tests: each scope simply runs its function on the given context.
type MockTxManager struct{}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *MockTxManager) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
