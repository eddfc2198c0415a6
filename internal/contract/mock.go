package contract

import (
	"context"

	"github.com/huangsam/hoursight/schema"
	"github.com/stretchr/testify/mock"
)

// MockRowSource is a mock implementation of RowSource for testing.
type MockRowSource struct {
	mock.Mock
}

var _ RowSource = &MockRowSource{} // Compile-time check

// Fetch implements the RowSource interface.
func (m *MockRowSource) Fetch(ctx context.Context, r schema.MonthRange) ([]schema.RawRow, error) {
	args := m.Called(ctx, r)
	rows, _ := args.Get(0).([]schema.RawRow)
	return rows, args.Error(1)
}

// Count implements the RowSource interface.
func (m *MockRowSource) Count(ctx context.Context, r schema.MonthRange) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

// Limit implements the RowSource interface.
func (m *MockRowSource) Limit() int {
	args := m.Called()
	return args.Int(0)
}
