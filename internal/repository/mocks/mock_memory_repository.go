package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMemoryRepository struct {
	mock.Mock
}

func (m *MockMemoryRepository) Owns(ctx context.Context, memoryID, userID int64) (bool, error) {
	args := m.Called(ctx, memoryID, userID)
	return args.Bool(0), args.Error(1)
}
