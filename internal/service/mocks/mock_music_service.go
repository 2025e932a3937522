package mocks

import (
	"context"

	"memorybook/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMusicService struct {
	mock.Mock
}

func (m *MockMusicService) Search(ctx context.Context, query string, limit int) []model.Track {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]model.Track)
}
