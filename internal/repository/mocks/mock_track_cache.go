package mocks

import (
	"context"
	"time"

	"memorybook/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTrackCache struct {
	mock.Mock
}

func (m *MockTrackCache) Get(ctx context.Context, key string) ([]model.Track, bool, error) {
	args := m.Called(ctx, key)
	var tracks []model.Track
	if v := args.Get(0); v != nil {
		tracks = v.([]model.Track)
	}
	return tracks, args.Bool(1), args.Error(2)
}

func (m *MockTrackCache) Set(ctx context.Context, key string, tracks []model.Track, ttl time.Duration) error {
	args := m.Called(ctx, key, tracks, ttl)
	return args.Error(0)
}
