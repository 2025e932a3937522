package mocks

import (
	"context"

	"memorybook/internal/model"
	"memorybook/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Create(ctx context.Context, mf *model.MediaFile) (*model.MediaFile, error) {
	args := m.Called(ctx, mf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaFile), args.Error(1)
}

func (m *MockMediaRepository) FindByID(ctx context.Context, id string) (*model.MediaFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaFile), args.Error(1)
}

func (m *MockMediaRepository) List(ctx context.Context, f repository.MediaFilter, pq repository.PageQuery) (*repository.PageResult[model.MediaFile], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.MediaFile]), args.Error(1)
}

func (m *MockMediaRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
