package mocks

import (
	"context"
	"io"

	"memorybook/internal/media"
	"memorybook/internal/model"
	"memorybook/internal/repository"
	"memorybook/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Upload(ctx context.Context, req service.UploadRequest) (*service.UploadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockMediaService) Open(ctx context.Context, dest media.Destination) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, dest)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}

func (m *MockMediaService) List(ctx context.Context, f repository.MediaFilter, limit, offset int) (*service.MediaListResult, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaListResult), args.Error(1)
}

func (m *MockMediaService) Get(ctx context.Context, id string) (*model.MediaFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaFile), args.Error(1)
}

func (m *MockMediaService) DownloadURL(ctx context.Context, mf *model.MediaFile) string {
	args := m.Called(ctx, mf)
	return args.String(0)
}

func (m *MockMediaService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
