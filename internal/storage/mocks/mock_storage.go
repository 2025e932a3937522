package mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"memorybook/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage. Bytes streamed through Put are
// kept per key in Uploaded so tests can assert on the object body.
type MockStorage struct {
	mock.Mock

	mu       sync.Mutex
	Uploaded map[string][]byte
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if args.Error(1) == nil && r != nil {
		b, err := io.ReadAll(r)
		if err != nil {
			return storage.ObjectInfo{}, err
		}
		m.mu.Lock()
		if m.Uploaded == nil {
			m.Uploaded = make(map[string][]byte)
		}
		m.Uploaded[key] = b
		m.mu.Unlock()
	}
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

// Body returns what Put received for key.
func (m *MockStorage) Body(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Uploaded[key]
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
