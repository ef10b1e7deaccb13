package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"wsync/internal/storage"
)

// MockStore is a testify mock of storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, name string, r io.Reader) (storage.FileInfo, error) {
	args := m.Called(ctx, name, r)
	return args.Get(0).(storage.FileInfo), args.Error(1)
}

func (m *MockStore) Open(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.FileInfo), args.Error(2)
}

func (m *MockStore) Stat(ctx context.Context, name string) (storage.FileInfo, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(storage.FileInfo), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
