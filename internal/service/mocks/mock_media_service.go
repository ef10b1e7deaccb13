package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"wsync/internal/model"
	"wsync/internal/service"
	"wsync/internal/storage"
)

// MockMediaService is a testify mock of service.MediaService.
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) UploadAudio(ctx context.Context, r io.Reader, filename, contentType string) (*service.AudioUpload, error) {
	args := m.Called(ctx, r, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AudioUpload), args.Error(1)
}

func (m *MockMediaService) UploadSubtitle(ctx context.Context, r io.Reader, filename, contentType string) (*service.SubtitleUpload, error) {
	args := m.Called(ctx, r, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubtitleUpload), args.Error(1)
}

func (m *MockMediaService) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (*service.ImageUpload, error) {
	args := m.Called(ctx, r, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImageUpload), args.Error(1)
}

func (m *MockMediaService) FetchAudio(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.FileInfo), args.Error(2)
}

func (m *MockMediaService) FetchImage(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.FileInfo), args.Error(2)
}

func (m *MockMediaService) SubtitleCues(ctx context.Context, name string) ([]model.SubtitleCue, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubtitleCue), args.Error(1)
}

func (m *MockMediaService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
