package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"wsync/internal/model"
	"wsync/internal/storage"
	"wsync/internal/vtt"
)

var (
	ErrNotFound  = errors.New("file not found")
	ErrReaderNil = errors.New("reader is nil")
)

// AudioUpload is the result of a successful audio upload.
type AudioUpload struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// SubtitleUpload is the result of a successful subtitle upload, including
// the cues parsed from the stored file.
type SubtitleUpload struct {
	Filename string              `json:"filename"`
	Cues     []model.SubtitleCue `json:"cues"`
}

// ImageUpload is the result of a successful image upload.
type ImageUpload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// MediaService defines the use cases for handling media files.
type MediaService interface {
	// UploadAudio validates and stores a WAV file.
	UploadAudio(ctx context.Context, r io.Reader, filename, contentType string) (*AudioUpload, error)

	// UploadSubtitle validates, stores and parses a WebVTT file. A file that
	// fails to parse, or parses to zero cues, is deleted again before the
	// error is returned.
	UploadSubtitle(ctx context.Context, r io.Reader, filename, contentType string) (*SubtitleUpload, error)

	// UploadImage validates and stores an image, returning the URL it will
	// be served from.
	UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (*ImageUpload, error)

	// FetchAudio opens a stored audio file for streaming.
	FetchAudio(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error)

	// FetchImage opens a stored image for streaming.
	FetchImage(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error)

	// SubtitleCues parses a stored subtitle file into cues.
	SubtitleCues(ctx context.Context, name string) ([]model.SubtitleCue, error)

	// Delete removes a stored file of any kind. A missing name yields
	// ErrNotFound.
	Delete(ctx context.Context, name string) error
}

// mediaService is the concrete implementation of MediaService.
type mediaService struct {
	store storage.Store
}

// NewMediaService constructs a MediaService over the given store.
func NewMediaService(store storage.Store) MediaService {
	return &mediaService{store: store}
}

func (s *mediaService) UploadAudio(ctx context.Context, r io.Reader, filename, contentType string) (*AudioUpload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := ValidateAudio(filename, contentType); err != nil {
		return nil, err
	}
	info, err := s.store.Save(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}
	return &AudioUpload{Filename: info.Name, Size: info.Size}, nil
}

func (s *mediaService) UploadSubtitle(ctx context.Context, r io.Reader, filename, contentType string) (*SubtitleUpload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := ValidateSubtitle(filename, contentType); err != nil {
		return nil, err
	}
	info, err := s.store.Save(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("save subtitle: %w", err)
	}

	cues, err := s.parseStored(ctx, info.Name)
	if err != nil {
		// An unparseable subtitle must not stay stored.
		return nil, s.cleanupAfter(ctx, info.Name, err)
	}
	if len(cues) == 0 {
		err := &ValidationError{Reason: "subtitle file contains no cues; upload a valid VTT file"}
		return nil, s.cleanupAfter(ctx, info.Name, err)
	}

	return &SubtitleUpload{Filename: info.Name, Cues: cues}, nil
}

func (s *mediaService) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (*ImageUpload, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := ValidateImage(filename, contentType); err != nil {
		return nil, err
	}
	info, err := s.store.Save(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	return &ImageUpload{
		Filename: info.Name,
		URL:      "/api/files/image/" + info.Name,
	}, nil
}

func (s *mediaService) FetchAudio(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	return s.open(ctx, name)
}

func (s *mediaService) FetchImage(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	return s.open(ctx, name)
}

func (s *mediaService) SubtitleCues(ctx context.Context, name string) ([]model.SubtitleCue, error) {
	return s.parseStored(ctx, name)
}

func (s *mediaService) Delete(ctx context.Context, name string) error {
	deleted, err := s.store.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *mediaService) open(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	rc, info, err := s.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.FileInfo{}, ErrNotFound
		}
		return nil, storage.FileInfo{}, fmt.Errorf("open file: %w", err)
	}
	return rc, info, nil
}

// parseStored parses the stored subtitle file into cues. Parse errors pass
// through as *vtt.ParseError so the HTTP layer can classify them.
func (s *mediaService) parseStored(ctx context.Context, name string) ([]model.SubtitleCue, error) {
	rc, _, err := s.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open subtitle: %w", err)
	}
	defer rc.Close()
	return vtt.Parse(rc)
}

// cleanupAfter deletes the just-stored file and returns cause, noting a
// failed cleanup in the error chain.
func (s *mediaService) cleanupAfter(ctx context.Context, name string, cause error) error {
	if _, delErr := s.store.Delete(ctx, name); delErr != nil {
		return fmt.Errorf("%w (cleanup of %s also failed: %v)", cause, name, delErr)
	}
	return cause
}
