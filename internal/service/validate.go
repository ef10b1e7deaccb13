package service

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError reports an upload rejected on metadata alone, before any
// file bytes are read. The reason is safe to show to the client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Allowed extensions and declared MIME types per media kind. Extension is
// the primary gate; a declared content-type is checked only when present,
// because browsers do not reliably send one.
var (
	audioExtensions = map[string]bool{".wav": true}
	audioMIMETypes  = map[string]bool{
		"audio/wav":   true,
		"audio/x-wav": true,
		"audio/wave":  true,
	}

	subtitleExtensions = map[string]bool{".vtt": true}
	subtitleMIMETypes  = map[string]bool{
		"text/vtt":   true,
		"text/plain": true,
	}

	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	imageMIMETypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
)

// ValidateAudio checks upload metadata for the audio endpoint.
func ValidateAudio(filename, contentType string) error {
	return validateKind("audio", "WAV", filename, contentType, audioExtensions, audioMIMETypes)
}

// ValidateSubtitle checks upload metadata for the subtitle endpoint.
func ValidateSubtitle(filename, contentType string) error {
	return validateKind("subtitle", "VTT", filename, contentType, subtitleExtensions, subtitleMIMETypes)
}

// ValidateImage checks upload metadata for the image endpoint.
func ValidateImage(filename, contentType string) error {
	return validateKind("image", "JPG, PNG, GIF, or WebP", filename, contentType, imageExtensions, imageMIMETypes)
}

func validateKind(kind, format, filename, contentType string, exts, mimes map[string]bool) error {
	if strings.TrimSpace(filename) == "" {
		return &ValidationError{Reason: fmt.Sprintf("no %s file selected", kind)}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return &ValidationError{Reason: fmt.Sprintf("file has no extension; upload a %s file", format)}
	}
	if !exts[ext] {
		return &ValidationError{Reason: fmt.Sprintf("only %s format is supported (got %s)", format, ext)}
	}

	if ct := normalizeContentType(contentType); ct != "" && !mimes[ct] {
		return &ValidationError{Reason: fmt.Sprintf("content type %s is not a valid %s type; upload a %s file", ct, kind, format)}
	}

	return nil
}

// normalizeContentType lowercases the declared type and drops parameters
// such as "; charset=utf-8".
func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
