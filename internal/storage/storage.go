// Package storage persists uploaded media on a directory keyed by sanitized
// filename. The disk backend is the primary implementation; an S3-compatible
// backend adapts the same contract onto an object store.
package storage

import (
	"context"
	"errors"
	"io"
)

// chunkSize is the granularity of streaming writes. Uploads can be up to the
// configured maximum (2 GiB by default) and must never be buffered whole.
const chunkSize = 1 << 20

var (
	// ErrNotFound is returned when the named file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrSizeLimit is returned when a stream crosses the configured maximum
	// size. The partial artifact has already been cleaned up by then.
	ErrSizeLimit = errors.New("file exceeds maximum upload size")
)

// FileInfo describes a stored file.
type FileInfo struct {
	Name string // sanitized filename key
	Size int64
	Path string // local filesystem path; empty for object-store backends
}

// Store is the persistence contract shared by the disk and object-store
// backends. Every method sanitizes the supplied name before touching the
// backend, so an external caller can never escape the storage root.
//
// No per-name locking is performed: two concurrent saves of the same name
// race and the last writer wins, consistent with the silent-overwrite
// semantics of Save.
type Store interface {
	// Save streams r to the backend under the sanitized name, enforcing the
	// size limit per chunk and honoring ctx cancellation between chunks.
	// Any failure removes the partial artifact before the error is returned.
	// An existing file of the same name is silently overwritten.
	Save(ctx context.Context, name string, r io.Reader) (FileInfo, error)

	// Open returns the file content for streaming along with its info.
	Open(ctx context.Context, name string) (io.ReadCloser, FileInfo, error)

	// Stat reports existence without opening content. Missing or non-regular
	// entries yield ErrNotFound.
	Stat(ctx context.Context, name string) (FileInfo, error)

	// Delete removes the entry. The bool reports whether it existed; a
	// missing name is not an error.
	Delete(ctx context.Context, name string) (bool, error)

	// Ping verifies the backend is reachable, for health probes.
	Ping(ctx context.Context) error
}
