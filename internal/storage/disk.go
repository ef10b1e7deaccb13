package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Disk stores files under a single root directory. It is safe for concurrent
// use; the filesystem is the only shared state.
type Disk struct {
	root    string
	maxSize int64
}

var _ Store = (*Disk)(nil)

// NewDisk creates the root directory if missing and returns a disk-backed
// store enforcing maxSize per saved file.
func NewDisk(root string, maxSize int64) (*Disk, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("max upload size must be positive, got %d", maxSize)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Disk{root: root, maxSize: maxSize}, nil
}

// Root returns the storage root directory.
func (d *Disk) Root() string { return d.root }

func (d *Disk) resolve(name string) (safe, path string) {
	safe = SanitizeFilename(name)
	return safe, filepath.Join(d.root, safe)
}

// Save writes r to disk in fixed-size chunks. The cumulative size check runs
// per chunk so an oversized upload is rejected without the full payload ever
// being written, and every error path removes the partial file.
func (d *Disk) Save(ctx context.Context, name string, r io.Reader) (FileInfo, error) {
	safe, dst := d.resolve(name)

	f, err := os.Create(dst)
	if err != nil {
		return FileInfo{}, fmt.Errorf("create %s: %w", safe, err)
	}

	if err := d.copyChunks(ctx, f, r); err != nil {
		f.Close()
		d.discard(dst)
		return FileInfo{}, err
	}
	if err := f.Close(); err != nil {
		d.discard(dst)
		return FileInfo{}, fmt.Errorf("close %s: %w", safe, err)
	}

	// A zero-byte result after a declared write is a write failure.
	st, err := os.Stat(dst)
	if err != nil || st.Size() == 0 {
		d.discard(dst)
		return FileInfo{}, fmt.Errorf("file %s was not written", safe)
	}

	return FileInfo{Name: safe, Size: st.Size(), Path: dst}, nil
}

// copyChunks copies r to w one chunk at a time, enforcing the cumulative
// size limit and the caller's cancellation between chunks.
func (d *Disk) copyChunks(ctx context.Context, w io.Writer, r io.Reader) error {
	buf := make([]byte, chunkSize)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("upload aborted: %w", err)
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if total > d.maxSize {
				return fmt.Errorf("%w (max %d bytes)", ErrSizeLimit, d.maxSize)
			}
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write chunk: %w", werr)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("read upload stream: %w", rerr)
		}
	}
}

// discard removes a partial artifact, best effort.
func (d *Disk) discard(path string) {
	_ = os.Remove(path)
}

func (d *Disk) Open(ctx context.Context, name string) (io.ReadCloser, FileInfo, error) {
	info, err := d.Stat(ctx, name)
	if err != nil {
		return nil, FileInfo{}, err
	}
	f, err := os.Open(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileInfo{}, ErrNotFound
		}
		return nil, FileInfo{}, fmt.Errorf("open %s: %w", info.Name, err)
	}
	return f, info, nil
}

func (d *Disk) Stat(_ context.Context, name string) (FileInfo, error) {
	safe, path := d.resolve(name)
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, ErrNotFound
		}
		return FileInfo{}, fmt.Errorf("stat %s: %w", safe, err)
	}
	if !st.Mode().IsRegular() {
		return FileInfo{}, ErrNotFound
	}
	return FileInfo{Name: safe, Size: st.Size(), Path: path}, nil
}

func (d *Disk) Delete(_ context.Context, name string) (bool, error) {
	safe, path := d.resolve(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", safe, err)
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("delete %s: %w", safe, err)
	}
	return true, nil
}

// Ping verifies the storage root still exists and is a directory.
func (d *Disk) Ping(context.Context) error {
	st, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("storage root: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", d.root)
	}
	return nil
}
