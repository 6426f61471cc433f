// Package local implements the key-value backend of spec.md §4.3 over a
// directory of files: each page is a file named by its decimal id, and
// metadata lives in a sibling ".meta" file, in the shape of h5s3's
// file_kv_store (include/h5s3/private/file_driver.h) and restic's
// internal/backend/local.
package local

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/debug"
	"github.com/h5s3/h5s3/internal/errors"
)

const metaFilename = ".meta"

const defaultPageSize = 2 << 20 // 2 MiB, matching the S3 backend's default.

// Backend is a key-value backend rooted at a directory on the local
// filesystem.
type Backend struct {
	dir string

	mu   sync.Mutex
	meta backend.Metadata
}

var _ backend.Backend = (*Backend)(nil)

// FromParams opens (and, if params.Create, creates) a local directory
// backend at params.URI. If an existing metadata file is found, its page
// size is authoritative and must equal params.PageSize unless params was
// 0; if params.PageSize is 0 and no metadata exists, defaultPageSize
// applies, per spec.md §4.3.
func FromParams(_ context.Context, params backend.OpenParams) (*Backend, error) {
	dir := params.URI

	if params.Create {
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return nil, errors.Wrap(err, "creating local backend directory")
		}
	} else if fi, err := os.Stat(dir); err != nil {
		return nil, errors.Wrap(err, "opening local backend directory")
	} else if !fi.IsDir() {
		return nil, errors.ConfigError("%s is not a directory", dir)
	}

	meta, err := loadMetadata(dir, params.PageSize)
	if err != nil {
		return nil, err
	}

	return &Backend{dir: dir, meta: meta}, nil
}

func loadMetadata(dir string, requestedPageSize int) (backend.Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFilename))
	if os.IsNotExist(err) {
		pageSize := requestedPageSize
		if pageSize == 0 {
			pageSize = defaultPageSize
		}
		return backend.Metadata{PageSize: pageSize, InvalidPages: map[backend.PageID]struct{}{}}, nil
	}
	if err != nil {
		return backend.Metadata{}, errors.Wrap(err, "reading local backend metadata")
	}

	meta, err := backend.DecodeMetadata(data)
	if err != nil {
		return backend.Metadata{}, err
	}

	if requestedPageSize != 0 && requestedPageSize != meta.PageSize {
		return backend.Metadata{}, errors.ConfigError(
			"requested page size %d does not match stored page size %d", requestedPageSize, meta.PageSize)
	}

	return meta, nil
}

// PageSize returns the fixed page size for this backend instance.
func (b *Backend) PageSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meta.PageSize
}

// MaxPage returns the highest allocated page id.
func (b *Backend) MaxPage() (backend.PageID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meta.MaxPage()
}

func (b *Backend) pagePath(id backend.PageID) string {
	return filepath.Join(b.dir, strconv.FormatUint(uint64(id), 10))
}

// Read fills out with the contents of page id, or with zeros if the page
// is beyond MaxPage(), invalid, or its file is missing.
func (b *Backend) Read(_ context.Context, id backend.PageID, out []byte) error {
	b.mu.Lock()
	meta := b.meta
	b.mu.Unlock()

	if max, ok := meta.MaxPage(); !ok || id > max {
		zero(out)
		return nil
	}
	if _, invalid := meta.InvalidPages[id]; invalid {
		zero(out)
		return nil
	}

	data, err := os.ReadFile(b.pagePath(id))
	if os.IsNotExist(err) {
		zero(out)
		return nil
	}
	if err != nil {
		return errors.BackendIO("reading page %d: %v", id, err)
	}

	n := copy(out, data)
	// Any bytes beyond what the file held (should not happen since writes
	// always store exactly PageSize bytes, but kept for safety) read zero.
	zero(out[n:])

	debug.Log("backend.local", "read page %d (%d bytes)", id, len(out))
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Write stores data as page id.
func (b *Backend) Write(_ context.Context, id backend.PageID, data []byte) error {
	if err := os.WriteFile(b.pagePath(id), data, 0o666); err != nil {
		return errors.BackendIO("writing page %d: %v", id, err)
	}

	b.mu.Lock()
	if max, ok := b.meta.MaxPage(); !ok || id > max {
		b.meta.AllocatedPages = uint64(id) + 1
	}
	delete(b.meta.InvalidPages, id)
	b.mu.Unlock()

	debug.Log("backend.local", "wrote page %d (%d bytes)", id, len(data))
	return nil
}

// SetMaxPage truncates the backend: every page id greater than newMax is
// marked invalid and its file removed (h5s3's file_kv_store::truncate
// deletes every page file beyond the new end; we additionally record the
// invalid set so a concurrently cached, not-yet-evicted page is still
// correctly zeroed per spec.md §3 invariant 5).
func (b *Backend) SetMaxPage(_ context.Context, newMax backend.PageID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	max, ok := b.meta.MaxPage()
	if !ok || max <= newMax {
		return nil
	}

	for id := newMax + 1; id <= max; id++ {
		if err := os.Remove(b.pagePath(id)); err != nil && !os.IsNotExist(err) {
			return errors.BackendIO("truncating page %d: %v", id, err)
		}
		b.meta.InvalidPages[id] = struct{}{}
	}

	b.meta.AllocatedPages = uint64(newMax) + 1
	return nil
}

// Flush persists the metadata file.
func (b *Backend) Flush(_ context.Context) error {
	b.mu.Lock()
	data := backend.EncodeMetadata(b.meta)
	b.mu.Unlock()

	tmp := filepath.Join(b.dir, metaFilename+".tmp")
	if err := os.WriteFile(tmp, data, 0o666); err != nil {
		return errors.BackendIO("writing metadata: %v", err)
	}
	if err := os.Rename(tmp, filepath.Join(b.dir, metaFilename)); err != nil {
		return errors.BackendIO("committing metadata: %v", err)
	}
	return nil
}

// Close releases no resources; it exists to satisfy backend.Backend.
func (b *Backend) Close() error {
	return nil
}
