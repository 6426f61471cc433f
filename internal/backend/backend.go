// Package backend defines the pluggable key-value store contract of
// spec.md §4.3: a backend produces and consumes opaque fixed-size pages by
// integer id, plus a metadata blob, and is the sole collaborator the page
// table (internal/page) talks to.
package backend

import (
	"context"

	"github.com/h5s3/h5s3/internal/options"
)

// PageID is a non-negative page identifier, equal to address / page size.
type PageID uint64

// OpenParams are the parameters a backend factory (FromParams) is given to
// construct or open a backend instance, matching spec.md §4.3's
// "from_params(uri, flags, requested_page_size, …extra)" contract and the
// file-access-parameter table of §6.
type OpenParams struct {
	// URI identifies the backend (a local directory path, or an
	// "s3://bucket/path" URI).
	URI string
	// Create, if true, creates the backend's storage if it doesn't exist
	// (the local directory). The S3 backend ignores it.
	Create bool
	// PageSize is the requested page size. 0 means "adopt the existing
	// stored page size, or the backend's default if none exists yet".
	PageSize int
	// AccessKey, SecretKey, Region are S3 credentials; ignored by the
	// local backend. Region defaults to "us-east-1" if empty.
	AccessKey string
	SecretKey string
	Region    string
	// Host overrides the default virtual-hosted S3 endpoint
	// ("{bucket}.s3.amazonaws.com"); ignored by the local backend.
	Host string
	// UseTLS selects http vs https for the S3 backend; ignored by the
	// local backend.
	UseTLS bool
	// Extra holds the "-o key=value" extended options. Each backend reads
	// the keys it understands (the S3 backend reads "timeout") and ignores
	// the rest.
	Extra options.Options
}

// Backend is the key-value store contract described in spec.md §4.3.
// Implementations never see partial pages: Read always fills exactly
// PageSize() bytes, and Write always receives exactly PageSize() bytes.
type Backend interface {
	// PageSize returns the fixed page size for the lifetime of this
	// backend instance.
	PageSize() int

	// MaxPage returns the highest ever-allocated page id, and false if
	// the backend is empty.
	MaxPage() (id PageID, ok bool)

	// SetMaxPage truncates the backend: every page with id > newMax is
	// added to the invalid set (spec.md §4.3, §4.4 "Truncate").
	SetMaxPage(ctx context.Context, newMax PageID) error

	// Read fills out (which must be exactly PageSize() bytes) with the
	// contents of page id. Per spec.md §4.3, a page beyond MaxPage(), in
	// the invalid set, or backed by a missing object reads as all zero;
	// any other failure is returned as a BackendIO error.
	Read(ctx context.Context, id PageID, out []byte) error

	// Write stores data (which must be exactly PageSize() bytes) as page
	// id, bumps MaxPage() to max(MaxPage(), id), and removes id from the
	// invalid set.
	Write(ctx context.Context, id PageID, data []byte) error

	// Flush persists metadata (page size, max page, invalid pages) so a
	// future Open/FromParams observes this session's writes.
	Flush(ctx context.Context) error

	// Close releases any resources (open files, HTTP clients) held by
	// the backend. It does not flush; callers must call Flush first if
	// they want their writes persisted (spec.md §9 note (d)).
	Close() error
}
