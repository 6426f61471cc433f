package s3

import (
	"strings"

	"github.com/h5s3/h5s3/internal/errors"
)

// Location is a parsed "s3://<bucket>/<path>" URI, per spec.md §6. Path is
// non-empty; trailing slashes are stripped before the bucket/path split.
type Location struct {
	Bucket string
	Path   string
}

// ParseURI parses an S3 backend URI of the form "s3://<bucket>/<path>".
// The *last* "/" separates bucket from path, matching the grounding
// original's "s3://(.+)/(.+)" regex matched greedily against the whole
// remainder: a multi-segment URI like "s3://examplebucket/data/nested"
// yields Bucket "examplebucket/data", Path "nested", not the other way
// round. This means a bucket name may itself contain "/" — intentional,
// not a bug; it falls out of matching the original's behavior exactly.
func ParseURI(uri string) (Location, error) {
	const prefix = "s3://"
	if !strings.HasPrefix(uri, prefix) {
		return Location{}, errors.ParseError("s3: uri %q must start with %q", uri, prefix)
	}

	rest := strings.TrimSuffix(uri[len(prefix):], "/")
	for strings.HasSuffix(rest, "/") {
		rest = strings.TrimSuffix(rest, "/")
	}

	idx := strings.LastIndex(rest, "/")
	if idx < 0 || idx == len(rest)-1 {
		return Location{}, errors.ParseError("s3: uri %q has no path component", uri)
	}

	return Location{Bucket: rest[:idx], Path: rest[idx+1:]}, nil
}
