// Package s3 implements the key-value backend of spec.md §4.3 over an
// S3-compatible object store, signing every request with the SigV4 notary
// of internal/sigv4 and issuing it through internal/transport — the Go
// analogue of h5s3's s3_kv_store (include/h5s3/private/s3_driver.h,
// include/h5s3/s3.h), following restic's internal/backend/s3 for the
// Config/ParseConfig/Open shape.
package s3

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/debug"
	"github.com/h5s3/h5s3/internal/errors"
	"github.com/h5s3/h5s3/internal/hashing"
	"github.com/h5s3/h5s3/internal/sigv4"
	"github.com/h5s3/h5s3/internal/transport"
)

// defaultPageSize is the page size a new file gets when the caller passes
// 0 and no metadata object exists yet (spec.md §4.3).
const defaultPageSize = 2 << 20 // 2 MiB

// defaultRegion applies when the caller leaves Region empty (spec.md §6).
const defaultRegion = "us-east-1"

// defaultTimeout is the HTTP session timeout used unless overridden by the
// "timeout" extended option (e.g. "-o timeout=90s").
const defaultTimeout = 30 * time.Second

const metaObjectName = ".meta"

// Backend is a key-value backend over a single S3 bucket/path prefix.
type Backend struct {
	session *transport.Session

	bucket    string
	prefix    string
	host      string // empty means use the virtual-hosted default endpoint
	useTLS    bool
	region    string
	accessKey string
	secretKey string

	mu   sync.Mutex
	meta backend.Metadata
}

var _ backend.Backend = (*Backend)(nil)

// FromParams opens an S3 backend at params.URI ("s3://bucket/path"),
// loading (or, for a new prefix, defaulting) its metadata. Per spec.md
// §4.3, an existing metadata object's page size is authoritative and must
// equal params.PageSize unless params.PageSize is 0.
func FromParams(ctx context.Context, params backend.OpenParams) (*Backend, error) {
	loc, err := ParseURI(params.URI)
	if err != nil {
		return nil, err
	}

	if params.AccessKey == "" || params.SecretKey == "" {
		return nil, errors.ConfigError("s3: access key and secret key are required")
	}

	region := params.Region
	if region == "" {
		region = defaultRegion
	}

	timeout := defaultTimeout
	if raw, ok := params.Extra.Get("timeout"); ok && raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.ConfigError("s3: invalid timeout option %q: %v", raw, err)
		}
		timeout = d
	}

	be := &Backend{
		session:   transport.NewSession(timeout),
		bucket:    loc.Bucket,
		prefix:    loc.Path,
		host:      params.Host,
		useTLS:    params.UseTLS,
		region:    region,
		accessKey: params.AccessKey,
		secretKey: params.SecretKey,
	}

	meta, err := be.loadMetadata(ctx, params.PageSize)
	if err != nil {
		return nil, err
	}
	be.meta = meta

	return be, nil
}

func (b *Backend) loadMetadata(ctx context.Context, requestedPageSize int) (backend.Metadata, error) {
	data, err := b.getObject(ctx, b.objectKey(metaObjectName))
	if errors.IsNotFound(err) {
		pageSize := requestedPageSize
		if pageSize == 0 {
			pageSize = defaultPageSize
		}
		return backend.Metadata{PageSize: pageSize, InvalidPages: map[backend.PageID]struct{}{}}, nil
	}
	if err != nil {
		return backend.Metadata{}, err
	}

	meta, err := backend.DecodeMetadata([]byte(data))
	if err != nil {
		return backend.Metadata{}, err
	}

	if requestedPageSize != 0 && requestedPageSize != meta.PageSize {
		return backend.Metadata{}, errors.ConfigError(
			"requested page size %d does not match stored page size %d", requestedPageSize, meta.PageSize)
	}

	return meta, nil
}

// objectKey returns the full object key ("<prefix>/<name>") for name,
// which is either a decimal page id or ".meta".
func (b *Backend) objectKey(name string) string {
	return b.prefix + "/" + name
}

// endpoint returns the host to address and the canonical-URI prefix that
// must be prepended to an object key, per spec.md §6: the default
// virtual-hosted endpoint addresses the bucket via the hostname and the
// canonical URI is just "/"+key, while a caller-supplied host uses
// path-style addressing and must carry the bucket in the URI.
func (b *Backend) endpoint() (host, uriPrefix string) {
	if b.host != "" {
		return b.host, "/" + b.bucket
	}
	return b.bucket + ".s3.amazonaws.com", ""
}

func (b *Backend) scheme() string {
	if b.useTLS {
		return "https"
	}
	return "http"
}

func (b *Backend) url(key string) (requestURL, canonicalURI, host string) {
	host, prefix := b.endpoint()
	canonicalURI = prefix + "/" + key
	return b.scheme() + "://" + host + canonicalURI, canonicalURI, host
}

func (b *Backend) sign(verb, canonicalURI, host, payloadHash string) []transport.Header {
	notary := sigv4.New(b.region, b.accessKey, b.secretKey, time.Now())

	signed := []sigv4.Header{
		{Name: "host", Value: host},
		{Name: "x-amz-content-sha256", Value: payloadHash},
		{Name: "x-amz-date", Value: notary.SigningTime()},
	}

	auth := notary.AuthorizationHeader(verb, canonicalURI, nil, signed, payloadHash)

	return []transport.Header{
		{Name: "Host", Value: host},
		{Name: "x-amz-content-sha256", Value: payloadHash},
		{Name: "x-amz-date", Value: notary.SigningTime()},
		{Name: "Authorization", Value: auth},
	}
}

func (b *Backend) getObject(ctx context.Context, key string) (string, error) {
	u, canonicalURI, host := b.url(key)
	headers := b.sign("GET", canonicalURI, host, hashing.EmptyPayloadHash)
	return b.session.Get(ctx, u, headers)
}

func (b *Backend) getObjectInto(ctx context.Context, key string, out []byte) (int, error) {
	u, canonicalURI, host := b.url(key)
	headers := b.sign("GET", canonicalURI, host, hashing.EmptyPayloadHash)
	return b.session.GetInto(ctx, u, headers, out)
}

func (b *Backend) putObject(ctx context.Context, key string, body []byte) error {
	u, canonicalURI, host := b.url(key)
	payloadHash := hashing.Sha256Hex(body)
	headers := b.sign("PUT", canonicalURI, host, payloadHash)
	_, err := b.session.Put(ctx, u, headers, body)
	return err
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

// Read fills out with the contents of page id, or zeros it when the page
// is beyond MaxPage(), invalid, or the object is missing (a 404), per
// spec.md §4.3.
func (b *Backend) Read(ctx context.Context, id backend.PageID, out []byte) error {
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

	n, err := b.getObjectInto(ctx, b.objectKey(strconv.FormatUint(uint64(id), 10)), out)
	if errors.IsNotFound(err) {
		zero(out)
		return nil
	}
	if err != nil {
		return errors.BackendIO("s3: reading page %d: %v", id, err)
	}
	zero(out[n:])

	debug.Log("backend.s3", "read page %d (%d bytes)", id, len(out))
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Write stores data as page id.
func (b *Backend) Write(ctx context.Context, id backend.PageID, data []byte) error {
	if err := b.putObject(ctx, b.objectKey(strconv.FormatUint(uint64(id), 10)), data); err != nil {
		return errors.BackendIO("s3: writing page %d: %v", id, err)
	}

	b.mu.Lock()
	if max, ok := b.meta.MaxPage(); !ok || id > max {
		b.meta.AllocatedPages = uint64(id) + 1
	}
	delete(b.meta.InvalidPages, id)
	b.mu.Unlock()

	debug.Log("backend.s3", "wrote page %d (%d bytes)", id, len(data))
	return nil
}

// SetMaxPage truncates the backend: every page id greater than newMax
// moves into the invalid set (spec.md §4.3). The S3 backend does not
// delete the now-invalid objects outright (object DELETE is not part of
// the core transport contract of spec.md §4.2); they are simply masked by
// the invalid set until overwritten.
func (b *Backend) SetMaxPage(_ context.Context, newMax backend.PageID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	max, ok := b.meta.MaxPage()
	if !ok || max <= newMax {
		return nil
	}

	if b.meta.InvalidPages == nil {
		b.meta.InvalidPages = map[backend.PageID]struct{}{}
	}
	for id := newMax + 1; id <= max; id++ {
		b.meta.InvalidPages[id] = struct{}{}
	}
	b.meta.AllocatedPages = uint64(newMax) + 1
	return nil
}

// Flush persists the metadata object.
func (b *Backend) Flush(ctx context.Context) error {
	b.mu.Lock()
	data := backend.EncodeMetadata(b.meta)
	b.mu.Unlock()

	if err := b.putObject(ctx, b.objectKey(metaObjectName), data); err != nil {
		return errors.BackendIO("s3: writing metadata: %v", err)
	}
	return nil
}

// Close releases no resources; it exists to satisfy backend.Backend.
func (b *Backend) Close() error {
	return nil
}
