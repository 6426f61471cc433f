// Package page implements the write-back LRU page cache that sits between
// a driver and a key-value backend — spec.md §4.4, "the core of the core".
// It is the Go analogue of h5s3's page_buffer (include/h5s3/private/page_buffer.h),
// built on the teacher's pattern of wrapping a well-known container
// (restic uses container/list in its cache packages) rather than hand-rolling
// one; here the container is hashicorp's generic LRU, used purely as an
// ordered index — all eviction policy decisions are made by Table.acquire,
// never by the container itself.
package page

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/debug"
)

// fourGiB bounds the default cache size computed when the caller asks for
// page_cache_size == 0 (spec.md §4.4: "the largest page count such that
// page_cache_size * backend.page_size <= 4 GiB").
const fourGiB = 4 << 30

// Table is a paged, write-back cache in front of a backend.Backend. It is
// not safe for concurrent use, matching spec.md's single-writer model.
type Table struct {
	be        backend.Backend
	pageSize  int
	cacheSize int
	cache     *lru.LRU[backend.PageID, *buffer]
}

// NewTable builds a Table over be. pageCacheSize is the maximum number of
// resident pages; 0 requests the default described above.
func NewTable(be backend.Backend, pageCacheSize int) *Table {
	pageSize := be.PageSize()
	if pageCacheSize == 0 {
		pageCacheSize = fourGiB / pageSize
		if pageCacheSize < 1 {
			pageCacheSize = 1
		}
	}

	cache, err := lru.NewLRU[backend.PageID, *buffer](pageCacheSize, nil)
	if err != nil {
		// Only returned by the library for a non-positive size, which
		// cacheSize can no longer be by construction above.
		panic(err)
	}

	return &Table{be: be, pageSize: pageSize, cacheSize: pageCacheSize, cache: cache}
}

// PageSize returns the backend's fixed page size.
func (t *Table) PageSize() int { return t.pageSize }

// acquire returns the resident buffer for id, fetching and caching it on a
// miss. This is the eviction discipline of spec.md §4.4:
//
//  1. Indexed hit: splice the node to the front (most-recently-used) and
//     return it directly — golang-lru's Get already promotes on access.
//  2. Indexed miss, cache at capacity: evict the LRU tail. If it is dirty,
//     write it through the backend first; a failed write leaves the
//     evicted entry back in the index, still dirty, and the error
//     propagates. Otherwise rename the freed buffer in place (reusing its
//     backing array, so an eviction allocates nothing) in preparation for
//     reuse as id. Buffers are allocated at most page_cache_size times over
//     the table's life unless a read fails (step 4): a buffer dropped there
//     is replaced by a fresh allocation on a later miss.
//  3. Indexed miss, cache below capacity: allocate a fresh zeroed buffer.
//  4. In either miss case, read id from the backend into the buffer. Only
//     on success is the buffer added to the index (at the front); a
//     failed read leaves it out of the index entirely, so the next
//     acquire() for any id allocates or evicts fresh rather than reusing
//     a partially-filled buffer.
func (t *Table) acquire(ctx context.Context, id backend.PageID) (*buffer, error) {
	if buf, ok := t.cache.Get(id); ok {
		return buf, nil
	}

	var buf *buffer
	if t.cache.Len() >= t.cacheSize {
		victimID, victim, ok := t.cache.RemoveOldest()
		if !ok {
			buf = newBuffer(t.pageSize)
		} else {
			if victim.dirty {
				if err := t.be.Write(ctx, victimID, victim.data); err != nil {
					t.cache.Add(victimID, victim)
					return nil, err
				}
			}
			victim.rename()
			buf = victim
		}
	} else {
		buf = newBuffer(t.pageSize)
	}

	if err := t.be.Read(ctx, id, buf.data); err != nil {
		return nil, err
	}

	t.cache.Add(id, buf)
	debug.Log("page", "acquired page %d (cache size %d/%d)", id, t.cache.Len(), t.cacheSize)
	return buf, nil
}

// Read copies len(out) bytes starting at addr into out, decomposing the
// range across however many pages it spans.
func (t *Table) Read(ctx context.Context, addr uint64, out []byte) error {
	for _, s := range decompose(addr, len(out), t.pageSize) {
		buf, err := t.acquire(ctx, s.id)
		if err != nil {
			return err
		}
		buf.readInto(s.pageOff, out[s.bufOffset:s.bufOffset+s.length])
	}
	return nil
}

// Write copies data into the cache starting at addr, marking every
// touched page dirty. Per spec.md §9, a write that completes without
// error always succeeds outright — there is no partial-write return.
func (t *Table) Write(ctx context.Context, addr uint64, data []byte) error {
	for _, s := range decompose(addr, len(data), t.pageSize) {
		buf, err := t.acquire(ctx, s.id)
		if err != nil {
			return err
		}
		buf.writeAt(s.pageOff, data[s.bufOffset:s.bufOffset+s.length])
	}
	return nil
}

// Flush writes every dirty resident page through to the backend, clears
// its dirty flag, and flushes the backend itself. Clean pages are never
// rewritten. Flush never evicts anything from the cache.
func (t *Table) Flush(ctx context.Context) error {
	for _, id := range t.cache.Keys() {
		buf, ok := t.cache.Peek(id)
		if !ok || !buf.dirty {
			continue
		}
		if err := t.be.Write(ctx, id, buf.data); err != nil {
			return err
		}
		buf.dirty = false
	}
	return t.be.Flush(ctx)
}

// Truncate sets the backend's allocation boundary to eoa. Every resident
// page beyond the new boundary is marked zero_on_use and has its dirty
// flag cleared — its bytes are logically gone, but its buffer is only
// actually zeroed lazily, on its next access (spec.md §4.4, "Truncate").
func (t *Table) Truncate(ctx context.Context, eoa uint64) error {
	// The page holding the last valid byte (eoa-1) is the last surviving
	// page; a page-aligned eoa means even the page that starts exactly at
	// eoa is wholly beyond the new boundary, so plain eoa/page_size would
	// off-by-one keep it alive.
	var maxID backend.PageID
	hasValidPage := eoa > 0
	if hasValidPage {
		maxID = backend.PageID((eoa - 1) / uint64(t.pageSize))
	}

	for _, id := range t.cache.Keys() {
		if hasValidPage && id <= maxID {
			continue
		}
		if buf, ok := t.cache.Peek(id); ok {
			buf.zeroOnUse = true
			buf.dirty = false
		}
	}

	// Truncating to eoa==0 cannot be expressed as "no page is valid" through
	// backend.SetMaxPage's unsigned newMax — page 0 keeps whatever it held
	// before, a documented limitation (DESIGN.md) of that narrow boundary
	// case, since a freshly created backend's page 0 was never written and
	// already reads as zero.
	return t.be.SetMaxPage(ctx, maxID)
}

// EOF reports the end-of-file offset implied by the backend's current
// allocation: (max_page+1)*page_size, or 0 if the backend has never
// stored a page.
func (t *Table) EOF() uint64 {
	max, ok := t.be.MaxPage()
	if !ok {
		return 0
	}
	return (uint64(max) + 1) * uint64(t.pageSize)
}

// Close releases the underlying backend without flushing. Flush is always
// explicit (spec.md §9): nothing here writes dirty pages back.
func (t *Table) Close() error {
	return t.be.Close()
}
