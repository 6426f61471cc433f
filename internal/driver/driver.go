// Package driver adapts a page.Table to the callback-table shape a host
// file format library expects of a virtual block device — open, close,
// read, write, flush, truncate, and the end-of-address-space/end-of-file
// pair — per spec.md §4.5. It is the Go analogue of h5s3's kv_driver
// (include/h5s3/kv_driver.h), which plays the same role against HDF5's
// H5FD callback table.
package driver

import (
	"context"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/debug"
	"github.com/h5s3/h5s3/internal/page"
)

// Driver is a virtual block device over a single backend.Backend. It owns
// the eoa bookkeeping a host expects: EOA ("end of address space") is the
// logical extent the host has declared via SetEOA. EOF ("end of file") is
// not separately stored — it is recomputed on every call as
// max(eoa, table.EOF()), so a page written directly (without an
// intervening SetEOA) is still reflected once it has been stored to the
// backend by Flush or eviction (table.EOF() does not see pages that are
// only dirty in the cache), and a host that shrinks EOA
// (ahead of a Truncate) sees GetEOF() shrink with it rather than lag
// behind a stale high-water mark.
type Driver struct {
	table *page.Table
	eoa   uint64
}

// Open binds a Driver to be, with the given page cache size (0 for the
// page.Table default). The initial EOA is the backend's existing extent,
// so reopening a file a host previously wrote picks up where it left off.
func Open(be backend.Backend, pageCacheSize int) *Driver {
	table := page.NewTable(be, pageCacheSize)
	return &Driver{table: table, eoa: table.EOF()}
}

// Close releases the backend without flushing (spec.md §9 note (d)): a
// host that wants its writes durable must call Flush first.
func (d *Driver) Close() error {
	return d.table.Close()
}

// Read fills out with the len(out) bytes starting at addr.
func (d *Driver) Read(ctx context.Context, addr uint64, out []byte) error {
	return d.table.Read(ctx, addr, out)
}

// Write stores data starting at addr. It does not implicitly grow EOA; a
// host extending the file is expected to call SetEOA itself, matching
// HDF5's own division of responsibility between a VFD and its caller.
func (d *Driver) Write(ctx context.Context, addr uint64, data []byte) error {
	return d.table.Write(ctx, addr, data)
}

// Flush writes every dirty cached page through to the backend and
// persists its metadata.
func (d *Driver) Flush(ctx context.Context) error {
	return d.table.Flush(ctx)
}

// Truncate shrinks backing storage down to the current EOA, discarding
// (and, for any still-cached page, lazily zeroing) everything beyond it.
func (d *Driver) Truncate(ctx context.Context) error {
	debug.Log("driver", "truncate to eoa=%d", d.eoa)
	return d.table.Truncate(ctx, d.eoa)
}

// GetEOA returns the current end-of-address-space.
func (d *Driver) GetEOA() uint64 { return d.eoa }

// SetEOA declares a new end-of-address-space.
func (d *Driver) SetEOA(addr uint64) {
	d.eoa = addr
}

// GetEOF returns the end-of-file: max(eoa, table.EOF()), recomputed live
// from the current EOA rather than a separately tracked high-water mark
// (spec.md §4.5; h5s3's kv_driver.h computes get_eof the same way, off a
// single stored m_eoa).
func (d *Driver) GetEOF() uint64 {
	if tableEOF := d.table.EOF(); tableEOF > d.eoa {
		return tableEOF
	}
	return d.eoa
}
