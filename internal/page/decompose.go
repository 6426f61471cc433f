package page

import "github.com/h5s3/h5s3/internal/backend"

// slice describes one page's worth of a larger [addr, addr+len) request:
// the page to touch, the byte offset within that page, and the byte range
// of the caller's buffer it corresponds to.
type slice struct {
	id        backend.PageID
	pageOff   int
	bufOffset int
	length    int
}

// decompose splits a byte range starting at addr, of the given length,
// into per-page slices, per spec.md §4.4 ("Range decomposition"):
//
//   - the first slice may be partial (addr need not be page-aligned);
//   - the last slice may be partial, and is omitted entirely when
//     addr+length lands exactly on a page boundary (a zero-length
//     trailing slice is a no-op, not an empty write);
//   - every page strictly between the first and last is copied in full.
func decompose(addr uint64, length int, pageSize int) []slice {
	if length <= 0 {
		return nil
	}

	size := uint64(pageSize)
	firstID := backend.PageID(addr / size)
	lastID := backend.PageID((addr + uint64(length)) / size)

	firstPageStart := uint64(firstID) * size
	firstOff := int(addr - firstPageStart)
	firstLen := pageSize - firstOff
	if firstLen > length {
		firstLen = length
	}

	slices := make([]slice, 0, int(lastID-firstID)+1)
	slices = append(slices, slice{id: firstID, pageOff: firstOff, bufOffset: 0, length: firstLen})

	if lastID == firstID {
		return slices
	}

	for id := firstID + 1; id < lastID; id++ {
		pageStart := uint64(id) * size
		slices = append(slices, slice{
			id:        id,
			pageOff:   0,
			bufOffset: int(pageStart - addr),
			length:    pageSize,
		})
	}

	lastPageStart := uint64(lastID) * size
	lastLen := int(addr+uint64(length)) - int(lastPageStart)
	if lastLen > 0 {
		slices = append(slices, slice{
			id:        lastID,
			pageOff:   0,
			bufOffset: int(lastPageStart - addr),
			length:    lastLen,
		})
	}

	return slices
}
