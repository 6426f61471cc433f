package page

// buffer is a single cached page: its bytes plus the two flags described
// in spec.md §4.4 ("Page buffer semantics"). A buffer is owned exclusively
// by the LRU node that holds it and is reused in place across evictions
// (spec.md §9 "Page node renaming on eviction") rather than reallocated.
type buffer struct {
	data      []byte
	dirty     bool
	zeroOnUse bool
}

func newBuffer(pageSize int) *buffer {
	return &buffer{data: make([]byte, pageSize)}
}

// readInto copies size bytes starting at offset into dst. If zeroOnUse is
// set, the whole buffer is zeroed first (spec.md: "the first subsequent
// read zeros the full buffer ... and clears the flag").
func (b *buffer) readInto(offset int, dst []byte) {
	if b.zeroOnUse {
		clearBytes(b.data)
		b.zeroOnUse = false
	}
	copy(dst, b.data[offset:offset+len(dst)])
}

// writeAt copies src into the buffer at offset. If zeroOnUse is set, only
// the regions outside [offset, offset+len(src)) are zeroed first (spec.md:
// "the first subsequent write zeros only the regions outside the write
// range ... and clears the flag") — the region about to be overwritten
// doesn't need zeroing first.
func (b *buffer) writeAt(offset int, src []byte) {
	if b.zeroOnUse {
		clearBytes(b.data[:offset])
		clearBytes(b.data[offset+len(src):])
		b.zeroOnUse = false
	}
	copy(b.data[offset:], src)
	b.dirty = true
}

// rename clears both flags so a reused buffer starts from a known state
// before the table immediately refills it from the backend (spec.md §4.4
// step 2c: "call reset() on its page buffer (clears dirty and
// zero_on_use)").
func (b *buffer) rename() {
	b.dirty = false
	b.zeroOnUse = false
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
