package backend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/h5s3/h5s3/internal/errors"
)

// MetadataVersion is the only metadata grammar this module understands.
// Per spec.md §9 note (c), the blob is version-tagged so that a future
// format change (or one of the original's other grammar variants) is
// rejected cleanly rather than silently misparsed.
const MetadataVersion = 1

// Metadata is the persisted, cross-session state a backend owns: the page
// size, the count of allocated pages, and the set of pages that must read
// as zero regardless of any residual backend object (spec.md §3).
type Metadata struct {
	PageSize       int
	AllocatedPages uint64
	InvalidPages   map[PageID]struct{}
}

// MaxPage returns the highest allocated page id, and false if no pages are
// allocated yet.
func (m Metadata) MaxPage() (PageID, bool) {
	if m.AllocatedPages == 0 {
		return 0, false
	}
	return PageID(m.AllocatedPages - 1), true
}

// EncodeMetadata renders m using the grammar chosen in DESIGN.md:
//
//	version=1
//	page_size=<n>
//	allocated_pages=<n>
//	invalid_pages={<id>( <id>)*}
func EncodeMetadata(m Metadata) []byte {
	ids := make([]PageID, 0, len(m.InvalidPages))
	for id := range m.InvalidPages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var parts []string
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "version=%d\n", MetadataVersion)
	fmt.Fprintf(&b, "page_size=%d\n", m.PageSize)
	fmt.Fprintf(&b, "allocated_pages=%d\n", m.AllocatedPages)
	fmt.Fprintf(&b, "invalid_pages={%s}\n", strings.Join(parts, " "))
	return []byte(b.String())
}

// DecodeMetadata parses the grammar produced by EncodeMetadata. A blob
// missing a recognized "version=" line, or carrying a version this module
// doesn't understand, is rejected with a ParseError rather than guessed at.
func DecodeMetadata(data []byte) (Metadata, error) {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 {
		return Metadata{}, errors.ParseError("empty metadata blob")
	}

	fields := map[string]string{}
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Metadata{}, errors.ParseError("malformed metadata line %q", line)
		}
		fields[key] = value
	}

	versionStr, ok := fields["version"]
	if !ok {
		return Metadata{}, errors.ParseError("metadata blob has no version line; refusing to guess its grammar")
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil || version != MetadataVersion {
		return Metadata{}, errors.ParseError("unsupported metadata version %q", versionStr)
	}

	pageSize, err := strconv.Atoi(fields["page_size"])
	if err != nil {
		return Metadata{}, errors.ParseError("malformed page_size: %v", err)
	}

	allocated, err := strconv.ParseUint(fields["allocated_pages"], 10, 64)
	if err != nil {
		return Metadata{}, errors.ParseError("malformed allocated_pages: %v", err)
	}

	invalidField := fields["invalid_pages"]
	invalidField = strings.TrimPrefix(invalidField, "{")
	invalidField = strings.TrimSuffix(invalidField, "}")

	invalid := make(map[PageID]struct{})
	for _, tok := range strings.Fields(invalidField) {
		id, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return Metadata{}, errors.ParseError("malformed invalid_pages entry %q: %v", tok, err)
		}
		invalid[PageID(id)] = struct{}{}
	}

	return Metadata{
		PageSize:       pageSize,
		AllocatedPages: allocated,
		InvalidPages:   invalid,
	}, nil
}
