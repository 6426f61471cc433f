package backend_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/h5s3/h5s3/internal/backend"
)

func TestMetadataRoundTrip(t *testing.T) {
	m := backend.Metadata{
		PageSize:       4096,
		AllocatedPages: 10,
		InvalidPages: map[backend.PageID]struct{}{
			3: {},
			7: {},
		},
	}

	encoded := backend.EncodeMetadata(m)
	decoded, err := backend.DecodeMetadata(encoded)
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}

	if diff := cmp.Diff(m, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMetadataRejectsMissingVersion(t *testing.T) {
	_, err := backend.DecodeMetadata([]byte("page_size=64\nallocated_pages=0\ninvalid_pages={}\n"))
	if err == nil {
		t.Fatal("expected ParseError for blob without a version line")
	}
}

func TestDecodeMetadataRejectsUnknownVersion(t *testing.T) {
	_, err := backend.DecodeMetadata([]byte("version=99\npage_size=64\nallocated_pages=0\ninvalid_pages={}\n"))
	if err == nil {
		t.Fatal("expected ParseError for unsupported version")
	}
}

func TestMetadataMaxPage(t *testing.T) {
	empty := backend.Metadata{}
	if _, ok := empty.MaxPage(); ok {
		t.Fatal("empty metadata should report no max page")
	}

	m := backend.Metadata{AllocatedPages: 5}
	id, ok := m.MaxPage()
	if !ok || id != 4 {
		t.Fatalf("MaxPage() = (%d, %v), want (4, true)", id, ok)
	}
}
