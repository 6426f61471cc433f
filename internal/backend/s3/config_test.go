package s3_test

import (
	"testing"

	"github.com/h5s3/h5s3/internal/backend/s3"
)

func TestParseURI(t *testing.T) {
	for _, tc := range []struct {
		uri        string
		wantBucket string
		wantPath   string
		wantErr    bool
	}{
		{"s3://examplebucket/data", "examplebucket", "data", false},
		{"s3://examplebucket/data/nested", "examplebucket/data", "nested", false},
		{"s3://examplebucket/data/", "examplebucket", "data", false},
		{"s3://examplebucket", "", "", true},
		{"not-s3://examplebucket/data", "", "", true},
	} {
		loc, err := s3.ParseURI(tc.uri)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseURI(%q): expected error, got %+v", tc.uri, loc)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURI(%q): unexpected error: %v", tc.uri, err)
			continue
		}
		if loc.Bucket != tc.wantBucket || loc.Path != tc.wantPath {
			t.Errorf("ParseURI(%q) = %+v, want {%q %q}", tc.uri, loc, tc.wantBucket, tc.wantPath)
		}
	}
}
