package errors_test

import (
	"testing"

	"github.com/h5s3/h5s3/internal/errors"
)

func TestIsNotFound(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want bool
	}{
		{"backend not found", errors.BackendNotFound("page %d", 3), true},
		{"http 404", errors.NewHTTPError(404, ""), true},
		{"http 500", errors.NewHTTPError(500, "boom"), false},
		{"backend io", errors.BackendIO("disk full"), false},
		{"plain", errors.New("nope"), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := errors.IsNotFound(tc.err); got != tc.want {
				t.Fatalf("IsNotFound(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestHTTPErrorCarriesBody(t *testing.T) {
	err := errors.NewHTTPError(500, "internal error")
	var httpErr *errors.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.Body != "internal error" {
		t.Fatalf("Body = %q, want %q", httpErr.Body, "internal error")
	}
}

func TestWrapPreservesUnwrap(t *testing.T) {
	base := errors.New("base")
	wrapped := errors.Wrap(base, "context")
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected wrapped error to unwrap to base")
	}
}
