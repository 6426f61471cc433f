// Package errors is the facade every other package in this module uses to
// construct and inspect errors. It wraps github.com/pkg/errors so that
// errors keep a stack trace while still composing with the standard
// library's errors.Is/errors.As, and it adds the handful of error kinds
// spec.md §7 names.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// New, Wrap, Wrapf, WithStack and Errorf are re-exported so callers never
// need to import both this package and github.com/pkg/errors.
var (
	New       = stderrors.New
	Wrap      = pkgerrors.Wrap
	Wrapf     = pkgerrors.Wrapf
	WithStack = pkgerrors.WithStack
	Errorf    = pkgerrors.Errorf
)

// Is and As delegate to the standard library so callers can keep using the
// usual idioms on errors produced by this package.
var (
	Is = stderrors.Is
	As = stderrors.As
)

// kind tags an error with one of the categories spec.md §7 names, without
// losing the wrapped error's message or stack trace.
type kind struct {
	name string
	err  error
}

func (k *kind) Error() string { return k.name + ": " + k.err.Error() }

func (k *kind) Unwrap() error { return k.err }

func newKind(name string) func(format string, args ...interface{}) error {
	return func(format string, args ...interface{}) error {
		return &kind{name: name, err: pkgerrors.Errorf(format, args...)}
	}
}

// BackendNotFound reports that the backend has no object for a requested
// key. Callers at the backend layer convert this into a zero-filled read
// per spec.md §4.3 rather than surfacing it further.
var BackendNotFound = newKind("BackendNotFound")

// BackendIO reports any backend failure other than "not found".
var BackendIO = newKind("BackendIO")

// TransportError reports a network/DNS/TLS failure below the HTTP layer.
var TransportError = newKind("TransportError")

// BufferOverflow reports that a streaming GET produced more bytes than the
// caller's buffer could hold.
var BufferOverflow = newKind("BufferOverflow")

// ParseError reports a malformed metadata blob or URI.
var ParseError = newKind("ParseError")

// ConfigError reports missing credentials, a page-size mismatch against
// existing metadata, or a PUT-size disagreement.
var ConfigError = newKind("ConfigError")

// HTTPError reports a non-2xx HTTP response, keeping the status code and
// response body so callers can distinguish 404 from other failures without
// a second round trip.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return pkgerrors.Errorf("http status %d", e.Code).Error()
}

// NewHTTPError builds an *HTTPError for a non-2xx response.
func NewHTTPError(code int, body string) error {
	return &HTTPError{Code: code, Body: body}
}

// IsNotFound reports whether err is an HTTP 404 or a BackendNotFound.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if As(err, &httpErr) && httpErr.Code == 404 {
		return true
	}
	var k *kind
	return As(err, &k) && k.name == "BackendNotFound"
}

// KindOf reports the name of the outermost kind constructed by one of
// this package's New*-style kind constructors (BackendIO, TransportError,
// and so on) anywhere in err's Unwrap chain, or "" if none wraps it. It
// lets other packages classify an error without depending on the
// unexported kind type itself.
func KindOf(err error) string {
	var k *kind
	if As(err, &k) {
		return k.name
	}
	return ""
}
