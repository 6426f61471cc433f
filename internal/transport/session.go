// Package transport is the thin HTTP layer spec.md §4.2 describes: GET into
// a string or a caller-owned buffer, and PUT from a byte slice of known
// length, with transport failures reported distinctly from HTTP status
// errors. It is the Go analogue of h5s3's curl::session.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/h5s3/h5s3/internal/debug"
	"github.com/h5s3/h5s3/internal/errors"
)

// Session is a minimal HTTP client. The timeout is fixed at construction,
// never per-call, per spec.md §5 ("HTTP operations inherit whatever
// timeout the transport library imposes (configurable at transport
// construction, not per call)").
type Session struct {
	client *http.Client
}

// NewSession builds a Session with the given request timeout. A zero
// timeout means "no timeout", matching http.Client's own zero value.
func NewSession(timeout time.Duration) *Session {
	return &Session{client: &http.Client{Timeout: timeout}}
}

func do(ctx context.Context, client *http.Client, method, url string, headers []Header, body io.Reader, contentLength int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.TransportError("%s %s: %v", method, url, err)
	}
	for _, h := range headers {
		if strings.EqualFold(h.Name, "host") {
			// net/http sends the request's Host header from req.Host, not
			// from req.Header, so a signed "host" header has to be routed
			// there explicitly.
			req.Host = h.Value
			continue
		}
		req.Header.Set(h.Name, h.Value)
	}
	if contentLength >= 0 {
		req.ContentLength = contentLength
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.TransportError("%s %s: %v", method, url, err)
	}
	return resp, nil
}

// Header is a single HTTP request header.
type Header struct {
	Name  string
	Value string
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return errors.NewHTTPError(resp.StatusCode, string(body))
}

// Get performs an HTTP GET and returns the entire response body as a
// string.
func (s *Session) Get(ctx context.Context, url string, headers []Header) (string, error) {
	resp, err := do(ctx, s.client, http.MethodGet, url, headers, nil, -1)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.TransportError("reading response body: %v", err)
	}

	debug.Log("transport", "GET %s -> %d bytes", url, len(body))
	return string(body), nil
}

// GetInto performs an HTTP GET, writing the response body into out. If the
// server sends more bytes than len(out) can hold, it returns a
// BufferOverflow error; the request is considered failed in that case.
func (s *Session) GetInto(ctx context.Context, url string, headers []Header, out []byte) (int, error) {
	resp, err := do(ctx, s.client, http.MethodGet, url, headers, nil, -1)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	// Read one byte past the capacity of out to detect overflow without
	// guessing at the response's advertised length.
	limited := io.LimitReader(resp.Body, int64(len(out))+1)
	n, err := io.ReadFull(limited, out)
	switch {
	case err == nil:
		// out was filled exactly; check whether there is a further byte.
		var extra [1]byte
		if m, _ := resp.Body.Read(extra[:]); m > 0 {
			return 0, errors.BufferOverflow("response exceeded %d byte buffer", len(out))
		}
		return n, nil
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		return n, nil
	default:
		return 0, errors.TransportError("reading response body: %v", err)
	}
}

// Put streams body (of exactly len(body) bytes) as the request payload and
// returns the response body as a string.
func (s *Session) Put(ctx context.Context, url string, headers []Header, body []byte) (string, error) {
	resp, err := do(ctx, s.client, http.MethodPut, url, headers, bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.TransportError("reading response body: %v", err)
	}

	debug.Log("transport", "PUT %s <- %d bytes", url, len(body))
	return string(respBody), nil
}
