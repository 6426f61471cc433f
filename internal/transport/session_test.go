package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/h5s3/h5s3/internal/errors"
	"github.com/h5s3/h5s3/internal/transport"
)

func TestGetCollectsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello world")
	}))
	defer srv.Close()

	s := transport.NewSession(5 * time.Second)
	body, err := s.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if body != "hello world" {
		t.Fatalf("body = %q, want %q", body, "hello world")
	}
}

func TestGetNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		io.WriteString(w, "not found")
	}))
	defer srv.Close()

	s := transport.NewSession(5 * time.Second)
	_, err := s.Get(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *errors.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Code != 404 {
		t.Fatalf("Code = %d, want 404", httpErr.Code)
	}
}

func TestGetIntoFillsBuffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "abc")
	}))
	defer srv.Close()

	s := transport.NewSession(5 * time.Second)
	buf := make([]byte, 3)
	n, err := s.GetInto(context.Background(), srv.URL, nil, buf)
	if err != nil {
		t.Fatalf("GetInto: %v", err)
	}
	if n != 3 || string(buf) != "abc" {
		t.Fatalf("GetInto wrote %q (%d bytes), want %q", buf, n, "abc")
	}
}

func TestGetIntoShortResponseIsNotOverflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ab")
	}))
	defer srv.Close()

	s := transport.NewSession(5 * time.Second)
	buf := make([]byte, 10)
	n, err := s.GetInto(context.Background(), srv.URL, nil, buf)
	if err != nil {
		t.Fatalf("GetInto: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
}

func TestGetIntoOverflowsBuffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("x", 100))
	}))
	defer srv.Close()

	s := transport.NewSession(5 * time.Second)
	buf := make([]byte, 10)
	_, err := s.GetInto(context.Background(), srv.URL, nil, buf)
	if err == nil {
		t.Fatal("expected BufferOverflow error")
	}
}

func TestPutStreamsBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	s := transport.NewSession(5 * time.Second)
	resp, err := s.Put(context.Background(), srv.URL, nil, []byte("payload"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("resp = %q, want %q", resp, "ok")
	}
	if gotBody != "payload" {
		t.Fatalf("server saw body %q, want %q", gotBody, "payload")
	}
}
