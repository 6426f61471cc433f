package local_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/h5s3/h5s3/internal/backend"
	"github.com/h5s3/h5s3/internal/backend/local"
)

func open(t *testing.T, dir string, pageSize int) *local.Backend {
	t.Helper()
	be, err := local.FromParams(context.Background(), backend.OpenParams{
		URI: dir, Create: true, PageSize: pageSize,
	})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	return be
}

func TestReadMissingPageIsZero(t *testing.T) {
	be := open(t, t.TempDir(), 64)
	out := make([]byte, 64)
	for i := range out {
		out[i] = 0xFF
	}
	if err := be.Read(context.Background(), 0, out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(out, make([]byte, 64)) {
		t.Fatalf("expected all-zero read, got %x", out)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	be := open(t, t.TempDir(), 16)
	data := []byte("0123456789abcdef")
	if err := be.Write(context.Background(), 2, data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := make([]byte, 16)
	if err := be.Read(context.Background(), 2, out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("got %q, want %q", out, data)
	}
	if max, ok := be.MaxPage(); !ok || max != 2 {
		t.Fatalf("MaxPage() = (%d, %v), want (2, true)", max, ok)
	}
}

func TestFlushAndReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	be := open(t, dir, 8)
	if err := be.Write(context.Background(), 0, []byte("AAAAAAAA")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := be.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened := open(t, dir, 8)
	out := make([]byte, 8)
	if err := reopened.Read(context.Background(), 0, out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(out, []byte("AAAAAAAA")) {
		t.Fatalf("got %q after reopen, want AAAAAAAA", out)
	}
}

func TestPageSizeMismatchRejected(t *testing.T) {
	dir := t.TempDir()
	be := open(t, dir, 64)
	if err := be.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	_, err := local.FromParams(context.Background(), backend.OpenParams{
		URI: dir, PageSize: 128,
	})
	if err == nil {
		t.Fatal("expected ConfigError for page size mismatch")
	}
}

func TestSetMaxPageInvalidatesTail(t *testing.T) {
	be := open(t, t.TempDir(), 8)
	ctx := context.Background()
	for i := backend.PageID(0); i < 4; i++ {
		data := bytes.Repeat([]byte{byte('A' + i)}, 8)
		if err := be.Write(ctx, i, data); err != nil {
			t.Fatalf("Write(%d): %v", i, err)
		}
	}

	if err := be.SetMaxPage(ctx, 1); err != nil {
		t.Fatalf("SetMaxPage: %v", err)
	}

	out := make([]byte, 8)
	if err := be.Read(ctx, 2, out); err != nil {
		t.Fatalf("Read(2): %v", err)
	}
	if !bytes.Equal(out, make([]byte, 8)) {
		t.Fatalf("page 2 should read zero after truncation, got %x", out)
	}

	if err := be.Read(ctx, 0, out); err != nil {
		t.Fatalf("Read(0): %v", err)
	}
	if !bytes.Equal(out, bytes.Repeat([]byte{'A'}, 8)) {
		t.Fatalf("page 0 should survive truncation, got %q", out)
	}
}

func TestFromParamsRejectsNonDirectoryWhenNotCreating(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file")
	be := open(t, dir, 16)
	_ = be
	if err := os.WriteFile(notADir, nil, 0o666); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := local.FromParams(context.Background(), backend.OpenParams{URI: notADir}); err == nil {
		t.Fatal("expected an error opening a regular file as a directory without Create")
	}
}
