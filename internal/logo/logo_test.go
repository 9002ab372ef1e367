package logo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// minimal valid PNG header bytes; enough for a byte-for-byte write check
var pngStub = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestFetch_WritesLogoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/example.com" {
			w.WriteHeader(404)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngStub)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := &Downloader{ServiceURL: srv.URL, UserAgent: "brandscan-test"}
	path, err := d.Fetch(context.Background(), "example.com", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "example.com_logo.png") {
		t.Fatalf("unexpected path: %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read logo: %v", err)
	}
	if string(b) != string(pngStub) {
		t.Fatalf("logo bytes mismatch")
	}
}

func TestFetch_ServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	d := &Downloader{ServiceURL: srv.URL}
	if _, err := d.Fetch(context.Background(), "unknown.example", t.TempDir()); err == nil {
		t.Fatalf("expected error for missing logo")
	}
}

func TestFetch_EmptyDomain(t *testing.T) {
	d := &Downloader{}
	if _, err := d.Fetch(context.Background(), "", t.TempDir()); err == nil {
		t.Fatalf("expected error for empty domain")
	}
}
