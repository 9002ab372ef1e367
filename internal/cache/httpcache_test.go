package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadRoundtrip(t *testing.T) {
	c := &HTTPCache{Dir: t.TempDir()}
	ctx := context.Background()
	url := "https://example.com/css/main.css"

	err := c.Save(ctx, url, "text/css", `"etag1"`, "Mon, 02 Jan 2006 15:04:05 GMT", []byte("body{color:#aabbcc}"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := c.LoadMeta(ctx, url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"etag1"` || meta.ContentType != "text/css" {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	body, err := c.LoadBody(ctx, url)
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if string(body) != "body{color:#aabbcc}" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestLoadMeta_MissingEntry(t *testing.T) {
	c := &HTTPCache{Dir: t.TempDir()}
	if _, err := c.LoadMeta(context.Background(), "https://example.com/missing"); err == nil {
		t.Fatalf("expected error for missing entry")
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	if err := c.Save(context.Background(), "https://example.com/", "text/html", "", "", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir after clear, got %d entries", len(entries))
	}
}

func TestPurgeByAge(t *testing.T) {
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	ctx := context.Background()
	if err := c.Save(ctx, "https://example.com/old", "text/css", "", "", []byte("old")); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Backdate the entry by rewriting its SavedAt.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		p := filepath.Join(dir, e.Name())
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read meta: %v", err)
		}
		var meta HTTPEntry
		if err := json.Unmarshal(b, &meta); err != nil {
			t.Fatalf("decode meta: %v", err)
		}
		meta.SavedAt = time.Now().UTC().Add(-48 * time.Hour)
		b, err = json.Marshal(&meta)
		if err != nil {
			t.Fatalf("encode meta: %v", err)
		}
		if err := os.WriteFile(p, b, 0o644); err != nil {
			t.Fatalf("write meta: %v", err)
		}
	}

	removed, err := PurgeByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := c.LoadBody(ctx, "https://example.com/old"); err == nil {
		t.Fatalf("expected body gone after purge")
	}
}

func TestPurgeByAge_ZeroDisables(t *testing.T) {
	removed, err := PurgeByAge(t.TempDir(), 0)
	if err != nil || removed != 0 {
		t.Fatalf("expected noop, got removed=%d err=%v", removed, err)
	}
}
