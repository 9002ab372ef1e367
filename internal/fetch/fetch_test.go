package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperifyio/brandscan/internal/cache"
)

func TestGetPage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 2, PerRequestTimeout: 2 * time.Second}
	body, ct, err := c.GetPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct == "" || string(body) == "" {
		t.Fatalf("expected content type and body")
	}
}

func TestGetPage_RetryOn5xxWithFixedDelay(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(502)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 3, RetryDelay: 10 * time.Millisecond, PerRequestTimeout: 2 * time.Second}
	_, _, err := c.GetPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGetPage_ExhaustedRetriesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 2, RetryDelay: time.Millisecond, PerRequestTimeout: 2 * time.Second}
	_, _, err := c.GetPage(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected terminal failure after retry budget")
	}
}

func TestGetPage_RejectsNonHTTP(t *testing.T) {
	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 1, PerRequestTimeout: time.Second}
	_, _, err := c.GetPage(context.Background(), "file:///etc/hosts")
	if err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

func TestGetPage_ContentTypeGating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("body{}"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 1, PerRequestTimeout: 2 * time.Second}
	if _, _, err := c.GetPage(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for css served as a page")
	}
}

func TestGetStylesheet_AcceptsCSSAndPlainText(t *testing.T) {
	for _, ct := range []string{"text/css; charset=utf-8", "text/plain", ""} {
		ct := ct
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ct != "" {
				w.Header().Set("Content-Type", ct)
			}
			_, _ = w.Write([]byte("body{color:#aabbcc}"))
		}))
		c := &Client{UserAgent: "brandscan-test", MaxAttempts: 1, PerRequestTimeout: 2 * time.Second}
		body, _, err := c.GetStylesheet(context.Background(), srv.URL)
		srv.Close()
		if err != nil {
			t.Fatalf("content type %q: unexpected error: %v", ct, err)
		}
		if string(body) != "body{color:#aabbcc}" {
			t.Fatalf("content type %q: unexpected body %q", ct, body)
		}
	}
}

func TestGetStylesheet_RejectsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>404 page</html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 1, PerRequestTimeout: 2 * time.Second}
	if _, _, err := c.GetStylesheet(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for html served as a stylesheet")
	}
}

func TestGetPage_Conditional304_UsesCache(t *testing.T) {
	var calls int
	etag := `"abc123"`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html")
		if calls == 1 {
			w.Header().Set("ETag", etag)
			_, _ = w.Write([]byte("first"))
			return
		}
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		_, _ = w.Write([]byte("unexpected"))
	}))
	defer srv.Close()

	tmp := t.TempDir()
	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 1, PerRequestTimeout: 2 * time.Second, Cache: &cache.HTTPCache{Dir: tmp}}

	b1, _, err := c.GetPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("first get error: %v", err)
	}
	if string(b1) != "first" {
		t.Fatalf("unexpected body1: %q", string(b1))
	}

	b2, _, err := c.GetPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second get error: %v", err)
	}
	if string(b2) != "first" {
		t.Fatalf("expected cached body, got %q", string(b2))
	}
}

func TestGetPage_RedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/next", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "brandscan-test", MaxAttempts: 1, PerRequestTimeout: 2 * time.Second, RedirectMaxHops: 1}
	if _, _, err := c.GetPage(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected redirect limit error")
	}
}
