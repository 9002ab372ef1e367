// Package logo downloads a site logo from a logo resolution service. The
// download is best effort: a branding summary without a logo is still a
// valid summary.
package logo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultServiceURL is the logo service queried by domain name.
const DefaultServiceURL = "https://logo.clearbit.com"

// Downloader fetches logos by domain and writes them into a directory.
type Downloader struct {
	HTTPClient *http.Client
	UserAgent  string
	// ServiceURL overrides DefaultServiceURL, mainly for tests.
	ServiceURL string
	Timeout    time.Duration
}

// Fetch downloads the logo for domain into dir and returns the written file
// path. Any failure returns an empty path with the error; callers should
// proceed without a logo rather than abort.
func (d *Downloader) Fetch(ctx context.Context, domain string, dir string) (string, error) {
	if domain == "" {
		return "", fmt.Errorf("empty domain")
	}
	base := d.ServiceURL
	if base == "" {
		base = DefaultServiceURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/"+domain, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.HTTPClient
	if client == nil {
		timeout := d.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("logo service status: %d", resp.StatusCode)
	}

	path := filepath.Join(dir, domain+"_logo.png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create logo file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write logo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
