package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return p
}

func TestLoadConfigFile_YAML(t *testing.T) {
	p := writeTemp(t, "cfg.yaml", `
url: https://example.com
outputPDF: out.pdf
fetch:
  attempts: 3
palette:
  maxColors: 3
logo:
  skip: true
`)
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.URL != "https://example.com" || fc.OutputPDF != "out.pdf" {
		t.Fatalf("unexpected: %+v", fc)
	}
	if fc.Fetch.Attempts != 3 {
		t.Fatalf("unexpected fetch section: %+v", fc.Fetch)
	}
	if fc.Palette.MaxColors != 3 || !fc.Logo.Skip {
		t.Fatalf("unexpected sections: %+v", fc)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	p := writeTemp(t, "cfg.json", `{"url":"https://example.org","verbose":true}`)
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.URL != "https://example.org" || !fc.Verbose {
		t.Fatalf("unexpected: %+v", fc)
	}
}

func TestApplyFileConfig_PreservesExplicitFlags(t *testing.T) {
	cfg := Config{
		TargetURL:     "https://flagged.example",
		OutputPDFPath: "explicit.pdf",
		MaxColors:     7,
	}
	fc := FileConfig{URL: "https://filed.example", OutputPDF: "filed.pdf"}
	fc.Palette.MaxColors = 2

	ApplyFileConfig(&cfg, fc)
	if cfg.TargetURL != "https://flagged.example" {
		t.Fatalf("explicit target overridden: %q", cfg.TargetURL)
	}
	if cfg.OutputPDFPath != "explicit.pdf" {
		t.Fatalf("explicit output overridden: %q", cfg.OutputPDFPath)
	}
	if cfg.MaxColors != 7 {
		t.Fatalf("explicit palette size overridden: %d", cfg.MaxColors)
	}
}

func TestApplyFileConfig_FillsDefaults(t *testing.T) {
	cfg := Config{OutputPDFPath: "branding_summary.pdf", MaxColors: 5}
	fc := FileConfig{URL: "https://filed.example", OutputPDF: "filed.pdf"}
	fc.Palette.MaxColors = 2
	fc.Cache.MaxAge = time.Hour

	ApplyFileConfig(&cfg, fc)
	if cfg.TargetURL != "https://filed.example" {
		t.Fatalf("target not filled: %q", cfg.TargetURL)
	}
	if cfg.OutputPDFPath != "filed.pdf" {
		t.Fatalf("default output not overridden: %q", cfg.OutputPDFPath)
	}
	if cfg.MaxColors != 2 || cfg.CacheMaxAge != time.Hour {
		t.Fatalf("defaults not overlaid: %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{}); err == nil {
		t.Fatalf("expected missing target error")
	}
	if err := ValidateConfig(Config{TargetURL: "https://example.com"}); err == nil {
		t.Fatalf("expected missing output error")
	}
	ok := Config{TargetURL: "https://example.com", OutputPDFPath: "out.pdf"}
	if err := ValidateConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ok
	bad.MaxColors = -1
	if err := ValidateConfig(bad); err == nil {
		t.Fatalf("expected negative limit error")
	}
}
