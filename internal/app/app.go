package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/brandscan/internal/cache"
	"github.com/hyperifyio/brandscan/internal/extract"
	"github.com/hyperifyio/brandscan/internal/fetch"
	"github.com/hyperifyio/brandscan/internal/logo"
	"github.com/hyperifyio/brandscan/internal/palette"
	"github.com/hyperifyio/brandscan/internal/report"
	"github.com/hyperifyio/brandscan/internal/robots"
)

// ErrNotAllowed is returned when robots.txt disallows fetching the target.
// Per the exit code policy this results in a non-zero process exit.
var ErrNotAllowed = fmt.Errorf("fetching disallowed by robots.txt")

// ErrPageUnavailable is returned when the target page cannot be fetched
// after the retry budget is exhausted.
var ErrPageUnavailable = fmt.Errorf("target page unavailable")

type App struct {
	cfg       Config
	httpCache *cache.HTTPCache
	fetcher   *fetch.Client
	robots    *robots.Manager
	logos     *logo.Downloader
}

func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			// Purge by age; ignore errors to avoid failing startup.
			_, _ = cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir}
	}

	a.fetcher = &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.FetchAttempts,
		RetryDelay:        cfg.FetchRetryDelay,
		PerRequestTimeout: cfg.FetchTimeout,
		Cache:             a.httpCache,
		RedirectMaxHops:   5,
	}
	a.robots = &robots.Manager{
		HTTPClient:        &http.Client{Timeout: cfg.FetchTimeout},
		UserAgent:         cfg.UserAgent,
		AllowPrivateHosts: cfg.AllowPrivateHosts,
	}
	a.logos = &logo.Downloader{
		UserAgent:  cfg.UserAgent,
		ServiceURL: cfg.LogoServiceURL,
		Timeout:    cfg.FetchTimeout,
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run performs one scan and writes the PDF and Markdown outputs.
func (a *App) Run(ctx context.Context) error {
	summary, err := a.Scan(ctx)
	if err != nil {
		return err
	}

	if err := report.WritePDF(summary, a.cfg.OutputPDFPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote branding summary PDF")

	if a.cfg.OutputMarkdownPath != "" {
		f, err := os.Create(a.cfg.OutputMarkdownPath)
		if err != nil {
			return fmt.Errorf("create markdown output: %w", err)
		}
		if err := report.WriteMarkdown(f, summary); err != nil {
			f.Close()
			return fmt.Errorf("write markdown: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("out", a.cfg.OutputMarkdownPath).Msg("wrote branding summary Markdown")
	}
	return nil
}

// Scan fetches the target page and its stylesheets and computes the
// branding summary without writing any report files.
func (a *App) Scan(ctx context.Context) (report.Summary, error) {
	target, err := url.Parse(a.cfg.TargetURL)
	if err != nil {
		return report.Summary{}, fmt.Errorf("parse target url: %w", err)
	}

	// 1) Robots gate. An unreachable robots.txt allows the scan; an
	// explicit disallow aborts it.
	decision, err := a.robots.Check(ctx, a.cfg.TargetURL)
	if err != nil {
		return report.Summary{}, fmt.Errorf("robots check: %w", err)
	}
	if !decision.Allowed {
		log.Warn().Str("url", a.cfg.TargetURL).Str("reason", decision.Reason).Msg("robots denied")
		return report.Summary{}, ErrNotAllowed
	}
	log.Debug().Str("reason", decision.Reason).Msg("robots check passed")

	// 2) Fetch the page.
	body, _, err := a.fetcher.GetPage(ctx, a.cfg.TargetURL)
	if err != nil {
		log.Error().Err(err).Str("url", a.cfg.TargetURL).Msg("page fetch failed")
		return report.Summary{}, fmt.Errorf("%w: %v", ErrPageUnavailable, err)
	}
	log.Info().Int("bytes", len(body)).Msg("fetched page")

	// 3) Extract styling skeleton.
	page := extract.FromHTML(body, target)
	log.Debug().
		Int("stylesheets", len(page.StylesheetURLs)).
		Int("embedded", len(page.EmbeddedCSS)).
		Int("inline", len(page.InlineStyles)).
		Msg("extracted page styling")

	// 4) Fetch linked stylesheets. A failed stylesheet is omitted, never
	// fatal. Honor the site's crawl delay between same-host requests.
	var fetched []string
	for i, cssURL := range page.StylesheetURLs {
		if i > 0 && decision.CrawlDelay != nil {
			select {
			case <-time.After(*decision.CrawlDelay):
			case <-ctx.Done():
				return report.Summary{}, ctx.Err()
			}
		}
		cssBody, _, err := a.fetcher.GetStylesheet(ctx, cssURL)
		if err != nil {
			log.Warn().Err(err).Str("url", cssURL).Msg("stylesheet fetch failed; skipping")
			continue
		}
		fetched = append(fetched, string(cssBody))
	}

	// 5) Primary palette from the page text plus fetched stylesheets.
	// Embedded <style> blocks are already part of the page text, so they
	// are not scanned a second time.
	texts := append([]string{string(body)}, fetched...)
	colors := palette.ExtractAll(texts)
	primary := palette.Rank(colors, a.cfg.MaxColors)
	log.Info().Int("found", len(colors)).Int("primary", len(primary)).Msg("ranked colors")

	// 6) Button palette from inline styles and button rule blocks in
	// embedded and fetched stylesheets.
	buttonSheets := append(append([]string{}, page.EmbeddedCSS...), fetched...)
	buttons := palette.ButtonColors(page.InlineStyles, buttonSheets)

	// 7) Accent recommendation; skipped when nothing usable was found.
	var rec *palette.Recommendation
	if r, err := palette.Recommend(primary); err == nil {
		rec = &r
		log.Info().Str("color", string(r.Color)).Msg("recommended accent")
	} else {
		log.Warn().Err(err).Msg("skipping accent recommendation")
	}

	// 8) Logo download, best effort.
	var logoPath string
	if !a.cfg.SkipLogo {
		dir := a.cfg.OutputDir
		if dir == "" {
			dir = "."
		}
		if p, err := a.logos.Fetch(ctx, target.Hostname(), dir); err == nil {
			logoPath = p
			log.Info().Str("path", p).Msg("downloaded logo")
		} else {
			log.Warn().Err(err).Str("domain", target.Hostname()).Msg("logo download failed; continuing without one")
		}
	}

	return report.Summary{
		Domain:        target.Hostname(),
		PageTitle:     page.Title,
		LogoPath:      logoPath,
		PrimaryColors: primary,
		ButtonColors:  buttons,
		Recommended:   rec,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
