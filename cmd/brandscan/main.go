package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/brandscan/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		targetURL   string
		outputPDF   string
		outputMD    string
		outputDir   string
		configPath  string
		userAgent   string
		attempts    int
		retryDelay  time.Duration
		timeout     time.Duration
		maxColors   int
		skipLogo    bool
		logoService string
		cacheDir    string
		cacheMaxAge time.Duration
		cacheClear  bool
		privateOK   bool
		verbose     bool
	)

	flag.StringVar(&targetURL, "url", "", "Target page URL to scan (may also be given as the single positional argument)")
	flag.StringVar(&outputPDF, "out.pdf", "branding_summary.pdf", "Path to write the branding summary PDF")
	flag.StringVar(&outputMD, "out.md", "branding_summary.md", "Path to write the Markdown sidecar (empty disables)")
	flag.StringVar(&outputDir, "out.dir", "", "Directory for side artifacts like the downloaded logo (default current directory)")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file; explicit flags win")
	flag.StringVar(&userAgent, "fetch.ua", "brandscan/1.0 (+https://github.com/hyperifyio/brandscan)", "User-Agent for all requests")
	flag.IntVar(&attempts, "fetch.attempts", 5, "Fetch attempts per URL (includes the first)")
	flag.DurationVar(&retryDelay, "fetch.retryDelay", 2*time.Second, "Fixed delay between fetch attempts")
	flag.DurationVar(&timeout, "fetch.timeout", 15*time.Second, "Per-request timeout")
	flag.IntVar(&maxColors, "palette.max", 5, "Maximum primary palette size")
	flag.BoolVar(&skipLogo, "logo.skip", false, "Skip the logo download")
	flag.StringVar(&logoService, "logo.service", "", "Override logo service base URL")
	flag.StringVar(&cacheDir, "cache.dir", ".brandscan-cache", "Cache directory path (empty disables caching)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&privateOK, "fetch.allowPrivate", false, "Allow loopback/private target hosts")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if targetURL == "" && flag.NArg() > 0 {
		targetURL = flag.Arg(0)
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		TargetURL:          targetURL,
		OutputPDFPath:      outputPDF,
		OutputMarkdownPath: outputMD,
		OutputDir:          outputDir,
		UserAgent:          userAgent,
		FetchAttempts:      attempts,
		FetchRetryDelay:    retryDelay,
		FetchTimeout:       timeout,
		AllowPrivateHosts:  privateOK,
		MaxColors:          maxColors,
		SkipLogo:           skipLogo,
		LogoServiceURL:     logoService,
		CacheDir:           cacheDir,
		CacheMaxAge:        cacheMaxAge,
		CacheClear:         cacheClear,
		Verbose:            verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file load failed")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		fmt.Fprintf(os.Stderr, "usage: brandscan [flags] <url>\n")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("scan failed")
		// Exit code policy: 2 when the target cannot be scanned at all
		// (robots disallow or terminal page fetch failure), 1 otherwise.
		if errors.Is(err, app.ErrNotAllowed) || errors.Is(err, app.ErrPageUnavailable) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
