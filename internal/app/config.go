package app

import "time"

// Config holds runtime configuration for one scan.
type Config struct {
	// TargetURL is the page to scan.
	TargetURL string

	// Outputs
	OutputPDFPath      string
	OutputMarkdownPath string
	// OutputDir is where side artifacts like the downloaded logo land.
	OutputDir string

	// Fetching
	UserAgent       string
	FetchAttempts   int
	FetchRetryDelay time.Duration
	FetchTimeout    time.Duration
	// AllowPrivateHosts permits loopback/private targets, for local use.
	AllowPrivateHosts bool

	// Palette
	MaxColors int

	// Logo
	SkipLogo       bool
	LogoServiceURL string

	// Cache
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	// Behavior
	Verbose bool
}
