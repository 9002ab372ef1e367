package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally onto the flag names.
type FileConfig struct {
	URL       string `yaml:"url" json:"url"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	OutputMD  string `yaml:"outputMD" json:"outputMD"`
	OutputDir string `yaml:"outputDir" json:"outputDir"`

	Fetch struct {
		UserAgent         string        `yaml:"userAgent" json:"userAgent"`
		Attempts          int           `yaml:"attempts" json:"attempts"`
		RetryDelay        time.Duration `yaml:"retryDelay" json:"retryDelay"`
		Timeout           time.Duration `yaml:"timeout" json:"timeout"`
		AllowPrivateHosts bool          `yaml:"allowPrivateHosts" json:"allowPrivateHosts"`
	} `yaml:"fetch" json:"fetch"`

	Palette struct {
		MaxColors int `yaml:"maxColors" json:"maxColors"`
	} `yaml:"palette" json:"palette"`

	Logo struct {
		Skip    bool   `yaml:"skip" json:"skip"`
		Service string `yaml:"service" json:"service"`
	} `yaml:"logo" json:"logo"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear  bool          `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields that
// are currently unset or still at their flag defaults. Flags should already
// have been parsed; this lets file config supply defaults while preserving
// explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		outputPDFDefault  = "branding_summary.pdf"
		outputMDDefault   = "branding_summary.md"
		userAgentDefault  = "brandscan/1.0 (+https://github.com/hyperifyio/brandscan)"
		attemptsDefault   = 5
		retryDelayDefault = 2 * time.Second
		timeoutDefault    = 15 * time.Second
		maxColorsDefault  = 5
		cacheDirDefault   = ".brandscan-cache"
	)

	if cfg.TargetURL == "" && fc.URL != "" {
		cfg.TargetURL = fc.URL
	}
	if (cfg.OutputPDFPath == "" || cfg.OutputPDFPath == outputPDFDefault) && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}
	if (cfg.OutputMarkdownPath == "" || cfg.OutputMarkdownPath == outputMDDefault) && fc.OutputMD != "" {
		cfg.OutputMarkdownPath = fc.OutputMD
	}
	if cfg.OutputDir == "" && fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}

	if (cfg.UserAgent == "" || cfg.UserAgent == userAgentDefault) && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if (cfg.FetchAttempts == 0 || cfg.FetchAttempts == attemptsDefault) && fc.Fetch.Attempts > 0 {
		cfg.FetchAttempts = fc.Fetch.Attempts
	}
	if (cfg.FetchRetryDelay == 0 || cfg.FetchRetryDelay == retryDelayDefault) && fc.Fetch.RetryDelay > 0 {
		cfg.FetchRetryDelay = fc.Fetch.RetryDelay
	}
	if (cfg.FetchTimeout == 0 || cfg.FetchTimeout == timeoutDefault) && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if !cfg.AllowPrivateHosts && fc.Fetch.AllowPrivateHosts {
		cfg.AllowPrivateHosts = true
	}

	if (cfg.MaxColors == 0 || cfg.MaxColors == maxColorsDefault) && fc.Palette.MaxColors > 0 {
		cfg.MaxColors = fc.Palette.MaxColors
	}

	if !cfg.SkipLogo && fc.Logo.Skip {
		cfg.SkipLogo = true
	}
	if cfg.LogoServiceURL == "" && fc.Logo.Service != "" {
		cfg.LogoServiceURL = fc.Logo.Service
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == cacheDirDefault) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.TargetURL) == "" {
		return errors.New("config: target url is required")
	}
	if strings.TrimSpace(cfg.OutputPDFPath) == "" {
		return errors.New("config: output PDF path is required")
	}
	if cfg.FetchAttempts < 0 || cfg.MaxColors < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
