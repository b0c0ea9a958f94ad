package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gallerycat/gallerycat/pkg/models"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Remote site
	SearchURLTemplate string
	UserAgent         string
	Proxy             string

	// Scrape bounds
	MaxAttempts int
	MaxPages    int
	NavTimeout  time.Duration
	ReadyWait   time.Duration
	Scroll      models.ScrollOptions

	// Inter-page pacing
	PageRateRPS   float64
	PageRateBurst int

	// Selector rules
	LinkRules  models.LinkRules
	AssetRules models.AssetRules

	// Browser
	ChromePath      string
	BrowserHeadless bool

	// Storage
	StorageRoot string

	// HTTP server
	ListenAddr string
}

// Load builds a Config by combining defaults, environment variables, and CLI
// flags. The resulting value is constructed once at startup and passed by
// reference into the engine's constructors; the engine itself never consults
// the environment.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		SearchURLTemplate: DefaultSearchURL,
		UserAgent:         DefaultUserAgent,
		MaxAttempts:       DefaultMaxAttempts,
		MaxPages:          DefaultMaxPages,
		NavTimeout:        DefaultNavTimeout,
		ReadyWait:         DefaultReadyWait,
		Scroll: models.ScrollOptions{
			StepPx:   DefaultScrollStepPx,
			Interval: DefaultScrollInterval,
			MaxSteps: DefaultScrollMaxSteps,
		},
		PageRateRPS:   DefaultPageRateRPS,
		PageRateBurst: DefaultPageRateBurst,
		LinkRules: models.LinkRules{
			Selectors:         DefaultLinkSelectors,
			ExcludeSubstrings: DefaultLinkExcludes,
			RequireChildImage: true,
			Cap:               DefaultLinkCap,
		},
		AssetRules: models.AssetRules{
			MinWidth:     DefaultMinAssetWidth,
			MinHeight:    DefaultMinAssetHeight,
			LazyAttrs:    DefaultLazyAttrs,
			SniffScripts: true,
		},
		BrowserHeadless: DefaultBrowserHeadless,
		ListenAddr:      DefaultListenAddr,
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.StorageRoot = filepath.Join(home, DefaultStorageDir)
	} else {
		cfg.StorageRoot = DefaultStorageDir
	}

	// Override from environment variables
	if v := os.Getenv("GALLERYCAT_SEARCH_URL"); v != "" {
		cfg.SearchURLTemplate = v
	}
	if v := os.Getenv("GALLERYCAT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("GALLERYCAT_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("GALLERYCAT_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("GALLERYCAT_STORAGE_ROOT"); v != "" {
		cfg.StorageRoot = v
	}
	if v := os.Getenv("GALLERYCAT_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPages = n
		}
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := cmd.Flags().Lookup("search-url"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.SearchURLTemplate = s
			}
		}
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := cmd.Flags().Lookup("storage-root"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.StorageRoot = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.NavTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
		if f := cmd.Flags().Lookup("headful"); f != nil {
			if f.Value.String() == "true" {
				cfg.BrowserHeadless = false
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
