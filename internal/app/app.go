// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gallerycat/gallerycat/internal/browser"
	"github.com/gallerycat/gallerycat/internal/config"
	"github.com/gallerycat/gallerycat/internal/gallery"
	"github.com/gallerycat/gallerycat/internal/ratelimit"
	"github.com/gallerycat/gallerycat/internal/scrape"
	"github.com/gallerycat/gallerycat/internal/store"
)

// Application holds all dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
type Application struct {
	Config       *config.Config
	Logger       *zerolog.Logger
	Store        *store.FileStore
	RateLimiter  *ratelimit.DomainLimiter
	Resolver     *gallery.Resolver
	Collector    *gallery.Collector
	Orchestrator *scrape.Orchestrator
	startTime    time.Time
}

// New creates and initializes an Application: logging, the durable catalog
// store, the rate limiter, and the scraping engine wired to real browser
// sessions. If any step fails, an error is returned and no resources are
// left allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	fileStore, err := store.NewFileStore(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog store: %w", err)
	}
	logger.Debug().Str("root", fileStore.Root()).Msg("Catalog store initialized")

	rateLimiter := ratelimit.NewDomainLimiter(cfg.PageRateRPS, cfg.PageRateBurst)
	logger.Debug().
		Float64("rps", cfg.PageRateRPS).
		Int("burst", cfg.PageRateBurst).
		Msg("Rate limiter initialized")

	resolver := gallery.NewResolver(
		cfg.SearchURLTemplate,
		cfg.NavTimeout,
		cfg.ReadyWait,
		cfg.Scroll,
		cfg.LinkRules,
	)
	collector := gallery.NewCollector(
		cfg.MaxPages,
		cfg.NavTimeout,
		cfg.ReadyWait,
		cfg.Scroll,
		cfg.AssetRules,
		rateLimiter,
	)

	// Probe for Chrome once at startup so a missing binary is reported
	// before the first scrape, not inside it.
	if path := browser.FindChrome(cfg.ChromePath); path != "" {
		logger.Debug().Str("path", path).Msg("Chrome binary detected")
	}

	browserCfg := browser.Config{
		ChromePath: cfg.ChromePath,
		Headless:   cfg.BrowserHeadless,
		UserAgent:  cfg.UserAgent,
		Proxy:      cfg.Proxy,
	}
	sessions := func(ctx context.Context) (browser.Navigator, error) {
		return browser.Launch(browserCfg)
	}

	orchestrator := scrape.New(fileStore, sessions, resolver, collector, cfg.MaxAttempts)
	logger.Debug().Int("max_attempts", cfg.MaxAttempts).Int("max_pages", cfg.MaxPages).Msg("Scrape engine initialized")

	app := &Application{
		Config:       cfg,
		Logger:       &logger,
		Store:        fileStore,
		RateLimiter:  rateLimiter,
		Resolver:     resolver,
		Collector:    collector,
		Orchestrator: orchestrator,
		startTime:    time.Now(),
	}

	logger.Debug().Msg("Application initialized successfully")
	return app, nil
}

// Uptime reports how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

// Close shuts down the application. Browser sessions are owned by
// individual scrape attempts and are already closed by the time this
// runs.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}
