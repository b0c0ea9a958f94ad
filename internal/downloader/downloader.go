// Package downloader fetches catalog assets to local files with streaming
// I/O and a bounded worker pool.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gallerycat/gallerycat/internal/retry"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// Result records the outcome of one asset download.
type Result struct {
	Entry    models.CatalogEntry
	FilePath string
	Size     int64
	Success  bool
	Error    error
	Duration time.Duration
}

// Options configures a download batch.
type Options struct {
	OutputDir string
	Timeout   time.Duration
	UserAgent string
}

// DownloadError carries the HTTP status of a failed fetch so the retry
// policy can classify it.
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed with status %d", e.URL, e.StatusCode)
}

func (e *DownloadError) GetStatusCode() int {
	return e.StatusCode
}

// Downloader fetches single assets over HTTP.
type Downloader struct {
	client    *http.Client
	userAgent string
	retryCfg  retry.Config
}

// NewDownloader creates a Downloader with connection pooling tuned for
// many small image fetches against one host.
func NewDownloader(timeout time.Duration, userAgent string) *Downloader {
	if userAgent == "" {
		userAgent = "GalleryCat/1.0 (https://github.com/gallerycat/gallerycat)"
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	cfg := retry.DefaultConfig()
	cfg.InitialBackoff = 500 * time.Millisecond

	return &Downloader{
		client:    client,
		userAgent: userAgent,
		retryCfg:  cfg,
	}
}

// Download fetches one catalog entry to opts.OutputDir using the entry's
// catalog name as the file name. Transient HTTP failures are retried.
func (d *Downloader) Download(ctx context.Context, entry models.CatalogEntry, opts Options) *Result {
	start := time.Now()
	result := &Result{Entry: entry}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		result.Error = fmt.Errorf("failed to create output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	filename := sanitizeFilename(entry.Name)
	if filename == "" {
		filename = fmt.Sprintf("image_%d", entry.ID)
	}
	filePath := filepath.Join(opts.OutputDir, filename)
	result.FilePath = filePath

	err := retry.WithRetry(ctx, d.retryCfg, func() error {
		return d.fetch(ctx, entry.URL, filePath, result)
	})
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	log.Debug().
		Str("url", entry.URL).
		Str("file", filePath).
		Int64("bytes", result.Size).
		Dur("duration", result.Duration).
		Msg("Download completed")

	return result
}

func (d *Downloader) fetch(ctx context.Context, fileURL, filePath string, result *Result) error {
	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: fileURL, StatusCode: resp.StatusCode}
	}

	outFile, err := os.Create(filePath)
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to create file: %w", err))
	}
	defer outFile.Close()

	bytesWritten, err := io.Copy(outFile, resp.Body)
	if err != nil {
		os.Remove(filePath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	result.Size = bytesWritten
	return nil
}

// sanitizeFilename strips path separators and other characters that could
// escape the output directory.
func sanitizeFilename(input string) string {
	for _, bad := range []string{"/", "\\", "..", ":", "*", "?", "\"", "<", ">", "|"} {
		input = strings.ReplaceAll(input, bad, "_")
	}
	input = strings.TrimSpace(input)
	input = strings.Trim(input, ".")
	if len(input) > 200 {
		input = input[:200]
	}
	return input
}
