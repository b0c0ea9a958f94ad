package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gallerycat/gallerycat/pkg/models"
)

func fastDownloader() *Downloader {
	d := NewDownloader(5*time.Second, "test-agent")
	d.retryCfg.InitialBackoff = time.Millisecond
	d.retryCfg.MaxBackoff = 5 * time.Millisecond
	return d
}

func TestDownloadWritesCatalogName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("expected test-agent user agent, got %s", got)
		}
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	entry := models.CatalogEntry{ID: 1, Name: "image_1.jpg", URL: server.URL + "/a.jpg"}

	result := fastDownloader().Download(context.Background(), entry, Options{OutputDir: dir})
	if !result.Success {
		t.Fatalf("download failed: %v", result.Error)
	}
	if result.Size != int64(len("image-bytes")) {
		t.Errorf("expected %d bytes, got %d", len("image-bytes"), result.Size)
	}

	data, err := os.ReadFile(filepath.Join(dir, "image_1.jpg"))
	if err != nil {
		t.Fatalf("expected file named after the catalog entry: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestDownloadNotFoundIsNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	entry := models.CatalogEntry{ID: 1, Name: "image_1.jpg", URL: server.URL + "/gone.jpg"}
	result := fastDownloader().Download(context.Background(), entry, Options{OutputDir: t.TempDir()})

	if result.Success {
		t.Fatal("expected failure for 404")
	}
	var dlErr *DownloadError
	if !errors.As(result.Error, &dlErr) || dlErr.StatusCode != 404 {
		t.Fatalf("expected DownloadError with 404, got %v", result.Error)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("404 should not be retried, server saw %d requests", n)
	}
}

func TestDownloadRetriesTransientFailure(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	entry := models.CatalogEntry{ID: 1, Name: "image_1.jpg", URL: server.URL + "/flaky.jpg"}
	result := fastDownloader().Download(context.Background(), entry, Options{OutputDir: t.TempDir()})

	if !result.Success {
		t.Fatalf("expected success after retry: %v", result.Error)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected 2 requests, got %d", n)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"image_1.jpg", "image_1.jpg"},
		{"../../etc/passwd", "____etc_passwd"},
		{"a/b\\c.jpg", "a_b_c.jpg"},
		{"  spaced.png  ", "spaced.png"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDownloadBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	entries := make([]models.CatalogEntry, 8)
	for i := range entries {
		entries[i] = models.CatalogEntry{
			ID:   i + 1,
			Name: fmt.Sprintf("image_%d.jpg", i+1),
			URL:  server.URL + "/img.jpg",
		}
	}

	dir := t.TempDir()
	pool := NewWorkerPool(3, 5*time.Second, "test-agent")
	results := pool.DownloadBatch(context.Background(), entries, Options{OutputDir: dir})

	if len(results) != len(entries) {
		t.Fatalf("expected %d results, got %d", len(entries), len(results))
	}
	for _, result := range results {
		if !result.Success {
			t.Errorf("download of %s failed: %v", result.Entry.URL, result.Error)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	if len(files) != len(entries) {
		t.Errorf("expected %d files on disk, got %d", len(entries), len(files))
	}
}
