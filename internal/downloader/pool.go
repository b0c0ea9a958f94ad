package downloader

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gallerycat/gallerycat/pkg/models"
)

// WorkerPool downloads a catalog with bounded concurrency.
type WorkerPool struct {
	downloader  *Downloader
	concurrency int
}

// NewWorkerPool creates a pool with the given worker count, clamped to a
// sane range.
func NewWorkerPool(concurrency int, timeout time.Duration, userAgent string) *WorkerPool {
	if concurrency <= 0 {
		concurrency = 5
	}
	if concurrency > 50 {
		concurrency = 50
	}

	return &WorkerPool{
		downloader:  NewDownloader(timeout, userAgent),
		concurrency: concurrency,
	}
}

// DownloadBatch fetches every catalog entry concurrently and returns one
// result per entry, in completion order.
func (wp *WorkerPool) DownloadBatch(ctx context.Context, entries []models.CatalogEntry, opts Options) []*Result {
	if len(entries) == 0 {
		return []*Result{}
	}

	jobs := make(chan models.CatalogEntry, len(entries))
	results := make(chan *Result, len(entries))

	var wg sync.WaitGroup
	for w := 1; w <= wp.concurrency; w++ {
		wg.Add(1)
		go wp.worker(ctx, w, jobs, results, opts, &wg)
	}

	go func() {
		for _, entry := range entries {
			jobs <- entry
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	allResults := make([]*Result, 0, len(entries))
	for result := range results {
		allResults = append(allResults, result)
	}

	return allResults
}

func (wp *WorkerPool) worker(ctx context.Context, id int, jobs <-chan models.CatalogEntry, results chan<- *Result, opts Options, wg *sync.WaitGroup) {
	defer wg.Done()

	for entry := range jobs {
		select {
		case <-ctx.Done():
			log.Debug().Int("worker_id", id).Msg("Worker cancelled")
			return
		default:
		}

		result := wp.downloader.Download(ctx, entry, opts)

		select {
		case results <- result:
		case <-ctx.Done():
			return
		}
	}
}
