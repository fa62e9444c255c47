package pagination

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPageSize is the per-page item count used when the caller passes 0.
const DefaultPageSize = 1000

// IndexedPage is one page of a totalResults/startIndex style listing.
type IndexedPage[T any] struct {
	// Items on this page.
	Items []T

	// Total is the totalResults value the remote reported, 0 if absent.
	Total int
}

// IndexedPageFunc fetches the page starting at the 1-based startIndex.
type IndexedPageFunc[T any] func(ctx context.Context, startIndex, count int) (IndexedPage[T], error)

// CollectIndexed walks an indexed listing sequentially and returns all
// items. When the remote never reports a total, traversal stops after the
// first page rather than looping blind.
func CollectIndexed[T any](ctx context.Context, fetch IndexedPageFunc[T], count int) ([]T, error) {
	if count <= 0 {
		count = DefaultPageSize
	}

	var out []T
	startIndex := 1
	for {
		page, err := fetch(ctx, startIndex, count)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)

		if page.Total <= 0 || len(out) >= page.Total || len(page.Items) == 0 {
			return out, nil
		}
		startIndex += count
	}
}

// BatchConfig holds batch pager configuration.
type BatchConfig struct {
	// MaxConcurrency is the maximum number of parallel page fetches.
	MaxConcurrency int

	// Timeout per page fetch.
	Timeout time.Duration
}

// DefaultBatchConfig returns a conservative default. Each fetch still runs
// under the dispatcher's pacing, so a small pool is plenty.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// BatchPager fetches the pages of an indexed listing with a bounded worker
// pool: the first page reveals the total, the remaining pages are
// distributed across workers, and the merged result preserves page order.
type BatchPager[T any] struct {
	fetch  IndexedPageFunc[T]
	config BatchConfig
}

// NewBatchPager creates a batch pager over fetch.
func NewBatchPager[T any](fetch IndexedPageFunc[T], config BatchConfig) *BatchPager[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &BatchPager[T]{fetch: fetch, config: config}
}

type indexedResult[T any] struct {
	startIndex int
	items      []T
}

// CollectAll fetches every page and returns the items in page order.
// Any page failure fails the whole collection.
func (bp *BatchPager[T]) CollectAll(ctx context.Context, count int) ([]T, error) {
	if count <= 0 {
		count = DefaultPageSize
	}

	start := time.Now()

	first, err := bp.fetch(ctx, 1, count)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}
	if first.Total <= 0 || len(first.Items) >= first.Total || len(first.Items) == 0 {
		return first.Items, nil
	}

	// Remaining 1-based page offsets.
	var starts []int
	for idx := 1 + count; idx <= first.Total; idx += count {
		starts = append(starts, idx)
	}

	log.Debug().
		Int("total", first.Total).
		Int("pages", len(starts)+1).
		Int("workers", bp.config.MaxConcurrency).
		Msg("Starting batch page fetch")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int, len(starts))
	for _, idx := range starts {
		queue <- idx
	}
	close(queue)

	results := make(chan indexedResult[T], len(starts))
	errs := make(chan error, bp.config.MaxConcurrency)

	var wg sync.WaitGroup
	for w := 0; w < bp.config.MaxConcurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pageCtx, pageCancel := context.WithTimeout(ctx, bp.config.Timeout)
				page, fetchErr := bp.fetch(pageCtx, idx, count)
				pageCancel()

				if fetchErr != nil {
					select {
					case errs <- fmt.Errorf("fetch page at index %d: %w", idx, fetchErr):
					default:
					}
					cancel()
					return
				}
				results <- indexedResult[T]{startIndex: idx, items: page.Items}
			}
		}()
	}

	wg.Wait()
	close(results)
	close(errs)

	if workerErr := <-errs; workerErr != nil {
		return nil, workerErr
	}

	pages := make([]indexedResult[T], 0, len(starts)+1)
	pages = append(pages, indexedResult[T]{startIndex: 1, items: first.Items})
	for res := range results {
		pages = append(pages, res)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].startIndex < pages[j].startIndex
	})

	out := make([]T, 0, first.Total)
	for _, page := range pages {
		out = append(out, page.items...)
	}

	log.Debug().
		Int("items", len(out)).
		Int("pages", len(pages)).
		Dur("duration", time.Since(start)).
		Msg("Batch page fetch complete")

	return out, nil
}
