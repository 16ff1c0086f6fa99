package main

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// FileResult holds the outcome of processing a single file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Output     string // formatted markdown, tree dump, or HTML
	Changed    bool   // formatting differs from the input
	Unstable   bool   // a second formatting pass differs from the first
	Err        error
	Duration   time.Duration
}

// processFunc handles one file. It must be safe for concurrent use.
type processFunc func(ctx context.Context, f FileToProcess) FileResult

// processBatch runs process over files on a bounded worker pool.
// Results keep the order of files. Files not started when ctx is canceled
// report ctx.Err().
func processBatch(ctx context.Context, workers int, files []FileToProcess, process processFunc) []FileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]FileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = FileResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = process(ctx, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// ResultSummary tallies a batch.
type ResultSummary struct {
	Succeeded int
	Changed   int
	Unstable  int
	Failed    int
	FirstErr  error
}

// countResults tallies succeeded, changed, unstable and failed files.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
			if summary.FirstErr == nil {
				summary.FirstErr = r.Err
			}
			continue
		case r.Unstable:
			summary.Unstable++
		default:
			summary.Succeeded++
		}
		if r.Changed {
			summary.Changed++
		}
	}
	return summary
}

// resolvePoolSize determines the worker count.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
