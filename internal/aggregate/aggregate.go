// Package aggregate runs history walks across many repositories with
// bounded concurrency and merges the results.
package aggregate

import (
	"context"
	"path/filepath"

	"github.com/depadopt/depadopt/internal/timeline"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of repositories processed in
// parallel.
const DefaultConcurrency = 4

// RepoResult is the outcome of walking one repository. A failed repository
// carries Err and is excluded from aggregate statistics; it never aborts
// the run.
type RepoResult struct {
	Repository string
	Path       string
	Timeline   timeline.Timeline
	Err        error
}

// Failed reports whether this repository's walk failed.
func (r RepoResult) Failed() bool {
	return r.Err != nil
}

// RunFunc walks a single repository and returns its timeline.
type RunFunc func(ctx context.Context, repoPath string) (timeline.Timeline, error)

// Options configures a multi-repo run.
type Options struct {
	// Concurrency bounds the number of repositories processed at once.
	// 1 disables parallelism (sequential diagnostic mode).
	Concurrency int
}

// Process walks all repositories and returns one result per input path, in
// input order. Workers share no mutable state: each writes only its own
// result slot, and results are read after every worker completes.
func Process(ctx context.Context, repoPaths []string, run RunFunc, opts Options) []RepoResult {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]RepoResult, len(repoPaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range repoPaths {
		g.Go(func() error {
			tl, err := run(ctx, path)
			results[i] = RepoResult{
				Repository: filepath.Base(path),
				Path:       path,
				Timeline:   tl,
				Err:        err,
			}
			return nil
		})
	}

	// Workers never return errors; failures are per-result.
	_ = g.Wait()

	return results
}

// Errors returns the failed results.
func Errors(results []RepoResult) []RepoResult {
	var failed []RepoResult
	for _, res := range results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// TotalChanges sums the event counts of all successful results.
func TotalChanges(results []RepoResult) int {
	total := 0
	for _, res := range results {
		if !res.Failed() {
			total += len(res.Timeline.Events)
		}
	}
	return total
}
