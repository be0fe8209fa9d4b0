// Package harness drives a whole test-suite run: it lists test files, scans
// their expected diagnostics, invokes the compiler under test, parses its
// output and compares the two sides, in parallel across files.
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/sync/errgroup"

	"expectest/internal/compare"
	"expectest/internal/expect"
	"expectest/internal/output"
)

// Config describes one harness run.
type Config struct {
	// Compiler is the argv prefix of the compiler under test; the test file
	// path is appended as the last argument.
	Compiler []string
	// Ext selects test files, e.g. ".sg".
	Ext string
	// Revisions lists configuration tags; each file runs once per entry.
	// Empty means a single untagged run.
	Revisions []string
	// Jobs limits parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache is optional; nil disables result caching.
	Cache *Cache
	// Files optionally pins the exact set of test files to run. When nil
	// the runner lists dir itself; callers that already listed the suite
	// (e.g. to size a progress display) pass the same snapshot here so the
	// two sides cannot diverge.
	Files []string
	// Events receives per-file completion events when non-nil. The runner
	// closes it when Run returns, on every path.
	Events chan<- Event
}

// Runner executes test files against the compiler under test.
type Runner struct {
	config Config
}

func NewRunner(config Config) *Runner {
	return &Runner{config: config}
}

// job is one (file, revision) pair scheduled for execution.
type job struct {
	path     string
	revision string
}

// Run executes every test file under dir. Per-file problems are reported in
// the results, not as an error; the returned error covers setup problems
// and context cancellation only.
func (r *Runner) Run(ctx context.Context, dir string) ([]FileResult, RunResult, error) {
	if r.config.Events != nil {
		defer close(r.config.Events)
	}

	if len(r.config.Compiler) == 0 {
		return nil, RunResult{}, errors.New("no compiler configured")
	}

	files := r.config.Files
	if files == nil {
		var err error
		files, err = ListTestFiles(dir, r.config.Ext)
		if err != nil {
			return nil, RunResult{}, err
		}
	}

	revisions := r.config.Revisions
	if len(revisions) == 0 {
		revisions = []string{""}
	}
	jobs := make([]job, 0, len(files)*len(revisions))
	for _, path := range files {
		for _, rev := range revisions {
			jobs = append(jobs, job{path: path, revision: rev})
		}
	}

	workers := r.config.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Indexed results; each goroutine writes its own slot, no mutex needed.
	results := make([]FileResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, max(len(jobs), 1)))

	for i, jb := range jobs {
		i, jb := i, jb
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = r.runOne(gctx, jb)
			if r.config.Events != nil {
				r.config.Events <- Event{Path: jb.path, Revision: jb.revision, Status: results[i].Status}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, RunResult{}, err
	}

	var total RunResult
	total.Total = len(results)
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			total.Passed++
		case StatusFail:
			total.Failed++
		case StatusBroken:
			total.Broken++
		case StatusCached:
			total.Passed++
			total.FromCache++
		}
	}
	return results, total, nil
}

// runOne executes a single (file, revision) job.
func (r *Runner) runOne(ctx context.Context, jb job) FileResult {
	res := FileResult{Path: jb.path, Revision: jb.revision}

	content, err := os.ReadFile(jb.path)
	if err != nil {
		res.Status = StatusBroken
		res.Err = err
		return res
	}

	key := Key(content, r.config.Compiler, jb.revision)
	if r.config.Cache.Lookup(key) {
		res.Status = StatusCached
		return res
	}

	expected, err := expect.ScanReader(bytes.NewReader(content), jb.revision)
	if err != nil {
		res.Status = StatusBroken
		res.Err = fmt.Errorf("%s: %w", jb.path, err)
		return res
	}

	out, err := r.invokeCompiler(ctx, jb.path)
	if err != nil {
		res.Status = StatusBroken
		res.Err = err
		return res
	}

	actual, _, err := output.Collect(bytes.NewReader(out))
	if err != nil {
		res.Status = StatusBroken
		res.Err = err
		return res
	}

	res.Result = compare.Diagnostics(expected, actual)
	if !res.Result.OK() {
		res.Status = StatusFail
		return res
	}

	res.Status = StatusPass
	if err := r.config.Cache.Store(key); err != nil {
		// A dead cache never fails a passing test.
		res.Err = err
	}
	return res
}

// invokeCompiler runs the compiler on one test file and captures combined
// output. A non-zero exit with output is the normal shape of a failing
// compile and is not an error.
func (r *Runner) invokeCompiler(ctx context.Context, path string) ([]byte, error) {
	argv := append(append([]string(nil), r.config.Compiler...), path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to run compiler on %s: %w", path, err)
	}
	return out, nil
}
