package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/specgen/internal/codegen"
	"github.com/bartekus/specgen/pkg/spec"
)

var (
	// ErrRunFailed is returned when at least one record failed to generate.
	ErrRunFailed = errors.New("run failed")
	// ErrRunInterrupted is returned when cancellation left records unattempted.
	ErrRunInterrupted = errors.New("run interrupted")
	// ErrRecordNotFound is returned when a requested record key is unknown.
	ErrRecordNotFound = errors.New("record not found")
)

// Options configures a Runner.
type Options struct {
	// Concurrency bounds parallel generation requests (default 1).
	Concurrency int
	// Source names the document the records came from.
	Source string
	// Progress is called once per finished record. Calls are serialized.
	Progress func(RecordResult)
	Logger   *zap.Logger
}

// Report is the outcome of one run.
type Report struct {
	Run     LastRun
	Results []RecordResult // document order
}

// Runner generates code for records and records the outcome.
type Runner struct {
	gen   codegen.Generator
	store *StateStore
	opts  Options

	progressMu sync.Mutex
}

// NewRunner creates a runner that generates with gen and persists to store.
func NewRunner(gen codegen.Generator, store *StateStore, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{gen: gen, store: store, opts: opts}
}

// RunAll generates every record.
// It continues past failures, which only affect their own record.
// Returns an error wrapping ErrRunFailed if ANY record failed, or
// ErrRunInterrupted if ctx was cancelled before every record ran.
func (r *Runner) RunAll(ctx context.Context, records []spec.Record) (*Report, error) {
	return r.execute(ctx, keyed(records))
}

// RunList generates the records with the given keys in the order given.
// A key is the record name, suffixed for repeated names (see RecordKeys).
func (r *Runner) RunList(ctx context.Context, records []spec.Record, keys []string) (*Report, error) {
	all := keyed(records)
	toRun := make([]job, 0, len(keys))
	for _, key := range keys {
		j, ok := findJob(all, key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
		}
		toRun = append(toRun, j)
	}
	return r.execute(ctx, toRun)
}

// Resume regenerates only the records that failed or were skipped in the
// last run. Records no longer present in the document are dropped. With
// nothing to resume it returns an empty report and no error.
func (r *Runner) Resume(ctx context.Context, records []spec.Record) (*Report, error) {
	pending, err := r.store.LoadFailed()
	if err != nil {
		return nil, fmt.Errorf("loading failed records: %w", err)
	}
	if len(pending) == 0 {
		r.opts.Logger.Info("no failed records to resume")
		return &Report{}, nil
	}

	all := keyed(records)
	var toRun []job
	for _, key := range pending {
		j, ok := findJob(all, key)
		if !ok {
			r.opts.Logger.Warn("failed record no longer in document", zap.String("record", key))
			continue
		}
		toRun = append(toRun, j)
	}
	return r.execute(ctx, toRun)
}

type job struct {
	key string
	rec spec.Record
}

func keyed(records []spec.Record) []job {
	keys := RecordKeys(records)
	jobs := make([]job, len(records))
	for i, rec := range records {
		jobs[i] = job{key: keys[i], rec: rec}
	}
	return jobs
}

func findJob(jobs []job, key string) (job, bool) {
	for _, j := range jobs {
		if j.key == key {
			return j, true
		}
	}
	return job{}, false
}

// execute generates records concurrently and persists every result.
// Results keep document order regardless of completion order.
func (r *Runner) execute(ctx context.Context, jobs []job) (*Report, error) {
	results := make([]RecordResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			res := r.generate(ctx, j)
			results[i] = res
			if err := r.store.WriteResult(res); err != nil {
				return fmt.Errorf("writing result for %s: %w", j.key, err)
			}
			r.report(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := LastRun{
		RunID:   uuid.NewString(),
		Status:  RunPass,
		Source:  r.opts.Source,
		Records: make([]string, 0, len(results)),
		Failed:  []string{},
	}
	for _, res := range results {
		run.Records = append(run.Records, res.Key)
		switch res.Status {
		case StatusFail:
			run.Failed = append(run.Failed, res.Key)
		case StatusSkip:
			run.Skipped = append(run.Skipped, res.Key)
		}
	}
	switch {
	case len(run.Skipped) > 0:
		run.Status = RunInterrupted
	case len(run.Failed) > 0:
		run.Status = RunFail
	}

	if err := r.store.WriteLastRun(run); err != nil {
		return nil, fmt.Errorf("writing last run: %w", err)
	}

	report := &Report{Run: run, Results: results}
	switch {
	case len(run.Skipped) > 0:
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		return report, fmt.Errorf("%w: %d record(s) skipped: %w", ErrRunInterrupted, len(run.Skipped), cause)
	case len(run.Failed) > 0:
		return report, fmt.Errorf("%w: %v", ErrRunFailed, run.Failed)
	}
	return report, nil
}

func (r *Runner) generate(ctx context.Context, j job) RecordResult {
	rec := j.rec
	res := RecordResult{Key: j.key, Record: rec.Name, Provider: r.gen.Name()}
	log := r.opts.Logger.With(zap.String("record", j.key))

	if err := ctx.Err(); err != nil {
		res.Status = StatusSkip
		res.Error = err.Error()
		log.Debug("skipping record", zap.Error(err))
		return res
	}

	start := time.Now()
	code, err := r.gen.Generate(ctx, rec)
	res.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		res.Status = StatusFail
		res.Error = err.Error()
		log.Warn("generation failed", zap.Error(err))
		return res
	}

	res.Status = StatusPass
	res.Code = code
	log.Debug("generation succeeded", zap.Int64("duration_ms", res.DurationMS))
	return res
}

func (r *Runner) report(res RecordResult) {
	if r.opts.Progress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.opts.Progress(res)
}
