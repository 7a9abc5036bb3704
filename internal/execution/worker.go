package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"osptest/internal/domain"
	"osptest/internal/xunit"
)

// WorkerPool runs suites on several xunit runners at once. Each runner
// owns its own TestResult; the results are merged once all have finished.
type WorkerPool struct {
	project   string
	runners   int
	failFast  bool
	scheduler Scheduler
	log       *zap.SugaredLogger
	listeners []xunit.Listener
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(project string, runners int, scheduler Scheduler, log *zap.SugaredLogger) *WorkerPool {
	if runners <= 0 {
		runners = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WorkerPool{
		project:   project,
		runners:   runners,
		scheduler: scheduler,
		log:       log,
	}
}

// SetFailFast stops every runner after the first failed or errored case
func (wp *WorkerPool) SetFailFast(failFast bool) {
	wp.failFast = failFast
}

// AddListener registers l on every runner. l must be safe for concurrent use.
func (wp *WorkerPool) AddListener(l xunit.Listener) {
	wp.listeners = append(wp.listeners, l)
}

// Execute executes suites in parallel and returns the merged result
func (wp *WorkerPool) Execute(ctx context.Context, suites []*xunit.TestSuite) (*xunit.TestResult, time.Duration, error) {
	startTime := time.Now()
	if len(suites) == 0 {
		return xunit.NewTestResult(wp.project), 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	listeners := wp.listeners
	if wp.failFast {
		// one runner failing stops the others too
		listeners = append(listeners[:len(listeners):len(listeners)], &cancelOnFailure{cancel: cancel})
	}

	var buckets [][]*xunit.TestSuite
	for _, bucket := range wp.scheduler.Schedule(suites, wp.runners) {
		if len(bucket) > 0 {
			buckets = append(buckets, bucket)
		}
	}
	wp.log.Infow("executing suites", "suites", len(suites), "runners", len(buckets), "failFast", wp.failFast)

	results := make([]*xunit.TestResult, len(buckets))
	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, bucket := range buckets {
		bucket := bucket
		runnerID := i + 1
		g.Go(func() error {
			runner, err := wp.newRunner(runnerID, bucket, listeners)
			if err == nil {
				results[runnerID-1] = xunit.NewTestResult(wp.project)
				err = runner.Start(gctx, results[runnerID-1])
			}
			if err == nil {
				err = runner.Wait()
			}
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	merged := xunit.MergeResults(wp.project, results...)
	elapsed := time.Since(startTime)
	wp.log.Infow("suites executed", "elapsed", elapsed,
		"runs", merged.NumberOfRuns(), "failures", merged.NumberOfFailures(), "errors", merged.NumberOfErrors())
	if err := errs.ErrorOrNil(); err != nil {
		return merged, elapsed, fmt.Errorf("runner pool: %w", err)
	}
	return merged, elapsed, nil
}

type cancelOnFailure struct {
	xunit.NopListener
	cancel context.CancelFunc
}

func (l *cancelOnFailure) CaseCompleted(rec domain.CaseRecord) {
	if rec.Outcome == domain.OutcomeFail || rec.Outcome == domain.OutcomeError {
		l.cancel()
	}
}
