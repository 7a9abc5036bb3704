package xunit

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"osptest/internal/domain"
)

type runnerState int

const (
	stateIdle runnerState = iota
	stateRunning
	stateFinished
)

// event is one unit of work of the runner loop
type event int

const (
	eventNext event = iota
)

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger of the runner
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) { r.log = log }
}

// WithFailFast stops the run after the first failed or errored case
func WithFailFast(failFast bool) Option {
	return func(r *Runner) { r.failFast = failFast }
}

// WithName names the runner in log lines
func WithName(name string) Option {
	return func(r *Runner) { r.name = name }
}

// Runner drives its suites on a dedicated goroutine, one case per unit of
// work. Stop is checked between units; an in-flight case always finishes.
type Runner struct {
	name     string
	log      *zap.SugaredLogger
	failFast bool

	mu        sync.Mutex
	state     runnerState
	suites    []*TestSuite
	listeners []Listener
	done      chan struct{}
	stop      atomic.Bool
}

// NewRunner creates an idle runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		name: "runner",
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Name() string { return r.name }

// AddTestSuite takes ownership of s
func (r *Runner) AddTestSuite(s *TestSuite) error {
	return r.AddTestSuites(s)
}

// AddTestSuites takes ownership of suites, run in the order added
func (r *Runner) AddTestSuites(suites ...*TestSuite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == stateRunning {
		return fmt.Errorf("%w: cannot add suites to a running runner", ErrInvalidState)
	}
	r.suites = append(r.suites, suites...)
	return nil
}

// AddTest adds a single case wrapped in a suite named after it
func (r *Runner) AddTest(tc *TestCase) error {
	s := NewTestSuite(tc.Name())
	s.AddTestCase(tc)
	return r.AddTestSuite(s)
}

// Suites returns the suites queued on the runner
func (r *Runner) Suites() []*TestSuite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.suites)
}

// AddListener registers l for future notifications
func (r *Runner) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// RemoveListener unregisters l
func (r *Runner) RemoveListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = slices.DeleteFunc(r.listeners, func(x Listener) bool { return x == l })
}

// Start begins draining the suites into result and returns immediately.
// Cancelling ctx has the same effect as Stop.
func (r *Runner) Start(ctx context.Context, result *TestResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil test result", ErrInvalidState)
	}
	r.mu.Lock()
	if r.state == stateRunning {
		r.mu.Unlock()
		return fmt.Errorf("%w: runner %s is already running", ErrInvalidState, r.name)
	}
	r.state = stateRunning
	r.stop.Store(false)
	r.done = make(chan struct{})
	suites := slices.Clone(r.suites)
	done := r.done
	r.mu.Unlock()

	relay := &relay{runner: r}
	result.AddListener(relay)
	r.log.Debugw("runner started", "runner", r.name, "suites", len(suites), "runID", result.RunID())

	go r.loop(ctx, result, suites, relay, done)
	return nil
}

// Stop requests cooperative cancellation. It fails with ErrInvalidState if
// the runner was never started and is a no-op once the run has finished.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case stateIdle:
		return fmt.Errorf("%w: runner %s was not started", ErrInvalidState, r.name)
	case stateFinished:
		return nil
	}
	r.stop.Store(true)
	return nil
}

// Done is closed when the current run finishes. It is nil before Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Wait blocks until the current run finishes
func (r *Runner) Wait() error {
	done := r.Done()
	if done == nil {
		return fmt.Errorf("%w: runner %s was not started", ErrInvalidState, r.name)
	}
	<-done
	return nil
}

// Running reports whether the runner goroutine is active
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRunning
}

func (r *Runner) stopped(ctx context.Context) bool {
	if r.stop.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (r *Runner) loop(ctx context.Context, result *TestResult, suites []*TestSuite, relay *relay, done chan struct{}) {
	start := time.Now()
	ordinal := 0
	index := func() int {
		i := ordinal
		ordinal++
		return i
	}

	events := make(chan event, 1)
	events <- eventNext

	var cur *suiteRun
	pos := 0
	for range events {
		if r.stopped(ctx) {
			r.log.Infow("runner stopped", "runner", r.name, "remainingSuites", len(suites)-pos)
			r.drop(cur, result, suites[pos:], index)
			break
		}
		if cur == nil {
			if pos == len(suites) {
				break
			}
			cur = newSuiteRun(suites[pos], result)
			cur.index = index
			pos++
			cur.begin()
		}
		if !cur.next() {
			cur.end()
			cur = nil
		}
		events <- eventNext
	}

	r.log.Debugw("runner finished", "runner", r.name, "elapsed", time.Since(start),
		"runs", result.NumberOfRuns(), "failures", result.NumberOfFailures(), "errors", result.NumberOfErrors())
	result.runFinished()
	result.RemoveListener(relay)

	r.mu.Lock()
	r.state = stateFinished
	r.mu.Unlock()
	close(done)
}

// drop records the queued cases as not run, the current suite first
func (r *Runner) drop(cur *suiteRun, result *TestResult, rest []*TestSuite, index func() int) {
	if cur != nil {
		cur.abort(ReasonStopped)
		cur.end()
	}
	for _, s := range rest {
		run := newSuiteRun(s, result)
		run.index = index
		run.begin()
		run.abort(ReasonStopped)
		run.end()
	}
}

func (r *Runner) snapshot() []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.listeners)
}

// relay forwards the events of the result to the runner's own listeners
// and applies fail-fast.
type relay struct {
	runner *Runner
}

func (l *relay) SuiteStarted(name string, cases int) {
	l.runner.log.Debugw("suite started", "runner", l.runner.name, "suite", name, "cases", cases)
	for _, x := range l.runner.snapshot() {
		x.SuiteStarted(name, cases)
	}
}

func (l *relay) CaseCompleted(rec domain.CaseRecord) {
	if rec.Outcome == domain.OutcomeFail || rec.Outcome == domain.OutcomeError {
		l.runner.log.Debugw("case failed", "runner", l.runner.name, "case", rec.FullName(),
			"outcome", rec.Outcome.String(), "message", rec.Message)
		if l.runner.failFast {
			l.runner.stop.Store(true)
		}
	}
	for _, x := range l.runner.snapshot() {
		x.CaseCompleted(rec)
	}
}

func (l *relay) SuiteFinished(name string, elapsed time.Duration) {
	for _, x := range l.runner.snapshot() {
		x.SuiteFinished(name, elapsed)
	}
}

func (l *relay) RunFinished(result *TestResult) {
	for _, x := range l.runner.snapshot() {
		x.RunFinished(result)
	}
}
