package xunit

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"osptest/internal/assert"
	"osptest/internal/domain"
	"osptest/internal/report"
)

// DefaultSuiteName groups cases executed outside of any suite
const DefaultSuiteName = "Default"

type suiteSpan struct {
	name    string
	elapsed time.Duration
	cases   []int
}

// TestResult is the sink of all outcomes of one run. Records are only
// added through TestCase, TestSuite and Runner execution; counts are
// derived from the record index lists.
type TestResult struct {
	mu sync.Mutex

	project  string
	runID    string
	started  time.Time
	register *assert.Register

	records       []domain.CaseRecord
	successes     []int
	failures      []int
	errors        []int
	notRun        []int
	fixtureErrors []domain.FixtureError
	declared      int

	spans        []*suiteSpan
	inSuite      bool
	currentSuite string
	currentCase  string

	listeners []Listener
}

// NewTestResult creates an empty result for project with a fresh run id
func NewTestResult(project string) *TestResult {
	return &TestResult{
		project:  project,
		runID:    uuid.NewString(),
		started:  time.Now(),
		register: assert.NewRegister(),
	}
}

func (r *TestResult) Project() string { return r.project }
func (r *TestResult) RunID() string   { return r.runID }

// Register returns the assertion register cases of this result write into
func (r *TestResult) Register() *assert.Register { return r.register }

// AddListener registers l for future notifications
func (r *TestResult) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// RemoveListener unregisters l; notifications already dispatched are unaffected
func (r *TestResult) RemoveListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = slices.DeleteFunc(r.listeners, func(x Listener) bool { return x == l })
}

func (r *TestResult) notify(fn func(Listener)) {
	r.mu.Lock()
	ls := slices.Clone(r.listeners)
	r.mu.Unlock()
	for _, l := range ls {
		fn(l)
	}
}

func (r *TestResult) beginSuite(name string, cases int) {
	r.mu.Lock()
	r.spans = append(r.spans, &suiteSpan{name: name})
	r.inSuite = true
	r.currentSuite = name
	r.declared += cases
	r.mu.Unlock()
	r.notify(func(l Listener) { l.SuiteStarted(name, cases) })
}

func (r *TestResult) endSuite(elapsed time.Duration) {
	r.mu.Lock()
	name := r.currentSuite
	if n := len(r.spans); n > 0 {
		r.spans[n-1].elapsed = elapsed
	}
	r.inSuite = false
	r.currentSuite = ""
	r.currentCase = ""
	r.mu.Unlock()
	r.notify(func(l Listener) { l.SuiteFinished(name, elapsed) })
}

func (r *TestResult) caseStarted(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentCase = name
}

// addTestResult files rec under its outcome and forwards it to the listeners
func (r *TestResult) addTestResult(rec domain.CaseRecord) domain.CaseRecord {
	switch rec.Outcome {
	case domain.OutcomeSuccess:
		return r.addSuccess(rec)
	case domain.OutcomeFail:
		return r.addFailure(rec)
	case domain.OutcomeError:
		return r.addError(rec)
	default:
		return r.addRecord(rec, &r.notRun)
	}
}

func (r *TestResult) addSuccess(rec domain.CaseRecord) domain.CaseRecord {
	return r.addRecord(rec, &r.successes)
}

func (r *TestResult) addFailure(rec domain.CaseRecord) domain.CaseRecord {
	return r.addRecord(rec, &r.failures)
}

func (r *TestResult) addError(rec domain.CaseRecord) domain.CaseRecord {
	return r.addRecord(rec, &r.errors)
}

// addNotRun records tc as not executed for reason
func (r *TestResult) addNotRun(tc *TestCase, index int, reason string) domain.CaseRecord {
	tc.outcome = domain.OutcomeNotRun
	tc.elapsed = 0
	return r.addRecord(domain.CaseRecord{
		Index:    index,
		Name:     tc.name,
		Outcome:  domain.OutcomeNotRun,
		Message:  reason,
		FilePath: tc.filePath,
		LineNum:  tc.lineNum,
	}, &r.notRun)
}

func (r *TestResult) addTestFixtureError(suite, fixture, phase string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixtureErrors = append(r.fixtureErrors, domain.FixtureError{
		Suite:   suite,
		Fixture: fixture,
		Phase:   phase,
		Message: err.Error(),
	})
}

func (r *TestResult) addRecord(rec domain.CaseRecord, list *[]int) domain.CaseRecord {
	r.mu.Lock()
	if !r.inSuite {
		// a case executed on its own counts towards the declared total
		r.declared++
		if n := len(r.spans); n == 0 || r.spans[n-1].name != DefaultSuiteName {
			r.spans = append(r.spans, &suiteSpan{name: DefaultSuiteName})
		}
		r.spans[len(r.spans)-1].elapsed += rec.Elapsed
		rec.Suite = DefaultSuiteName
	} else {
		rec.Suite = r.currentSuite
	}
	pos := len(r.records)
	if rec.Index < 0 {
		rec.Index = pos
	}
	r.records = append(r.records, rec)
	*list = append(*list, pos)
	span := r.spans[len(r.spans)-1]
	span.cases = append(span.cases, pos)
	r.currentCase = ""
	r.mu.Unlock()

	r.notify(func(l Listener) { l.CaseCompleted(rec) })
	return rec
}

func (r *TestResult) runFinished() {
	r.notify(func(l Listener) { l.RunFinished(r) })
}

// CurrentSuiteName returns the suite being executed, "" between suites
func (r *TestResult) CurrentSuiteName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentSuite
}

// CurrentCaseName returns the case being executed, "" between cases
func (r *TestResult) CurrentCaseName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentCase
}

func (r *TestResult) count(list *[]int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(*list)
}

func (r *TestResult) NumberOfSuccesses() int { return r.count(&r.successes) }
func (r *TestResult) NumberOfFailures() int  { return r.count(&r.failures) }
func (r *TestResult) NumberOfErrors() int    { return r.count(&r.errors) }
func (r *TestResult) NumberOfNotRun() int    { return r.count(&r.notRun) }

// NumberOfRuns is the number of executed cases: successes, failures and errors
func (r *TestResult) NumberOfRuns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes) + len(r.failures) + len(r.errors)
}

// TotalNumberOfTestCases is the number of declared cases, executed or not
func (r *TestResult) TotalNumberOfTestCases() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.declared
}

// FixtureErrors returns the recorded fixture setup and teardown errors
func (r *TestResult) FixtureErrors() []domain.FixtureError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.fixtureErrors)
}

// Records returns a copy of every case record in recorded order
func (r *TestResult) Records() []domain.CaseRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records)
}

// Report takes a snapshot for serialization
func (r *TestResult) Report() domain.RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := domain.RunReport{
		Project:       r.project,
		RunID:         r.runID,
		Started:       r.started,
		Declared:      r.declared,
		FixtureErrors: slices.Clone(r.fixtureErrors),
	}
	for _, span := range r.spans {
		s := domain.SuiteRecord{Name: span.name, Elapsed: span.elapsed}
		for _, i := range span.cases {
			s.Cases = append(s.Cases, r.records[i])
		}
		rep.Elapsed += span.elapsed
		rep.Suites = append(rep.Suites, s)
	}
	return rep
}

// FailureData returns "[F]Suite::Case-message" and "[E]Suite::Case-message"
// lines in recorded order.
func (r *TestResult) FailureData() []string {
	return report.FailureData(r.Report())
}

// CreateTestResultFile writes the report to path. It fails with
// report.ErrFileExists unless overwrite is set.
func (r *TestResult) CreateTestResultFile(path string, overwrite bool, typ domain.ReportType) error {
	return report.WriteFile(path, overwrite, typ, r.Report())
}

// MergeResults combines the results of several runners into one, suites in
// the order of parts.
func MergeResults(project string, parts ...*TestResult) *TestResult {
	merged := NewTestResult(project)
	first := true
	for _, p := range parts {
		if p == nil {
			continue
		}
		p.mu.Lock()
		if first || p.started.Before(merged.started) {
			merged.started = p.started
		}
		first = false
		offset := len(merged.records)
		shift := func(dst *[]int, src []int) {
			for _, pos := range src {
				*dst = append(*dst, pos+offset)
			}
		}
		merged.records = append(merged.records, p.records...)
		shift(&merged.successes, p.successes)
		shift(&merged.failures, p.failures)
		shift(&merged.errors, p.errors)
		shift(&merged.notRun, p.notRun)
		for _, span := range p.spans {
			s := &suiteSpan{name: span.name, elapsed: span.elapsed}
			shift(&s.cases, span.cases)
			merged.spans = append(merged.spans, s)
		}
		merged.fixtureErrors = append(merged.fixtureErrors, p.fixtureErrors...)
		merged.declared += p.declared
		p.mu.Unlock()
	}
	return merged
}
