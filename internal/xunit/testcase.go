package xunit

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"time"

	"osptest/internal/assert"
	"osptest/internal/domain"
)

var errNoBody = errors.New("test case has no body")

// TestCase binds one executable test body and tracks the outcome of its
// last execution.
type TestCase struct {
	name     string
	fixture  Fixture
	body     func(t *T)
	filePath string
	lineNum  int

	outcome domain.Outcome
	elapsed time.Duration
}

// NewTestCase creates an unbound case. Provenance is the caller's location.
func NewTestCase(name string, body func(t *T)) *TestCase {
	return newCase(nil, name, body, 1)
}

// NewFixtureCase creates a case belonging to fixture
func NewFixtureCase(fixture Fixture, name string, body func(t *T)) *TestCase {
	return newCase(fixture, name, body, 1)
}

func newCase(fixture Fixture, name string, body func(t *T), skip int) *TestCase {
	file, line := assert.Caller(skip + 1)
	return &TestCase{name: name, fixture: fixture, body: body, filePath: file, lineNum: line}
}

func (tc *TestCase) Name() string     { return tc.name }
func (tc *TestCase) FilePath() string { return tc.filePath }
func (tc *TestCase) LineNum() int     { return tc.lineNum }

// Fixture returns the fixture the case belongs to, nil for an unbound case
func (tc *TestCase) Fixture() Fixture { return tc.fixture }

// Outcome returns the outcome of the last execution
func (tc *TestCase) Outcome() domain.Outcome { return tc.outcome }

// ExecutionTime is the duration of the last execution if it succeeded, 0 otherwise
func (tc *TestCase) ExecutionTime() time.Duration {
	if tc.outcome != domain.OutcomeSuccess {
		return 0
	}
	return tc.elapsed
}

// Execute runs the case and writes exactly one record into r
func (tc *TestCase) Execute(r *TestResult) domain.CaseRecord {
	return tc.ExecuteIndex(r, -1)
}

// ExecuteIndex is Execute with the record tagged by index. A negative index
// lets the result number the record.
func (tc *TestCase) ExecuteIndex(r *TestResult, index int) domain.CaseRecord {
	register := r.register
	register.Reset()
	tc.outcome = domain.OutcomeNotRun
	tc.elapsed = 0
	r.caseStarted(tc.name)

	t := newT(tc.name, register)
	start := time.Now()
	ex := tc.invoke(t)
	elapsed := time.Since(start)

	rec := tc.classify(ex, t, register)
	rec.Index = index
	rec.Elapsed = elapsed
	rec.Output = t.logs()
	rec.Asserts = register.Failures()

	tc.outcome = rec.Outcome
	tc.elapsed = elapsed
	return r.addTestResult(rec)
}

type exit struct {
	completed bool
	panicked  bool
	value     any
	stack     []byte
}

// invoke runs the body on its own goroutine so that a hard assertion can
// end it with runtime.Goexit without touching the caller.
func (tc *TestCase) invoke(t *T) exit {
	var ex exit
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if v := recover(); v != nil {
				ex.panicked = true
				ex.value = v
				ex.stack = debug.Stack()
			}
		}()
		tc.run(t)
		ex.completed = true
	}()
	<-done
	return ex
}

func (tc *TestCase) run(t *T) {
	if tc.body == nil {
		panic(errNoBody)
	}
	if hooks, ok := tc.fixture.(CaseHooks); ok {
		hooks.SetUp(t)
		defer hooks.TearDown(t)
	}
	tc.body(t)
}

func (tc *TestCase) classify(ex exit, t *T, register *assert.Register) domain.CaseRecord {
	rec := domain.CaseRecord{
		Name:     tc.name,
		Outcome:  domain.OutcomeSuccess,
		FilePath: tc.filePath,
		LineNum:  tc.lineNum,
	}
	switch {
	case ex.panicked:
		rec.Outcome = domain.OutcomeError
		rec.Message = panicMessage(ex.value)
		rec.Stack = string(ex.stack)
	case t.faultErr() != nil:
		rec.Outcome = domain.OutcomeError
		rec.Message = t.faultErr().Error()
		if last, ok := register.LastFailure(); ok {
			rec.FilePath, rec.LineNum = last.FilePath, last.LineNum
		}
	case register.HasFailResult():
		last, _ := register.LastFailure()
		rec.Outcome = domain.OutcomeFail
		rec.Message = last.Message
		rec.FilePath, rec.LineNum = last.FilePath, last.LineNum
	case !ex.completed:
		rec.Outcome = domain.OutcomeFail
		rec.Message = "test body aborted"
	}
	return rec
}

func panicMessage(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("panic: %v", v)
}

// catch runs fn and returns the value it panicked with, if any
func catch(fn func()) (v any, panicked bool) {
	defer func() {
		if v = recover(); v != nil {
			panicked = true
		}
	}()
	fn()
	return nil, false
}

// ExpectPanic wraps tc into a case that passes only if tc's body panics
// with an error matching E (errors.As). Any other panic, or none, records
// a failed assertion and ends the case as an Error.
//
// A hard assertion failing inside tc's body still ends the case as a Fail.
func ExpectPanic[E error](tc *TestCase) *TestCase {
	expected := reflect.TypeOf((*E)(nil)).Elem().String()
	inner := tc
	return &TestCase{
		name:     inner.name,
		fixture:  inner.fixture,
		filePath: inner.filePath,
		lineNum:  inner.lineNum,
		body: func(t *T) {
			if inner.body == nil {
				panic(errNoBody)
			}
			v, panicked := catch(func() { inner.body(t) })
			if !panicked {
				t.setFault(fmt.Errorf("exception not thrown: expected %s", expected))
				t.asserter.Fail("exception not thrown", inner.filePath, inner.lineNum, false)
			}
			var target E
			if err, ok := v.(error); ok && errors.As(err, &target) {
				return
			}
			actual := fmt.Sprintf("%T", v)
			t.setFault(fmt.Errorf("unwanted exception: expected %s, actual %s", expected, actual))
			t.asserter.Throw("unwanted exception", expected, actual, inner.filePath, inner.lineNum, false)
		},
	}
}

// Stress wraps tc into a case that runs its body n times and stops at the
// first iteration that records a failure.
func Stress(tc *TestCase, n int) *TestCase {
	inner := tc
	return &TestCase{
		name:     inner.name,
		fixture:  inner.fixture,
		filePath: inner.filePath,
		lineNum:  inner.lineNum,
		body: func(t *T) {
			if inner.body == nil {
				panic(errNoBody)
			}
			for i := 0; i < n; i++ {
				inner.body(t)
				if t.asserter.Register().HasFailResult() {
					t.Logf("stress iteration %d of %d failed", i+1, n)
					return
				}
			}
		},
	}
}
