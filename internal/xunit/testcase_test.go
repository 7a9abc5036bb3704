package xunit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osptest/internal/domain"
)

type outOfRangeError struct{ index int }

func (e *outOfRangeError) Error() string { return fmt.Sprintf("index %d out of range", e.index) }

type logicError struct{}

func (e *logicError) Error() string { return "logic error" }

func TestExecuteSuccess(t *testing.T) {
	r := NewTestResult("p")
	tc := NewTestCase("Sum", func(t *T) {
		AssertEqual(t, 4, 2+2)
	})

	rec := tc.Execute(r)

	assert.Equal(t, domain.OutcomeSuccess, rec.Outcome)
	assert.Equal(t, domain.OutcomeSuccess, tc.Outcome())
	assert.GreaterOrEqual(t, tc.ExecutionTime().Nanoseconds(), int64(0))
	assert.Equal(t, 1, r.NumberOfSuccesses())
	assert.Equal(t, 1, r.NumberOfRuns())
	assert.Equal(t, 1, r.TotalNumberOfTestCases())
	assert.Equal(t, DefaultSuiteName, rec.Suite)
}

func TestExecuteHardAssertAborts(t *testing.T) {
	r := NewTestResult("p")
	reached := false
	tc := NewTestCase("Cond", func(t *T) {
		t.Assert(1 == 2, "1 == 2")
		reached = true
	})

	rec := tc.Execute(r)

	assert.False(t, reached)
	assert.Equal(t, domain.OutcomeFail, rec.Outcome)
	assert.Contains(t, rec.Message, "The condition(1 == 2) is false")
	require.Len(t, rec.Asserts, 1)
	assert.Equal(t, domain.AssertFail, rec.Asserts[0].Kind)
	assert.Equal(t, 1, r.NumberOfFailures())
	assert.Equal(t, int64(0), tc.ExecutionTime().Nanoseconds())
}

func TestExecuteChecksContinue(t *testing.T) {
	r := NewTestResult("p")
	reached := false
	tc := NewTestCase("Checks", func(t *T) {
		t.Check(false, "false")
		t.Check(false, "false")
		reached = true
	})

	rec := tc.Execute(r)

	assert.True(t, reached)
	assert.Equal(t, domain.OutcomeFail, rec.Outcome)
	require.Len(t, rec.Asserts, 2)
	for _, a := range rec.Asserts {
		assert.Equal(t, domain.AssertCheck, a.Kind)
	}
	assert.Len(t, r.Records(), 1)
}

func TestExecuteError(t *testing.T) {
	tests := []struct {
		name    string
		body    func(t *T)
		message string
	}{
		{
			name:    "nil dereference",
			body:    func(t *T) { var m map[string]*int; _ = *m["x"] },
			message: "runtime error",
		},
		{
			name:    "panic value",
			body:    func(t *T) { panic("boom") },
			message: "panic: boom",
		},
		{
			name:    "explicit error",
			body:    func(t *T) { t.Error(errors.New("connection refused")) },
			message: "connection refused",
		},
		{
			name:    "no body",
			body:    nil,
			message: errNoBody.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTestResult("p")
			rec := NewTestCase(tt.name, tt.body).Execute(r)
			assert.Equal(t, domain.OutcomeError, rec.Outcome)
			assert.Contains(t, rec.Message, tt.message)
			assert.Equal(t, 1, r.NumberOfErrors())
			assert.Equal(t, 0, r.NumberOfFailures())
		})
	}
}

func TestExecuteIsRerunnable(t *testing.T) {
	r := NewTestResult("p")
	fail := true
	tc := NewTestCase("Flaky", func(t *T) {
		t.AssertFalse(fail, "fail")
	})

	assert.Equal(t, domain.OutcomeFail, tc.Execute(r).Outcome)
	fail = false
	assert.Equal(t, domain.OutcomeSuccess, tc.Execute(r).Outcome)
	assert.Equal(t, domain.OutcomeSuccess, tc.Outcome())
	assert.Equal(t, 2, r.NumberOfRuns())
}

func TestProvenance(t *testing.T) {
	tc := NewTestCase("Here", func(t *T) {})
	assert.Contains(t, tc.FilePath(), "testcase_test.go")
	assert.Positive(t, tc.LineNum())
	assert.Nil(t, tc.Fixture())
}

func TestExpectPanic(t *testing.T) {
	tests := []struct {
		name    string
		body    func(t *T)
		outcome domain.Outcome
		message string
	}{
		{
			name:    "expected",
			body:    func(t *T) { panic(&outOfRangeError{index: 3}) },
			outcome: domain.OutcomeSuccess,
		},
		{
			name:    "wrapped expected",
			body:    func(t *T) { panic(fmt.Errorf("lookup: %w", &outOfRangeError{index: 3})) },
			outcome: domain.OutcomeSuccess,
		},
		{
			name:    "unwanted",
			body:    func(t *T) { panic(&logicError{}) },
			outcome: domain.OutcomeError,
			message: "unwanted exception: expected *xunit.outOfRangeError, actual *xunit.logicError",
		},
		{
			name:    "not thrown",
			body:    func(t *T) {},
			outcome: domain.OutcomeError,
			message: "exception not thrown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTestResult("p")
			tc := ExpectPanic[*outOfRangeError](NewTestCase(tt.name, tt.body))
			rec := tc.Execute(r)
			assert.Equal(t, tt.outcome, rec.Outcome)
			if tt.message != "" {
				assert.Contains(t, rec.Message, tt.message)
				require.NotEmpty(t, rec.Asserts)
				assert.Equal(t, domain.AssertFail, rec.Asserts[0].Kind)
			}
		})
	}
}

func TestStress(t *testing.T) {
	r := NewTestResult("p")
	runs := 0
	tc := Stress(NewTestCase("Loop", func(t *T) {
		runs++
		t.Check(runs < 3, "runs < 3")
	}), 10)

	rec := tc.Execute(r)

	assert.Equal(t, 3, runs)
	assert.Equal(t, domain.OutcomeFail, rec.Outcome)
	assert.Contains(t, rec.Output, "stress iteration 3 of 10 failed")
}

type hookFixture struct {
	NamedFixture
	calls []string
}

func (f *hookFixture) SetUp(t *T)    { f.calls = append(f.calls, "setup") }
func (f *hookFixture) TearDown(t *T) { f.calls = append(f.calls, "teardown") }

func TestCaseHooks(t *testing.T) {
	f := &hookFixture{NamedFixture: NamedFixture{FixtureName: "hooks"}}
	tc := NewFixtureCase(f, "Body", func(t *T) {
		f.calls = append(f.calls, "body")
		t.Fail("stop")
	})

	rec := tc.Execute(NewTestResult("p"))

	assert.Equal(t, domain.OutcomeFail, rec.Outcome)
	assert.Equal(t, []string{"setup", "body", "teardown"}, f.calls)
	assert.Same(t, f, tc.Fixture())
}
