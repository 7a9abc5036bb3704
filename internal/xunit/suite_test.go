package xunit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osptest/internal/domain"
	"osptest/internal/report"
)

type suiteFixture struct {
	NamedFixture
	setUpErr    error
	tearDownErr error
	setUps      int
	tearDowns   int
}

func newSuiteFixture(name string) *suiteFixture {
	return &suiteFixture{NamedFixture: NamedFixture{FixtureName: name}}
}

func (f *suiteFixture) SetUpBeforeTestSuite() error {
	f.setUps++
	return f.setUpErr
}

func (f *suiteFixture) TearDownAfterTestSuite() error {
	f.tearDowns++
	return f.tearDownErr
}

func outcomes(recs []domain.CaseRecord) map[string]domain.Outcome {
	out := make(map[string]domain.Outcome, len(recs))
	for _, r := range recs {
		out[r.Name] = r.Outcome
	}
	return out
}

func TestSuiteFixtureSetupFailure(t *testing.T) {
	healthy := newSuiteFixture("healthy")
	broken := newSuiteFixture("broken")
	broken.setUpErr = errors.New("db unreachable")

	s := NewTestSuite("Mixed")
	s.AddTestCase(NewFixtureCase(healthy, "One", func(t *T) {}))
	s.AddTestCase(NewFixtureCase(broken, "Two", func(t *T) { t.Fail("must not run") }))
	s.AddTestCase(NewFixtureCase(broken, "Three", func(t *T) { t.Fail("must not run") }))

	r := NewTestResult("p")
	s.Execute(r)

	assert.Equal(t, 3, r.TotalNumberOfTestCases())
	assert.Equal(t, 1, r.NumberOfRuns())
	assert.Equal(t, 2, r.NumberOfNotRun())
	assert.Equal(t, map[string]domain.Outcome{
		"One":   domain.OutcomeSuccess,
		"Two":   domain.OutcomeNotRun,
		"Three": domain.OutcomeNotRun,
	}, outcomes(r.Records()))

	assert.Equal(t, 1, healthy.setUps)
	assert.Equal(t, 1, healthy.tearDowns)
	assert.Equal(t, 1, broken.setUps)
	assert.Equal(t, 0, broken.tearDowns)

	fixtureErrors := r.FixtureErrors()
	require.Len(t, fixtureErrors, 1)
	assert.Equal(t, "broken", fixtureErrors[0].Fixture)
	assert.Equal(t, "setup", fixtureErrors[0].Phase)
	assert.Contains(t, r.Records()[1].Message, "fixture broken setup failed")
}

func TestSuiteGroupsByFixture(t *testing.T) {
	a, b := newSuiteFixture("a"), newSuiteFixture("b")
	var order []string
	body := func(name string) func(t *T) {
		return func(t *T) { order = append(order, name) }
	}

	s := NewTestSuite("Grouped")
	s.AddTestCase(NewFixtureCase(a, "a1", body("a1")))
	s.AddTestCase(NewFixtureCase(b, "b1", body("b1")))
	s.AddTestCase(NewFixtureCase(a, "a2", body("a2")))
	s.AddTestCase(NewTestCase("free", body("free")))

	s.Execute(NewTestResult("p"))

	assert.Equal(t, []string{"a1", "a2", "b1", "free"}, order)
	assert.Equal(t, 4, s.TestCaseCount())
	assert.Equal(t, 1, a.setUps)
	assert.Equal(t, 1, a.tearDowns)
}

func TestSuiteGroupsByFixtureInstance(t *testing.T) {
	first, second := newSuiteFixture("Db"), newSuiteFixture("Db")
	unnamed := newSuiteFixture("")

	s := NewTestSuite("SameName")
	s.AddTestCase(NewFixtureCase(first, "One", func(t *T) {}))
	s.AddTestCase(NewFixtureCase(second, "Two", func(t *T) {}))
	s.AddTestCase(NewFixtureCase(unnamed, "Three", func(t *T) {}))
	s.AddTestCase(NewTestCase("Free", func(t *T) {}))
	s.AddTestCase(NewFixtureCase(first, "Four", func(t *T) {}))

	r := NewTestResult("p")
	s.Execute(r)

	assert.Equal(t, 5, r.NumberOfSuccesses())
	for _, f := range []*suiteFixture{first, second, unnamed} {
		assert.Equal(t, 1, f.setUps)
		assert.Equal(t, 1, f.tearDowns)
	}

	var names []string
	for _, tc := range s.Cases() {
		names = append(names, tc.Name())
	}
	assert.Equal(t, []string{"One", "Four", "Two", "Three", "Free"}, names)
}

func TestSuiteAbortKeepsSetupFailure(t *testing.T) {
	broken := newSuiteFixture("broken")
	broken.setUpErr = errors.New("db unreachable")
	s := NewTestSuite("Aborted")
	s.AddTestCase(NewFixtureCase(broken, "One", func(t *T) {}))
	s.AddTestCase(NewTestCase("Two", func(t *T) {}))

	r := NewTestResult("p")
	run := newSuiteRun(s, r)
	run.begin()
	require.True(t, run.next())
	run.abort(ReasonStopped)
	run.end()

	recs := r.Records()
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0].Message, "fixture broken setup failed")
	assert.Equal(t, ReasonStopped, recs[1].Message)
	assert.Equal(t, 0, broken.tearDowns)
}

func TestSuiteFailureDoesNotStopLaterCases(t *testing.T) {
	s := NewTestSuite("Contained")
	s.AddTestCase(NewTestCase("Panics", func(t *T) { panic("boom") }))
	s.AddTestCase(NewTestCase("Fails", func(t *T) { t.Fail("nope") }))
	s.AddTestCase(NewTestCase("Passes", func(t *T) {}))

	r := NewTestResult("p")
	s.Execute(r)

	assert.Equal(t, 1, r.NumberOfErrors())
	assert.Equal(t, 1, r.NumberOfFailures())
	assert.Equal(t, 1, r.NumberOfSuccesses())
	assert.Equal(t, r.NumberOfRuns(), r.NumberOfSuccesses()+r.NumberOfFailures()+r.NumberOfErrors())
	assert.Equal(t, []string{
		"[E]Contained::Panics-panic: boom",
		"[F]Contained::Fails-nope",
	}, r.FailureData())
}

func TestSuiteTearDownError(t *testing.T) {
	f := newSuiteFixture("f")
	f.tearDownErr = errors.New("cleanup failed")
	s := NewTestSuite("Teardown")
	s.AddTestCase(NewFixtureCase(f, "Only", func(t *T) {}))

	r := NewTestResult("p")
	s.Execute(r)

	assert.Equal(t, 1, r.NumberOfSuccesses())
	require.Len(t, r.FixtureErrors(), 1)
	assert.Equal(t, "teardown", r.FixtureErrors()[0].Phase)
}

func TestSuiteSelect(t *testing.T) {
	f := newSuiteFixture("f")
	s := NewTestSuite("Filtered")
	s.AddTestCase(NewFixtureCase(f, "Keep", func(t *T) {}))
	s.AddTestCase(NewFixtureCase(f, "Skip", func(t *T) {}))
	s.Select(func(tc *TestCase) bool { return tc.Name() == "Keep" })

	r := NewTestResult("p")
	s.Execute(r)

	recs := r.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, domain.OutcomeSuccess, recs[0].Outcome)
	assert.Equal(t, domain.OutcomeNotRun, recs[1].Outcome)
	assert.Equal(t, ReasonFiltered, recs[1].Message)
	assert.Equal(t, 2, r.TotalNumberOfTestCases())

	// nothing selected in the group: the fixture is never set up
	s.Select(func(*TestCase) bool { return false })
	s.Execute(NewTestResult("p"))
	assert.Equal(t, 1, f.setUps)
}

func TestSuiteFixtureSetupPanic(t *testing.T) {
	f := &panickyFixture{NamedFixture: NamedFixture{FixtureName: "panicky"}}
	s := NewTestSuite("Panicky")
	s.AddTestCase(NewFixtureCase(f, "Case", func(t *T) {}))

	r := NewTestResult("p")
	s.Execute(r)

	assert.Equal(t, 1, r.NumberOfNotRun())
	require.Len(t, r.FixtureErrors(), 1)
	assert.Contains(t, r.FixtureErrors()[0].Message, "panic: no config")
}

type panickyFixture struct {
	NamedFixture
}

func (f *panickyFixture) SetUpBeforeTestSuite() error   { panic("no config") }
func (f *panickyFixture) TearDownAfterTestSuite() error { return nil }

func TestCreateTestResultFile(t *testing.T) {
	s := NewTestSuite("Report")
	s.AddTestCase(NewTestCase("Pass", func(t *T) {}))
	s.AddTestCase(NewTestCase("Fail", func(t *T) { t.Assert(1 == 2, "1 == 2") }))
	r := NewTestResult("proj")
	s.Execute(r)

	path := filepath.Join(t.TempDir(), "result.txt")
	require.NoError(t, r.CreateTestResultFile(path, false, domain.ReportText))
	assert.ErrorIs(t, r.CreateTestResultFile(path, false, domain.ReportText), report.ErrFileExists)

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, r.CreateTestResultFile(path, true, domain.ReportText))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	counts, err := report.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.NumberOfSuccesses(), counts.Successes)
	assert.Equal(t, r.NumberOfFailures(), counts.Failures)
	assert.Equal(t, r.NumberOfRuns(), counts.Runs())
	assert.Equal(t, r.TotalNumberOfTestCases(), counts.Declared)
}
