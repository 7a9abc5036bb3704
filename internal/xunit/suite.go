package xunit

import (
	"fmt"
	"reflect"
	"time"
)

// ReasonStopped and ReasonFiltered are the messages of cases recorded as not run
const (
	ReasonStopped  = "stopped"
	ReasonFiltered = "filtered"
)

type group struct {
	fixture Fixture
	name    string
	cases   []*TestCase
}

// TestSuite owns an ordered collection of cases grouped by fixture. Groups
// run in the order their first case was added, cases in insertion order
// within their group.
type TestSuite struct {
	name    string
	groups  []*group
	selects func(*TestCase) bool
	elapsed time.Duration
}

// NewTestSuite creates an empty suite
func NewTestSuite(name string) *TestSuite {
	return &TestSuite{name: name}
}

func (s *TestSuite) Name() string { return s.name }

// sameFixture compares fixtures by identity. Values of a non-comparable
// type never match, so each such case gets its own group.
func sameFixture(a, b Fixture) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// AddTestCase takes ownership of tc and appends it to the group of its
// fixture instance. Unbound cases share one group.
func (s *TestSuite) AddTestCase(tc *TestCase) {
	for _, g := range s.groups {
		if sameFixture(g.fixture, tc.fixture) {
			g.cases = append(g.cases, tc)
			return
		}
	}
	s.groups = append(s.groups, &group{fixture: tc.fixture, name: fixtureName(tc.fixture), cases: []*TestCase{tc}})
}

// TestCaseCount is the number of cases across all groups
func (s *TestSuite) TestCaseCount() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.cases)
	}
	return n
}

// Cases returns the cases in execution order
func (s *TestSuite) Cases() []*TestCase {
	var out []*TestCase
	for _, g := range s.groups {
		out = append(out, g.cases...)
	}
	return out
}

// Select restricts the next executions to the cases pred accepts. The
// others are recorded as not run. A nil pred selects every case.
func (s *TestSuite) Select(pred func(*TestCase) bool) {
	s.selects = pred
}

func (s *TestSuite) selected(tc *TestCase) bool {
	return s.selects == nil || s.selects(tc)
}

// ExecutionTime is the duration of the last execution
func (s *TestSuite) ExecutionTime() time.Duration { return s.elapsed }

// Execute runs every group of the suite and records the outcomes in r
func (s *TestSuite) Execute(r *TestResult) {
	run := newSuiteRun(s, r)
	run.begin()
	for run.next() {
	}
	run.end()
}

type stepKind int

const (
	stepSetUp stepKind = iota
	stepCase
	stepTearDown
)

type step struct {
	kind  stepKind
	group *group
	tc    *TestCase
}

// suiteRun is one execution of a suite flattened into steps, so that the
// runner can dispatch a suite one unit of work at a time.
type suiteRun struct {
	suite  *TestSuite
	result *TestResult
	steps  []step
	pos    int
	start  time.Time

	// index numbers the executed cases, nil lets the result number them
	index func() int

	pending map[*group]bool
	failed  map[*group]string
}

func newSuiteRun(s *TestSuite, r *TestResult) *suiteRun {
	run := &suiteRun{
		suite:   s,
		result:  r,
		pending: make(map[*group]bool),
		failed:  make(map[*group]string),
	}
	for _, g := range s.groups {
		_, hooks := g.fixture.(SuiteHooks)
		hooks = hooks && run.anySelected(g)
		if hooks {
			run.steps = append(run.steps, step{kind: stepSetUp, group: g})
		}
		for _, tc := range g.cases {
			run.steps = append(run.steps, step{kind: stepCase, group: g, tc: tc})
		}
		if hooks {
			run.steps = append(run.steps, step{kind: stepTearDown, group: g})
		}
	}
	return run
}

func (run *suiteRun) anySelected(g *group) bool {
	for _, tc := range g.cases {
		if run.suite.selected(tc) {
			return true
		}
	}
	return false
}

func (run *suiteRun) begin() {
	run.start = time.Now()
	run.result.beginSuite(run.suite.name, run.suite.TestCaseCount())
}

// next executes one step and reports whether steps remain
func (run *suiteRun) next() bool {
	if run.pos >= len(run.steps) {
		return false
	}
	st := run.steps[run.pos]
	run.pos++

	switch st.kind {
	case stepSetUp:
		hooks := st.group.fixture.(SuiteHooks)
		if err := callHook(hooks.SetUpBeforeTestSuite); err != nil {
			run.result.addTestFixtureError(run.suite.name, st.group.name, "setup", err)
			run.failed[st.group] = fmt.Sprintf("fixture %s setup failed: %v", st.group.name, err)
		} else {
			run.pending[st.group] = true
		}
	case stepCase:
		idx := run.nextIndex()
		if reason, ok := run.failed[st.group]; ok {
			run.result.addNotRun(st.tc, idx, reason)
		} else if !run.suite.selected(st.tc) {
			run.result.addNotRun(st.tc, idx, ReasonFiltered)
		} else {
			st.tc.ExecuteIndex(run.result, idx)
		}
	case stepTearDown:
		run.tearDown(st.group)
	}
	return run.pos < len(run.steps)
}

func (run *suiteRun) nextIndex() int {
	if run.index == nil {
		return -1
	}
	return run.index()
}

func (run *suiteRun) tearDown(g *group) {
	if !run.pending[g] {
		return
	}
	delete(run.pending, g)
	hooks := g.fixture.(SuiteHooks)
	if err := callHook(hooks.TearDownAfterTestSuite); err != nil {
		run.result.addTestFixtureError(run.suite.name, g.name, "teardown", err)
	}
}

// abort records every remaining case as not run for reason and tears down
// the groups that were set up. Cases of a group whose setup failed keep the
// setup failure as their reason.
func (run *suiteRun) abort(reason string) {
	for ; run.pos < len(run.steps); run.pos++ {
		st := run.steps[run.pos]
		switch st.kind {
		case stepCase:
			why := reason
			if failed, ok := run.failed[st.group]; ok {
				why = failed
			}
			run.result.addNotRun(st.tc, run.nextIndex(), why)
		case stepTearDown:
			run.tearDown(st.group)
		}
	}
}

func (run *suiteRun) end() {
	run.suite.elapsed = time.Since(run.start)
	run.result.endSuite(run.suite.elapsed)
}
