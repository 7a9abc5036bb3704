package domain

import "time"

// CaseRecord is the single outcome record written for one test case execution
type CaseRecord struct {
	Index    int            `json:"index"`
	Suite    string         `json:"suite"`
	Name     string         `json:"name"`
	Outcome  Outcome        `json:"outcome"`
	Elapsed  time.Duration  `json:"elapsed"`
	Message  string         `json:"message,omitempty"`
	FilePath string         `json:"file_path,omitempty"`
	LineNum  int            `json:"line_num,omitempty"`
	Asserts  []AssertRecord `json:"asserts,omitempty"`
	Stack    string         `json:"stack,omitempty"`
	Output   string         `json:"output,omitempty"`
}

// FullName returns "Suite::Case"
func (r CaseRecord) FullName() string {
	return r.Suite + "::" + r.Name
}

// FixtureError records a failing fixture-level setup or teardown
type FixtureError struct {
	Suite   string `json:"suite"`
	Fixture string `json:"fixture"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// SuiteRecord groups the case records of one suite in execution order
type SuiteRecord struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
	Cases   []CaseRecord  `json:"cases"`
}

// Status is "fail" if any case failed or errored, "success" otherwise
func (s SuiteRecord) Status() string {
	for _, c := range s.Cases {
		if c.Outcome == OutcomeFail || c.Outcome == OutcomeError {
			return "fail"
		}
	}
	return "success"
}

// RunReport is a read-only snapshot of a test result used by every serializer
type RunReport struct {
	Project       string         `json:"project"`
	RunID         string         `json:"run_id"`
	Started       time.Time      `json:"started"`
	Elapsed       time.Duration  `json:"elapsed"`
	Declared      int            `json:"declared"`
	Suites        []SuiteRecord  `json:"suites"`
	FixtureErrors []FixtureError `json:"fixture_errors,omitempty"`
}

// Counts holds the aggregate numbers of a run
type Counts struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
	Errors    int `json:"errors"`
	NotRun    int `json:"not_run"`
	Declared  int `json:"declared"`
}

// Runs is the number of executed cases
func (c Counts) Runs() int {
	return c.Successes + c.Failures + c.Errors
}

// Add accumulates a single outcome
func (c *Counts) Add(o Outcome) {
	switch o {
	case OutcomeSuccess:
		c.Successes++
	case OutcomeFail:
		c.Failures++
	case OutcomeError:
		c.Errors++
	default:
		c.NotRun++
	}
}

// Counts derives the aggregate numbers from the report's case records
func (r RunReport) Counts() Counts {
	c := Counts{Declared: r.Declared}
	for _, s := range r.Suites {
		for _, cs := range s.Cases {
			c.Add(cs.Outcome)
		}
	}
	return c
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	Project         string  `json:"project"`
	TotalTestCases  int     `json:"total_test_cases"`
	Runs            int     `json:"runs"`
	Successes       int     `json:"successes"`
	Failures        int     `json:"failures"`
	Errors          int     `json:"errors"`
	NotRun          int     `json:"not_run"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Runners         int     `json:"runners"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure of the last-run store
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}
