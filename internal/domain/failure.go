package domain

// TestFailure represents a failed or errored test case
type TestFailure struct {
	Suite      string   `json:"suite"`
	TestName   string   `json:"test_name"`
	Outcome    string   `json:"outcome"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Checks     []string `json:"checks,omitempty"`
	StackTrace []string `json:"stack_trace,omitempty"`
	Resolved   bool     `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// FullName returns "Suite::TestName"
func (f TestFailure) FullName() string {
	return f.Suite + "::" + f.TestName
}
