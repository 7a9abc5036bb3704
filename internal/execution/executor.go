package execution

import (
	"context"
	"time"

	"osptest/internal/xunit"
)

// Executor executes suites and returns the merged result
type Executor interface {
	Execute(ctx context.Context, suites []*xunit.TestSuite) (*xunit.TestResult, time.Duration, error)
}
