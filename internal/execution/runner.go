package execution

import (
	"fmt"

	"go.uber.org/zap"

	"osptest/internal/xunit"
)

// newRunner creates the xunit runner of one pool slot
func (wp *WorkerPool) newRunner(runnerID int, suites []*xunit.TestSuite, listeners []xunit.Listener) (*xunit.Runner, error) {
	runner := xunit.NewRunner(
		xunit.WithName(fmt.Sprintf("runner-%d", runnerID)),
		xunit.WithLogger(wp.log.With(zap.Int("runner", runnerID))),
		xunit.WithFailFast(wp.failFast),
	)
	for _, l := range listeners {
		runner.AddListener(l)
	}
	if err := runner.AddTestSuites(suites...); err != nil {
		return nil, fmt.Errorf("runner %d: %w", runnerID, err)
	}
	return runner, nil
}
