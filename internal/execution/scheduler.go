package execution

import "osptest/internal/xunit"

// Scheduler distributes suites across runners
type Scheduler interface {
	Schedule(suites []*xunit.TestSuite, runnerCount int) [][]*xunit.TestSuite
}

// RoundRobinScheduler distributes suites evenly across runners
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes suites evenly across runners using round-robin
func (s *RoundRobinScheduler) Schedule(suites []*xunit.TestSuite, runnerCount int) [][]*xunit.TestSuite {
	if runnerCount <= 0 {
		runnerCount = 1
	}

	distribution := make([][]*xunit.TestSuite, runnerCount)
	for i := range distribution {
		distribution[i] = make([]*xunit.TestSuite, 0)
	}

	for i, suite := range suites {
		runnerIndex := i % runnerCount
		distribution[runnerIndex] = append(distribution[runnerIndex], suite)
	}

	return distribution
}
