package xunit

import (
	"time"

	"osptest/internal/domain"
)

// Listener observes a run. Callbacks are invoked on the goroutine that
// executes the cases, so implementations shared between runners must
// synchronize themselves. Listeners are compared with == on removal, so
// use pointer types.
type Listener interface {
	SuiteStarted(name string, cases int)
	CaseCompleted(rec domain.CaseRecord)
	SuiteFinished(name string, elapsed time.Duration)
	RunFinished(result *TestResult)
}

// NopListener implements Listener with no-ops. Embed it to implement only
// the callbacks you need.
type NopListener struct{}

func (NopListener) SuiteStarted(string, int)            {}
func (NopListener) CaseCompleted(domain.CaseRecord)     {}
func (NopListener) SuiteFinished(string, time.Duration) {}
func (NopListener) RunFinished(*TestResult)             {}
