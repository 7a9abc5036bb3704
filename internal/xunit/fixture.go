package xunit

import "fmt"

// Fixture is a named grouping of related test cases sharing setup and
// teardown logic. Cases bound to the same fixture instance form one group
// inside a TestSuite.
type Fixture interface {
	Name() string
}

// SuiteHooks is implemented by fixtures that need setup and teardown once
// per suite run, around all of their cases.
type SuiteHooks interface {
	SetUpBeforeTestSuite() error
	TearDownAfterTestSuite() error
}

// CaseHooks is implemented by fixtures that need setup and teardown around
// every single case. Both run on the case's goroutine, so assertions may be
// used in them.
type CaseHooks interface {
	SetUp(t *T)
	TearDown(t *T)
}

// NamedFixture is a Fixture without hooks. Embed it to give a fixture type its name.
type NamedFixture struct {
	FixtureName string
}

func (f *NamedFixture) Name() string { return f.FixtureName }

// NewFixture returns a hook-less fixture
func NewFixture(name string) Fixture {
	return &NamedFixture{FixtureName: name}
}

func fixtureName(f Fixture) string {
	if f == nil {
		return ""
	}
	return f.Name()
}

// callHook runs a fixture hook and converts a panic into an error
func callHook(hook func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return hook()
}
