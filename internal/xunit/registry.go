package xunit

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateSuite is returned when a factory name is registered twice
var ErrDuplicateSuite = errors.New("duplicate test suite")

// SuiteFactory makes a fresh TestSuite each time it is asked
type SuiteFactory interface {
	Name() string
	MakeTestSuite() *TestSuite
}

// FactoryFunc adapts a function to SuiteFactory
type FactoryFunc struct {
	SuiteName string
	Make      func() *TestSuite
}

func (f FactoryFunc) Name() string              { return f.SuiteName }
func (f FactoryFunc) MakeTestSuite() *TestSuite { return f.Make() }

// Registry holds suite factories in registration order
type Registry struct {
	mu        sync.RWMutex
	factories []SuiteFactory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// AddTestSuiteFactory appends f. Names are unique within a registry.
func (r *Registry) AddTestSuiteFactory(f SuiteFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.factories {
		if existing.Name() == f.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateSuite, f.Name())
		}
	}
	r.factories = append(r.factories, f)
	return nil
}

// Register adds a factory built from fn
func (r *Registry) Register(name string, fn func() *TestSuite) error {
	return r.AddTestSuiteFactory(FactoryFunc{SuiteName: name, Make: fn})
}

// TestSuites makes a fresh suite from every factory. The caller owns them.
func (r *Registry) TestSuites() []*TestSuite {
	r.mu.RLock()
	factories := append([]SuiteFactory(nil), r.factories...)
	r.mu.RUnlock()

	suites := make([]*TestSuite, 0, len(factories))
	for _, f := range factories {
		if s := f.MakeTestSuite(); s != nil {
			suites = append(suites, s)
		}
	}
	return suites
}

// Names returns the registered factory names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.factories))
	for i, f := range r.factories {
		names[i] = f.Name()
	}
	return names
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry filled from init functions
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a suite factory to the default registry. It is meant to be
// called from init and panics on a duplicate name.
func Register(name string, fn func() *TestSuite) {
	if err := Default().Register(name, fn); err != nil {
		panic(err)
	}
}

// Builder assembles the suite of one fixture
//
//	xunit.Build(f).
//		Simple("Parse", f.testParse).
//		Stress("Concurrent", 100, f.testConcurrent).
//		Suite()
type Builder struct {
	fixture Fixture
	suite   *TestSuite
}

// Build starts a suite named after fixture
func Build(fixture Fixture) *Builder {
	return &Builder{fixture: fixture, suite: NewTestSuite(fixture.Name())}
}

// Simple adds a plain case
func (b *Builder) Simple(name string, body func(t *T)) *Builder {
	b.suite.AddTestCase(newCase(b.fixture, name, body, 1))
	return b
}

// Stress adds a case whose body runs n times
func (b *Builder) Stress(name string, n int, body func(t *T)) *Builder {
	b.suite.AddTestCase(Stress(newCase(b.fixture, name, body, 1), n))
	return b
}

// Add adds an already constructed case
func (b *Builder) Add(tc *TestCase) *Builder {
	b.suite.AddTestCase(tc)
	return b
}

// Suite returns the assembled suite
func (b *Builder) Suite() *TestSuite {
	return b.suite
}

// AddException adds a case expected to panic with an error matching E
func AddException[E error](b *Builder, name string, body func(t *T)) *Builder {
	b.suite.AddTestCase(ExpectPanic[E](newCase(b.fixture, name, body, 1)))
	return b
}
