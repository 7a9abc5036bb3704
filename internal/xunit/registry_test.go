package xunit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osptest/internal/domain"
)

type calcFixture struct {
	NamedFixture
	value int
}

func (f *calcFixture) SetUp(t *T)    { f.value = 40 }
func (f *calcFixture) TearDown(t *T) { f.value = 0 }

func calcSuite() *TestSuite {
	f := &calcFixture{NamedFixture: NamedFixture{FixtureName: "Calc"}}
	b := Build(f).
		Simple("Add", func(t *T) { AssertEqual(t, 42, f.value+2) }).
		Stress("Repeat", 5, func(t *T) { t.Check(f.value == 40, "f.value == 40") })
	return AddException[*outOfRangeError](b, "Index", func(t *T) {
		panic(&outOfRangeError{index: f.value})
	}).Suite()
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Calc", calcSuite))
	require.NoError(t, reg.AddTestSuiteFactory(FactoryFunc{SuiteName: "Empty", Make: func() *TestSuite { return NewTestSuite("Empty") }}))

	err := reg.Register("Calc", calcSuite)
	assert.ErrorIs(t, err, ErrDuplicateSuite)
	assert.Equal(t, []string{"Calc", "Empty"}, reg.Names())

	first, second := reg.TestSuites(), reg.TestSuites()
	require.Len(t, first, 2)
	assert.NotSame(t, first[0], second[0])
	assert.Equal(t, 3, first[0].TestCaseCount())
}

func TestBuilderSuiteRuns(t *testing.T) {
	s := calcSuite()
	assert.Equal(t, "Calc", s.Name())

	r := NewTestResult("p")
	s.Execute(r)

	assert.Equal(t, 3, r.NumberOfSuccesses())
	for _, tc := range s.Cases() {
		assert.Equal(t, domain.OutcomeSuccess, tc.Outcome(), tc.Name())
		assert.Contains(t, tc.FilePath(), "registry_test.go")
	}
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, Default(), Default())

	Register("xunit.DefaultRegistryCheck", func() *TestSuite { return NewTestSuite("check") })
	assert.Contains(t, Default().Names(), "xunit.DefaultRegistryCheck")
	assert.Panics(t, func() {
		Register("xunit.DefaultRegistryCheck", func() *TestSuite { return nil })
	})
}
