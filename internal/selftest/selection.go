package selftest

import (
	"strconv"

	"osptest/internal/discovery"
	"osptest/internal/xunit"
)

func init() {
	xunit.Register("Selection", newSelectionSuite)
	xunit.Register("Engine", newEngineSuite)
}

func newSelectionSuite() *xunit.TestSuite {
	return xunit.Build(xunit.NewFixture("Selection")).
		Simple("Wildcards", testWildcards).
		Simple("Selectors", testSelectors).
		Stress("ConcurrentFilters", 50, testConcurrentFilters).
		Suite()
}

func testWildcards(t *xunit.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"*", "Anything", true},
		{"Math*", "MathTest", true},
		{"*Test", "MathTest", true},
		{"*at*", "MathTest", true},
		{"Math", "MathTest", true},
		{"Math", "Db", false},
		{"Db*", "MathTest", false},
	}
	for _, tt := range tests {
		t.Check(discovery.Match(tt.pattern, tt.name) == tt.want, tt.pattern+" vs "+tt.name)
	}
}

func testSelectors(t *xunit.T) {
	sels := discovery.ParseSelectors("Math*, Db::Open* ,,Math*")
	xunit.AssertEqual(t, 2, len(sels))
	xunit.CheckEqual(t, discovery.Selector{Suite: "Math*"}, sels[0])
	xunit.CheckEqual(t, discovery.Selector{Suite: "Db", Case: "Open*"}, sels[1])

	suite, name := discovery.SplitFullName("Db::OpenTimeout")
	xunit.CheckEqual(t, "Db", suite)
	xunit.CheckEqual(t, "OpenTimeout", name)
}

func testConcurrentFilters(t *xunit.T) {
	f := discovery.NewFilter("Db::Open*")
	t.Assert(f.MatchCase("Db", "OpenTimeout"), `f.MatchCase("Db", "OpenTimeout")`)
	t.AssertFalse(f.MatchCase("Db", "Close"), `f.MatchCase("Db", "Close")`)
}

// engineFixture counts case hooks around every Engine case
type engineFixture struct {
	xunit.NamedFixture
	setUps int
}

func (f *engineFixture) SetUp(t *xunit.T) {
	f.setUps++
	t.Logf("set up %s", t.Name())
}

func (f *engineFixture) TearDown(t *xunit.T) {}

func newEngineSuite() *xunit.TestSuite {
	f := &engineFixture{NamedFixture: xunit.NamedFixture{FixtureName: "Engine"}}
	b := xunit.Build(f).
		Simple("CaseHooks", func(t *xunit.T) {
			t.Assert(f.setUps > 0, "f.setUps > 0")
		}).
		Simple("Checks", func(t *xunit.T) {
			xunit.CheckEqualDelta(t, 0.3, 0.1+0.2, 1e-9)
			xunit.CheckDeepEqual(t, []string{"a", "b"}, []string{"a", "b"})
			t.CheckNull(nil, "nil")
		})
	xunit.AddException[*strconv.NumError](b, "ParseError", func(t *xunit.T) {
		_, err := strconv.Atoi("forty-two")
		panic(err)
	})
	return b.Suite()
}
