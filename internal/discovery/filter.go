package discovery

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"osptest/internal/xunit"
)

// Filter selects suites and cases by name pattern
type Filter struct {
	selectors []Selector
	failed    map[string]bool
}

// NewFilter creates a Filter from a selector list, see ParseSelectors
func NewFilter(spec string) *Filter {
	return &Filter{selectors: ParseSelectors(spec)}
}

// OnlyFailed restricts the filter to the given "Suite::Case" names
func (f *Filter) OnlyFailed(fullNames []string) *Filter {
	f.failed = lo.SliceToMap(fullNames, func(n string) (string, bool) { return n, true })
	return f
}

// Empty reports whether the filter selects everything
func (f *Filter) Empty() bool {
	return len(f.selectors) == 0 && f.failed == nil
}

// MatchSuite reports whether any case of suite may be selected
func (f *Filter) MatchSuite(suite string) bool {
	if len(f.selectors) == 0 {
		return true
	}
	return lo.ContainsBy(f.selectors, func(s Selector) bool {
		return s.Suite == "" || Match(s.Suite, suite)
	})
}

// MatchCase reports whether the case is selected
func (f *Filter) MatchCase(suite, name string) bool {
	if f.failed != nil && !f.failed[suite+CaseSeparator+name] {
		return false
	}
	if len(f.selectors) == 0 {
		return true
	}
	return lo.ContainsBy(f.selectors, func(s Selector) bool {
		if s.Suite != "" && !Match(s.Suite, suite) {
			return false
		}
		return s.Case == "" || Match(s.Case, name)
	})
}

// Apply drops the suites with no selected case and restricts the others
// to their selected cases. The unselected cases of a kept suite are
// recorded as not run when it executes.
func (f *Filter) Apply(suites []*xunit.TestSuite) []*xunit.TestSuite {
	if f.Empty() {
		return suites
	}
	return lo.Filter(suites, func(s *xunit.TestSuite, _ int) bool {
		if !f.MatchSuite(s.Name()) {
			return false
		}
		pred := func(tc *xunit.TestCase) bool { return f.MatchCase(s.Name(), tc.Name()) }
		if !lo.ContainsBy(s.Cases(), pred) {
			return false
		}
		s.Select(pred)
		return true
	})
}

// FilterByName filters names by pattern using wildcard matching
// Supports patterns like "*Parse" or "*Payment*"
func (f *Filter) FilterByName(names []string, pattern string) []string {
	if pattern == "" {
		return names
	}
	return lo.Filter(names, func(name string, _ int) bool {
		return Match(pattern, name)
	})
}

// Match reports whether name matches pattern. Patterns with * or ? are
// wildcards, with a fallback where every non-empty part between the stars
// must occur in name. Patterns without wildcards match as substrings.
func Match(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		parts := lo.Filter(strings.Split(pattern, "*"), func(p string, _ int) bool { return p != "" })
		if len(parts) == 0 {
			return true
		}
		return lo.EveryBy(parts, func(p string) bool { return strings.Contains(name, p) })
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
