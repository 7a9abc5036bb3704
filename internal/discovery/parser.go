package discovery

import (
	"strings"

	"github.com/samber/lo"
)

// CaseSeparator joins a suite and a case name in selectors and reports
const CaseSeparator = "::"

// Selector picks suites and cases by wildcard pattern. An empty Case
// pattern selects every case of the matching suites.
type Selector struct {
	Suite string
	Case  string
}

func (s Selector) String() string {
	if s.Case == "" {
		return s.Suite
	}
	return s.Suite + CaseSeparator + s.Case
}

// ParseSelectors parses a comma separated list such as
// "Math*,Db::Open*,::*Timeout". An empty suite part matches every suite.
func ParseSelectors(spec string) []Selector {
	parts := lo.Map(strings.Split(spec, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	parts = lo.Uniq(lo.Filter(parts, func(p string, _ int) bool { return p != "" }))

	return lo.Map(parts, func(p string, _ int) Selector {
		suite, name, _ := strings.Cut(p, CaseSeparator)
		return Selector{Suite: suite, Case: name}
	})
}

// SplitFullName splits "Suite::Case" into its parts
func SplitFullName(full string) (suite, name string) {
	suite, name, ok := strings.Cut(full, CaseSeparator)
	if !ok {
		return "", full
	}
	return suite, name
}
