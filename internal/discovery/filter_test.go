package discovery

import (
	"testing"

	"osptest/internal/domain"
	"osptest/internal/xunit"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{"empty pattern matches all", "", "Parse", true},
		{"wildcard suffix", "*Parse", "TestParse", true},
		{"wildcard substring", "*Pay*", "PaymentSuite", true},
		{"multiple wildcards", "*User*Suite", "UserServiceSuite", true},
		{"simple contains", "Pay", "PaymentSuite", true},
		{"no match", "*Missing*", "PaymentSuite", false},
		{"question mark", "Db?", "Db1", true},
		{"question mark no match", "Db?", "Db12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.value); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter("")
	names := []string{"MathSuite", "PaymentSuite", "PaymentGatewaySuite"}

	if got := filter.FilterByName(names, ""); len(got) != 3 {
		t.Errorf("expected 3 matches, got %d", len(got))
	}
	if got := filter.FilterByName(names, "*Payment*"); len(got) != 2 {
		t.Errorf("expected 2 matches, got %d", len(got))
	}
	if got := filter.FilterByName([]string{}, "*Suite"); len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}
}

func TestParseSelectors(t *testing.T) {
	got := ParseSelectors(" Math* , Db::Open*,::*Timeout,, Math* ")
	want := []Selector{{Suite: "Math*"}, {Suite: "Db", Case: "Open*"}, {Case: "*Timeout"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d selectors, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selector %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got[1].String() != "Db::Open*" {
		t.Errorf("unexpected string form %s", got[1].String())
	}
}

func suite(name string, cases ...string) *xunit.TestSuite {
	s := xunit.NewTestSuite(name)
	for _, c := range cases {
		s.AddTestCase(xunit.NewTestCase(c, func(t *xunit.T) {}))
	}
	return s
}

func TestFilter_Apply(t *testing.T) {
	suites := []*xunit.TestSuite{
		suite("Math", "Add", "Sub"),
		suite("Db", "Open", "OpenTimeout", "Close"),
		suite("Net", "Dial"),
	}

	kept := NewFilter("Math::Add,::*Timeout").Apply(suites)
	if len(kept) != 2 {
		t.Fatalf("expected 2 suites, got %d", len(kept))
	}

	r := xunit.NewTestResult("p")
	for _, s := range kept {
		s.Execute(r)
	}
	if r.NumberOfRuns() != 2 {
		t.Errorf("expected 2 runs, got %d", r.NumberOfRuns())
	}
	if r.NumberOfNotRun() != 3 {
		t.Errorf("expected 3 filtered cases, got %d", r.NumberOfNotRun())
	}
	for _, rec := range r.Records() {
		if rec.Outcome == domain.OutcomeNotRun && rec.Message != xunit.ReasonFiltered {
			t.Errorf("unexpected not-run reason %q", rec.Message)
		}
	}
}

func TestFilter_OnlyFailed(t *testing.T) {
	suites := []*xunit.TestSuite{suite("Math", "Add", "Sub"), suite("Db", "Open")}

	kept := NewFilter("").OnlyFailed([]string{"Math::Sub"}).Apply(suites)
	if len(kept) != 1 || kept[0].Name() != "Math" {
		t.Fatalf("expected only Math, got %d suites", len(kept))
	}

	suiteName, caseName := SplitFullName("Math::Sub")
	if suiteName != "Math" || caseName != "Sub" {
		t.Errorf("unexpected split %s %s", suiteName, caseName)
	}
}
