// Package selftest registers suites that exercise osptest's own report
// and selection code. Importing it fills the default registry.
package selftest

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"osptest/internal/domain"
	"osptest/internal/report"
	"osptest/internal/xunit"
)

func init() {
	xunit.Register("Report", newReportSuite)
}

// reportFixture owns a scratch directory for the whole suite run
type reportFixture struct {
	xunit.NamedFixture
	dir string
}

func (f *reportFixture) SetUpBeforeTestSuite() error {
	dir, err := os.MkdirTemp("", "osptest-report-")
	if err != nil {
		return err
	}
	f.dir = dir
	return nil
}

func (f *reportFixture) TearDownAfterTestSuite() error {
	return os.RemoveAll(f.dir)
}

func newReportSuite() *xunit.TestSuite {
	f := &reportFixture{NamedFixture: xunit.NamedFixture{FixtureName: "Report"}}
	return xunit.Build(f).
		Simple("TextRoundTrip", func(t *xunit.T) { f.roundTrip(t, domain.ReportText) }).
		Simple("XMLRoundTrip", func(t *xunit.T) { f.roundTrip(t, domain.ReportXML) }).
		Simple("RefuseExisting", f.testRefuseExisting).
		Simple("FailureData", testFailureData).
		Suite()
}

func sampleRun() domain.RunReport {
	return domain.RunReport{
		Project:  "selftest",
		Declared: 4,
		Suites: []domain.SuiteRecord{{
			Name:    "Math",
			Elapsed: 3 * time.Millisecond,
			Cases: []domain.CaseRecord{
				{Suite: "Math", Name: "Add", Outcome: domain.OutcomeSuccess, Elapsed: time.Millisecond},
				{Suite: "Math", Name: "Div", Outcome: domain.OutcomeFail, Message: "b != 0"},
				{Suite: "Math", Name: "Mod", Outcome: domain.OutcomeError, Message: "panic: <divide>\n"},
				{Suite: "Math", Name: "Pow", Outcome: domain.OutcomeNotRun, Message: xunit.ReasonStopped},
			},
		}},
	}
}

func (f *reportFixture) roundTrip(t *xunit.T, typ domain.ReportType) {
	rep := sampleRun()
	path := filepath.Join(f.dir, "roundtrip"+typ.Extension())
	if err := report.WriteFile(path, true, typ, rep); err != nil {
		t.Error(err)
	}

	counts, err := report.ParseFile(path)
	if err != nil {
		t.Error(err)
	}
	xunit.AssertEqual(t, rep.Counts(), counts)
}

func (f *reportFixture) testRefuseExisting(t *xunit.T) {
	path := filepath.Join(f.dir, "existing.txt")
	if err := report.WriteFile(path, false, domain.ReportText, sampleRun()); err != nil {
		t.Error(err)
	}

	err := report.WriteFile(path, false, domain.ReportText, sampleRun())
	t.Assert(errors.Is(err, report.ErrFileExists), "errors.Is(err, report.ErrFileExists)")
	t.Check(report.WriteFile(path, true, domain.ReportText, sampleRun()) == nil, "overwrite succeeds")
}

func testFailureData(t *xunit.T) {
	lines := report.FailureData(sampleRun())
	xunit.AssertEqual(t, 2, len(lines))
	xunit.CheckEqual(t, "[F]Math::Div-b != 0", lines[0])
	xunit.CheckEqual(t, "[E]Math::Mod-panic: <divide>", lines[1])
}
