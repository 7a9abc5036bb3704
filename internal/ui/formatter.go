package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"osptest/internal/domain"
	"osptest/internal/xunit"
)

// Formatter formats and displays console output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a Formatter writing to stdout
func NewFormatter() *Formatter {
	return &Formatter{out: os.Stdout}
}

// NewFormatterTo creates a Formatter writing to w
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{out: w}
}

func (f *Formatter) println(s string) {
	fmt.Fprintln(f.out, s)
}

// PrintMetaStats displays the statistics of a stored run and the tree of its failures
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Execution Statistics (%s)", meta.Project)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Value", Align: text.AlignRight},
	})
	t.AppendRows([]table.Row{
		{"Total Test Cases", meta.TotalTestCases},
		{"Runs", meta.Runs},
		{"Successes", meta.Successes},
		{"Failures", meta.Failures},
		{"Errors", meta.Errors},
		{"Not Run", meta.NotRun},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Runners", meta.Runners},
		{"Run ID", meta.RunID},
		{"Timestamp", meta.Timestamp},
	})
	if meta.Failures+meta.Errors == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.Render()

	f.println("")
	if meta.Failures+meta.Errors == 0 {
		f.println(color.GreenString("✓ All tests passed!"))
		return
	}
	f.println(color.RedString("✗ %d failure(s) and %d error(s) in %d run(s)", meta.Failures, meta.Errors, meta.Runs))
	f.println("")
	f.PrintFailedTestsTree(output.Details)
}

// PrintReport displays a per-suite table of a finished run
func (f *Formatter) PrintReport(rep domain.RunReport) {
	counts := rep.Counts()

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Results (%s)", formatDuration(rep.Elapsed.Seconds()))
	t.AppendHeader(table.Row{"Suite", "Duration", "Tests", "Passed", "Failed", "Errors", "Not Run", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Not Run", Align: text.AlignRight},
	})

	for _, s := range rep.Suites {
		var c domain.Counts
		for _, cs := range s.Cases {
			c.Add(cs.Outcome)
		}
		t.AppendRow(table.Row{
			s.Name,
			formatDuration(s.Elapsed.Seconds()),
			len(s.Cases),
			c.Successes,
			c.Failures,
			c.Errors,
			c.NotRun,
			strings.ToUpper(s.Status()),
		})
	}

	status := "SUCCESS"
	switch {
	case counts.Failures+counts.Errors > 0:
		status = "FAIL"
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case counts.NotRun > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		formatDuration(rep.Elapsed.Seconds()),
		counts.Declared,
		counts.Successes,
		counts.Failures,
		counts.Errors,
		counts.NotRun,
		status,
	})
	t.Render()

	for _, fe := range rep.FixtureErrors {
		f.println(color.RedString("fixture %s of %s: %s failed: %s", fe.Fixture, fe.Suite, fe.Phase, fe.Message))
	}
}

// PrintCounts displays the counts parsed back from a report file
func (f *Formatter) PrintCounts(path string, c domain.Counts) {
	line := fmt.Sprintf("%s: %d/%d run, %d success, %d fail, %d error, %d not run",
		path, c.Runs(), c.Declared, c.Successes, c.Failures, c.Errors, c.NotRun)
	if c.Failures+c.Errors > 0 {
		f.println(color.RedString("%s", line))
		return
	}
	f.println(color.GreenString("%s", line))
}

func formatDuration(seconds float64) string {
	return fmt.Sprintf("%.3fs", seconds)
}

// PrintFailedTestsTree prints failures grouped by suite
func (f *Formatter) PrintFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	bySuite := make(map[string][]domain.TestFailure)
	for _, failure := range failures {
		bySuite[failure.Suite] = append(bySuite[failure.Suite], failure)
	}
	names := make([]string, 0, len(bySuite))
	for name := range bySuite {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		isLast := i == len(names)-1
		connector, childPrefix := "├── ", "│   "
		if isLast {
			connector, childPrefix = "└── ", "    "
		}
		f.println(color.CyanString("%s%s", connector, name))

		cases := bySuite[name]
		for j, failure := range cases {
			caseConnector := "├── "
			if j == len(cases)-1 {
				caseConnector = "└── "
			}
			label := failure.TestName
			if failure.Message != "" {
				label += " - " + failure.Message
			}
			line := childPrefix + caseConnector + label
			if failure.Resolved {
				f.println(color.HiBlackString("%s (resolved)", line))
			} else {
				f.println(color.RedString("%s", line))
			}
		}
	}
}

// PrintTestList prints the registered suites, optionally with their cases.
// Cases listed in failed (by "Suite::Case") are marked with [F].
func (f *Formatter) PrintTestList(suites []*xunit.TestSuite, showTestCases bool, failed map[string]struct{}) {
	total := 0
	for _, s := range suites {
		total += s.TestCaseCount()
	}

	if showTestCases {
		f.println(color.GreenString("Found %d suite(s) with %d test case(s):\n", len(suites), total))
	} else {
		f.println(color.GreenString("Found %d suite(s):\n", len(suites)))
	}

	for i, s := range suites {
		isLastSuite := i == len(suites)-1
		connector, childPrefix := "├── ", "│   "
		if isLastSuite {
			connector, childPrefix = "└── ", "    "
		}

		cases := s.Cases()
		failMarker := ""
		for _, tc := range cases {
			if _, ok := failed[s.Name()+"::"+tc.Name()]; ok {
				failMarker = " " + color.RedString("[F]")
				break
			}
		}
		f.println(color.CyanString("%s%s", connector, s.Name()) + failMarker)

		if !showTestCases {
			continue
		}
		if len(cases) == 0 {
			f.println(childPrefix + "└── " + color.RedString("(no test cases found)"))
		}
		for j, tc := range cases {
			caseConnector := "├── "
			if j == len(cases)-1 {
				caseConnector = "└── "
			}
			name := color.YellowString("%s", tc.Name())
			if _, ok := failed[s.Name()+"::"+tc.Name()]; ok {
				name += " " + color.RedString("[F]")
			}
			f.println(childPrefix + caseConnector + name)
		}
		if !isLastSuite {
			f.println("")
		}
	}
}
