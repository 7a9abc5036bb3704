package parser

import (
	"strings"

	"osptest/internal/domain"
)

// ReportParser turns failed and errored case records into TestFailures
type ReportParser struct {
	// MaxStackLines caps the stack trace kept per failure, 0 keeps all
	MaxStackLines int
}

// NewReportParser creates a new ReportParser
func NewReportParser() *ReportParser {
	return &ReportParser{MaxStackLines: 40}
}

// ParseFailures extracts the failed and errored cases of rep in recorded order
func (p *ReportParser) ParseFailures(rep domain.RunReport) []domain.TestFailure {
	var failures []domain.TestFailure
	for _, s := range rep.Suites {
		for _, c := range s.Cases {
			if c.Outcome != domain.OutcomeFail && c.Outcome != domain.OutcomeError {
				continue
			}
			f := domain.TestFailure{
				Suite:    s.Name,
				TestName: c.Name,
				Outcome:  c.Outcome.String(),
				File:     c.FilePath,
				Line:     c.LineNum,
				Message:  c.Message,
			}
			for _, a := range c.Asserts {
				if a.Kind == domain.AssertCheck {
					f.Checks = append(f.Checks, a.Message)
				}
			}
			if c.Stack != "" {
				f.StackTrace = p.stackLines(c.Stack)
			}
			failures = append(failures, f)
		}
	}
	return failures
}

func (p *ReportParser) stackLines(stack string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(stack, "\n"), "\n") {
		if line = strings.TrimRight(line, " \t"); line == "" {
			continue
		}
		if p.MaxStackLines > 0 && len(lines) == p.MaxStackLines {
			lines = append(lines, "...")
			break
		}
		lines = append(lines, line)
	}
	return lines
}
