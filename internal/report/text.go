package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"osptest/internal/domain"
)

// WriteText renders the line oriented report: the suite name, then one
// tab-indented line per case prefixed with its outcome marker. Names and
// messages are flattened to a single line.
func WriteText(w io.Writer, rep domain.RunReport) error {
	bw := bufio.NewWriter(w)
	for _, s := range rep.Suites {
		fmt.Fprintln(bw, flatten(s.Name))
		for _, c := range s.Cases {
			fmt.Fprintln(bw, textLine(c))
		}
	}
	return bw.Flush()
}

func textLine(c domain.CaseRecord) string {
	marker := c.Outcome.Marker()
	name := flatten(c.Name)
	switch {
	case c.Outcome == domain.OutcomeFail || c.Outcome == domain.OutcomeError:
		return fmt.Sprintf("\t%s %s - %s", marker, name, flatten(c.Message))
	case c.Outcome == domain.OutcomeNotRun && c.Message != "":
		return fmt.Sprintf("\t%s %s - %s", marker, name, flatten(c.Message))
	default:
		return fmt.Sprintf("\t%s %s (%dms)", marker, name, c.Elapsed.Milliseconds())
	}
}

// ParseText reads a text report back into counts. Every case line counts
// as declared.
func ParseText(r io.Reader) (domain.Counts, error) {
	var counts domain.Counts
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		body := line[1:]
		if len(body) < 3 {
			return counts, fmt.Errorf("line %d: truncated case line", lineNum)
		}
		outcome, ok := domain.ParseMarker(body[:3])
		if !ok {
			return counts, fmt.Errorf("line %d: unknown marker %q", lineNum, body[:3])
		}
		counts.Add(outcome)
		counts.Declared++
	}
	if err := sc.Err(); err != nil {
		return counts, fmt.Errorf("failed to read text report: %w", err)
	}
	return counts, nil
}
