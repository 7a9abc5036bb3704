package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/acarl005/stripansi"

	"osptest/internal/domain"
)

const (
	xmlVersion = "1.0"
	xmlRunName = "OspTest"
	xmlRunMode = "run"
	xmlRunType = "simul"
)

type xmlTest struct {
	XMLName xml.Name   `xml:"test"`
	Version string     `xml:"version,attr"`
	Run     xmlTestRun `xml:"testrun"`
}

type xmlTestRun struct {
	Errors    int            `xml:"errors,attr"`
	Failures  int            `xml:"failures,attr"`
	Successes int            `xml:"successes,attr"`
	Name      string         `xml:"name,attr"`
	Mode      string         `xml:"mode,attr"`
	Project   string         `xml:"project,attr"`
	Runs      string         `xml:"runs,attr"`
	Time      int64          `xml:"time,attr"`
	Type      string         `xml:"type,attr"`
	Suites    []xmlTestSuite `xml:"testsuite"`
}

type xmlTestSuite struct {
	Name   string        `xml:"name,attr"`
	Status string        `xml:"status,attr"`
	Cases  []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	File   string   `xml:"file,attr"`
	Line   int      `xml:"line,attr"`
	Name   string   `xml:"name,attr"`
	Status string   `xml:"status,attr"`
	Time   int64    `xml:"time,attr"`
	Fail   *xmlFail `xml:"fail,omitempty"`
}

type xmlFail struct {
	File    string `xml:"file,attr"`
	Line    int    `xml:"line,attr"`
	Status  string `xml:"status,attr"`
	Time    int64  `xml:"time,attr"`
	Message string `xml:",cdata"`
}

// WriteXML renders the XML report. Times are milliseconds.
func WriteXML(w io.Writer, rep domain.RunReport) error {
	counts := rep.Counts()
	doc := xmlTest{
		Version: xmlVersion,
		Run: xmlTestRun{
			Errors:    counts.Errors,
			Failures:  counts.Failures,
			Successes: counts.Successes,
			Name:      xmlRunName,
			Mode:      xmlRunMode,
			Project:   rep.Project,
			Runs:      fmt.Sprintf("%d/%d", counts.Runs(), counts.Declared),
			Time:      rep.Elapsed.Milliseconds(),
			Type:      xmlRunType,
		},
	}
	for _, s := range rep.Suites {
		suite := xmlTestSuite{Name: s.Name, Status: s.Status()}
		for _, c := range s.Cases {
			tc := xmlTestCase{
				File:   c.FilePath,
				Line:   c.LineNum,
				Name:   c.Name,
				Status: c.Outcome.String(),
				Time:   c.Elapsed.Milliseconds(),
			}
			if c.Outcome == domain.OutcomeFail || c.Outcome == domain.OutcomeError {
				tc.Fail = &xmlFail{
					File:    c.FilePath,
					Line:    c.LineNum,
					Status:  domain.OutcomeFail.String(),
					Time:    c.Elapsed.Milliseconds(),
					Message: stripMessage(c.Message),
				}
			}
			suite.Cases = append(suite.Cases, tc)
		}
		doc.Run.Suites = append(doc.Run.Suites, suite)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode xml report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ParseXML reads an XML report back into counts
func ParseXML(r io.Reader) (domain.Counts, error) {
	var doc xmlTest
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return domain.Counts{}, fmt.Errorf("failed to decode xml report: %w", err)
	}
	var counts domain.Counts
	for _, s := range doc.Run.Suites {
		for _, c := range s.Cases {
			outcome, ok := domain.ParseOutcome(c.Status)
			if !ok {
				return counts, fmt.Errorf("case %s::%s: unknown status %q", s.Name, c.Name, c.Status)
			}
			counts.Add(outcome)
			counts.Declared++
		}
	}
	if _, total, ok := strings.Cut(doc.Run.Runs, "/"); ok {
		if n, err := strconv.Atoi(total); err == nil && n > counts.Declared {
			counts.Declared = n
		}
	}
	return counts, nil
}

// stripMessage removes colour codes but keeps the message's lines. Runes
// outside the XML character range and invalid UTF-8 become U+FFFD.
func stripMessage(msg string) string {
	return strings.TrimSpace(strings.Map(xmlRune, stripansi.Strip(msg)))
}

func xmlRune(r rune) rune {
	switch {
	case r == utf8.RuneError:
		return unicode.ReplacementChar
	case r == '\t' || r == '\n' || r == '\r':
		return r
	case r >= 0x20 && r <= 0xD7FF,
		r >= 0xE000 && r <= 0xFFFD,
		r >= 0x10000 && r <= unicode.MaxRune:
		return r
	}
	return unicode.ReplacementChar
}
