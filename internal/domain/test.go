package domain

import "fmt"

// Outcome is the terminal classification of one test case execution
type Outcome int

const (
	OutcomeNotRun Outcome = iota
	OutcomeSuccess
	OutcomeFail
	OutcomeError
)

var outcomeMarkers = map[Outcome]string{
	OutcomeNotRun:  "[X]",
	OutcomeSuccess: "[O]",
	OutcomeFail:    "[F]",
	OutcomeError:   "[E]",
}

var outcomeNames = map[Outcome]string{
	OutcomeNotRun:  "notrun",
	OutcomeSuccess: "success",
	OutcomeFail:    "fail",
	OutcomeError:   "error",
}

// Marker returns the text report prefix of the outcome
func (o Outcome) Marker() string {
	if m, ok := outcomeMarkers[o]; ok {
		return m
	}
	return "[?]"
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Ran reports whether the outcome counts as an executed case
func (o Outcome) Ran() bool {
	return o == OutcomeSuccess || o == OutcomeFail || o == OutcomeError
}

// ParseMarker maps a text report prefix back to its outcome
func ParseMarker(marker string) (Outcome, bool) {
	for o, m := range outcomeMarkers {
		if m == marker {
			return o, true
		}
	}
	return OutcomeNotRun, false
}

// ParseOutcome maps an outcome name ("success", "fail", ...) back to its outcome
func ParseOutcome(name string) (Outcome, bool) {
	for o, n := range outcomeNames {
		if n == name {
			return o, true
		}
	}
	return OutcomeNotRun, false
}

// AssertKind classifies a single assertion record
type AssertKind int

const (
	AssertSuccess AssertKind = iota
	AssertFail
	AssertError
	AssertCheck
)

func (k AssertKind) String() string {
	switch k {
	case AssertSuccess:
		return "success"
	case AssertFail:
		return "fail"
	case AssertError:
		return "error"
	case AssertCheck:
		return "check"
	default:
		return fmt.Sprintf("assert(%d)", int(k))
	}
}

// Failed reports whether the record describes a failed assertion or check
func (k AssertKind) Failed() bool {
	return k != AssertSuccess
}

// AssertRecord is one recorded assertion event, keyed by its call site
type AssertRecord struct {
	Kind     AssertKind `json:"kind"`
	Message  string     `json:"message,omitempty"`
	FilePath string     `json:"file_path"`
	LineNum  int        `json:"line_num"`
}

// ReportType selects the serialization of a test result file
type ReportType int

const (
	ReportText ReportType = iota
	ReportXML
)

func (t ReportType) String() string {
	if t == ReportXML {
		return "xml"
	}
	return "txt"
}

// Extension returns the file extension used for the report type
func (t ReportType) Extension() string {
	return "." + t.String()
}

// ParseReportType accepts "txt", "text" or "xml"
func ParseReportType(s string) (ReportType, error) {
	switch s {
	case "txt", "text", "":
		return ReportText, nil
	case "xml":
		return ReportXML, nil
	}
	return ReportText, fmt.Errorf("unknown report type %q", s)
}
