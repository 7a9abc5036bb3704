package domain

import "testing"

func TestOutcome_MarkerRoundTrip(t *testing.T) {
	tests := []struct {
		outcome Outcome
		marker  string
	}{
		{OutcomeSuccess, "[O]"},
		{OutcomeFail, "[F]"},
		{OutcomeError, "[E]"},
		{OutcomeNotRun, "[X]"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if got := tt.outcome.Marker(); got != tt.marker {
				t.Errorf("expected %s, got %s", tt.marker, got)
			}
			back, ok := ParseMarker(tt.marker)
			if !ok || back != tt.outcome {
				t.Errorf("expected %v to parse back, got %v (ok=%v)", tt.outcome, back, ok)
			}
		})
	}

	if _, ok := ParseMarker("[Z]"); ok {
		t.Error("unknown marker should not parse")
	}
}

func TestCounts_Runs(t *testing.T) {
	var c Counts
	for _, o := range []Outcome{OutcomeSuccess, OutcomeFail, OutcomeError, OutcomeNotRun, OutcomeSuccess} {
		c.Add(o)
	}
	if c.Runs() != 4 {
		t.Errorf("expected 4 runs, got %d", c.Runs())
	}
	if c.NotRun != 1 {
		t.Errorf("expected 1 not run, got %d", c.NotRun)
	}
}

func TestParseReportType(t *testing.T) {
	if rt, err := ParseReportType("xml"); err != nil || rt != ReportXML {
		t.Errorf("expected xml, got %v (%v)", rt, err)
	}
	if rt, err := ParseReportType("txt"); err != nil || rt != ReportText {
		t.Errorf("expected txt, got %v (%v)", rt, err)
	}
	if _, err := ParseReportType("html"); err == nil {
		t.Error("expected error for unknown report type")
	}
}
