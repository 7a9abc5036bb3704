package migration

import (
	"errors"
	"strings"
	"testing"
	"time"

	"osptest/internal/domain"
)

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"default", "osptest_results", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 65), false},
		{"quote", "results'; DROP", false},
		{"dash", "results-db", false},
		{"leading dollar", "$results", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidDatabaseName(tt.input); got != tt.want {
				t.Errorf("isValidDatabaseName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	if len(schema) == 0 {
		t.Fatal("schema has no steps")
	}
	for _, st := range schema {
		if !strings.HasPrefix(st.query, "CREATE TABLE IF NOT EXISTS") {
			t.Errorf("step %s is not idempotent: %s", st.name, st.query)
		}
	}
}

func TestSummarize(t *testing.T) {
	ok := []domain.MigrationResult{{Name: "a", Success: true}, {Name: "b", Success: true}}
	if err := summarize(ok, "db", time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	failed := append(ok, domain.MigrationResult{Name: "c", Error: errors.New("denied")})
	if err := summarize(failed, "db", time.Millisecond); err == nil || !strings.Contains(err.Error(), "c") {
		t.Errorf("expected failure for step c, got %v", err)
	}
}
