package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"osptest/internal/domain"
)

// ParseFile parses a report file, choosing the format by extension
func ParseFile(path string) (domain.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Counts{}, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case domain.ReportXML.Extension():
		return ParseXML(f)
	default:
		return ParseText(f)
	}
}
