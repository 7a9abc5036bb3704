package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"reports/unit.txt",
		"reports/nightly/integration.xml",
		"reports/nightly/notes.md",
		"vendor/lib/result.txt",
		".cache/old.xml",
		"summary.XML",
	}
	for _, file := range files {
		fullPath := filepath.Join(tmpDir, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("report"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}

	scanner := NewScanner([]string{"vendor"})

	t.Run("scans report files correctly", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Should find 3 reports, not the ones in vendor or hidden directories
		if len(results) != 3 {
			t.Errorf("expected 3 report files, got %d: %v", len(results), results)
		}
	})

	t.Run("resolves a single file", func(t *testing.T) {
		file := filepath.Join(tmpDir, "reports/unit.txt")
		results, err := scanner.Resolve(file)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0] != file {
			t.Errorf("expected [%s], got %v", file, results)
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan("/non/existent/path")
		if err == nil {
			t.Error("expected error for non-existent directory")
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(tmpDir, "summary.XML"))
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}
