package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"osptest/internal/domain"
)

// Scanner scans a directory tree for report files
type Scanner struct {
	skipDirs   map[string]bool
	extensions map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{
		skipDirs: skipMap,
		extensions: map[string]bool{
			domain.ReportText.Extension(): true,
			domain.ReportXML.Extension():  true,
		},
	}
}

// Resolve returns path itself for a report file, or the reports found under a directory
func (s *Scanner) Resolve(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("report path does not exist: %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return s.Scan(path)
}

// Scan finds all report files in the given root directory, sorted by path
func (s *Scanner) Scan(root string) ([]string, error) {
	var reports []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("report path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("report path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.extensions[strings.ToLower(filepath.Ext(d.Name()))] {
			reports = append(reports, path)
		}
		return nil
	})

	sort.Strings(reports)
	return reports, err
}
