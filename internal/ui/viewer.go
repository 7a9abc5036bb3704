package ui

import "osptest/internal/domain"

// Viewer displays the failures of the last run in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}
