package parser

import "osptest/internal/domain"

// Parser extracts failures from a finished run
type Parser interface {
	ParseFailures(rep domain.RunReport) []domain.TestFailure
}
