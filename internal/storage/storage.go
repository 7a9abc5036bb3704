package storage

import (
	"time"

	"osptest/internal/config"
	"osptest/internal/domain"
	"osptest/internal/parser"
)

// Storage persists and loads the last run (e.g. for the faills viewer).
type Storage interface {
	Save(rep domain.RunReport, duration time.Duration, runners int) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg    *config.Config
	parser parser.Parser
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg, parser: parser.NewReportParser()}
}
