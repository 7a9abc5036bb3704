package migration

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"osptest/internal/domain"
)

// step is one idempotent schema statement
type step struct {
	name  string
	query string
}

var schema = []step{
	{
		name: "create test_runs",
		query: "CREATE TABLE IF NOT EXISTS test_runs (" +
			"run_id CHAR(36) NOT NULL PRIMARY KEY, " +
			"project VARCHAR(255) NOT NULL, " +
			"started_at DATETIME(3) NOT NULL, " +
			"elapsed_ms BIGINT NOT NULL, " +
			"declared INT NOT NULL, " +
			"runs INT NOT NULL, " +
			"successes INT NOT NULL, " +
			"failures INT NOT NULL, " +
			"errors INT NOT NULL, " +
			"not_run INT NOT NULL, " +
			"created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	},
	{
		name: "create test_cases",
		query: "CREATE TABLE IF NOT EXISTS test_cases (" +
			"id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
			"run_id CHAR(36) NOT NULL, " +
			"suite VARCHAR(255) NOT NULL, " +
			"name VARCHAR(255) NOT NULL, " +
			"outcome ENUM('notrun','success','fail','error') NOT NULL, " +
			"elapsed_ms BIGINT NOT NULL, " +
			"message TEXT, " +
			"file VARCHAR(1024), " +
			"line INT, " +
			"INDEX idx_test_cases_run (run_id), " +
			"CONSTRAINT fk_test_cases_run FOREIGN KEY (run_id) REFERENCES test_runs (run_id) ON DELETE CASCADE" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	},
	{
		name: "create fixture_errors",
		query: "CREATE TABLE IF NOT EXISTS fixture_errors (" +
			"id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
			"run_id CHAR(36) NOT NULL, " +
			"suite VARCHAR(255) NOT NULL, " +
			"fixture VARCHAR(255) NOT NULL, " +
			"phase VARCHAR(16) NOT NULL, " +
			"message TEXT, " +
			"INDEX idx_fixture_errors_run (run_id), " +
			"CONSTRAINT fk_fixture_errors_run FOREIGN KEY (run_id) REFERENCES test_runs (run_id) ON DELETE CASCADE" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	},
}

// ResultsMigrator creates the results database and its tables
type ResultsMigrator struct {
	databaseManager *DatabaseManager
	log             *zap.SugaredLogger
}

var _ Migrator = (*ResultsMigrator)(nil)

// NewResultsMigrator creates a new ResultsMigrator
func NewResultsMigrator(dbManager *DatabaseManager, log *zap.SugaredLogger) *ResultsMigrator {
	return &ResultsMigrator{databaseManager: dbManager, log: log}
}

// Run creates the database if needed, then applies every schema step
func (m *ResultsMigrator) Run(ctx context.Context) error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║              Migrating Results Database                    ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	created, err := m.databaseManager.EnsureDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	dbName := m.databaseManager.config.Database.Name
	if created {
		color.Green("Created database %s\n", dbName)
	}

	db, err := m.databaseManager.Open(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	bar := progressbar.NewOptions(len(schema),
		progressbar.OptionSetDescription(color.CyanString("Migrating: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	startTime := time.Now()
	results := make([]domain.MigrationResult, 0, len(schema))
	for _, st := range schema {
		_, err := db.ExecContext(ctx, st.query)
		results = append(results, domain.MigrationResult{Name: st.name, Success: err == nil, Error: err})
		if m.log != nil {
			m.log.Debugw("schema step", "step", st.name, "error", err)
		}
		bar.Add(1)
		if err != nil {
			break
		}
	}
	bar.Finish()

	return summarize(results, dbName, time.Since(startTime))
}

func summarize(results []domain.MigrationResult, dbName string, duration time.Duration) error {
	fmt.Print("\n")
	for _, result := range results {
		if !result.Success {
			color.Red("✗ Migration step %q failed on %s: %v\n", result.Name, dbName, result.Error)
			return fmt.Errorf("migration step %s failed: %w", result.Name, result.Error)
		}
	}
	color.Green("✓ Applied %d migration step(s) to %s\n", len(results), dbName)
	color.White("Duration: %s\n", duration.Round(time.Millisecond))
	return nil
}
