package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"osptest/internal/config"
	"osptest/internal/domain"
)

const (
	insertRunQuery = "INSERT INTO test_runs (run_id, project, started_at, elapsed_ms, declared, runs, successes, failures, errors, not_run) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertCaseQuery = "INSERT INTO test_cases (run_id, suite, name, outcome, elapsed_ms, message, file, line) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	insertFixtureErrorQuery = "INSERT INTO fixture_errors (run_id, suite, fixture, phase, message) VALUES (?, ?, ?, ?, ?)"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Publisher writes run reports into the results database created by migrate
type Publisher struct {
	db *sql.DB
}

// OpenPublisher connects to the configured results database
func OpenPublisher(cfg *config.Config) (*Publisher, error) {
	db, err := sql.Open("mysql", cfg.Database.DSN(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}
	return &Publisher{db: db}, nil
}

// Close closes the database connection
func (p *Publisher) Close() error {
	return p.db.Close()
}

// Publish stores rep in a single transaction
func (p *Publisher) Publish(ctx context.Context, rep domain.RunReport) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	if err := publish(ctx, tx, rep); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit publish: %w", err)
	}
	return nil
}

func publish(ctx context.Context, db execer, rep domain.RunReport) error {
	counts := rep.Counts()
	if _, err := db.ExecContext(ctx, insertRunQuery,
		rep.RunID, rep.Project, rep.Started.UTC(), rep.Elapsed.Milliseconds(), counts.Declared,
		counts.Runs(), counts.Successes, counts.Failures, counts.Errors, counts.NotRun,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", rep.RunID, err)
	}
	for _, s := range rep.Suites {
		for _, c := range s.Cases {
			if _, err := db.ExecContext(ctx, insertCaseQuery,
				rep.RunID, s.Name, c.Name, c.Outcome.String(), c.Elapsed.Milliseconds(), c.Message, c.FilePath, c.LineNum,
			); err != nil {
				return fmt.Errorf("insert case %s: %w", c.FullName(), err)
			}
		}
	}
	for _, fe := range rep.FixtureErrors {
		if _, err := db.ExecContext(ctx, insertFixtureErrorQuery,
			rep.RunID, fe.Suite, fe.Fixture, fe.Phase, fe.Message,
		); err != nil {
			return fmt.Errorf("insert fixture error %s: %w", fe.Fixture, err)
		}
	}
	return nil
}
