package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"osptest/internal/cli"
	"osptest/internal/discovery"
	"osptest/internal/domain"
	"osptest/internal/execution"
	"osptest/internal/metrics"
	"osptest/internal/storage"
	"osptest/internal/ui"
	"osptest/internal/xunit"
)

// ErrTestsFailed is returned by run when a case failed or errored
var ErrTestsFailed = errors.New("tests failed")

// RunCommand handles the run command
type RunCommand struct {
	*app
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	suites, err := rc.selectSuites()
	if err != nil {
		return err
	}
	if len(suites) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	total := 0
	for _, s := range suites {
		total += s.TestCaseCount()
	}
	rc.log.Infow("starting run", "suites", len(suites), "cases", total, "runners", rc.cfg.Runners)

	pool := execution.NewWorkerPool(rc.cfg.ProjectName, rc.cfg.Runners, execution.NewRoundRobinScheduler(), rc.log)
	pool.SetFailFast(rc.cfg.FailFast)

	progress := ui.NewProgressBar(total)
	pool.AddListener(progress)

	var recorder *metrics.Recorder
	if rc.cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder(rc.cfg.ProjectName)
		pool.AddListener(recorder)
	}

	result, duration, err := pool.Execute(ctx, suites)
	progress.Finish()
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	rep := result.Report()
	sinkErr := rc.writeSinks(ctx, result, rep, duration, recorder)

	rc.formatter.PrintReport(rep)
	rc.log.Infow("run finished",
		"run_id", rep.RunID,
		"successes", result.NumberOfSuccesses(),
		"failures", result.NumberOfFailures(),
		"errors", result.NumberOfErrors(),
		"not_run", result.NumberOfNotRun(),
		"duration", duration,
	)

	failed := result.NumberOfFailures() + result.NumberOfErrors()
	if failed > 0 && rc.cfg.Flags.OpenFaills && sinkErr == nil {
		output, err := rc.storage.Load()
		if err != nil {
			return err
		}
		if err := ui.NewErrorViewer(rc.storage).View(output); err != nil {
			return err
		}
	}

	if sinkErr != nil {
		return sinkErr
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d failure(s), %d error(s)", ErrTestsFailed, result.NumberOfFailures(), result.NumberOfErrors())
	}
	return nil
}

// selectSuites builds fresh suites from the registry and applies the
// --suite, --filter and --failed selection
func (rc *RunCommand) selectSuites() ([]*xunit.TestSuite, error) {
	filter := discovery.NewFilter(cli.SelectorSpec(rc.cfg.Flags))
	if rc.cfg.Flags.OnlyFailed {
		names, err := lastFailures(rc.storage)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			color.Green("✓ No failed tests in the last run")
			return nil, nil
		}
		filter.OnlyFailed(names)
	}
	return filter.Apply(rc.registry.TestSuites()), nil
}

// lastFailures returns the "Suite::Case" names of the unresolved failures of the last run
func lastFailures(st storage.Storage) ([]string, error) {
	output, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	var names []string
	for _, f := range output.Details {
		if !f.Resolved {
			names = append(names, f.FullName())
		}
	}
	return names, nil
}

// writeSinks writes the result file, the results store, the database and
// the metrics textfile. Every sink is attempted, errors are aggregated.
func (rc *RunCommand) writeSinks(ctx context.Context, result *xunit.TestResult, rep domain.RunReport, duration time.Duration, recorder *metrics.Recorder) error {
	var errs *multierror.Error

	if path := rc.cfg.GetReportPath(); path != "" {
		if err := result.CreateTestResultFile(path, rc.cfg.Overwrite, rc.cfg.GetReportType()); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("write result file: %w", err))
		} else {
			rc.log.Infow("result file written", "path", path, "type", rc.cfg.GetReportType().String())
		}
	}

	if err := rc.storage.Save(rep, duration, rc.cfg.Runners); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to save test results: %w", err))
	}

	if rc.cfg.Flags.Publish {
		if err := publish(ctx, rc.app, rep); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if recorder != nil {
		recorder.RecordRun(result)
		if err := recorder.WriteTextfile(rc.cfg.MetricsFile); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

func publish(ctx context.Context, a *app, rep domain.RunReport) error {
	publisher, err := storage.OpenPublisher(a.cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if err := publisher.Publish(ctx, rep); err != nil {
		return err
	}
	a.log.Infow("run published", "run_id", rep.RunID, "database", a.cfg.Database.Name)
	return nil
}
