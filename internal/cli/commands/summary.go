package commands

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"osptest/internal/discovery"
	"osptest/internal/domain"
	"osptest/internal/report"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	*app
}

// Execute parses every result file named by args, directories are scanned
func (sc *SummaryCommand) Execute(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner(sc.cfg.PathsToIgnore)

	var (
		errs  *multierror.Error
		total domain.Counts
		files int
	)
	for _, arg := range args {
		paths, err := scanner.Resolve(arg)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		for _, path := range paths {
			counts, err := report.ParseFile(path)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			sc.formatter.PrintCounts(path, counts)
			total.Successes += counts.Successes
			total.Failures += counts.Failures
			total.Errors += counts.Errors
			total.NotRun += counts.NotRun
			total.Declared += counts.Declared
			files++
		}
	}

	if files > 1 {
		sc.formatter.PrintCounts(fmt.Sprintf("total (%d files)", files), total)
	}
	if files == 0 && errs == nil {
		return fmt.Errorf("no result files found in %v", args)
	}
	return errs.ErrorOrNil()
}
